package analyzer

import (
	"log/slog"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/symbols"
)

// Analyzer runs the binding passes and the full resolution pass over one
// file at a time. Files pulled in by imports are analyzed by child
// analyzers sharing the environment and the error accumulator.
type Analyzer struct {
	env    *environment.Environment
	errs   *Errors
	logger *slog.Logger

	file   *symbols.FileScope
	scopes []symbols.Scope // scope stack of the full pass

	// deferred holds bindings retried once imports are bound, because
	// their types may come from another file.
	deferred []func()
}

func New(env *environment.Environment) *Analyzer {
	return &Analyzer{
		env:    env,
		errs:   NewErrors(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// SetLogger replaces the discard logger.
func (a *Analyzer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Errors returns the shared accumulator.
func (a *Analyzer) Errors() *Errors {
	return a.errs
}

func (a *Analyzer) child() *Analyzer {
	return &Analyzer{env: a.env, errs: a.errs, logger: a.logger}
}

// Analyze binds and resolves every definition of file and returns its file
// scope. Analyzing a file whose scope already exists returns that scope
// without touching the symbol table again.
func (a *Analyzer) Analyze(file *environment.File) *symbols.FileScope {
	if fs, ok := a.env.FileScope(file.Path); ok && file.Path != "" {
		return fs
	}
	fs := symbols.NewFileScope(a.env.GlobalScope(), file.Path, file.Root)
	a.env.AddFileScope(fs)
	a.file = fs
	a.scopes = []symbols.Scope{fs}

	root := file.Root
	if root == nil || root.Kind != ast.KindProgram {
		a.errorf(diagnostics.ErrA001, root, "file %s has no program root", file.Path)
		return fs
	}

	a.logger.Debug("analyzing file", "path", file.Path, "definitions", len(root.Children))

	a.bindTypes(root)
	a.bindVariables(root)
	a.bindFunctions(root)
	a.analyzeImports(root)
	a.runDeferred()

	for _, def := range root.Children {
		if def == nil || def.HasErrors() {
			continue
		}
		a.visitDefinition(def)
	}
	return fs
}

func (a *Analyzer) runDeferred() {
	pending := a.deferred
	a.deferred = nil
	for _, retry := range pending {
		retry()
	}
}

func (a *Analyzer) errorf(code diagnostics.ErrorCode, node *ast.Node, format string, args ...any) {
	err := diagnostics.Errorf(code, node, format, args...)
	if a.file != nil {
		err.File = a.file.Path
	}
	a.errs.Add(err)
}

func (a *Analyzer) table() *symbols.SymbolTable { return a.env.SymbolTable() }

func (a *Analyzer) currentScope() symbols.Scope {
	return a.scopes[len(a.scopes)-1]
}

func (a *Analyzer) pushScope(s symbols.Scope) {
	a.scopes = append(a.scopes, s)
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

// resolve walks the scope stack from the top. Aggregate scopes have no
// lexical parent, so a miss there continues at the frame below; a miss in
// any other scope has already searched its parents and is final.
func (a *Analyzer) resolve(name string) (symbols.Symbol, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		scope := a.scopes[i]
		if sym, ok := scope.Resolve(name, true); ok {
			return sym, true
		}
		if !isTypeScope(scope) {
			return nil, false
		}
	}
	return nil, false
}

func isTypeScope(s symbols.Scope) bool {
	_, ok := s.(symbols.Type)
	return ok
}
