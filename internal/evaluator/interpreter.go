package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/scenario"
	"github.com/funvibe/questlang/internal/symbols"
	"github.com/google/uuid"
)

// maxCallDepth bounds DSL recursion; calls nest on the Go stack.
const maxCallDepth = 512

// TypeInstantiator turns interpreter values into host objects and back.
type TypeInstantiator interface {
	// Instantiate converts any value to its host representation.
	Instantiate(v Value) (any, error)
	// InstantiateAsType builds the host object of an aggregate value. The
	// result must be a pointer to a struct.
	InstantiateAsType(v *AggregateValue, t *symbols.AggregateType) (any, error)
	// Translate converts a host object to a value of type t. A nil t
	// infers the type from the host object.
	Translate(host any, t symbols.Type) (Value, error)
}

// InterpreterBinder is implemented by instantiators that call back into
// the interpreter, for example to run DSL functions stored in host objects.
type InterpreterBinder interface {
	BindInterpreter(in *Interpreter)
}

type pendingDef struct {
	node *ast.Node
	file *symbols.FileScope
}

// Interpreter executes analyzed programs. It is single-threaded and not
// reentrant; Initialize resets all run state.
type Interpreter struct {
	env    *environment.Environment
	inst   TypeInstantiator
	logger *slog.Logger
	runID  string

	// Out receives the output of print.
	Out io.Writer

	global     *Space
	fileSpaces map[*symbols.FileScope]*Space

	// memoryStack holds the spaces of active blocks, loop iterations and
	// calls; the top is the current space.
	memoryStack []MemorySpace
	stmtStack   []stackEntry
	// files tracks the file of the running code; nil inside raw calls.
	files     []*symbols.FileScope
	callDepth int
	// frameBase is the memory stack index of the running call's space.
	frameBase int

	// Top-level objects and graphs are finalized on first lookup.
	pending       map[Value]pendingDef
	pendingGraphs map[*Scalar]pendingDef

	prototypes map[*symbols.AggregateType]*PrototypeValue
	building   map[*symbols.AggregateType]bool
	defaulting map[*symbols.AggregateType]bool

	scenarios *scenario.Registry[string, symbols.Callable]
}

// New creates an interpreter over an analyzed environment. A nil logger
// discards all output.
func New(env *environment.Environment, inst TypeInstantiator, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runID := uuid.NewString()
	in := &Interpreter{
		env:       env,
		inst:      inst,
		logger:    logger.With("run_id", runID),
		runID:     runID,
		Out:       os.Stdout,
		scenarios: scenario.NewRegistry[string, symbols.Callable](nil),
	}
	if b, ok := inst.(InterpreterBinder); ok {
		b.BindInterpreter(in)
	}
	return in
}

func (in *Interpreter) Env() *environment.Environment  { return in.env }
func (in *Interpreter) Instantiator() TypeInstantiator { return in.inst }
func (in *Interpreter) Logger() *slog.Logger           { return in.logger }
func (in *Interpreter) RunID() string                  { return in.runID }

// Scenarios returns the scenario builder registry filled by Initialize.
func (in *Interpreter) Scenarios() *scenario.Registry[string, symbols.Callable] {
	return in.scenarios
}

// SetScenarioRegistry replaces the registry, e.g. with a seeded one.
func (in *Interpreter) SetScenarioRegistry(r *scenario.Registry[string, symbols.Callable]) {
	in.scenarios = r
}

// Initialize resets the run state and binds the top-level definitions of
// every analyzed file: object and graph placeholders, prototypes and
// scenario builders.
func (in *Interpreter) Initialize() error {
	in.global = NewSpace(nil)
	in.fileSpaces = make(map[*symbols.FileScope]*Space)
	in.memoryStack = nil
	in.stmtStack = nil
	in.files = nil
	in.callDepth = 0
	in.frameBase = 0
	in.pending = make(map[Value]pendingDef)
	in.pendingGraphs = make(map[*Scalar]pendingDef)
	in.prototypes = make(map[*symbols.AggregateType]*PrototypeValue)
	in.building = make(map[*symbols.AggregateType]bool)
	in.defaulting = make(map[*symbols.AggregateType]bool)

	files := in.env.FileScopes()
	for _, fs := range files {
		in.fileSpaces[fs] = NewSpace(in.global)
	}
	for _, fs := range files {
		if err := in.bindDefinitions(fs); err != nil {
			return err
		}
	}
	for _, fs := range files {
		for _, sym := range fs.Symbols() {
			if t, ok := sym.(*symbols.AggregateType); ok && t.IsPrototypeBased() {
				if _, err := in.prototype(t); err != nil {
					return err
				}
			}
		}
	}
	in.registerScenarioBuilders()

	in.logger.Debug("interpreter initialized",
		"files", len(files),
		"prototypes", len(in.prototypes),
		"pending_objects", len(in.pending))
	return nil
}

// bindDefinitions binds a placeholder for each object and graph definition
// of fs. Objects of plain types come first so prototype initializers can
// refer to them.
func (in *Interpreter) bindDefinitions(fs *symbols.FileScope) error {
	if fs.Root == nil {
		return nil
	}
	space := in.fileSpaces[fs]
	table := in.env.SymbolTable()

	var deferred []*ast.Node
	bindObject := func(def *ast.Node) error {
		sym, ok := table.Definition(def)
		if !ok {
			return in.errorf(diagnostics.ErrR001, def, "object '%s' was not analyzed", def.IdName())
		}
		t, ok := symbols.Unwrap(sym.DataType()).(*symbols.AggregateType)
		if !ok {
			return in.errorf(diagnostics.ErrR003, def, "type of '%s' is not an aggregate", def.IdName())
		}
		in.pushFile(fs, space)
		v, err := in.createDefault(t)
		in.popFile()
		if err != nil {
			return err
		}
		space.Bind(def.IdName(), v)
		in.pending[v] = pendingDef{node: def, file: fs}
		return nil
	}

	for _, def := range fs.Root.Children {
		if def == nil || def.HasErrors() {
			continue
		}
		switch def.Kind {
		case ast.KindObjectDefinition:
			sym, ok := table.Definition(def)
			if ok {
				if t, isAgg := symbols.Unwrap(sym.DataType()).(*symbols.AggregateType); isAgg && t.IsPrototypeBased() {
					deferred = append(deferred, def)
					continue
				}
			}
			if err := bindObject(def); err != nil {
				return err
			}
		case ast.KindDotDefinition:
			g := NewScalar(symbols.GraphType, nil)
			space.Bind(def.IdName(), g)
			in.pendingGraphs[g] = pendingDef{node: def, file: fs}
		}
	}
	for _, def := range deferred {
		if err := bindObject(def); err != nil {
			return err
		}
	}
	return nil
}

// GenerateConfig finalizes the top-level definition entryPoint of fs and
// returns its host object.
func (in *Interpreter) GenerateConfig(fs *symbols.FileScope, entryPoint string) (any, error) {
	space, ok := in.fileSpaces[fs]
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR001, ast.Span{}, fmt.Sprintf("file %s was not initialized", fs.Path))
	}
	if entryPoint == "" {
		entryPoint = in.findEntryPoint(fs)
	}
	v, ok := space.ResolveLocal(entryPoint)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR001, ast.Span{File: fs.Path}, fmt.Sprintf("no definition named '%s'", entryPoint))
	}
	v, err := in.finalize(v)
	if err != nil {
		return nil, err
	}
	in.logger.Info("configuration generated", "entry_point", entryPoint, "file", fs.Path)
	return v.Internal(), nil
}

// findEntryPoint returns the first object of an entry point type.
func (in *Interpreter) findEntryPoint(fs *symbols.FileScope) string {
	for _, sym := range fs.Symbols() {
		if _, ok := sym.(*symbols.Variable); !ok || sym.DataType() == nil {
			continue
		}
		for _, name := range config.EntryPointTypeNames {
			if sym.DataType().Name() == name {
				return sym.Name()
			}
		}
	}
	return ""
}

// FileSpace returns the memory space of an initialized file.
func (in *Interpreter) FileSpace(fs *symbols.FileScope) (MemorySpace, bool) {
	s, ok := in.fileSpaces[fs]
	return s, ok
}

// Lookup returns the finalized top-level value name of fs.
func (in *Interpreter) Lookup(fs *symbols.FileScope, name string) (Value, error) {
	space, ok := in.fileSpaces[fs]
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR001, ast.Span{}, fmt.Sprintf("file %s was not initialized", fs.Path))
	}
	v, ok := space.ResolveLocal(name)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR001, ast.Span{File: fs.Path}, fmt.Sprintf("no definition named '%s'", name))
	}
	return in.finalize(v)
}

// StackDepth reports the sizes of the memory and statement stacks.
func (in *Interpreter) StackDepth() (memory, statements int) {
	return len(in.memoryStack), len(in.stmtStack)
}

func (in *Interpreter) currentSpace() MemorySpace {
	if len(in.memoryStack) == 0 {
		return in.global
	}
	return in.memoryStack[len(in.memoryStack)-1]
}

func (in *Interpreter) pushSpace(s MemorySpace) {
	in.memoryStack = append(in.memoryStack, s)
}

func (in *Interpreter) popSpace() {
	if len(in.memoryStack) > 0 {
		in.memoryStack = in.memoryStack[:len(in.memoryStack)-1]
	}
}

func (in *Interpreter) currentFile() *symbols.FileScope {
	if len(in.files) == 0 {
		return nil
	}
	return in.files[len(in.files)-1]
}

// pushFile enters the top level of fs.
func (in *Interpreter) pushFile(fs *symbols.FileScope, space MemorySpace) {
	in.files = append(in.files, fs)
	in.pushSpace(space)
}

func (in *Interpreter) popFile() {
	in.popSpace()
	in.files = in.files[:len(in.files)-1]
}

func (in *Interpreter) fileSpace(fs *symbols.FileScope) MemorySpace {
	if s, ok := in.fileSpaces[fs]; ok {
		return s
	}
	return in.global
}

func (in *Interpreter) errorf(code diagnostics.ErrorCode, node *ast.Node, format string, args ...any) *diagnostics.DiagnosticError {
	err := diagnostics.Errorf(code, node, format, args...)
	if fs := in.currentFile(); fs != nil {
		err.File = fs.Path
	}
	return err
}
