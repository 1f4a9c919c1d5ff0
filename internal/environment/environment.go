package environment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/symbols"
)

// File is one parsed source file.
type File struct {
	Path   string
	Root   *ast.Node
	Errors []ast.ErrorRecord
}

// Environment is the analysis and runtime context shared by all files of
// one program: the global scope with built-ins, the symbol table, the file
// scopes analyzed so far and the import sandbox.
type Environment struct {
	global *symbols.GlobalScope
	table  *symbols.SymbolTable
	files  map[string]*symbols.FileScope
	order  []*symbols.FileScope

	// LibraryRoot is the directory imports are resolved against.
	LibraryRoot string
	// ScenarioDir holds scenario builder files, relative to LibraryRoot.
	ScenarioDir string
	Parser      ast.Parser

	callables []symbols.Callable
}

func New(libraryRoot string, parser ast.Parser) *Environment {
	if parser == nil {
		parser = ast.YAMLParser{}
	}
	env := &Environment{
		global:      symbols.NewGlobalScope(),
		table:       symbols.NewSymbolTable(),
		files:       make(map[string]*symbols.FileScope),
		LibraryRoot: libraryRoot,
		Parser:      parser,
	}
	for _, t := range symbols.BasicTypes {
		env.global.Bind(t)
	}
	return env
}

func (e *Environment) GlobalScope() *symbols.GlobalScope { return e.global }
func (e *Environment) SymbolTable() *symbols.SymbolTable { return e.table }

// BindType adds a built-in type to the global scope.
func (e *Environment) BindType(t symbols.Type) error {
	if !e.global.Bind(t) {
		return fmt.Errorf("type %q is already bound", t.Name())
	}
	return nil
}

// BindCallable adds a native function to the global scope.
func (e *Environment) BindCallable(c symbols.Callable) error {
	if !e.global.Bind(c) {
		return fmt.Errorf("function %q is already bound", c.Name())
	}
	e.callables = append(e.callables, c)
	return nil
}

// Callables returns the native functions in binding order.
func (e *Environment) Callables() []symbols.Callable {
	return e.callables
}

// FileScope returns the scope of an already analyzed file.
func (e *Environment) FileScope(path string) (*symbols.FileScope, bool) {
	fs, ok := e.files[canonical(path)]
	return fs, ok
}

// AddFileScope registers fs under its path. A file registered twice keeps
// its first scope.
func (e *Environment) AddFileScope(fs *symbols.FileScope) *symbols.FileScope {
	key := canonical(fs.Path)
	if existing, ok := e.files[key]; ok {
		return existing
	}
	e.files[key] = fs
	e.order = append(e.order, fs)
	return fs
}

// FileScopes returns every registered file scope in analysis order.
func (e *Environment) FileScopes() []*symbols.FileScope {
	return e.order
}

// LoadFile reads and parses path with the environment's parser.
func (e *Environment) LoadFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, errs := e.Parser.Parse(path, src)
	return &File{Path: path, Root: root, Errors: errs}, nil
}

// ScenarioPath returns the absolute scenario directory, or "" when the
// environment has no library root.
func (e *Environment) ScenarioPath() string {
	if e.LibraryRoot == "" || e.ScenarioDir == "" {
		return ""
	}
	return filepath.Join(e.LibraryRoot, e.ScenarioDir)
}

func canonical(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
