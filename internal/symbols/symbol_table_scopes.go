package symbols

import "github.com/funvibe/questlang/internal/ast"

// Scope is a parent-linked name table.
type Scope interface {
	Parent() Scope
	// Bind adds sym; it reports false if the name is already bound locally.
	Bind(sym Symbol) bool
	// Resolve looks name up locally and, if searchParents, in enclosing
	// scopes, stopping at the first hit.
	Resolve(name string, searchParents bool) (Symbol, bool)
	// Symbols returns the locally bound symbols in binding order.
	Symbols() []Symbol
}

// table implements the storage half of Scope; embedders supply Parent.
type table struct {
	index map[string]Symbol
	order []Symbol
}

func (t *table) bind(sym Symbol) bool {
	if t.index == nil {
		t.index = make(map[string]Symbol)
	}
	if _, ok := t.index[sym.Name()]; ok {
		return false
	}
	t.index[sym.Name()] = sym
	t.order = append(t.order, sym)
	return true
}

func (t *table) lookup(name string) (Symbol, bool) {
	sym, ok := t.index[name]
	return sym, ok
}

func (t *table) Symbols() []Symbol {
	out := make([]Symbol, len(t.order))
	copy(out, t.order)
	return out
}

func resolveIn(local *table, parent Scope, name string, searchParents bool) (Symbol, bool) {
	if sym, ok := local.lookup(name); ok {
		return sym, true
	}
	if searchParents && parent != nil {
		return parent.Resolve(name, true)
	}
	return nil, false
}

// LocalScope is a block, loop, branch or synthetic scope.
type LocalScope struct {
	table
	parent Scope
	// Node is the AST node that introduced the scope, if any.
	Node *ast.Node
}

func NewLocalScope(parent Scope, node *ast.Node) *LocalScope {
	return &LocalScope{parent: parent, Node: node}
}

func (s *LocalScope) Parent() Scope        { return s.parent }
func (s *LocalScope) Bind(sym Symbol) bool { return s.bind(sym) }
func (s *LocalScope) Resolve(name string, searchParents bool) (Symbol, bool) {
	return resolveIn(&s.table, s.parent, name, searchParents)
}

// MethodProvider supplies the built-in methods bound into freshly
// constructed container types.
type MethodProvider interface {
	ContainerMethods(container Type) []Symbol
}

// GlobalScope is the root scope. Built-in types, native functions and all
// constructed container and function types live here.
type GlobalScope struct {
	table
	methods MethodProvider
}

func NewGlobalScope() *GlobalScope {
	return &GlobalScope{}
}

func (s *GlobalScope) Parent() Scope        { return nil }
func (s *GlobalScope) Bind(sym Symbol) bool { return s.bind(sym) }
func (s *GlobalScope) Resolve(name string, _ bool) (Symbol, bool) {
	return s.lookup(name)
}

// SetMethodProvider installs the provider used for container types
// constructed after the call.
func (s *GlobalScope) SetMethodProvider(p MethodProvider) {
	s.methods = p
}

// FileScope holds the top-level definitions of one source file.
type FileScope struct {
	table
	parent Scope
	Path   string
	Root   *ast.Node
}

func NewFileScope(parent Scope, path string, root *ast.Node) *FileScope {
	return &FileScope{parent: parent, Path: path, Root: root}
}

func (s *FileScope) Parent() Scope        { return s.parent }
func (s *FileScope) Bind(sym Symbol) bool { return s.bind(sym) }
func (s *FileScope) Resolve(name string, searchParents bool) (Symbol, bool) {
	return resolveIn(&s.table, s.parent, name, searchParents)
}

// EnclosingFile walks up from s to the FileScope containing it. Aggregate
// and container types have no file; for those it returns nil.
func EnclosingFile(s Scope) *FileScope {
	for s != nil {
		switch sc := s.(type) {
		case *FileScope:
			return sc
		case *FunctionSymbol:
			s = sc.Scope()
			continue
		}
		s = s.Parent()
	}
	return nil
}
