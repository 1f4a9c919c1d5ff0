package symbols

import "github.com/funvibe/questlang/internal/ast"

// SymbolTable relates AST nodes to symbols. Definitions map a declaring
// node to the symbol it creates; references map any node to the symbols it
// uses. Both indexes are append-only.
type SymbolTable struct {
	definitions   map[*ast.Node]Symbol
	creationNodes map[Symbol]*ast.Node
	references    map[*ast.Node][]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		definitions:   make(map[*ast.Node]Symbol),
		creationNodes: make(map[Symbol]*ast.Node),
		references:    make(map[*ast.Node][]Symbol),
	}
}

// AddDefinition records that node declares sym. The node also counts as a
// reference to sym.
func (st *SymbolTable) AddDefinition(node *ast.Node, sym Symbol) {
	if node == nil || sym == nil {
		return
	}
	st.definitions[node] = sym
	if _, ok := st.creationNodes[sym]; !ok {
		st.creationNodes[sym] = node
	}
	st.AddReference(node, sym)
}

// AddReference records that node refers to sym. Recording the same pair
// twice is a no-op.
func (st *SymbolTable) AddReference(node *ast.Node, sym Symbol) {
	if node == nil || sym == nil {
		return
	}
	for _, existing := range st.references[node] {
		if existing == sym {
			return
		}
	}
	st.references[node] = append(st.references[node], sym)
}

// Definition returns the symbol declared by node.
func (st *SymbolTable) Definition(node *ast.Node) (Symbol, bool) {
	sym, ok := st.definitions[node]
	return sym, ok
}

// CreationNode returns the node that declared sym.
func (st *SymbolTable) CreationNode(sym Symbol) (*ast.Node, bool) {
	n, ok := st.creationNodes[sym]
	return n, ok
}

// References returns every symbol node refers to.
func (st *SymbolTable) References(node *ast.Node) []Symbol {
	return st.references[node]
}

// Reference returns the symbol node refers to after analysis.
func (st *SymbolTable) Reference(node *ast.Node) (Symbol, bool) {
	refs := st.references[node]
	if len(refs) == 0 {
		return nil, false
	}
	return refs[0], true
}

// Len reports the number of definitions and referencing nodes.
func (st *SymbolTable) Len() (definitions, references int) {
	return len(st.definitions), len(st.references)
}
