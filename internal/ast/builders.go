package ast

// Builders used by the YAML front end and by tests that assemble trees by
// hand. Child positions match the accessors in accessors.go.

func Ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Name: name}
}

func Int(v int64) *Node     { return &Node{Kind: KindNumber, Value: v} }
func Float(v float64) *Node { return &Node{Kind: KindDecimalNumber, Value: v} }
func Str(v string) *Node    { return &Node{Kind: KindStringLiteral, Value: v} }
func Bool(v bool) *Node     { return &Node{Kind: KindBool, Value: v} }

func NewProgram(defs ...*Node) *Node {
	return NewNode(KindProgram, defs...)
}

// ObjectDef builds `typeName name { props }`.
func ObjectDef(typeName, name string, props ...*Node) *Node {
	return NewNode(KindObjectDefinition,
		Ident(typeName), Ident(name), NewNode(KindPropertyDefinitionList, props...))
}

// Prop builds `name: value`.
func Prop(name string, value *Node) *Node {
	return NewNode(KindPropertyDefinition, Ident(name), value)
}

// EntityType builds `entity_type name { components }`.
func EntityType(name string, components ...*Node) *Node {
	return NewNode(KindPrototypeDefinition,
		Ident(name), NewNode(KindComponentDefinitionList, components...))
}

// Component builds `typeName { props }`, used both inside entity types and
// as an inline aggregate value expression.
func Component(typeName string, props ...*Node) *Node {
	return NewNode(KindAggregateValueDefinition,
		Ident(typeName), NewNode(KindPropertyDefinitionList, props...))
}

// ItemType builds `item_type name { props }`.
func ItemType(name string, props ...*Node) *Node {
	return NewNode(KindItemPrototypeDefinition,
		Ident(name), NewNode(KindPropertyDefinitionList, props...))
}

// Graph builds `graph name { stmts }`.
func Graph(name string, stmts ...*Node) *Node {
	return NewNode(KindDotDefinition, Ident(name), NewNode(KindDotStmtList, stmts...))
}

// Edge builds `a, b -> c -> d [attrs]`; each operand is a comma-separated id list.
func Edge(operands [][]string, attrs ...*Node) *Node {
	n := NewNode(KindDotEdgeStmt)
	for _, ids := range operands {
		list := NewNode(KindDotIdList)
		for _, id := range ids {
			list.Add(Ident(id))
		}
		n.Add(list)
	}
	if len(attrs) > 0 {
		n.Add(NewNode(KindDotAttrList, attrs...))
	}
	return n
}

// SimpleEdge builds `from -> to [type=edgeType]`; an empty edgeType omits
// the attribute.
func SimpleEdge(from, to, edgeType string) *Node {
	if edgeType == "" {
		return Edge([][]string{{from}, {to}})
	}
	return Edge([][]string{{from}, {to}}, Attr("type", edgeType))
}

func GraphNode(name string, attrs ...*Node) *Node {
	n := NewNode(KindDotNodeStmt, Ident(name))
	if len(attrs) > 0 {
		n.Add(NewNode(KindDotAttrList, attrs...))
	}
	return n
}

func Attr(key, value string) *Node {
	return NewNode(KindDotAttr, Ident(key), Ident(value))
}

// FuncDef builds `fn name(params) -> ret { body }`. ret may be nil.
func FuncDef(name string, ret *Node, params []*Node, body ...*Node) *Node {
	return NewNode(KindFuncDefinition,
		Ident(name), NewNode(KindParamDefList, params...), ret, NewBlock(body...))
}

func Param(typ *Node, name string) *Node {
	return NewNode(KindParamDef, typ, Ident(name))
}

func NewBlock(stmts ...*Node) *Node {
	return NewNode(KindBlock, stmts...)
}

// Return builds `return expr`; expr may be nil.
func Return(expr *Node) *Node {
	if expr == nil {
		return NewNode(KindReturnStmt)
	}
	return NewNode(KindReturnStmt, expr)
}

func If(cond, then *Node) *Node {
	return NewNode(KindConditionalStmtIf, cond, then)
}

func IfElse(cond, then, els *Node) *Node {
	return NewNode(KindConditionalStmtIfElse, cond, then, els)
}

func While(cond, body *Node) *Node {
	return NewNode(KindWhileLoop, cond, body)
}

func For(typ *Node, varName string, iterable, body *Node) *Node {
	return NewNode(KindForLoop, typ, Ident(varName), iterable, body)
}

func CountingFor(typ *Node, varName string, iterable *Node, counter string, body *Node) *Node {
	return NewNode(KindCountingForLoop, typ, Ident(varName), iterable, Ident(counter), body)
}

// VarInfer builds `var name = init`.
func VarInfer(name string, init *Node) *Node {
	n := NewNode(KindVarDeclaration, Ident(name), init)
	n.Value = DeclInferred
	return n
}

// VarTyped builds `var name : typ`.
func VarTyped(name string, typ *Node) *Node {
	n := NewNode(KindVarDeclaration, Ident(name), typ)
	n.Value = DeclTyped
	return n
}

func Assign(lhs, rhs *Node) *Node {
	return NewNode(KindAssignment, lhs, rhs)
}

// Binary builds a two-operand expression; kind must satisfy Kind.IsBinary.
func Binary(kind Kind, op Operator, lhs, rhs *Node) *Node {
	n := NewNode(kind, lhs, rhs)
	n.Op = op
	return n
}

func Unary(op Operator, inner *Node) *Node {
	n := NewNode(KindUnary, inner)
	n.Op = op
	return n
}

// Member builds `lhs.rhs`; chains nest to the right: a.b.c is Member(a, Member(b, c)).
func Member(lhs, rhs *Node) *Node {
	return NewNode(KindMemberAccess, lhs, rhs)
}

func Call(name string, args ...*Node) *Node {
	n := NewNode(KindFuncCall, Ident(name))
	n.Add(args...)
	return n
}

func Group(inner *Node) *Node {
	return NewNode(KindGroupedExpression, inner)
}

func ListLit(entries ...*Node) *Node {
	return NewNode(KindListDefinition, entries...)
}

func SetLit(entries ...*Node) *Node {
	return NewNode(KindSetDefinition, entries...)
}

// ListType builds `elem[]`.
func ListType(elem *Node) *Node {
	n := NewNode(KindListTypeIdentifier, elem)
	n.Name = ListTypeName(elem.Name)
	return n
}

// SetType builds `elem<>`.
func SetType(elem *Node) *Node {
	n := NewNode(KindSetTypeIdentifier, elem)
	n.Name = SetTypeName(elem.Name)
	return n
}

// MapType builds `[key->value]`.
func MapType(key, value *Node) *Node {
	n := NewNode(KindMapTypeIdentifier, key, value)
	n.Name = MapTypeName(key.Name, value.Name)
	return n
}

// Import builds `#import "path":symbol as alias`; alias may be empty.
func Import(path, symbol, alias string) *Node {
	n := NewNode(KindImport, Ident(symbol))
	if alias != "" {
		n.Add(Ident(alias))
	}
	n.Name = path
	return n
}

// Structural type names. Requesting the same element type twice yields the
// same name, which is what container type de-duplication keys on.

func ListTypeName(elem string) string      { return elem + "[]" }
func SetTypeName(elem string) string       { return elem + "<>" }
func MapTypeName(key, value string) string { return "[" + key + "->" + value + "]" }
