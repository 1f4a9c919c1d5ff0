package ast

// Positional accessors. Each documents the kinds it applies to; on other
// kinds they return nil.

// IdNode returns the identifier naming a definition, parameter, loop
// variable, call target or property.
func (n *Node) IdNode() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObjectDefinition, KindParamDef, KindForLoop, KindCountingForLoop:
		return n.Child(1)
	case KindPropertyDefinition, KindPrototypeDefinition, KindAggregateValueDefinition,
		KindItemPrototypeDefinition, KindFuncDefinition, KindDotDefinition, KindDotNodeStmt,
		KindDotAttr, KindVarDeclaration, KindFuncCall:
		return n.Child(0)
	case KindImport:
		if alias := n.Child(1); alias != nil {
			return alias
		}
		return n.Child(0)
	case KindIdentifier:
		return n
	}
	return nil
}

// IdName is IdNode().Name, or "" when absent.
func (n *Node) IdName() string {
	if id := n.IdNode(); id != nil {
		return id.Name
	}
	return ""
}

// TypeSpecifier returns the declared type of an object definition,
// parameter, or loop variable, and the return type of a function.
func (n *Node) TypeSpecifier() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObjectDefinition, KindParamDef, KindForLoop, KindCountingForLoop:
		return n.Child(0)
	case KindFuncDefinition:
		return n.Child(2)
	case KindVarDeclaration:
		if n.DeclKind() == DeclTyped {
			return n.Child(1)
		}
	}
	return nil
}

// Properties returns the property definitions of object, component and
// item definitions.
func (n *Node) Properties() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObjectDefinition:
		return listChildren(n.Child(2))
	case KindAggregateValueDefinition, KindItemPrototypeDefinition:
		return listChildren(n.Child(1))
	}
	return nil
}

// Components returns the component definitions of an entity type.
func (n *Node) Components() []*Node {
	if n == nil || n.Kind != KindPrototypeDefinition {
		return nil
	}
	return listChildren(n.Child(1))
}

// Expr returns the operand of property definitions, returns, groups and
// unary expressions, and the initializer of inferred declarations.
func (n *Node) Expr() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindPropertyDefinition:
		return n.Child(1)
	case KindReturnStmt, KindGroupedExpression, KindUnary:
		return n.Child(0)
	case KindVarDeclaration:
		if n.DeclKind() == DeclInferred {
			return n.Child(1)
		}
	}
	return nil
}

func (n *Node) Params() []*Node {
	if n == nil || n.Kind != KindFuncDefinition {
		return nil
	}
	return listChildren(n.Child(1))
}

// Body returns the block of a function, or the body of a loop.
func (n *Node) Body() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindFuncDefinition:
		return n.Child(3)
	case KindWhileLoop:
		return n.Child(1)
	case KindForLoop:
		return n.Child(3)
	case KindCountingForLoop:
		return n.Child(4)
	}
	return nil
}

// Args returns the argument expressions of a call.
func (n *Node) Args() []*Node {
	if n == nil || n.Kind != KindFuncCall || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

func (n *Node) Lhs() *Node { return n.Child(0) }
func (n *Node) Rhs() *Node { return n.Child(1) }

func (n *Node) Condition() *Node { return n.Child(0) }
func (n *Node) Then() *Node      { return n.Child(1) }
func (n *Node) Else() *Node      { return n.Child(2) }

// Iterable returns the iterated expression of for loops.
func (n *Node) Iterable() *Node { return n.Child(2) }

// CounterId returns the counter variable of a counting for loop.
func (n *Node) CounterId() *Node {
	if n == nil || n.Kind != KindCountingForLoop {
		return nil
	}
	return n.Child(3)
}

func (n *Node) DeclKind() DeclKind {
	if k, ok := n.Value.(DeclKind); ok {
		return k
	}
	return DeclInferred
}

// ElementType returns the element type of list and set type identifiers
// and the value type of map type identifiers.
func (n *Node) ElementType() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindListTypeIdentifier, KindSetTypeIdentifier:
		return n.Child(0)
	case KindMapTypeIdentifier:
		return n.Child(1)
	}
	return nil
}

func (n *Node) KeyType() *Node {
	if n == nil || n.Kind != KindMapTypeIdentifier {
		return nil
	}
	return n.Child(0)
}

// ImportSymbol returns the imported symbol's name node; IdNode returns the
// alias when one is given.
func (n *Node) ImportSymbol() *Node {
	if n == nil || n.Kind != KindImport {
		return nil
	}
	return n.Child(0)
}

func (n *Node) ImportAlias() *Node {
	if n == nil || n.Kind != KindImport {
		return nil
	}
	return n.Child(1)
}

// DotStmts returns the statements of a graph definition.
func (n *Node) DotStmts() []*Node {
	if n == nil || n.Kind != KindDotDefinition {
		return nil
	}
	return listChildren(n.Child(1))
}

// EdgeOperands returns the id lists joined by `->` in an edge statement.
func (n *Node) EdgeOperands() []*Node {
	if n == nil || n.Kind != KindDotEdgeStmt {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c != nil && c.Kind == KindDotIdList {
			out = append(out, c)
		}
	}
	return out
}

// Attributes returns the attribute list of edge and node statements.
func (n *Node) Attributes() []*Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c != nil && c.Kind == KindDotAttrList {
			return c.Children
		}
	}
	return nil
}

func (n *Node) IntValue() int64 {
	v, _ := n.Value.(int64)
	return v
}

func (n *Node) FloatValue() float64 {
	v, _ := n.Value.(float64)
	return v
}

func (n *Node) StringValue() string {
	v, _ := n.Value.(string)
	return v
}

func (n *Node) BoolValue() bool {
	v, _ := n.Value.(bool)
	return v
}

func listChildren(list *Node) []*Node {
	if list == nil {
		return nil
	}
	return list.Children
}
