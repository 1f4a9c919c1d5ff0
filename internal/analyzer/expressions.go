package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// visitExpr resolves every name in n and returns n's inferred type, or nil
// when it cannot be inferred. Resolution failures are recorded; a nil type
// alone is not an error.
func (a *Analyzer) visitExpr(n *ast.Node) symbols.Type {
	if n == nil || n.HasErrors() {
		return nil
	}
	switch n.Kind {
	case ast.KindNumber, ast.KindDecimalNumber, ast.KindStringLiteral, ast.KindBool:
		return literalType(n.Kind)

	case ast.KindIdentifier, ast.KindFuncCall:
		t, _ := a.visitOperand(n, nil)
		return t

	case ast.KindMemberAccess:
		t, _ := a.visitMemberAccess(n)
		return t

	case ast.KindGroupedExpression:
		return a.visitExpr(n.Expr())

	case ast.KindUnary:
		return unaryResultType(n.Op, a.visitExpr(n.Expr()))

	case ast.KindLogicOr, ast.KindLogicAnd, ast.KindEquality, ast.KindComparison,
		ast.KindTerm, ast.KindFactor:
		lhs := a.visitExpr(n.Lhs())
		rhs := a.visitExpr(n.Rhs())
		return binaryResultType(n.Kind, lhs, rhs)

	case ast.KindListDefinition, ast.KindSetDefinition:
		var elems []symbols.Type
		for _, entry := range n.Children {
			elems = append(elems, a.visitExpr(entry))
		}
		return a.containerLiteralType(n.Kind, elems)

	case ast.KindAggregateValueDefinition:
		return a.visitAggregateValue(n)
	}

	a.errorf(diagnostics.ErrA001, n, "unexpected %s in expression", n.Kind)
	return nil
}

// visitAggregateValue handles inline values such as `content { text: "x" }`.
func (a *Analyzer) visitAggregateValue(n *ast.Node) symbols.Type {
	t, ok := a.resolveTypeNode(n.IdNode())
	if !ok {
		a.errorf(diagnostics.ErrA003, n, "could not resolve type '%s'", n.IdName())
		return nil
	}
	agg, ok := t.(*symbols.AggregateType)
	if !ok {
		a.errorf(diagnostics.ErrA004, n, "'%s' is not an aggregate type", t.Name())
		return nil
	}
	a.visitProperties(n.Properties(), agg, agg)
	return agg
}

// visitMemberAccess resolves a chain left to right: the left operand in the
// current scopes, every further operand inside the type of its predecessor.
func (a *Analyzer) visitMemberAccess(n *ast.Node) (symbols.Type, bool) {
	t, ok := a.visitOperand(n.Lhs(), nil)
	if !ok {
		return nil, false
	}
	return a.visitMemberChain(n.Rhs(), t, n.Lhs())
}

func (a *Analyzer) visitMemberChain(rhs *ast.Node, lhsType symbols.Type, lhs *ast.Node) (symbols.Type, bool) {
	if lhsType == nil || rhs == nil {
		return nil, false
	}
	scope, ok := lhsType.(symbols.Scope)
	if !ok {
		a.errorf(diagnostics.ErrA004, lhs, "'%s' of type '%s' has no members", operandName(lhs), lhsType.Name())
		return nil, false
	}
	if rhs.Kind == ast.KindMemberAccess {
		t, ok := a.visitOperand(rhs.Lhs(), scope)
		if !ok {
			return nil, false
		}
		return a.visitMemberChain(rhs.Rhs(), t, rhs.Lhs())
	}
	return a.visitOperand(rhs, scope)
}

// visitOperand resolves an identifier or call. With a non-nil owner the
// name is looked up as a member of owner only.
func (a *Analyzer) visitOperand(n *ast.Node, owner symbols.Scope) (symbols.Type, bool) {
	switch n.Kind {
	case ast.KindIdentifier:
		sym, ok := a.lookup(n.Name, owner)
		if !ok {
			a.reportUnresolved(n, n.Name, owner)
			return nil, false
		}
		a.table().AddReference(n, sym)
		return operandType(sym), true
	case ast.KindFuncCall:
		return a.visitCall(n, owner)
	}
	if owner != nil {
		a.errorf(diagnostics.ErrA004, n, "%s cannot follow a member access", n.Kind)
		return nil, false
	}
	t := a.visitExpr(n)
	return t, t != nil
}

// visitCall analyzes the arguments in the caller's scopes, then resolves
// the callee.
func (a *Analyzer) visitCall(n *ast.Node, owner symbols.Scope) (symbols.Type, bool) {
	for _, arg := range n.Args() {
		a.visitExpr(arg)
	}
	name := n.IdName()
	sym, ok := a.lookup(name, owner)
	if !ok {
		a.reportUnresolved(n, name, owner)
		return nil, false
	}
	callable, ok := symbols.Unwrap(sym).(symbols.Callable)
	if !ok {
		a.errorf(diagnostics.ErrA008, n, "'%s' is not callable", name)
		return nil, false
	}
	a.table().AddReference(n.IdNode(), sym)
	a.table().AddReference(n, sym)
	return callable.FunctionType().Return, true
}

func (a *Analyzer) lookup(name string, owner symbols.Scope) (symbols.Symbol, bool) {
	if owner != nil {
		return owner.Resolve(name, false)
	}
	return a.resolve(name)
}

func (a *Analyzer) reportUnresolved(n *ast.Node, name string, owner symbols.Scope) {
	if t, ok := owner.(symbols.Type); ok {
		a.errorf(diagnostics.ErrA001, n, "type '%s' has no member '%s'", t.Name(), name)
		return
	}
	a.errorf(diagnostics.ErrA001, n, "could not resolve '%s'", name)
}

// operandType is the type a name contributes to an expression. A type
// used as a value (an enum in `edge_type.seq`) contributes itself, except
// entity and item types, which evaluate to their prototype.
func operandType(sym symbols.Symbol) symbols.Type {
	t := asType(sym)
	if t == nil {
		return sym.DataType()
	}
	if agg, ok := t.(*symbols.AggregateType); ok {
		switch agg.Origin {
		case symbols.OriginPrototype:
			return symbols.PrototypeType
		case symbols.OriginItem:
			return symbols.ItemPrototypeType
		}
	}
	return t
}

func operandName(n *ast.Node) string {
	if name := n.IdName(); name != "" {
		return name
	}
	return n.Kind.String()
}
