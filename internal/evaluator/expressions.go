package evaluator

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// evalExpr evaluates an expression in the current space. Identifiers and
// member accesses yield the bound values themselves so they can be
// assigned to.
func (in *Interpreter) evalExpr(n *ast.Node) (Value, error) {
	if n == nil {
		return NoneValue(), nil
	}
	if n.HasErrors() {
		return nil, in.errorf(diagnostics.ErrP001, n, "expression has syntax errors")
	}

	switch n.Kind {
	case ast.KindNumber:
		return NewScalar(symbols.IntType, n.IntValue()), nil
	case ast.KindDecimalNumber:
		return NewScalar(symbols.FloatType, n.FloatValue()), nil
	case ast.KindStringLiteral:
		return NewScalar(symbols.StringType, n.StringValue()), nil
	case ast.KindBool:
		return NewScalar(symbols.BoolType, n.BoolValue()), nil

	case ast.KindIdentifier:
		return in.evalIdentifier(n)
	case ast.KindFuncCall:
		return in.evalCall(n)
	case ast.KindMemberAccess:
		return in.evalMemberAccess(n)
	case ast.KindGroupedExpression:
		return in.evalExpr(n.Expr())

	case ast.KindUnary:
		return in.evalUnary(n)
	case ast.KindLogicOr, ast.KindLogicAnd:
		return in.evalLogic(n)
	case ast.KindEquality, ast.KindComparison, ast.KindTerm, ast.KindFactor:
		return in.evalBinary(n)

	case ast.KindListDefinition, ast.KindSetDefinition:
		return in.evalContainerLiteral(n)
	case ast.KindAggregateValueDefinition:
		return in.evalAggregateValue(n)
	}
	return nil, in.errorf(diagnostics.ErrR004, n, "unsupported expression %s", n.Kind)
}

// evalBool evaluates a condition by truthiness.
func (in *Interpreter) evalBool(n *ast.Node) (bool, error) {
	v, err := in.evalExpr(n)
	if err != nil {
		return false, err
	}
	return isTruthy(v), nil
}

// evalIdentifier uses the analyzed reference when there is one: functions
// evaluate to function values and entity or item types to their
// prototypes. Everything else is looked up by name.
func (in *Interpreter) evalIdentifier(n *ast.Node) (Value, error) {
	if sym, ok := in.env.SymbolTable().Reference(n); ok {
		switch s := symbols.Unwrap(sym).(type) {
		case symbols.Callable:
			return NewFunctionValue(s.FunctionType(), s), nil
		case *symbols.AggregateType:
			if !s.IsPrototypeBased() {
				return nil, in.errorf(diagnostics.ErrR004, n, "type '%s' used as a value", s.Name())
			}
			return in.prototype(s)
		case symbols.Type:
			return nil, in.errorf(diagnostics.ErrR004, n, "type '%s' used as a value", s.Name())
		}
	}

	v, ok := in.currentSpace().Resolve(n.Name)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, n, "could not resolve '%s'", n.Name)
	}
	return in.finalize(v)
}

// evalMemberAccess evaluates `a.b.c`, nested to the right.
func (in *Interpreter) evalMemberAccess(n *ast.Node) (Value, error) {
	lhs, rhs := n.Lhs(), n.Rhs()
	if lhs.Kind == ast.KindIdentifier {
		if sym, ok := in.env.SymbolTable().Reference(lhs); ok {
			if enum, ok := symbols.Unwrap(sym).(*symbols.EnumType); ok {
				return in.enumVariant(enum, rhs)
			}
		}
	}
	v, err := in.evalExpr(lhs)
	if err != nil {
		return nil, err
	}
	return in.memberChain(v, rhs)
}

func (in *Interpreter) enumVariant(enum *symbols.EnumType, n *ast.Node) (Value, error) {
	if n.Kind != ast.KindIdentifier {
		return nil, in.errorf(diagnostics.ErrR004, n, "unsupported access on enum '%s'", enum.Name())
	}
	variant, ok := enum.Variant(n.Name)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, n, "enum '%s' has no variant '%s'", enum.Name(), n.Name)
	}
	return NewEnumValue(enum, variant), nil
}

func (in *Interpreter) memberChain(v Value, rhs *ast.Node) (Value, error) {
	if rhs.Kind == ast.KindMemberAccess {
		next, err := in.member(v, rhs.Lhs())
		if err != nil {
			return nil, err
		}
		return in.memberChain(next, rhs.Rhs())
	}
	return in.member(v, rhs)
}

// member reads a member of an aggregate or calls a container method.
func (in *Interpreter) member(v Value, n *ast.Node) (Value, error) {
	switch n.Kind {
	case ast.KindIdentifier:
		agg, ok := v.(*AggregateValue)
		if !ok {
			return nil, in.errorf(diagnostics.ErrR003, n, "value of type '%s' has no members", typeName(v))
		}
		m, ok := agg.Member(n.Name)
		if !ok {
			return nil, in.errorf(diagnostics.ErrR001, n, "type '%s' has no member '%s'", typeName(v), n.Name)
		}
		return m, nil
	case ast.KindFuncCall:
		callable, err := in.callee(n)
		if err != nil {
			return nil, err
		}
		args, err := in.evalArgs(n)
		if err != nil {
			return nil, err
		}
		return in.callValues(callable, append([]Value{v}, args...))
	}
	return nil, in.errorf(diagnostics.ErrR004, n, "%s cannot follow a member access", n.Kind)
}

func (in *Interpreter) evalContainerLiteral(n *ast.Node) (Value, error) {
	var elems []Value
	for _, entry := range n.Children {
		v, err := in.evalExpr(entry)
		if err != nil {
			return nil, err
		}
		v = in.plain(v)
		if _, isAggregate := v.(*AggregateValue); !isAggregate {
			v = v.Clone()
		}
		elems = append(elems, v)
	}

	elemType := symbols.Type(symbols.NoneType)
	if len(elems) > 0 && elems[0].DataType() != nil {
		elemType = elems[0].DataType()
	}
	global := in.env.GlobalScope()
	if n.Kind == ast.KindSetDefinition {
		set := NewSetValue(symbols.EnsureSetType(global, elemType))
		for _, e := range elems {
			set.Add(e)
		}
		return set, nil
	}
	list := NewListValue(symbols.EnsureListType(global, elemType))
	for _, e := range elems {
		list.Add(e)
	}
	return list, nil
}

// evalAggregateValue builds an inline value such as `content { text: "x" }`.
func (in *Interpreter) evalAggregateValue(n *ast.Node) (Value, error) {
	t, err := in.aggregateTypeOf(n.IdNode())
	if err != nil {
		return nil, err
	}
	d, err := in.createDefault(t)
	if err != nil {
		return nil, err
	}
	v := d.(*AggregateValue)
	if err := in.evalProperties(v, n.Properties()); err != nil {
		return nil, err
	}
	v.SetDirty(true)
	return v, nil
}

// aggregateTypeOf returns the aggregate type a type identifier was
// resolved to.
func (in *Interpreter) aggregateTypeOf(id *ast.Node) (*symbols.AggregateType, error) {
	if sym, ok := in.env.SymbolTable().Reference(id); ok {
		if t, ok := symbols.Unwrap(sym).(*symbols.AggregateType); ok {
			return t, nil
		}
	}
	if fs := in.currentFile(); fs != nil {
		if sym, ok := fs.Resolve(id.Name, true); ok {
			if t, ok := symbols.Unwrap(sym).(*symbols.AggregateType); ok {
				return t, nil
			}
		}
	}
	return nil, in.errorf(diagnostics.ErrR001, id, "could not resolve aggregate type '%s'", id.Name)
}

// evalProperties assigns each property initializer to its member.
func (in *Interpreter) evalProperties(v *AggregateValue, props []*ast.Node) error {
	for _, prop := range props {
		if prop == nil {
			continue
		}
		m, ok := v.Member(prop.IdName())
		if !ok {
			return in.errorf(diagnostics.ErrR001, prop, "type '%s' has no property '%s'", typeName(v), prop.IdName())
		}
		value, err := in.evalExpr(prop.Expr())
		if err != nil {
			return err
		}
		if err := in.assign(m, value); err != nil {
			return err
		}
	}
	return nil
}
