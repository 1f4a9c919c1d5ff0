package evaluator

import (
	"fmt"
	"reflect"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

func (in *Interpreter) evalLogic(n *ast.Node) (Value, error) {
	lhs, err := in.evalBool(n.Lhs())
	if err != nil {
		return nil, err
	}
	// Short circuit.
	if (n.Kind == ast.KindLogicOr) == lhs {
		return NewScalar(symbols.BoolType, lhs), nil
	}
	rhs, err := in.evalBool(n.Rhs())
	if err != nil {
		return nil, err
	}
	return NewScalar(symbols.BoolType, rhs), nil
}

func (in *Interpreter) evalUnary(n *ast.Node) (Value, error) {
	v, err := in.evalExpr(n.Expr())
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNot:
		return NewScalar(symbols.BoolType, !isTruthy(v)), nil
	case ast.OpMinus:
		switch x := v.Internal().(type) {
		case int64:
			return NewScalar(symbols.IntType, -x), nil
		case float64:
			return NewScalar(symbols.FloatType, -x), nil
		}
		return nil, in.errorf(diagnostics.ErrR003, n, "operator - on '%s'", typeName(v))
	}
	return nil, in.errorf(diagnostics.ErrR004, n, "unsupported unary operator %s", n.Op)
}

func (in *Interpreter) evalBinary(n *ast.Node) (Value, error) {
	lhs, err := in.evalExpr(n.Lhs())
	if err != nil {
		return nil, err
	}
	rhs, err := in.evalExpr(n.Rhs())
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpEqual:
		return NewScalar(symbols.BoolType, valuesEqual(lhs, rhs)), nil
	case ast.OpNotEqual:
		return NewScalar(symbols.BoolType, !valuesEqual(lhs, rhs)), nil
	case ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual:
		c, ok := compare(lhs.Internal(), rhs.Internal())
		if !ok {
			return nil, in.errorf(diagnostics.ErrR003, n, "cannot compare '%s' with '%s'", typeName(lhs), typeName(rhs))
		}
		var result bool
		switch n.Op {
		case ast.OpLess:
			result = c < 0
		case ast.OpLessEqual:
			result = c <= 0
		case ast.OpGreater:
			result = c > 0
		default:
			result = c >= 0
		}
		return NewScalar(symbols.BoolType, result), nil
	case ast.OpPlus, ast.OpMinus, ast.OpMultiply, ast.OpDivide:
		return in.arithmetic(n, lhs, rhs)
	}
	return nil, in.errorf(diagnostics.ErrR004, n, "unsupported binary operator %s", n.Op)
}

func (in *Interpreter) arithmetic(n *ast.Node, lhs, rhs Value) (Value, error) {
	l, r := lhs.Internal(), rhs.Internal()

	if n.Op == ast.OpPlus {
		if ls, ok := l.(string); ok {
			return NewScalar(symbols.StringType, ls+fmt.Sprint(r)), nil
		}
		if rs, ok := r.(string); ok {
			return NewScalar(symbols.StringType, fmt.Sprint(l)+rs), nil
		}
	}

	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		switch n.Op {
		case ast.OpPlus:
			return NewScalar(symbols.IntType, li+ri), nil
		case ast.OpMinus:
			return NewScalar(symbols.IntType, li-ri), nil
		case ast.OpMultiply:
			return NewScalar(symbols.IntType, li*ri), nil
		default:
			if ri == 0 {
				return nil, in.errorf(diagnostics.ErrR006, n, "integer division by zero")
			}
			return NewScalar(symbols.IntType, li/ri), nil
		}
	}

	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, in.errorf(diagnostics.ErrR003, n, "operator %s on '%s' and '%s'", n.Op, typeName(lhs), typeName(rhs))
	}
	var result float64
	switch n.Op {
	case ast.OpPlus:
		result = lf + rf
	case ast.OpMinus:
		result = lf - rf
	case ast.OpMultiply:
		result = lf * rf
	default:
		result = lf / rf
	}
	return NewScalar(symbols.FloatType, result), nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// compare orders numbers and strings.
func compare(l, r any) (int, bool) {
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if !ok {
			return 0, false
		}
		switch {
		case ls < rs:
			return -1, true
		case ls > rs:
			return 1, true
		}
		return 0, true
	}
	if li, ok := l.(int64); ok {
		if ri, ok := r.(int64); ok {
			switch {
			case li < ri:
				return -1, true
			case li > ri:
				return 1, true
			}
			return 0, true
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return 0, false
	}
	switch {
	case lf < rf:
		return -1, true
	case lf > rf:
		return 1, true
	}
	return 0, true
}

// valuesEqual compares scalars by value and everything else by identity
// of the value or of its host object.
func valuesEqual(lhs, rhs Value) bool {
	if IsNone(lhs) || IsNone(rhs) {
		return IsNone(lhs) == IsNone(rhs)
	}
	l, r := lhs.Internal(), rhs.Internal()
	if c, ok := compare(l, r); ok {
		return c == 0
	}
	if la, ok := lhs.(*AggregateValue); ok {
		if ra, ok := rhs.(*AggregateValue); ok {
			if la.space == ra.space {
				return true
			}
		}
	}
	if l == nil || r == nil {
		return lhs == rhs
	}
	if reflect.TypeOf(l).Comparable() && reflect.TypeOf(r).Comparable() {
		return l == r
	}
	return lhs == rhs
}
