package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/symbols"
)

// Type inference for `var x = expr`. Deliberately shallow: operand types
// are not checked against each other beyond what the result requires.

func literalType(kind ast.Kind) symbols.Type {
	switch kind {
	case ast.KindNumber:
		return symbols.IntType
	case ast.KindDecimalNumber:
		return symbols.FloatType
	case ast.KindStringLiteral:
		return symbols.StringType
	case ast.KindBool:
		return symbols.BoolType
	}
	return nil
}

// binaryResultType: logic and comparison operators yield bool; arithmetic
// needs both operands of the same type and yields it.
func binaryResultType(kind ast.Kind, lhs, rhs symbols.Type) symbols.Type {
	switch kind {
	case ast.KindLogicOr, ast.KindLogicAnd, ast.KindEquality, ast.KindComparison:
		return symbols.BoolType
	case ast.KindTerm, ast.KindFactor:
		if lhs != nil && lhs == rhs {
			return lhs
		}
	}
	return nil
}

func unaryResultType(op ast.Operator, operand symbols.Type) symbols.Type {
	if op == ast.OpNot {
		return symbols.BoolType
	}
	return operand
}

// containerLiteralType is the list or set type of the first element.
func (a *Analyzer) containerLiteralType(kind ast.Kind, elems []symbols.Type) symbols.Type {
	if len(elems) == 0 || elems[0] == nil {
		return nil
	}
	if kind == ast.KindSetDefinition {
		return symbols.EnsureSetType(a.env.GlobalScope(), elems[0])
	}
	return symbols.EnsureListType(a.env.GlobalScope(), elems[0])
}
