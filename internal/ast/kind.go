package ast

import "fmt"

// Kind tags a Node. Passes switch over it instead of double dispatch.
type Kind int

const (
	KindError Kind = iota
	KindProgram

	// Definitions
	KindObjectDefinition
	KindPropertyDefinitionList
	KindPropertyDefinition
	KindPrototypeDefinition
	KindComponentDefinitionList
	KindAggregateValueDefinition
	KindItemPrototypeDefinition
	KindFuncDefinition
	KindParamDefList
	KindParamDef
	KindImport

	// Graph definitions
	KindDotDefinition
	KindDotStmtList
	KindDotEdgeStmt
	KindDotNodeStmt
	KindDotIdList
	KindDotAttrList
	KindDotAttr

	// Statements
	KindBlock
	KindReturnStmt
	KindConditionalStmtIf
	KindConditionalStmtIfElse
	KindWhileLoop
	KindForLoop
	KindCountingForLoop
	KindVarDeclaration
	KindAssignment

	// Expressions
	KindLogicOr
	KindLogicAnd
	KindEquality
	KindComparison
	KindTerm
	KindFactor
	KindUnary
	KindMemberAccess
	KindFuncCall
	KindGroupedExpression
	KindIdentifier
	KindNumber
	KindDecimalNumber
	KindStringLiteral
	KindBool
	KindListDefinition
	KindSetDefinition

	// Type identifiers
	KindListTypeIdentifier
	KindSetTypeIdentifier
	KindMapTypeIdentifier

	kindCount
)

var kindNames = [...]string{
	KindError:                    "Error",
	KindProgram:                  "Program",
	KindObjectDefinition:         "ObjectDefinition",
	KindPropertyDefinitionList:   "PropertyDefinitionList",
	KindPropertyDefinition:       "PropertyDefinition",
	KindPrototypeDefinition:      "PrototypeDefinition",
	KindComponentDefinitionList:  "ComponentDefinitionList",
	KindAggregateValueDefinition: "AggregateValueDefinition",
	KindItemPrototypeDefinition:  "ItemPrototypeDefinition",
	KindFuncDefinition:           "FuncDefinition",
	KindParamDefList:             "ParamDefList",
	KindParamDef:                 "ParamDef",
	KindImport:                   "Import",
	KindDotDefinition:            "DotDefinition",
	KindDotStmtList:              "DotStmtList",
	KindDotEdgeStmt:              "DotEdgeStmt",
	KindDotNodeStmt:              "DotNodeStmt",
	KindDotIdList:                "DotIdList",
	KindDotAttrList:              "DotAttrList",
	KindDotAttr:                  "DotAttr",
	KindBlock:                    "Block",
	KindReturnStmt:               "ReturnStmt",
	KindConditionalStmtIf:        "ConditionalStmtIf",
	KindConditionalStmtIfElse:    "ConditionalStmtIfElse",
	KindWhileLoop:                "WhileLoop",
	KindForLoop:                  "ForLoop",
	KindCountingForLoop:          "CountingForLoop",
	KindVarDeclaration:           "VarDeclaration",
	KindAssignment:               "Assignment",
	KindLogicOr:                  "LogicOr",
	KindLogicAnd:                 "LogicAnd",
	KindEquality:                 "Equality",
	KindComparison:               "Comparison",
	KindTerm:                     "Term",
	KindFactor:                   "Factor",
	KindUnary:                    "Unary",
	KindMemberAccess:             "MemberAccess",
	KindFuncCall:                 "FuncCall",
	KindGroupedExpression:        "GroupedExpression",
	KindIdentifier:               "Identifier",
	KindNumber:                   "Number",
	KindDecimalNumber:            "DecimalNumber",
	KindStringLiteral:            "StringLiteral",
	KindBool:                     "Bool",
	KindListDefinition:           "ListDefinition",
	KindSetDefinition:            "SetDefinition",
	KindListTypeIdentifier:       "ListTypeIdentifier",
	KindSetTypeIdentifier:        "SetTypeIdentifier",
	KindMapTypeIdentifier:        "MapTypeIdentifier",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFromString is the inverse of Kind.String.
func KindFromString(s string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return KindError, false
}

// IsTypeIdentifier reports whether k names a type in declarations.
func (k Kind) IsTypeIdentifier() bool {
	switch k {
	case KindIdentifier, KindListTypeIdentifier, KindSetTypeIdentifier, KindMapTypeIdentifier:
		return true
	}
	return false
}

// IsBinary reports whether k is a two-operand expression.
func (k Kind) IsBinary() bool {
	switch k {
	case KindLogicOr, KindLogicAnd, KindEquality, KindComparison, KindTerm, KindFactor:
		return true
	}
	return false
}

// Operator is the operator of a binary or unary expression.
type Operator int

const (
	OpNone Operator = iota
	OpOr
	OpAnd
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpNot
)

var opNames = map[Operator]string{
	OpNone:         "",
	OpOr:           "or",
	OpAnd:          "and",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpPlus:         "+",
	OpMinus:        "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpNot:          "!",
}

func (o Operator) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// OperatorFromString parses the textual form used by the YAML front end.
func OperatorFromString(s string) (Operator, bool) {
	for op, name := range opNames {
		if name == s && op != OpNone {
			return op, true
		}
	}
	return OpNone, false
}

// DeclKind distinguishes `var x = expr` from `var x : type`.
type DeclKind int

const (
	DeclInferred DeclKind = iota
	DeclTyped
)
