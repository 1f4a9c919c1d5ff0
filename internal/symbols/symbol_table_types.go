package symbols

import (
	"reflect"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
)

type TypeKind int

const (
	BasicKind TypeKind = iota
	AggregateKind
	ListKind
	SetKind
	MapKind
	EnumKind
	FunctionKind
)

// Type is a Symbol that describes values.
type Type interface {
	Symbol
	TypeKind() TypeKind
}

// BasicType is a built-in primitive.
type BasicType struct {
	BaseSymbol
}

func newBasicType(name string) *BasicType {
	return &BasicType{BaseSymbol: NewBaseSymbol(name, nil, nil)}
}

func (t *BasicType) Kind() SymbolKind   { return TypeSymbol }
func (t *BasicType) TypeKind() TypeKind { return BasicKind }

var (
	NoneType          = newBasicType(config.NoneTypeName)
	BoolType          = newBasicType(config.BoolTypeName)
	IntType           = newBasicType(config.IntTypeName)
	FloatType         = newBasicType(config.FloatTypeName)
	StringType        = newBasicType(config.StringTypeName)
	GraphType         = newBasicType(config.GraphTypeName)
	PrototypeType     = newBasicType(config.PrototypeTypeName)
	ItemPrototypeType = newBasicType(config.ItemPrototypeTypeName)
)

// BasicTypes lists the basic types bound into every global scope.
var BasicTypes = []*BasicType{NoneType, BoolType, IntType, FloatType, StringType, GraphType, PrototypeType, ItemPrototypeType}

// AggregateOrigin records how an aggregate type was declared.
type AggregateOrigin int

const (
	// OriginHost types mirror a host struct.
	OriginHost AggregateOrigin = iota
	// OriginPrototype types come from `entity_type` definitions.
	OriginPrototype
	// OriginItem types come from `item_type` definitions.
	OriginItem
)

// AggregateType is a named record type whose members are symbols bound in
// its own scope, in declaration order.
type AggregateType struct {
	BaseSymbol
	table
	parent Scope

	Origin AggregateOrigin
	// HostType is the Go type the aggregate mirrors, if any.
	HostType reflect.Type
	// CreationNode is the definition the type was built from.
	CreationNode *ast.Node
}

// NewAggregateType creates a type enclosed by scope. Host types pass a nil
// parent: they are not lexically nested anywhere.
func NewAggregateType(name string, scope Scope, parent Scope) *AggregateType {
	return &AggregateType{BaseSymbol: NewBaseSymbol(name, scope, nil), parent: parent}
}

func (t *AggregateType) Kind() SymbolKind   { return TypeSymbol }
func (t *AggregateType) TypeKind() TypeKind { return AggregateKind }
func (t *AggregateType) DataType() Type     { return t }
func (t *AggregateType) Parent() Scope      { return t.parent }
func (t *AggregateType) Bind(sym Symbol) bool {
	return t.bind(sym)
}
func (t *AggregateType) Resolve(name string, searchParents bool) (Symbol, bool) {
	return resolveIn(&t.table, t.parent, name, searchParents)
}

// Member returns the member symbol called name.
func (t *AggregateType) Member(name string) (Symbol, bool) {
	return t.lookup(name)
}

// Members returns the member symbols in declaration order.
func (t *AggregateType) Members() []Symbol {
	return t.Symbols()
}

// IsPrototypeBased reports whether instances are stamped from a prototype.
func (t *AggregateType) IsPrototypeBased() bool {
	return t.Origin == OriginPrototype || t.Origin == OriginItem
}

// EnumType is a closed set of named variants. The variants are bound in the
// type's own scope, so `edge_type.seq` resolves like a member access.
type EnumType struct {
	BaseSymbol
	table
	HostType reflect.Type
}

func NewEnumType(name string, scope Scope, variants ...string) *EnumType {
	t := &EnumType{BaseSymbol: NewBaseSymbol(name, scope, nil)}
	for i, v := range variants {
		t.bind(&EnumVariant{BaseSymbol: NewBaseSymbol(v, t, t), Ordinal: i})
	}
	return t
}

func (t *EnumType) Kind() SymbolKind   { return TypeSymbol }
func (t *EnumType) TypeKind() TypeKind { return EnumKind }
func (t *EnumType) DataType() Type     { return t }
func (t *EnumType) Parent() Scope      { return nil }
func (t *EnumType) Bind(sym Symbol) bool {
	return t.bind(sym)
}
func (t *EnumType) Resolve(name string, _ bool) (Symbol, bool) {
	return t.lookup(name)
}

// Variant returns the variant called name.
func (t *EnumType) Variant(name string) (*EnumVariant, bool) {
	sym, ok := t.lookup(name)
	if !ok {
		return nil, false
	}
	v, ok := sym.(*EnumVariant)
	return v, ok
}

// EnumVariant is one named value of an EnumType.
type EnumVariant struct {
	BaseSymbol
	Ordinal int
}

func (v *EnumVariant) Kind() SymbolKind { return EnumVariantSymbol }
