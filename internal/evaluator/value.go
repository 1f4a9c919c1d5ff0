package evaluator

import (
	"fmt"

	"github.com/funvibe/questlang/internal/symbols"
)

// Value is a runtime value. Values bound in a MemorySpace are mutated in
// place by assignment, so evaluating an identifier yields the bound value
// itself, not a copy.
type Value interface {
	DataType() symbols.Type
	SetDataType(t symbols.Type)
	// Internal is the Go representation: int64, float64, string, bool, a
	// host object, or the value itself for values without one.
	Internal() any
	Clone() Value
	// IsDirty reports whether the value was explicitly authored and must be
	// pushed into the host object it ends up in.
	IsDirty() bool
	SetDirty(dirty bool)
}

type valueBase struct {
	dataType symbols.Type
	dirty    bool
}

func (b *valueBase) DataType() symbols.Type     { return b.dataType }
func (b *valueBase) SetDataType(t symbols.Type) { b.dataType = t }
func (b *valueBase) IsDirty() bool              { return b.dirty }
func (b *valueBase) SetDirty(dirty bool)        { b.dirty = dirty }

// Scalar wraps a primitive of a basic type. The graph type also uses it,
// holding a *taskgraph.Graph.
type Scalar struct {
	valueBase
	value any
}

func NewScalar(t symbols.Type, v any) *Scalar {
	return &Scalar{valueBase: valueBase{dataType: t}, value: v}
}

// NoneValue is the result of expressions without a value.
func NoneValue() *Scalar {
	return NewScalar(symbols.NoneType, nil)
}

func (s *Scalar) Internal() any { return s.value }

func (s *Scalar) Set(v any) { s.value = v }

func (s *Scalar) Clone() Value {
	c := *s
	return &c
}

func (s *Scalar) String() string {
	if s.value == nil {
		return symbols.TypeName(s.dataType)
	}
	return fmt.Sprint(s.value)
}

// IsNone reports whether v is absent or of type none.
func IsNone(v Value) bool {
	return v == nil || v.DataType() == nil || v.DataType() == symbols.NoneType
}

// isTruthy is false for none, zero basic values, empty aggregates and
// enums without a variant. Everything else is true.
func isTruthy(v Value) bool {
	if IsNone(v) {
		return false
	}
	switch x := v.(type) {
	case *AggregateValue:
		return !x.IsEmpty()
	case *EnumValue:
		return x.variant != nil
	}
	if _, basic := v.DataType().(*symbols.BasicType); !basic {
		return true
	}
	switch b := v.Internal().(type) {
	case nil:
		return false
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string:
		return b != ""
	}
	return true
}

// FunctionValue refers to a callable; a nil callable is the default value
// of a function type.
type FunctionValue struct {
	valueBase
	callable symbols.Callable
}

func NewFunctionValue(t symbols.Type, c symbols.Callable) *FunctionValue {
	return &FunctionValue{valueBase: valueBase{dataType: t}, callable: c}
}

func (f *FunctionValue) Callable() symbols.Callable { return f.callable }
func (f *FunctionValue) Internal() any              { return f.callable }

func (f *FunctionValue) Clone() Value {
	c := *f
	return &c
}

// EnumValue holds one variant of an enum; a nil variant is the default.
type EnumValue struct {
	valueBase
	variant *symbols.EnumVariant
}

func NewEnumValue(t symbols.Type, variant *symbols.EnumVariant) *EnumValue {
	return &EnumValue{valueBase: valueBase{dataType: t}, variant: variant}
}

func (e *EnumValue) Variant() *symbols.EnumVariant { return e.variant }

func (e *EnumValue) Internal() any {
	if e.variant == nil {
		return nil
	}
	return e.variant.Name()
}

func (e *EnumValue) Clone() Value {
	c := *e
	return &c
}
