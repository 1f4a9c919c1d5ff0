package evaluator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/questlang/internal/symbols"
)

// TagName is the struct tag naming the DSL member a host field backs.
const TagName = "dsl"

// EncapsulatedObject is a MemorySpace whose members are the fields of a
// host struct. Reads wrap fields as values; writes go to the fields.
type EncapsulatedObject struct {
	host      reflect.Value // pointer to struct
	aggregate *symbols.AggregateType
	inst      TypeInstantiator
	fields    map[string][]int
	names     []string
}

// NewEncapsulatedObject wraps host, which must be a non-nil pointer to a
// struct. Only fields whose tag names a member of t are visible.
func NewEncapsulatedObject(host any, t *symbols.AggregateType, inst TypeInstantiator) *EncapsulatedObject {
	v := reflect.ValueOf(host)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("evaluator: cannot encapsulate %T", host))
	}
	e := &EncapsulatedObject{host: v, aggregate: t, inst: inst, fields: make(map[string][]int)}
	for name, index := range TaggedFields(v.Elem().Type()) {
		if _, ok := t.Member(name); ok {
			e.fields[name] = index
		}
	}
	for _, m := range t.Members() {
		if _, ok := e.fields[m.Name()]; ok {
			e.names = append(e.names, m.Name())
		}
	}
	return e
}

// TaggedFields maps each `dsl` tag of a struct type to its field index.
func TaggedFields(t reflect.Type) map[string][]int {
	out := make(map[string][]int)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(TagName)
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		out[name] = f.Index
	}
	return out
}

// Host returns the wrapped host object.
func (e *EncapsulatedObject) Host() any { return e.host.Interface() }

func (e *EncapsulatedObject) field(name string) (reflect.Value, bool) {
	index, ok := e.fields[name]
	if !ok {
		return reflect.Value{}, false
	}
	return e.host.Elem().FieldByIndex(index), true
}

func (e *EncapsulatedObject) memberType(name string) symbols.Type {
	m, ok := e.aggregate.Member(name)
	if !ok || m.DataType() == nil {
		return nil
	}
	t, _ := symbols.Unwrap(m.DataType()).(symbols.Type)
	return t
}

// Bind always fails: the members are the host struct's fields.
func (e *EncapsulatedObject) Bind(string, Value) bool { return false }

func (e *EncapsulatedObject) Resolve(name string) (Value, bool) {
	return e.ResolveLocal(name)
}

// ResolveLocal wraps nested host structs as encapsulated aggregates and
// every other field as an EncapsulatedField.
func (e *EncapsulatedObject) ResolveLocal(name string) (Value, bool) {
	f, ok := e.field(name)
	if !ok {
		return nil, false
	}
	t := e.memberType(name)
	if agg, ok := t.(*symbols.AggregateType); ok && f.Kind() == reflect.Pointer && f.Type().Elem().Kind() == reflect.Struct {
		if f.IsNil() {
			f.Set(reflect.New(f.Type().Elem()))
		}
		nested := NewAggregateValue(agg, NewEncapsulatedObject(f.Interface(), agg, e.inst))
		nested.internal = f.Interface()
		nested.writeBack = func(v *AggregateValue) error {
			return e.setField(name, v)
		}
		return nested, true
	}
	return &EncapsulatedField{valueBase: valueBase{dataType: t, dirty: true}, field: f, inst: e.inst}, true
}

// Set writes v, instantiated, into the field backing name.
func (e *EncapsulatedObject) Set(name string, v Value) bool {
	return e.setField(name, v) == nil
}

func (e *EncapsulatedObject) setField(name string, v Value) error {
	f, ok := e.field(name)
	if !ok {
		return fmt.Errorf("%s has no field for member %q", e.host.Type(), name)
	}
	host, err := e.inst.Instantiate(v)
	if err != nil {
		return err
	}
	return assignHost(f, host)
}

func (e *EncapsulatedObject) Delete(string) bool  { return false }
func (e *EncapsulatedObject) Parent() MemorySpace { return nil }
func (e *EncapsulatedObject) Names() []string     { return e.names }

// EncapsulatedField is a member value living in a host struct field.
type EncapsulatedField struct {
	valueBase
	field reflect.Value
	inst  TypeInstantiator
}

// Internal returns the field normalized to the interpreter's scalar
// representation (int64, float64).
func (f *EncapsulatedField) Internal() any {
	switch f.field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.field.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(f.field.Uint())
	case reflect.Float32, reflect.Float64:
		return f.field.Float()
	}
	return f.field.Interface()
}

// Set writes a host value into the field.
func (f *EncapsulatedField) Set(host any) error {
	return assignHost(f.field, host)
}

// Translate converts the field into an ordinary value of its DSL type.
func (f *EncapsulatedField) Translate() (Value, error) {
	if _, basic := f.dataType.(*symbols.BasicType); basic {
		return NewScalar(f.dataType, f.Internal()), nil
	}
	return f.inst.Translate(f.field.Interface(), f.dataType)
}

// Clone detaches the field into a plain value.
func (f *EncapsulatedField) Clone() Value {
	v, err := f.Translate()
	if err != nil {
		return NewScalar(f.dataType, f.Internal())
	}
	v.SetDirty(f.dirty)
	return v
}
