package host

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/symbols"
)

var errNoInterpreter = errors.New("host: instantiator is not bound to an interpreter")

// Instantiator converts between interpreter values and host objects.
// Aggregates map onto the tagged fields of their struct in member
// declaration order; function values become Callbacks.
type Instantiator struct {
	types *TypeBuilder
	in    *evaluator.Interpreter
}

func NewInstantiator(types *TypeBuilder) *Instantiator {
	return &Instantiator{types: types}
}

// BindInterpreter is called by evaluator.New.
func (i *Instantiator) BindInterpreter(in *evaluator.Interpreter) { i.in = in }

// Interpreter returns the interpreter the instantiator was bound to last.
func (i *Instantiator) Interpreter() *evaluator.Interpreter { return i.in }

func (i *Instantiator) Types() *TypeBuilder { return i.types }

// Instantiate converts v to its host representation.
func (i *Instantiator) Instantiate(v evaluator.Value) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *evaluator.EncapsulatedField:
		return v.Internal(), nil
	case *evaluator.PrototypeValue:
		return i.instantiatePrototype(v)
	case *evaluator.Scalar:
		if p, ok := evaluator.AsPrototype(v); ok {
			return i.instantiatePrototype(p)
		}
		return v.Internal(), nil
	case *evaluator.AggregateValue:
		if host := v.Internal(); host != nil {
			return host, nil
		}
		t, ok := v.AggregateType()
		if !ok {
			return nil, fmt.Errorf("aggregate value of type %s has no aggregate type", symbols.TypeName(v.DataType()))
		}
		return i.InstantiateAsType(v, t)
	case *evaluator.ListValue:
		return i.slice(v.DataType(), v.Elements())
	case *evaluator.SetValue:
		return i.slice(v.DataType(), v.Elements())
	case *evaluator.MapValue:
		return i.goMap(v)
	case *evaluator.FunctionValue:
		if v.Callable() == nil {
			return nil, nil
		}
		return &Callback{Name: v.Callable().Name(), Callable: v.Callable(), inst: i}, nil
	case *evaluator.EnumValue:
		return i.enum(v), nil
	}
	return nil, fmt.Errorf("cannot instantiate %T", v)
}

// InstantiateAsType builds the struct of t from the dirty members of v.
// Members without a dirty value keep the field's zero value.
func (i *Instantiator) InstantiateAsType(v *evaluator.AggregateValue, t *symbols.AggregateType) (any, error) {
	st, ok := i.types.structType(t)
	if !ok {
		return nil, fmt.Errorf("type %s has no host struct", t.Name())
	}
	ptr := reflect.New(st)
	fields := evaluator.TaggedFields(st)
	for _, m := range t.Members() {
		mv, ok := v.Member(m.Name())
		if !ok || !mv.IsDirty() {
			continue
		}
		index, ok := fields[m.Name()]
		if !ok {
			return nil, fmt.Errorf("%s has no field for member %q", st, m.Name())
		}
		host, err := i.Instantiate(mv)
		if err != nil {
			return nil, fmt.Errorf("member %s of %s: %w", m.Name(), t.Name(), err)
		}
		if host == nil {
			continue
		}
		field := ptr.Elem().FieldByIndex(index)
		cv, err := evaluator.ConvertHost(reflect.ValueOf(host), field.Type())
		if err != nil {
			return nil, fmt.Errorf("member %s of %s: %w", m.Name(), t.Name(), err)
		}
		field.Set(cv)
	}
	return ptr.Interface(), nil
}

func (i *Instantiator) instantiatePrototype(p *evaluator.PrototypeValue) (any, error) {
	if i.in == nil {
		return nil, errNoInterpreter
	}
	v, err := i.in.InstantiateDSLValue(p)
	if err != nil {
		return nil, err
	}
	return i.InstantiateAsType(v, p.Type())
}

func (i *Instantiator) slice(t symbols.Type, elems []evaluator.Value) (any, error) {
	goType := i.types.GoType(t)
	if goType.Kind() != reflect.Slice {
		goType = reflect.SliceOf(anyGoType)
	}
	out := reflect.MakeSlice(goType, 0, len(elems))
	for n, e := range elems {
		host, err := i.Instantiate(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		ev, err := evaluator.ConvertHost(reflect.ValueOf(host), goType.Elem())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		out = reflect.Append(out, ev)
	}
	return out.Interface(), nil
}

func (i *Instantiator) goMap(m *evaluator.MapValue) (any, error) {
	goType := i.types.GoType(m.DataType())
	if goType.Kind() != reflect.Map {
		goType = reflect.MapOf(anyGoType, anyGoType)
	}
	out := reflect.MakeMapWithSize(goType, m.Len())
	values := m.Values()
	for n, k := range m.Keys() {
		key, err := i.Instantiate(k)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		value, err := i.Instantiate(values[n])
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		kv, err := evaluator.ConvertHost(reflect.ValueOf(key), goType.Key())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		vv, err := evaluator.ConvertHost(reflect.ValueOf(value), goType.Elem())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		out.SetMapIndex(kv, vv)
	}
	return out.Interface(), nil
}

// enum returns the host value of a variant: its ordinal in the enum's
// integer host type, or its name.
func (i *Instantiator) enum(v *evaluator.EnumValue) any {
	variant := v.Variant()
	if variant == nil {
		return nil
	}
	if et, ok := symbols.Unwrap(v.DataType()).(*symbols.EnumType); ok && et.HostType != nil {
		switch et.HostType.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return reflect.ValueOf(variant.Ordinal).Convert(et.HostType).Interface()
		}
	}
	return variant.Name()
}

// Translate converts a host object to a value of type t. A nil t infers
// the type from the host object's Go type.
func (i *Instantiator) Translate(host any, t symbols.Type) (evaluator.Value, error) {
	if v, ok := host.(evaluator.Value); ok {
		return v, nil
	}
	if t == nil {
		switch h := host.(type) {
		case nil:
			return evaluator.NoneValue(), nil
		case *Callback:
			if h == nil || h.Callable == nil {
				return nil, fmt.Errorf("cannot infer the type of a nil callback")
			}
			return evaluator.NewFunctionValue(h.Callable.FunctionType(), h.Callable), nil
		}
		inferred, err := i.types.TypeOf(reflect.TypeOf(host))
		if err != nil {
			return nil, err
		}
		t = inferred
	}
	return i.translate(reflect.ValueOf(host), t)
}

func (i *Instantiator) translate(rv reflect.Value, t symbols.Type) (evaluator.Value, error) {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	valid := rv.IsValid() && !(rv.Kind() == reflect.Interface && rv.IsNil())

	switch tt := symbols.Unwrap(t).(type) {
	case *symbols.BasicType:
		return i.translateBasic(rv, valid, tt)
	case *symbols.AggregateType:
		return i.translateAggregate(rv, valid, tt)
	case *symbols.ListType:
		l := evaluator.NewListValue(tt)
		if !valid {
			return l, nil
		}
		elems, err := i.translateElements(rv, tt.Element)
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			l.Add(e)
		}
		return l, nil
	case *symbols.SetType:
		s := evaluator.NewSetValue(tt)
		if !valid {
			return s, nil
		}
		elems, err := i.translateElements(rv, tt.Element)
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			s.Add(e)
		}
		return s, nil
	case *symbols.MapType:
		return i.translateMap(rv, valid, tt)
	case *symbols.FunctionType:
		if valid {
			if cb, ok := rv.Interface().(*Callback); ok && cb != nil {
				return evaluator.NewFunctionValue(tt, cb.Callable), nil
			}
		}
		return evaluator.NewFunctionValue(tt, nil), nil
	case *symbols.EnumType:
		return i.translateEnum(rv, valid, tt)
	}
	return nil, fmt.Errorf("cannot translate to type %s", symbols.TypeName(t))
}

func (i *Instantiator) translateBasic(rv reflect.Value, valid bool, t *symbols.BasicType) (evaluator.Value, error) {
	var target reflect.Type
	switch t {
	case symbols.NoneType:
		return evaluator.NoneValue(), nil
	case symbols.IntType:
		target = reflect.TypeFor[int64]()
	case symbols.FloatType:
		target = reflect.TypeFor[float64]()
	case symbols.StringType:
		target = reflect.TypeFor[string]()
	case symbols.BoolType:
		target = reflect.TypeFor[bool]()
	default:
		if !valid {
			return evaluator.NewScalar(t, nil), nil
		}
		return evaluator.NewScalar(t, rv.Interface()), nil
	}
	if !valid {
		return evaluator.NewScalar(t, reflect.Zero(target).Interface()), nil
	}
	cv, err := evaluator.ConvertHost(rv, target)
	if err != nil {
		return nil, err
	}
	return evaluator.NewScalar(t, cv.Interface()), nil
}

// translateAggregate wraps a host struct pointer as an encapsulated
// aggregate. A missing host gets a fresh struct; a string becomes the
// text of an adapter type.
func (i *Instantiator) translateAggregate(rv reflect.Value, valid bool, t *symbols.AggregateType) (evaluator.Value, error) {
	st, ok := i.types.structType(t)
	if !ok {
		return nil, fmt.Errorf("type %s has no host struct", t.Name())
	}
	var host reflect.Value
	switch {
	case !valid || (rv.Kind() == reflect.Pointer && rv.IsNil()):
		host = reflect.New(st)
	case rv.Kind() == reflect.String:
		fields := evaluator.TaggedFields(st)
		index, ok := fields[config.AdapterTextMember]
		if !ok {
			return nil, fmt.Errorf("cannot translate a string to %s", t.Name())
		}
		host = reflect.New(st)
		host.Elem().FieldByIndex(index).SetString(rv.String())
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == st:
		host = rv
	case rv.Kind() == reflect.Struct && rv.Type() == st:
		host = reflect.New(st)
		host.Elem().Set(rv)
	default:
		return nil, fmt.Errorf("cannot translate %s to %s", rv.Type(), t.Name())
	}
	v := evaluator.NewAggregateValue(t, evaluator.NewEncapsulatedObject(host.Interface(), t, i))
	v.SetInternal(host.Interface())
	return v, nil
}

func (i *Instantiator) translateElements(rv reflect.Value, elem symbols.Type) ([]evaluator.Value, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot translate %s to a container of %s", rv.Type(), elem.Name())
	}
	out := make([]evaluator.Value, 0, rv.Len())
	for n := 0; n < rv.Len(); n++ {
		e, err := i.translate(rv.Index(n), elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// translateMap adds entries in key order so runs are reproducible.
func (i *Instantiator) translateMap(rv reflect.Value, valid bool, t *symbols.MapType) (evaluator.Value, error) {
	m := evaluator.NewMapValue(t)
	if !valid {
		return m, nil
	}
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("cannot translate %s to %s", rv.Type(), t.Name())
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(a, b int) bool {
		return fmt.Sprint(keys[a].Interface()) < fmt.Sprint(keys[b].Interface())
	})
	for _, k := range keys {
		kv, err := i.translate(k, t.Key)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		vv, err := i.translate(rv.MapIndex(k), t.Element)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		m.Put(kv, vv)
	}
	return m, nil
}

func (i *Instantiator) translateEnum(rv reflect.Value, valid bool, t *symbols.EnumType) (evaluator.Value, error) {
	if !valid {
		return evaluator.NewEnumValue(t, nil), nil
	}
	var name string
	switch rv.Kind() {
	case reflect.String:
		name = rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		for _, sym := range t.Symbols() {
			if v, ok := sym.(*symbols.EnumVariant); ok && int64(v.Ordinal) == rv.Int() {
				return evaluator.NewEnumValue(t, v), nil
			}
		}
		return nil, fmt.Errorf("%d is not a variant of %s", rv.Int(), t.Name())
	default:
		s, ok := rv.Interface().(fmt.Stringer)
		if !ok {
			return nil, fmt.Errorf("cannot translate %s to %s", rv.Type(), t.Name())
		}
		name = s.String()
	}
	variant, ok := t.Variant(name)
	if !ok {
		return nil, fmt.Errorf("%q is not a variant of %s", name, t.Name())
	}
	return evaluator.NewEnumValue(t, variant), nil
}
