package evaluator

import (
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// createDefault returns the zero value of t. Aggregates get a fresh space
// with every member defaulted; entity and item types start from their
// prototype. A self-referential aggregate member defaults to an empty
// aggregate.
func (in *Interpreter) createDefault(t symbols.Type) (Value, error) {
	t = unwrapType(t)
	switch tt := t.(type) {
	case nil:
		return NoneValue(), nil
	case *symbols.BasicType:
		return NewScalar(tt, basicZero(tt)), nil
	case *symbols.AggregateType:
		if tt.IsPrototypeBased() {
			proto, err := in.prototype(tt)
			if err != nil {
				return nil, err
			}
			return in.InstantiateDSLValue(proto)
		}
		if in.defaulting[tt] {
			return NewAggregateValue(tt, NewSpace(nil)), nil
		}
		in.defaulting[tt] = true
		defer delete(in.defaulting, tt)

		space := NewSpace(nil)
		for _, m := range tt.Members() {
			mv, err := in.createDefault(m.DataType())
			if err != nil {
				return nil, err
			}
			space.Bind(m.Name(), mv)
		}
		return NewAggregateValue(tt, space), nil
	case *symbols.ListType:
		return NewListValue(tt), nil
	case *symbols.SetType:
		return NewSetValue(tt), nil
	case *symbols.MapType:
		return NewMapValue(tt), nil
	case *symbols.EnumType:
		return NewEnumValue(tt, nil), nil
	case *symbols.FunctionType:
		return NewFunctionValue(tt, nil), nil
	}
	return nil, in.errorf(diagnostics.ErrR004, nil, "no default value for type '%s'", t.Name())
}

func basicZero(t *symbols.BasicType) any {
	switch t {
	case symbols.IntType:
		return int64(0)
	case symbols.FloatType:
		return float64(0)
	case symbols.StringType:
		return ""
	case symbols.BoolType:
		return false
	}
	return nil
}

func unwrapType(t symbols.Type) symbols.Type {
	if t == nil {
		return nil
	}
	u, _ := symbols.Unwrap(t).(symbols.Type)
	return u
}

// assign stores source into target in place and marks target dirty.
func (in *Interpreter) assign(target, source Value) error {
	if target == nil || source == nil {
		return in.errorf(diagnostics.ErrR003, nil, "assignment of a missing value")
	}

	switch t := target.(type) {
	case *EncapsulatedField:
		host, err := in.inst.Instantiate(source)
		if err != nil {
			return in.errorf(diagnostics.ErrR005, nil, "instantiate value for host field: %v", err)
		}
		if err := t.Set(host); err != nil {
			return in.errorf(diagnostics.ErrR003, nil, "%v", err)
		}
	case *AggregateValue:
		if err := in.assignAggregate(t, source); err != nil {
			return err
		}
	case *ListValue, *SetValue:
		if err := in.assignElements(target, source); err != nil {
			return err
		}
	case *MapValue:
		if err := in.assignMap(t, source); err != nil {
			return err
		}
	case *FunctionValue:
		s, ok := in.plain(source).(*FunctionValue)
		if !ok {
			return in.mismatch(target, source)
		}
		t.callable = s.callable
		if s.dataType != nil {
			t.dataType = s.dataType
		}
	case *EnumValue:
		s, ok := in.plain(source).(*EnumValue)
		if !ok {
			return in.mismatch(target, source)
		}
		t.variant = s.variant
	case *Scalar:
		v, ok := coerceScalar(t.dataType, source.Internal())
		if !ok {
			return in.mismatch(target, source)
		}
		t.value = v
	default:
		return in.errorf(diagnostics.ErrR004, nil, "cannot assign to a value of type '%s'", typeName(target))
	}
	target.SetDirty(true)
	return nil
}

// assignAggregate aliases an aggregate source, or wraps a scalar in an
// adapter aggregate.
func (in *Interpreter) assignAggregate(t *AggregateValue, source Value) error {
	switch s := source.(type) {
	case *AggregateValue:
		t.space = s.space
		t.internal = s.internal
	case *Scalar, *EncapsulatedField:
		aggType, ok := t.AggregateType()
		if !ok || !isAdapter(aggType) {
			return in.mismatch(t, source)
		}
		wrapped, err := in.wrapAdapter(aggType, source)
		if err != nil {
			return err
		}
		t.space = wrapped.space
		t.internal = wrapped.internal
	default:
		return in.mismatch(t, source)
	}
	t.SetDirty(true)
	if t.writeBack != nil {
		return t.writeBack(t)
	}
	return nil
}

func isAdapter(t *symbols.AggregateType) bool {
	if t.Name() != config.ContentTypeName && t.Name() != config.ElementTypeName {
		return false
	}
	_, ok := t.Member(config.AdapterTextMember)
	return ok
}

// wrapAdapter builds an encapsulated content or element value around a
// scalar.
func (in *Interpreter) wrapAdapter(t *symbols.AggregateType, scalar Value) (*AggregateValue, error) {
	d, err := in.createDefault(t)
	if err != nil {
		return nil, err
	}
	v := d.(*AggregateValue)
	text, _ := v.Member(config.AdapterTextMember)
	if err := in.assign(text, scalar); err != nil {
		return nil, err
	}
	if err := in.encapsulate(v, t, ""); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) assignElements(target, source Value) error {
	elems, ok := elements(in.plain(source))
	if !ok {
		return in.mismatch(target, source)
	}
	// Snapshot first: source and target may be the same container.
	elems = append([]Value(nil), elems...)
	elemType := symbols.ElementType(target.DataType())

	switch c := target.(type) {
	case *ListValue:
		c.Clear()
		for _, e := range elems {
			v, err := in.coerce(elemType, e)
			if err != nil {
				return err
			}
			c.Add(v)
		}
	case *SetValue:
		c.Clear()
		for _, e := range elems {
			v, err := in.coerce(elemType, e)
			if err != nil {
				return err
			}
			c.Add(v)
		}
	}
	return nil
}

func (in *Interpreter) assignMap(target *MapValue, source Value) error {
	s, ok := in.plain(source).(*MapValue)
	if !ok {
		return in.mismatch(target, source)
	}
	keys := append([]Value(nil), s.keys...)
	values := append([]Value(nil), s.values...)
	mt, _ := target.dataType.(*symbols.MapType)

	target.Clear()
	for i, k := range keys {
		var keyType, valueType symbols.Type
		if mt != nil {
			keyType, valueType = mt.Key, mt.Element
		}
		kv, err := in.coerce(keyType, k)
		if err != nil {
			return err
		}
		vv, err := in.coerce(valueType, values[i])
		if err != nil {
			return err
		}
		target.Put(kv, vv)
	}
	return nil
}

// coerce returns a fresh value of type t holding v. A nil t clones v.
func (in *Interpreter) coerce(t symbols.Type, v Value) (Value, error) {
	if t == nil || unwrapType(t) == symbols.NoneType {
		return in.plain(v).Clone(), nil
	}
	d, err := in.createDefault(t)
	if err != nil {
		return nil, err
	}
	if err := in.assign(d, v); err != nil {
		return nil, err
	}
	return d, nil
}

// plain detaches an encapsulated field into an ordinary value.
func (in *Interpreter) plain(v Value) Value {
	f, ok := v.(*EncapsulatedField)
	if !ok {
		return v
	}
	out, err := f.Translate()
	if err != nil {
		return v
	}
	return out
}

// coerceScalar converts a scalar payload to the representation of t.
func coerceScalar(t symbols.Type, v any) (any, bool) {
	switch unwrapType(t) {
	case symbols.IntType:
		switch n := v.(type) {
		case int64:
			return n, true
		case float64:
			return int64(n), true
		}
	case symbols.FloatType:
		switch n := v.(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		}
	case symbols.StringType:
		if s, ok := v.(string); ok {
			return s, true
		}
	case symbols.BoolType:
		if b, ok := v.(bool); ok {
			return b, true
		}
	default:
		return v, true
	}
	return nil, false
}

func (in *Interpreter) mismatch(target, source Value) error {
	return in.errorf(diagnostics.ErrR003, nil, "cannot assign '%s' to '%s'", typeName(source), typeName(target))
}

func typeName(v Value) string {
	if v == nil || v.DataType() == nil {
		return config.NoneTypeName
	}
	return v.DataType().Name()
}
