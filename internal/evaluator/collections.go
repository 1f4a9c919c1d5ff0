package evaluator

import (
	"reflect"

	"github.com/funvibe/questlang/internal/symbols"
)

// ListValue is an ordered sequence of values.
type ListValue struct {
	valueBase
	elems []Value
}

func NewListValue(t symbols.Type) *ListValue {
	return &ListValue{valueBase: valueBase{dataType: t}}
}

func (l *ListValue) Add(v Value) bool {
	l.elems = append(l.elems, v)
	return true
}

func (l *ListValue) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.elems) {
		return nil, false
	}
	return l.elems[i], true
}

func (l *ListValue) Len() int          { return len(l.elems) }
func (l *ListValue) Elements() []Value { return l.elems }
func (l *ListValue) Clear()            { l.elems = nil }
func (l *ListValue) Internal() any     { return l.elems }

func (l *ListValue) Clone() Value {
	c := &ListValue{valueBase: l.valueBase}
	for _, e := range l.elems {
		c.elems = append(c.elems, e.Clone())
	}
	return c
}

// SetValue keeps its elements in insertion order and drops duplicates.
// Scalars compare by value, everything else by identity (or by host
// object once instantiated).
type SetValue struct {
	valueBase
	elems []Value
	index map[any]struct{}
}

func NewSetValue(t symbols.Type) *SetValue {
	return &SetValue{valueBase: valueBase{dataType: t}, index: make(map[any]struct{})}
}

// Add reports false when an equal element is already present.
func (s *SetValue) Add(v Value) bool {
	key := valueKey(v)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.elems = append(s.elems, v)
	return true
}

func (s *SetValue) Contains(v Value) bool {
	_, ok := s.index[valueKey(v)]
	return ok
}

func (s *SetValue) Len() int          { return len(s.elems) }
func (s *SetValue) Elements() []Value { return s.elems }
func (s *SetValue) Internal() any     { return s.elems }

func (s *SetValue) Clear() {
	s.elems = nil
	s.index = make(map[any]struct{})
}

func (s *SetValue) Clone() Value {
	c := NewSetValue(s.dataType)
	c.valueBase = s.valueBase
	for _, e := range s.elems {
		c.Add(e.Clone())
	}
	return c
}

// MapValue is an insertion-ordered map. Keys compare like set elements.
type MapValue struct {
	valueBase
	keys   []Value
	values []Value
	index  map[any]int
}

func NewMapValue(t symbols.Type) *MapValue {
	return &MapValue{valueBase: valueBase{dataType: t}, index: make(map[any]int)}
}

// Put adds or replaces the entry for key.
func (m *MapValue) Put(key, v Value) {
	k := valueKey(key)
	if i, ok := m.index[k]; ok {
		m.values[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

func (m *MapValue) Get(key Value) (Value, bool) {
	i, ok := m.index[valueKey(key)]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *MapValue) Len() int        { return len(m.keys) }
func (m *MapValue) Keys() []Value   { return m.keys }
func (m *MapValue) Values() []Value { return m.values }
func (m *MapValue) Internal() any   { return m }

func (m *MapValue) Clear() {
	m.keys, m.values = nil, nil
	m.index = make(map[any]int)
}

func (m *MapValue) Clone() Value {
	c := NewMapValue(m.dataType)
	c.valueBase = m.valueBase
	for i, k := range m.keys {
		c.Put(k.Clone(), m.values[i].Clone())
	}
	return c
}

type scalarKey struct {
	typeName string
	value    any
}

func valueKey(v Value) any {
	switch v := v.(type) {
	case *Scalar:
		return scalarKey{symbols.TypeName(v.dataType), v.value}
	case *EncapsulatedField:
		if internal := v.Internal(); internal != nil && reflect.TypeOf(internal).Comparable() {
			return scalarKey{symbols.TypeName(v.dataType), internal}
		}
	case *EnumValue:
		return v.variant
	case *FunctionValue:
		return v.callable
	case *AggregateValue:
		if v.internal != nil {
			return v.internal
		}
	}
	return v
}

// elements returns the elements of a list or set.
func elements(v Value) ([]Value, bool) {
	switch c := v.(type) {
	case *ListValue:
		return c.elems, true
	case *SetValue:
		return c.elems, true
	}
	return nil, false
}
