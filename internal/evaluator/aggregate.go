package evaluator

import (
	"github.com/funvibe/questlang/internal/symbols"
)

// AggregateValue owns one Value per member of its aggregate type. Once the
// value has been handed to the type instantiator its space is an
// EncapsulatedObject over the resulting host object.
type AggregateValue struct {
	valueBase
	space    MemorySpace
	internal any

	// writeBack pushes a replaced value into the host field this aggregate
	// was read from.
	writeBack func(*AggregateValue) error
}

func NewAggregateValue(t symbols.Type, space MemorySpace) *AggregateValue {
	return &AggregateValue{valueBase: valueBase{dataType: t}, space: space}
}

func (a *AggregateValue) MemorySpace() MemorySpace         { return a.space }
func (a *AggregateValue) SetMemorySpace(space MemorySpace) { a.space = space }
func (a *AggregateValue) Internal() any                    { return a.internal }
func (a *AggregateValue) SetInternal(host any)             { a.internal = host }

// IsEncapsulated reports whether the value is backed by a host object.
func (a *AggregateValue) IsEncapsulated() bool {
	_, ok := a.space.(*EncapsulatedObject)
	return ok
}

// Member returns the value of a member.
func (a *AggregateValue) Member(name string) (Value, bool) {
	if a.space == nil {
		return nil, false
	}
	return a.space.ResolveLocal(name)
}

// IsEmpty reports whether the value has no members.
func (a *AggregateValue) IsEmpty() bool {
	return a.space == nil || len(a.space.Names()) == 0
}

// IsDirty also reports true when any member is dirty.
func (a *AggregateValue) IsDirty() bool {
	if a.dirty || a.IsEncapsulated() {
		return true
	}
	if a.space == nil {
		return false
	}
	for _, name := range a.space.Names() {
		if v, ok := a.space.ResolveLocal(name); ok && v.IsDirty() {
			return true
		}
	}
	return false
}

// Clone copies the members of a plain aggregate. Encapsulated aggregates
// share their host object.
func (a *AggregateValue) Clone() Value {
	c := &AggregateValue{valueBase: a.valueBase, internal: a.internal}
	if s, ok := a.space.(*Space); ok {
		c.space = s.clone()
	} else {
		c.space = a.space
	}
	return c
}

// AggregateType returns the value's aggregate type, looking through import
// proxies.
func (a *AggregateValue) AggregateType() (*symbols.AggregateType, bool) {
	t, ok := symbols.Unwrap(a.dataType).(*symbols.AggregateType)
	return t, ok
}

// PrototypeValue is the template of an entity or item type: per-member
// default values, nested prototypes for entity components.
type PrototypeValue struct {
	valueBase
	aggregate *symbols.AggregateType
	names     []string
	defaults  map[string]Value
}

func NewPrototypeValue(t *symbols.AggregateType) *PrototypeValue {
	dataType := symbols.Type(symbols.PrototypeType)
	if t.Origin == symbols.OriginItem {
		dataType = symbols.ItemPrototypeType
	}
	return &PrototypeValue{
		valueBase: valueBase{dataType: dataType},
		aggregate: t,
		defaults:  make(map[string]Value),
	}
}

// Type is the aggregate type the prototype instantiates.
func (p *PrototypeValue) Type() *symbols.AggregateType { return p.aggregate }

func (p *PrototypeValue) Internal() any { return p }

func (p *PrototypeValue) SetDefault(name string, v Value) {
	if _, ok := p.defaults[name]; !ok {
		p.names = append(p.names, name)
	}
	p.defaults[name] = v
}

func (p *PrototypeValue) Default(name string) (Value, bool) {
	v, ok := p.defaults[name]
	return v, ok
}

// Names returns the members with defaults in the order they were set.
func (p *PrototypeValue) Names() []string { return p.names }

func (p *PrototypeValue) Clone() Value {
	c := NewPrototypeValue(p.aggregate)
	c.valueBase = p.valueBase
	for _, name := range p.names {
		c.SetDefault(name, p.defaults[name].Clone())
	}
	return c
}
