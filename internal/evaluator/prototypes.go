package evaluator

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// prototype returns the prototype of an entity or item type, building it
// on first use and binding it under the type name in its file's space.
func (in *Interpreter) prototype(t *symbols.AggregateType) (*PrototypeValue, error) {
	if p, ok := in.prototypes[t]; ok {
		return p, nil
	}
	if in.building[t] {
		return nil, in.errorf(diagnostics.ErrR006, t.CreationNode, "prototype '%s' refers to itself", t.Name())
	}
	in.building[t] = true
	defer delete(in.building, t)

	fs := symbols.EnclosingFile(t.Scope())
	space := in.fileSpace(fs)
	in.pushFile(fs, space)
	defer in.popFile()

	proto := NewPrototypeValue(t)
	node := t.CreationNode
	switch {
	case node == nil:
	case node.Kind == ast.KindPrototypeDefinition:
		for _, comp := range node.Components() {
			member, ok := t.Member(comp.IdName())
			if !ok {
				continue
			}
			compType, ok := unwrapType(member.DataType()).(*symbols.AggregateType)
			if !ok {
				return nil, in.errorf(diagnostics.ErrR003, comp, "component '%s' is not an aggregate", comp.IdName())
			}
			nested := NewPrototypeValue(compType)
			if err := in.setDefaults(nested, compType, comp.Properties()); err != nil {
				return nil, err
			}
			proto.SetDefault(comp.IdName(), nested)
		}
	case node.Kind == ast.KindItemPrototypeDefinition:
		if err := in.setDefaults(proto, t, node.Properties()); err != nil {
			return nil, err
		}
	}

	in.prototypes[t] = proto
	if !space.Bind(t.Name(), proto) {
		space.Set(t.Name(), proto)
	}
	in.logger.Debug("prototype built", "type", t.Name(), "defaults", len(proto.Names()))
	return proto, nil
}

// setDefaults evaluates property initializers into defaults of the
// members' declared types, marked dirty.
func (in *Interpreter) setDefaults(p *PrototypeValue, t *symbols.AggregateType, props []*ast.Node) error {
	for _, prop := range props {
		if prop == nil {
			continue
		}
		member, ok := t.Member(prop.IdName())
		if !ok {
			return in.errorf(diagnostics.ErrR001, prop, "type '%s' has no property '%s'", t.Name(), prop.IdName())
		}
		value, err := in.evalExpr(prop.Expr())
		if err != nil {
			return err
		}
		d, err := in.coerce(member.DataType(), value)
		if err != nil {
			return err
		}
		d.SetDirty(true)
		p.SetDefault(prop.IdName(), d)
	}
	return nil
}

// InstantiateDSLValue stamps a fresh aggregate from a prototype: each
// member gets the prototype default, instantiated or cloned, or the zero
// value of its type.
func (in *Interpreter) InstantiateDSLValue(proto *PrototypeValue) (*AggregateValue, error) {
	t := proto.Type()
	space := NewSpace(nil)
	for _, m := range t.Members() {
		var v Value
		if d, ok := proto.Default(m.Name()); ok {
			if nested, ok := d.(*PrototypeValue); ok {
				nv, err := in.InstantiateDSLValue(nested)
				if err != nil {
					return nil, err
				}
				nv.SetDirty(true)
				v = nv
			} else {
				v = d.Clone()
			}
		} else {
			d, err := in.createDefault(m.DataType())
			if err != nil {
				return nil, err
			}
			v = d
		}
		space.Bind(m.Name(), v)
	}
	return NewAggregateValue(t, space), nil
}

// AsPrototype extracts a prototype from a value, also when it is held by a
// scalar of a prototype type.
func AsPrototype(v Value) (*PrototypeValue, bool) {
	switch p := v.(type) {
	case *PrototypeValue:
		return p, true
	case *Scalar:
		proto, ok := p.value.(*PrototypeValue)
		return proto, ok
	}
	return nil, false
}
