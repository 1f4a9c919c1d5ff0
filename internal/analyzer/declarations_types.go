package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// bindTypes creates the aggregate types declared by entity_type and
// item_type definitions.
func (a *Analyzer) bindTypes(root *ast.Node) {
	for _, def := range root.Children {
		if def == nil || def.HasErrors() {
			continue
		}
		switch def.Kind {
		case ast.KindPrototypeDefinition:
			a.bindEntityType(def)
		case ast.KindItemPrototypeDefinition:
			a.bindItemType(def)
		}
	}
	a.preconstructContainerTypes(root)
}

func (a *Analyzer) checkTypeNameFree(def *ast.Node) bool {
	name := def.IdName()
	if _, exists := a.file.Resolve(name, true); exists {
		a.errorf(diagnostics.ErrA002, def, "symbol with name '%s' already defined", name)
		return false
	}
	return true
}

// bindEntityType gives the new type one member per component, named and
// typed after the component type.
func (a *Analyzer) bindEntityType(def *ast.Node) {
	if !a.checkTypeNameFree(def) {
		return
	}
	t := symbols.NewAggregateType(def.IdName(), a.file, a.file)
	t.Origin = symbols.OriginPrototype
	t.CreationNode = def

	ok := true
	for _, comp := range def.Components() {
		if comp == nil || comp.HasErrors() {
			ok = false
			continue
		}
		compName := comp.IdName()
		compType, found := a.resolveGlobalType(compName)
		if !found {
			a.errorf(diagnostics.ErrA003, comp, "could not resolve component type '%s'", compName)
			ok = false
			continue
		}
		if _, isAggregate := compType.(*symbols.AggregateType); !isAggregate {
			a.errorf(diagnostics.ErrA003, comp, "component '%s' is not an aggregate type", compName)
			ok = false
			continue
		}
		member := symbols.NewVariable(compName, t, compType)
		if !t.Bind(member) {
			a.errorf(diagnostics.ErrA002, comp, "component '%s' defined twice in '%s'", compName, t.Name())
			ok = false
			continue
		}
		a.table().AddDefinition(comp, member)
	}
	if !ok {
		return
	}
	a.file.Bind(t)
	a.table().AddDefinition(def, t)
}

// bindItemType builds a type whose members are the quest_item members the
// definition assigns.
func (a *Analyzer) bindItemType(def *ast.Node) {
	if !a.checkTypeNameFree(def) {
		return
	}
	questItem, found := a.resolveGlobalType(config.QuestItemTypeName)
	base, isAggregate := questItem.(*symbols.AggregateType)
	if !found || !isAggregate {
		a.errorf(diagnostics.ErrA003, def, "'%s' is not available as an aggregate type", config.QuestItemTypeName)
		return
	}

	t := symbols.NewAggregateType(def.IdName(), a.file, a.file)
	t.Origin = symbols.OriginItem
	t.CreationNode = def
	t.HostType = base.HostType

	ok := true
	for _, prop := range def.Properties() {
		if prop == nil || prop.HasErrors() {
			ok = false
			continue
		}
		propName := prop.IdName()
		baseMember, found := base.Member(propName)
		if !found {
			a.errorf(diagnostics.ErrA006, prop, "cannot resolve property '%s' in type '%s'", propName, base.Name())
			ok = false
			continue
		}
		member := symbols.NewVariable(propName, t, baseMember.DataType())
		if !t.Bind(member) {
			a.errorf(diagnostics.ErrA002, prop, "property '%s' defined twice in '%s'", propName, t.Name())
			ok = false
			continue
		}
		a.table().AddDefinition(prop, member)
	}
	if !ok {
		return
	}
	a.file.Bind(t)
	a.table().AddDefinition(def, t)
}
