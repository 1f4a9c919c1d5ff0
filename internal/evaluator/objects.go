package evaluator

import (
	"reflect"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
	"github.com/funvibe/questlang/internal/taskgraph"
)

// Namer is implemented by host objects that take the name of the
// definition they were built from.
type Namer interface {
	SetName(name string)
}

// finalize completes a pending top-level object or graph; other values
// are returned unchanged.
func (in *Interpreter) finalize(v Value) (Value, error) {
	if def, ok := in.pending[v]; ok {
		agg, ok := v.(*AggregateValue)
		if !ok {
			delete(in.pending, v)
			return v, nil
		}
		if err := in.finalizeObject(agg, def); err != nil {
			return nil, err
		}
		return v, nil
	}
	if g, ok := v.(*Scalar); ok {
		if def, ok := in.pendingGraphs[g]; ok {
			if err := in.finalizeGraph(g, def); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// finalizeObject runs the property definitions of an object definition
// against its value, then hands the value to the type instantiator. The
// object leaves the pending set first, so properties referring back to it
// see it unfinalized instead of recursing.
func (in *Interpreter) finalizeObject(v *AggregateValue, def pendingDef) error {
	delete(in.pending, v)
	if v.IsEncapsulated() {
		return nil
	}
	t, ok := v.AggregateType()
	if !ok {
		return in.errorf(diagnostics.ErrR003, def.node, "'%s' is not an aggregate", def.node.IdName())
	}

	in.pushFile(def.file, in.fileSpace(def.file))
	defer in.popFile()
	if t.Name() == config.AssignTaskTypeName {
		local := NewSpace(in.currentSpace())
		local.Bind(config.EmptyElementName, NewScalar(symbols.StringType, config.EmptyElementName))
		in.pushSpace(local)
		defer in.popSpace()
	}

	if err := in.evalProperties(v, def.node.Properties()); err != nil {
		return err
	}
	name := def.node.IdName()
	if m, ok := v.Member(config.NameMemberName); ok && !m.IsDirty() {
		if err := in.assign(m, NewScalar(symbols.StringType, name)); err != nil {
			return err
		}
	}
	if err := in.encapsulate(v, t, name); err != nil {
		return err
	}
	in.logger.Debug("object finalized", "name", name, "type", t.Name())
	return nil
}

// encapsulate instantiates v as its host object and makes the host object
// v's storage. A non-empty name is passed to Namer hosts.
func (in *Interpreter) encapsulate(v *AggregateValue, t *symbols.AggregateType, name string) error {
	host, err := in.inst.InstantiateAsType(v, t)
	if err != nil {
		return in.errorf(diagnostics.ErrR005, t.CreationNode, "instantiate '%s': %v", t.Name(), err)
	}
	rv := reflect.ValueOf(host)
	if host == nil || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return in.errorf(diagnostics.ErrR005, t.CreationNode, "instantiator returned %T for '%s'", host, t.Name())
	}
	if n, ok := host.(Namer); ok && name != "" {
		n.SetName(name)
	}
	v.SetMemorySpace(NewEncapsulatedObject(host, t, in.inst))
	v.SetInternal(host)
	return nil
}

// finalizeGraph builds the task graph of a graph definition. Nodes are the
// host objects of the referenced definitions.
func (in *Interpreter) finalizeGraph(g *Scalar, def pendingDef) error {
	delete(in.pendingGraphs, g)

	in.pushFile(def.file, in.fileSpace(def.file))
	defer in.popFile()

	graph := taskgraph.New(def.node.IdName())
	addNode := func(id *ast.Node) error {
		v, err := in.evalIdentifier(id)
		if err != nil {
			return err
		}
		host := v.Internal()
		if host == nil {
			return in.errorf(diagnostics.ErrR005, id, "graph node '%s' has no host object", id.Name)
		}
		graph.AddNode(id.Name, host)
		return nil
	}

	for _, stmt := range def.node.DotStmts() {
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.KindDotNodeStmt:
			if err := addNode(stmt.IdNode()); err != nil {
				return err
			}
		case ast.KindDotEdgeStmt:
			edgeType, err := in.edgeType(stmt)
			if err != nil {
				return err
			}
			operands := stmt.EdgeOperands()
			for _, list := range operands {
				for _, id := range list.Children {
					if err := addNode(id); err != nil {
						return err
					}
				}
			}
			for i := 0; i+1 < len(operands); i++ {
				for _, from := range operands[i].Children {
					for _, to := range operands[i+1].Children {
						if err := graph.AddEdge(from.Name, to.Name, edgeType); err != nil {
							return in.errorf(diagnostics.ErrR003, stmt, "%v", err)
						}
					}
				}
			}
		}
	}

	g.Set(graph)
	g.SetDirty(true)
	in.logger.Debug("graph finalized", "name", graph.Name, "nodes", len(graph.Nodes()), "edges", len(graph.Edges()))
	return nil
}

func (in *Interpreter) edgeType(stmt *ast.Node) (taskgraph.EdgeType, error) {
	for _, attr := range stmt.Attributes() {
		if attr.IdName() != config.EdgeTypeAttribute {
			continue
		}
		value := attr.Child(1)
		t, err := taskgraph.ParseEdgeType(value.Name)
		if err != nil {
			return 0, in.errorf(diagnostics.ErrR003, attr, "%v", err)
		}
		return t, nil
	}
	return taskgraph.Sequence, nil
}
