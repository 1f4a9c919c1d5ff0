package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// bindVariables binds a symbol for every top-level object and graph
// definition before any body is analyzed, so definitions can refer to each
// other regardless of order.
func (a *Analyzer) bindVariables(root *ast.Node) {
	for _, def := range root.Children {
		if def == nil || def.HasErrors() {
			continue
		}
		switch def.Kind {
		case ast.KindObjectDefinition:
			a.bindObject(def)
		case ast.KindDotDefinition:
			a.bindGraph(def)
		}
	}
}

func (a *Analyzer) bindObject(def *ast.Node) {
	name := def.IdName()
	if _, exists := a.file.Resolve(name, true); exists {
		a.errorf(diagnostics.ErrA002, def, "already defined object of name '%s'", name)
		return
	}

	t, resolved := a.resolveTypeNode(def.TypeSpecifier())
	sym := symbols.NewVariable(name, a.file, t)
	a.file.Bind(sym)
	a.table().AddDefinition(def, sym)
	a.table().AddReference(def.IdNode(), sym)

	if !resolved {
		// The type may be bound by an import.
		a.deferred = append(a.deferred, func() {
			if t, ok := a.resolveTypeNode(def.TypeSpecifier()); ok {
				sym.SetDataType(t)
				return
			}
			a.errorf(diagnostics.ErrA003, def.TypeSpecifier(), "could not resolve type '%s'", def.TypeSpecifier().Name)
		})
	}
}

func (a *Analyzer) bindGraph(def *ast.Node) {
	name := def.IdName()
	if _, exists := a.file.Resolve(name, true); exists {
		a.errorf(diagnostics.ErrA002, def, "already defined object of name '%s'", name)
		return
	}
	sym := symbols.NewVariable(name, a.file, symbols.GraphType)
	a.file.Bind(sym)
	a.table().AddDefinition(def, sym)
	a.table().AddReference(def.IdNode(), sym)
}
