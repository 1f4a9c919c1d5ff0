package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// bindFunctions creates a FunctionSymbol per function definition. A
// signature naming a type that is not bound yet is retried after imports.
func (a *Analyzer) bindFunctions(root *ast.Node) {
	for _, def := range root.Children {
		if def == nil || def.HasErrors() || def.Kind != ast.KindFuncDefinition {
			continue
		}
		if !a.bindFunction(def, false) {
			def := def
			a.deferred = append(a.deferred, func() { a.bindFunction(def, true) })
		}
	}
}

// bindFunction reports false when the signature could not be resolved yet
// and final is false.
func (a *Analyzer) bindFunction(def *ast.Node, final bool) bool {
	name := def.IdName()
	if _, exists := a.file.Resolve(name, true); exists {
		a.errorf(diagnostics.ErrA002, def, "function '%s' already defined", name)
		return true
	}

	ret := symbols.Type(symbols.NoneType)
	if retNode := def.TypeSpecifier(); retNode != nil {
		t, ok := a.resolveTypeNode(retNode)
		if !ok {
			if final {
				a.errorf(diagnostics.ErrA003, retNode, "could not resolve return type '%s' of function '%s'", retNode.Name, name)
			}
			return false
		}
		ret = t
	}

	params := def.Params()
	paramTypes := make([]symbols.Type, 0, len(params))
	for _, p := range params {
		t, ok := a.resolveTypeNode(p.TypeSpecifier())
		if !ok {
			if final {
				a.errorf(diagnostics.ErrA003, p, "could not resolve type '%s' of parameter '%s'", p.TypeSpecifier().Name, p.IdName())
			}
			return false
		}
		paramTypes = append(paramTypes, t)
	}

	ft := symbols.EnsureFunctionType(a.env.GlobalScope(), ret, paramTypes...)
	fn := symbols.NewFunctionSymbol(name, a.file, ft, def)
	for i, p := range params {
		v := symbols.NewVariable(p.IdName(), fn, paramTypes[i])
		if !fn.Bind(v) {
			a.errorf(diagnostics.ErrA002, p, "parameter '%s' of function '%s' defined twice", p.IdName(), name)
			return true
		}
		a.table().AddDefinition(p, v)
		a.table().AddReference(p.IdNode(), v)
	}

	a.file.Bind(fn)
	a.table().AddDefinition(def, fn)
	return true
}
