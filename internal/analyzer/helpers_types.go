package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/symbols"
)

// resolveTypeNode resolves a type identifier, constructing container types
// on demand. Imported aggregate types resolve to the original type.
func (a *Analyzer) resolveTypeNode(n *ast.Node) (symbols.Type, bool) {
	if n == nil {
		return nil, false
	}
	global := a.env.GlobalScope()
	var t symbols.Type
	switch n.Kind {
	case ast.KindIdentifier:
		t = a.resolveTypeName(n.Name)
	case ast.KindListTypeIdentifier:
		elem, ok := a.resolveTypeNode(n.ElementType())
		if !ok {
			return nil, false
		}
		t = symbols.EnsureListType(global, elem)
	case ast.KindSetTypeIdentifier:
		elem, ok := a.resolveTypeNode(n.ElementType())
		if !ok {
			return nil, false
		}
		t = symbols.EnsureSetType(global, elem)
	case ast.KindMapTypeIdentifier:
		key, ok := a.resolveTypeNode(n.KeyType())
		if !ok {
			return nil, false
		}
		elem, ok := a.resolveTypeNode(n.ElementType())
		if !ok {
			return nil, false
		}
		t = symbols.EnsureMapType(global, key, elem)
	}
	if t == nil {
		return nil, false
	}
	a.table().AddReference(n, t)
	return t, true
}

// resolveTypeName walks the scope stack skipping aggregate scopes, whose
// members would otherwise shadow component types of the same name.
func (a *Analyzer) resolveTypeName(name string) symbols.Type {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		scope := a.scopes[i]
		if isTypeScope(scope) {
			continue
		}
		if sym, ok := scope.Resolve(name, true); ok {
			return asType(sym)
		}
		return nil
	}
	return nil
}

func asType(sym symbols.Symbol) symbols.Type {
	t, _ := symbols.Unwrap(sym).(symbols.Type)
	return t
}

// resolveGlobalType looks name up in the global scope only.
func (a *Analyzer) resolveGlobalType(name string) (symbols.Type, bool) {
	sym, ok := a.env.GlobalScope().Resolve(name, false)
	if !ok {
		return nil, false
	}
	t := asType(sym)
	return t, t != nil
}

// preconstructContainerTypes builds every container type named in root so
// later passes and the interpreter find them bound.
func (a *Analyzer) preconstructContainerTypes(root *ast.Node) {
	ast.Walk(root, func(n *ast.Node) bool {
		if n.HasErrors() {
			return false
		}
		switch n.Kind {
		case ast.KindListTypeIdentifier, ast.KindSetTypeIdentifier, ast.KindMapTypeIdentifier:
			a.resolveTypeNode(n)
			return false
		}
		return true
	})
}
