package symbols

import (
	"fmt"
	"strings"

	"github.com/funvibe/questlang/internal/ast"
)

// ListType is `T[]`. Container types are scopes holding their built-in
// methods.
type ListType struct {
	BaseSymbol
	table
	Element Type
}

func (t *ListType) Kind() SymbolKind   { return TypeSymbol }
func (t *ListType) TypeKind() TypeKind { return ListKind }
func (t *ListType) DataType() Type     { return t }
func (t *ListType) Parent() Scope      { return nil }
func (t *ListType) Bind(sym Symbol) bool {
	return t.bind(sym)
}
func (t *ListType) Resolve(name string, _ bool) (Symbol, bool) {
	return t.lookup(name)
}

// SetType is `T<>`.
type SetType struct {
	BaseSymbol
	table
	Element Type
}

func (t *SetType) Kind() SymbolKind   { return TypeSymbol }
func (t *SetType) TypeKind() TypeKind { return SetKind }
func (t *SetType) DataType() Type     { return t }
func (t *SetType) Parent() Scope      { return nil }
func (t *SetType) Bind(sym Symbol) bool {
	return t.bind(sym)
}
func (t *SetType) Resolve(name string, _ bool) (Symbol, bool) {
	return t.lookup(name)
}

// MapType is `[K->V]`.
type MapType struct {
	BaseSymbol
	table
	Key     Type
	Element Type
}

func (t *MapType) Kind() SymbolKind   { return TypeSymbol }
func (t *MapType) TypeKind() TypeKind { return MapKind }
func (t *MapType) DataType() Type     { return t }
func (t *MapType) Parent() Scope      { return nil }
func (t *MapType) Bind(sym Symbol) bool {
	return t.bind(sym)
}
func (t *MapType) Resolve(name string, _ bool) (Symbol, bool) {
	return t.lookup(name)
}

// ElementType returns the element type of a list or set, the value type of
// a map, and nil otherwise.
func ElementType(t Type) Type {
	switch ct := t.(type) {
	case *ListType:
		return ct.Element
	case *SetType:
		return ct.Element
	case *MapType:
		return ct.Element
	}
	return nil
}

// EnsureListType returns the list type of elem, constructing and binding it
// in global on first request.
func EnsureListType(global *GlobalScope, elem Type) *ListType {
	name := ast.ListTypeName(elem.Name())
	if sym, ok := global.Resolve(name, false); ok {
		if lt, ok := sym.(*ListType); ok {
			return lt
		}
	}
	lt := &ListType{BaseSymbol: NewBaseSymbol(name, global, nil), Element: elem}
	global.Bind(lt)
	global.installMethods(lt, lt)
	return lt
}

// EnsureSetType is EnsureListType for sets.
func EnsureSetType(global *GlobalScope, elem Type) *SetType {
	name := ast.SetTypeName(elem.Name())
	if sym, ok := global.Resolve(name, false); ok {
		if st, ok := sym.(*SetType); ok {
			return st
		}
	}
	st := &SetType{BaseSymbol: NewBaseSymbol(name, global, nil), Element: elem}
	global.Bind(st)
	global.installMethods(st, st)
	return st
}

// EnsureMapType is EnsureListType for maps.
func EnsureMapType(global *GlobalScope, key, elem Type) *MapType {
	name := ast.MapTypeName(key.Name(), elem.Name())
	if sym, ok := global.Resolve(name, false); ok {
		if mt, ok := sym.(*MapType); ok {
			return mt
		}
	}
	mt := &MapType{BaseSymbol: NewBaseSymbol(name, global, nil), Key: key, Element: elem}
	global.Bind(mt)
	global.installMethods(mt, mt)
	return mt
}

func (s *GlobalScope) installMethods(t Type, into Scope) {
	if s.methods == nil {
		return
	}
	for _, m := range s.methods.ContainerMethods(t) {
		into.Bind(m)
	}
}

// ResolveTypeName resolves a structural type name such as `int`,
// `entity<><>`, `string[]` or `[string->content[]]`, constructing missing
// container types.
func ResolveTypeName(global *GlobalScope, name string) (Type, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("empty type name")
	case strings.HasPrefix(name, "fn("):
		return resolveFunctionTypeName(global, name)
	case strings.HasSuffix(name, "[]"):
		elem, err := ResolveTypeName(global, strings.TrimSuffix(name, "[]"))
		if err != nil {
			return nil, err
		}
		return EnsureListType(global, elem), nil
	case strings.HasSuffix(name, "<>"):
		elem, err := ResolveTypeName(global, strings.TrimSuffix(name, "<>"))
		if err != nil {
			return nil, err
		}
		return EnsureSetType(global, elem), nil
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		inner := name[1 : len(name)-1]
		idx := topLevelArrow(inner)
		if idx < 0 {
			return nil, fmt.Errorf("malformed map type name %q", name)
		}
		key, err := ResolveTypeName(global, inner[:idx])
		if err != nil {
			return nil, err
		}
		elem, err := ResolveTypeName(global, inner[idx+2:])
		if err != nil {
			return nil, err
		}
		return EnsureMapType(global, key, elem), nil
	}
	sym, ok := global.Resolve(name, false)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	t, ok := sym.(Type)
	if !ok {
		return nil, fmt.Errorf("%q is not a type", name)
	}
	return t, nil
}

// resolveFunctionTypeName parses `fn(a,b)->r` as produced by
// FunctionTypeName.
func resolveFunctionTypeName(global *GlobalScope, name string) (Type, error) {
	closing := matchingParen(name, len("fn"))
	if closing < 0 || !strings.HasPrefix(name[closing+1:], "->") {
		return nil, fmt.Errorf("malformed function type name %q", name)
	}
	ret, err := ResolveTypeName(global, name[closing+3:])
	if err != nil {
		return nil, err
	}
	var params []Type
	if inner := strings.TrimSpace(name[len("fn("):closing]); inner != "" {
		for _, part := range splitTopLevel(inner) {
			p, err := ResolveTypeName(global, part)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
	}
	return EnsureFunctionType(global, ret, params...), nil
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits on commas outside brackets and parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// topLevelArrow finds the "->" separating key and value of a map type name,
// skipping arrows of nested map types.
func topLevelArrow(s string) int {
	depth := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '-':
			if depth == 0 && s[i+1] == '>' {
				return i
			}
		}
	}
	return -1
}
