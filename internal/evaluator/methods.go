package evaluator

import (
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// ContainerMethods provides the built-in methods of list, set and map
// types: add, size and get on lists; add, size and contains on sets; add,
// get, size, keys and values on maps.
type ContainerMethods struct {
	global *symbols.GlobalScope
}

// InstallContainerMethods makes every container type constructed in global
// from now on carry the built-in methods.
func InstallContainerMethods(global *symbols.GlobalScope) {
	global.SetMethodProvider(&ContainerMethods{global: global})
}

func (m *ContainerMethods) ContainerMethods(container symbols.Type) []symbols.Symbol {
	g := m.global
	scope, _ := container.(symbols.Scope)
	method := func(name string, impl NativeImpl, ret symbols.Type, params ...symbols.Type) symbols.Symbol {
		return NewNativeFunction(name, scope, symbols.EnsureFunctionType(g, ret, params...), impl)
	}

	switch t := container.(type) {
	case *symbols.ListType:
		return []symbols.Symbol{
			method(config.AddMethodName, listAdd, symbols.NoneType, t.Element),
			method(config.SizeMethodName, containerSize, symbols.IntType),
			method(config.GetMethodName, listGet, t.Element, symbols.IntType),
		}
	case *symbols.SetType:
		return []symbols.Symbol{
			method(config.AddMethodName, setAdd, symbols.BoolType, t.Element),
			method(config.SizeMethodName, containerSize, symbols.IntType),
			method(config.ContainsMethodName, setContains, symbols.BoolType, t.Element),
		}
	case *symbols.MapType:
		return []symbols.Symbol{
			method(config.AddMethodName, mapAdd, symbols.NoneType, t.Key, t.Element),
			method(config.GetMethodName, mapGet, t.Element, t.Key),
			method(config.SizeMethodName, containerSize, symbols.IntType),
			method(config.KeysMethodName, mapKeys, symbols.EnsureListType(g, t.Key)),
			method(config.ValuesMethodName, mapValues, symbols.EnsureListType(g, t.Element)),
		}
	}
	return nil
}

// receiver returns the container a method was called on. For a container
// living in a host field the returned commit writes it back.
func (in *Interpreter) receiver(args []Value, want int) (Value, func() error, error) {
	if len(args) != want+1 {
		return nil, nil, in.errorf(diagnostics.ErrR003, nil, "method takes %d arguments, got %d", want, len(args)-1)
	}
	field, ok := args[0].(*EncapsulatedField)
	if !ok {
		return args[0], func() error { return nil }, nil
	}
	v, err := field.Translate()
	if err != nil {
		return nil, nil, in.errorf(diagnostics.ErrR005, nil, "read host container: %v", err)
	}
	commit := func() error {
		return in.assign(field, v)
	}
	return v, commit, nil
}

func listAdd(in *Interpreter, args []Value) (Value, error) {
	recv, commit, err := in.receiver(args, 1)
	if err != nil {
		return nil, err
	}
	list, ok := recv.(*ListValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "add on '%s'", typeName(recv))
	}
	v, err := in.coerce(symbols.ElementType(list.dataType), args[1])
	if err != nil {
		return nil, err
	}
	list.Add(v)
	return NoneValue(), commit()
}

func listGet(in *Interpreter, args []Value) (Value, error) {
	recv, _, err := in.receiver(args, 1)
	if err != nil {
		return nil, err
	}
	list, ok := recv.(*ListValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "get on '%s'", typeName(recv))
	}
	i, ok := args[1].Internal().(int64)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "list index of type '%s'", typeName(args[1]))
	}
	v, ok := list.Get(int(i))
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "list index %d out of range [0, %d)", i, list.Len())
	}
	return v, nil
}

func setAdd(in *Interpreter, args []Value) (Value, error) {
	recv, commit, err := in.receiver(args, 1)
	if err != nil {
		return nil, err
	}
	set, ok := recv.(*SetValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "add on '%s'", typeName(recv))
	}
	v, err := in.coerce(symbols.ElementType(set.dataType), args[1])
	if err != nil {
		return nil, err
	}
	added := set.Add(v)
	return NewScalar(symbols.BoolType, added), commit()
}

func setContains(in *Interpreter, args []Value) (Value, error) {
	recv, _, err := in.receiver(args, 1)
	if err != nil {
		return nil, err
	}
	set, ok := recv.(*SetValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "contains on '%s'", typeName(recv))
	}
	return NewScalar(symbols.BoolType, set.Contains(in.plain(args[1]))), nil
}

func containerSize(in *Interpreter, args []Value) (Value, error) {
	recv, _, err := in.receiver(args, 0)
	if err != nil {
		return nil, err
	}
	var n int
	switch c := recv.(type) {
	case *ListValue:
		n = c.Len()
	case *SetValue:
		n = c.Len()
	case *MapValue:
		n = c.Len()
	default:
		return nil, in.errorf(diagnostics.ErrR003, nil, "size on '%s'", typeName(recv))
	}
	return NewScalar(symbols.IntType, int64(n)), nil
}

func mapAdd(in *Interpreter, args []Value) (Value, error) {
	recv, commit, err := in.receiver(args, 2)
	if err != nil {
		return nil, err
	}
	m, ok := recv.(*MapValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "add on '%s'", typeName(recv))
	}
	mt, _ := m.dataType.(*symbols.MapType)
	var keyType, valueType symbols.Type
	if mt != nil {
		keyType, valueType = mt.Key, mt.Element
	}
	k, err := in.coerce(keyType, args[1])
	if err != nil {
		return nil, err
	}
	v, err := in.coerce(valueType, args[2])
	if err != nil {
		return nil, err
	}
	m.Put(k, v)
	return NoneValue(), commit()
}

func mapGet(in *Interpreter, args []Value) (Value, error) {
	recv, _, err := in.receiver(args, 1)
	if err != nil {
		return nil, err
	}
	m, ok := recv.(*MapValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "get on '%s'", typeName(recv))
	}
	v, ok := m.Get(in.plain(args[1]))
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, nil, "map has no key %v", args[1].Internal())
	}
	return v, nil
}

func mapKeys(in *Interpreter, args []Value) (Value, error) {
	return mapEntries(in, args, true)
}

func mapValues(in *Interpreter, args []Value) (Value, error) {
	return mapEntries(in, args, false)
}

func mapEntries(in *Interpreter, args []Value, keys bool) (Value, error) {
	recv, _, err := in.receiver(args, 0)
	if err != nil {
		return nil, err
	}
	m, ok := recv.(*MapValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "keys on '%s'", typeName(recv))
	}
	mt, _ := m.dataType.(*symbols.MapType)
	src, elemType := m.Values(), symbols.Type(nil)
	if keys {
		src = m.Keys()
	}
	if mt != nil {
		elemType = mt.Element
		if keys {
			elemType = mt.Key
		}
	}
	if elemType == nil {
		elemType = symbols.NoneType
	}
	list := NewListValue(symbols.EnsureListType(in.env.GlobalScope(), elemType))
	for _, v := range src {
		list.Add(v)
	}
	return list, nil
}
