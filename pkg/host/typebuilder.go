package host

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/symbols"
	"github.com/funvibe/questlang/internal/taskgraph"
)

// TypeTagName overrides the DSL type of a member.
const TypeTagName = "dsltype"

var (
	graphGoType    = reflect.TypeFor[*taskgraph.Graph]()
	callbackGoType = reflect.TypeFor[*Callback]()
	entityGoType   = reflect.TypeFor[Entity]()
	itemGoType     = reflect.TypeFor[QuestItem]()
	anyGoType      = reflect.TypeFor[any]()
)

// TypeBuilder mirrors Go structs as DSL aggregate types and maps types in
// both directions.
type TypeBuilder struct {
	global *symbols.GlobalScope
	// declared keeps declaration order; members are added by Complete.
	declared []*symbols.AggregateType
	types    map[reflect.Type]*symbols.AggregateType
	enums    map[reflect.Type]*symbols.EnumType
}

func NewTypeBuilder(global *symbols.GlobalScope) *TypeBuilder {
	return &TypeBuilder{
		global: global,
		types:  make(map[reflect.Type]*symbols.AggregateType),
		enums:  make(map[reflect.Type]*symbols.EnumType),
	}
}

// Declare binds an aggregate type named name for the struct type of
// sample. Members are added by Complete, so declared types may refer to
// each other.
func (b *TypeBuilder) Declare(name string, sample any) (*symbols.AggregateType, error) {
	goType := reflect.TypeOf(sample)
	for goType != nil && goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	if goType == nil || goType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("host type %s: %T is not a struct", name, sample)
	}
	if existing, ok := b.types[goType]; ok {
		return nil, fmt.Errorf("host type %s: %s is already declared as %s", name, goType, existing.Name())
	}
	t := symbols.NewAggregateType(name, b.global, nil)
	t.Origin = symbols.OriginHost
	t.HostType = goType
	if !b.global.Bind(t) {
		return nil, fmt.Errorf("host type %s: name is already bound", name)
	}
	b.types[goType] = t
	b.declared = append(b.declared, t)
	return t, nil
}

// DeclareEnum binds an enum whose variants are the values of goType in
// order, named by variants.
func (b *TypeBuilder) DeclareEnum(name string, goType reflect.Type, variants []string) (*symbols.EnumType, error) {
	t := symbols.NewEnumType(name, b.global, variants...)
	t.HostType = goType
	if !b.global.Bind(t) {
		return nil, fmt.Errorf("enum %s: name is already bound", name)
	}
	b.enums[goType] = t
	return t, nil
}

// Complete adds one member per tagged field to every declared type that
// has none yet.
func (b *TypeBuilder) Complete() error {
	for _, t := range b.declared {
		if len(t.Members()) > 0 {
			continue
		}
		for i := 0; i < t.HostType.NumField(); i++ {
			f := t.HostType.Field(i)
			tag := f.Tag.Get(evaluator.TagName)
			if tag == "" || tag == "-" || !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			memberType, err := b.fieldType(f)
			if err != nil {
				return fmt.Errorf("host type %s, field %s: %w", t.Name(), f.Name, err)
			}
			if !t.Bind(symbols.NewVariable(name, t, memberType)) {
				return fmt.Errorf("host type %s: duplicate member %q", t.Name(), name)
			}
		}
	}
	return nil
}

func (b *TypeBuilder) fieldType(f reflect.StructField) (symbols.Type, error) {
	if name := f.Tag.Get(TypeTagName); name != "" {
		return symbols.ResolveTypeName(b.global, name)
	}
	return b.TypeOf(f.Type)
}

// Lookup returns the aggregate type declared for a struct type.
func (b *TypeBuilder) Lookup(goType reflect.Type) (*symbols.AggregateType, bool) {
	t, ok := b.types[goType]
	return t, ok
}

// TypeOf returns the DSL type of a Go type.
func (b *TypeBuilder) TypeOf(goType reflect.Type) (symbols.Type, error) {
	if goType == graphGoType {
		return symbols.GraphType, nil
	}
	if goType == callbackGoType {
		return nil, fmt.Errorf("callback fields need a %s tag", TypeTagName)
	}
	if e, ok := b.enums[goType]; ok {
		return e, nil
	}
	switch goType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return symbols.IntType, nil
	case reflect.Float32, reflect.Float64:
		return symbols.FloatType, nil
	case reflect.String:
		return symbols.StringType, nil
	case reflect.Bool:
		return symbols.BoolType, nil
	case reflect.Pointer:
		if t, ok := b.types[goType.Elem()]; ok {
			return t, nil
		}
	case reflect.Struct:
		if t, ok := b.types[goType]; ok {
			return t, nil
		}
	case reflect.Slice, reflect.Array:
		elem, err := b.TypeOf(goType.Elem())
		if err != nil {
			return nil, err
		}
		return symbols.EnsureListType(b.global, elem), nil
	case reflect.Map:
		key, err := b.TypeOf(goType.Key())
		if err != nil {
			return nil, err
		}
		elem, err := b.TypeOf(goType.Elem())
		if err != nil {
			return nil, err
		}
		return symbols.EnsureMapType(b.global, key, elem), nil
	}
	return nil, fmt.Errorf("no DSL type for %s", goType)
}

// GoType returns the Go type values of a DSL type instantiate to. Sets
// become slices; types without a host representation map to any.
func (b *TypeBuilder) GoType(t symbols.Type) reflect.Type {
	switch tt := symbols.Unwrap(t).(type) {
	case *symbols.BasicType:
		switch tt {
		case symbols.IntType:
			return reflect.TypeFor[int64]()
		case symbols.FloatType:
			return reflect.TypeFor[float64]()
		case symbols.StringType:
			return reflect.TypeFor[string]()
		case symbols.BoolType:
			return reflect.TypeFor[bool]()
		case symbols.GraphType:
			return graphGoType
		}
	case *symbols.AggregateType:
		if st, ok := b.structType(tt); ok {
			return reflect.PointerTo(st)
		}
	case *symbols.ListType:
		return reflect.SliceOf(b.GoType(tt.Element))
	case *symbols.SetType:
		return reflect.SliceOf(b.GoType(tt.Element))
	case *symbols.MapType:
		key := b.GoType(tt.Key)
		if key.Comparable() {
			return reflect.MapOf(key, b.GoType(tt.Element))
		}
	case *symbols.FunctionType:
		return callbackGoType
	case *symbols.EnumType:
		if tt.HostType != nil {
			return tt.HostType
		}
		return reflect.TypeFor[string]()
	}
	return anyGoType
}

// structType returns the struct an aggregate type instantiates to: its
// host type, Entity for entity types and QuestItem for item types.
func (b *TypeBuilder) structType(t *symbols.AggregateType) (reflect.Type, bool) {
	switch {
	case t.HostType != nil:
		return t.HostType, true
	case t.Origin == symbols.OriginPrototype:
		return entityGoType, true
	case t.Origin == symbols.OriginItem:
		return itemGoType, true
	}
	return nil, false
}
