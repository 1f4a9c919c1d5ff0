package symbols

type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	TypeSymbol
	CallableSymbol
	ProxySymbol
	EnumVariantSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case VariableSymbol:
		return "variable"
	case TypeSymbol:
		return "type"
	case CallableSymbol:
		return "callable"
	case ProxySymbol:
		return "import"
	case EnumVariantSymbol:
		return "enum variant"
	}
	return "unknown"
}

// Symbol is anything that can be bound to a name in a Scope. Types are
// symbols too.
type Symbol interface {
	Name() string
	// Scope is the enclosing scope; a back reference, never owned.
	Scope() Scope
	DataType() Type
	Kind() SymbolKind
}

// BaseSymbol carries the fields every symbol has. Other packages embed it
// to define their own symbols (native functions).
type BaseSymbol struct {
	name     string
	scope    Scope
	dataType Type
}

func NewBaseSymbol(name string, scope Scope, dataType Type) BaseSymbol {
	return BaseSymbol{name: name, scope: scope, dataType: dataType}
}

func (s *BaseSymbol) Name() string   { return s.name }
func (s *BaseSymbol) Scope() Scope   { return s.scope }
func (s *BaseSymbol) DataType() Type { return s.dataType }

// SetDataType is used by passes that learn a symbol's type after creation.
func (s *BaseSymbol) SetDataType(t Type) { s.dataType = t }

// Variable is a plain value symbol: object definitions, parameters, locals,
// members of aggregate types.
type Variable struct {
	BaseSymbol
}

func NewVariable(name string, scope Scope, dataType Type) *Variable {
	return &Variable{BaseSymbol: NewBaseSymbol(name, scope, dataType)}
}

func (v *Variable) Kind() SymbolKind { return VariableSymbol }

// TypeName returns the name of s's data type, or "none".
func TypeName(s Symbol) string {
	if s == nil || s.DataType() == nil {
		return "none"
	}
	return s.DataType().Name()
}
