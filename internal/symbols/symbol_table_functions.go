package symbols

import (
	"strings"

	"github.com/funvibe/questlang/internal/ast"
)

// FunctionType's identity is its return type plus ordered parameter types.
type FunctionType struct {
	BaseSymbol
	Return Type
	Params []Type
}

func (t *FunctionType) Kind() SymbolKind   { return TypeSymbol }
func (t *FunctionType) TypeKind() TypeKind { return FunctionKind }
func (t *FunctionType) DataType() Type     { return t }

// FunctionTypeName renders the structural name FunctionTypes are
// de-duplicated by.
func FunctionTypeName(ret Type, params []Type) string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.Name())
	}
	sb.WriteString(")->")
	if ret == nil {
		sb.WriteString(NoneType.Name())
	} else {
		sb.WriteString(ret.Name())
	}
	return sb.String()
}

// EnsureFunctionType returns the function type for the signature,
// constructing and binding it in global on first request.
func EnsureFunctionType(global *GlobalScope, ret Type, params ...Type) *FunctionType {
	if ret == nil {
		ret = NoneType
	}
	name := FunctionTypeName(ret, params)
	if sym, ok := global.Resolve(name, false); ok {
		if ft, ok := sym.(*FunctionType); ok {
			return ft
		}
	}
	ft := &FunctionType{BaseSymbol: NewBaseSymbol(name, global, nil), Return: ret, Params: params}
	global.Bind(ft)
	return ft
}

type CallableKind int

const (
	NativeCallable CallableKind = iota
	UserDefinedCallable
)

// Callable is a symbol that can be invoked.
type Callable interface {
	Symbol
	CallableKind() CallableKind
	FunctionType() *FunctionType
}

// FunctionSymbol is a user-defined function. It is also the scope its
// parameters are bound in.
type FunctionSymbol struct {
	BaseSymbol
	table
	// Node is the FuncDefinition the symbol was created from.
	Node *ast.Node
}

func NewFunctionSymbol(name string, scope Scope, ft *FunctionType, node *ast.Node) *FunctionSymbol {
	return &FunctionSymbol{BaseSymbol: NewBaseSymbol(name, scope, ft), Node: node}
}

func (f *FunctionSymbol) Kind() SymbolKind           { return CallableSymbol }
func (f *FunctionSymbol) CallableKind() CallableKind { return UserDefinedCallable }
func (f *FunctionSymbol) Parent() Scope              { return f.Scope() }
func (f *FunctionSymbol) Bind(sym Symbol) bool {
	return f.bind(sym)
}
func (f *FunctionSymbol) Resolve(name string, searchParents bool) (Symbol, bool) {
	return resolveIn(&f.table, f.Scope(), name, searchParents)
}

func (f *FunctionSymbol) FunctionType() *FunctionType {
	ft, _ := f.DataType().(*FunctionType)
	return ft
}

// Parameters returns the parameter symbols in declaration order.
func (f *FunctionSymbol) Parameters() []Symbol {
	return f.Symbols()
}
