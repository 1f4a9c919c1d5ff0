package symbols

// Proxy is implemented by symbols an import bound into another file.
type Proxy interface {
	Symbol
	Original() Symbol
	// SourceFile is the file scope the original symbol lives in.
	SourceFile() *FileScope
}

// ImportAggregateTypeSymbol stands in for an aggregate type defined in
// another file.
type ImportAggregateTypeSymbol struct {
	BaseSymbol
	original *AggregateType
	file     *FileScope
}

func NewImportAggregateTypeSymbol(name string, scope Scope, original *AggregateType, file *FileScope) *ImportAggregateTypeSymbol {
	return &ImportAggregateTypeSymbol{
		BaseSymbol: NewBaseSymbol(name, scope, original),
		original:   original,
		file:       file,
	}
}

func (s *ImportAggregateTypeSymbol) Kind() SymbolKind       { return ProxySymbol }
func (s *ImportAggregateTypeSymbol) Original() Symbol       { return s.original }
func (s *ImportAggregateTypeSymbol) SourceFile() *FileScope { return s.file }

// ImportFunctionSymbol stands in for a function defined in another file.
type ImportFunctionSymbol struct {
	BaseSymbol
	original *FunctionSymbol
	file     *FileScope
}

func NewImportFunctionSymbol(name string, scope Scope, original *FunctionSymbol, file *FileScope) *ImportFunctionSymbol {
	return &ImportFunctionSymbol{
		BaseSymbol: NewBaseSymbol(name, scope, original.DataType()),
		original:   original,
		file:       file,
	}
}

func (s *ImportFunctionSymbol) Kind() SymbolKind            { return ProxySymbol }
func (s *ImportFunctionSymbol) Original() Symbol            { return s.original }
func (s *ImportFunctionSymbol) SourceFile() *FileScope      { return s.file }
func (s *ImportFunctionSymbol) CallableKind() CallableKind  { return UserDefinedCallable }
func (s *ImportFunctionSymbol) FunctionType() *FunctionType { return s.original.FunctionType() }

// Unwrap follows proxies to the symbol they stand in for.
func Unwrap(sym Symbol) Symbol {
	for {
		p, ok := sym.(Proxy)
		if !ok {
			return sym
		}
		sym = p.Original()
	}
}
