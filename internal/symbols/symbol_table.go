// symbols/symbol_table.go - Main symbol table entry point
//
// The package is split into focused files:
// - symbol_table_core.go: Symbol interface, BaseSymbol, VariableSymbol
// - symbol_table_scopes.go: Scope interface, LocalScope, GlobalScope, FileScope
// - symbol_table_types.go: Type interface, basic, aggregate and enum types
// - symbol_table_containers.go: list/set/map types, construct-or-reuse, type names
// - symbol_table_functions.go: function types, FunctionSymbol, Callable
// - symbol_table_imports.go: proxy symbols bound by imports
// - symbol_table_index.go: SymbolTable, the node <-> symbol indexes

package symbols
