package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
	"github.com/funvibe/questlang/internal/utils"
)

// analyzeImports binds a proxy symbol for every import. Target files are
// analyzed on first use; mutually importing files are not detected and
// only see what the other file had bound at that point.
func (a *Analyzer) analyzeImports(root *ast.Node) {
	for _, def := range root.Children {
		if def == nil || def.HasErrors() || def.Kind != ast.KindImport {
			continue
		}
		a.analyzeImport(def)
	}
}

func (a *Analyzer) analyzeImport(node *ast.Node) {
	path, err := utils.ResolveLibraryPath(a.env.LibraryRoot, node.Name)
	if err != nil {
		a.errorf(diagnostics.ErrI001, node, "%v", err)
		return
	}

	fs, analyzed := a.env.FileScope(path)
	if !analyzed {
		file, err := a.env.LoadFile(path)
		if err != nil {
			a.errorf(diagnostics.ErrI003, node, "cannot read imported file: %v", err)
			return
		}
		for _, rec := range file.Errors {
			a.errorf(diagnostics.ErrI003, node, "syntax error in %s: %s", path, rec.String())
		}
		a.logger.Debug("analyzing imported file", "path", path, "importer", a.file.Path)
		fs = a.child().Analyze(file)
	}

	symName := node.ImportSymbol().Name
	sym, found := fs.Resolve(symName, false)
	if !found {
		a.errorf(diagnostics.ErrI004, node, "symbol '%s' not found in %s", symName, node.Name)
		return
	}
	if _, isProxy := sym.(symbols.Proxy); isProxy {
		a.errorf(diagnostics.ErrI002, node, "'%s' is itself imported into %s; import it from its defining file", symName, node.Name)
		return
	}

	name := node.IdName()
	var proxy symbols.Symbol
	switch s := sym.(type) {
	case *symbols.AggregateType:
		proxy = symbols.NewImportAggregateTypeSymbol(name, a.file, s, fs)
	case *symbols.FunctionSymbol:
		proxy = symbols.NewImportFunctionSymbol(name, a.file, s, fs)
	default:
		a.errorf(diagnostics.ErrI004, node, "'%s' is neither a type nor a function", symName)
		return
	}
	if !a.file.Bind(proxy) {
		a.errorf(diagnostics.ErrA002, node, "import of '%s' clashes with an existing symbol", name)
		return
	}
	a.table().AddDefinition(node, proxy)
	a.table().AddReference(node.ImportSymbol(), sym)
}
