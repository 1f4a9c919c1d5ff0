package analyzer

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// visitDefinition is the full pass over one top-level definition. Binding
// passes have already created the definition's symbol; a definition without
// one failed earlier and is skipped.
func (a *Analyzer) visitDefinition(def *ast.Node) {
	switch def.Kind {
	case ast.KindObjectDefinition:
		a.visitObjectDefinition(def)
	case ast.KindPrototypeDefinition:
		a.visitEntityType(def)
	case ast.KindItemPrototypeDefinition:
		a.visitItemType(def)
	case ast.KindFuncDefinition:
		a.visitFuncDefinition(def)
	case ast.KindDotDefinition:
		a.visitGraph(def)
	case ast.KindImport:
		// Bound by analyzeImports.
	default:
		a.errorf(diagnostics.ErrA001, def, "unexpected top-level %s", def.Kind)
	}
}

func (a *Analyzer) visitObjectDefinition(def *ast.Node) {
	sym, ok := a.table().Definition(def)
	if !ok || sym.DataType() == nil {
		return
	}
	scope, ok := sym.DataType().(symbols.Scope)
	if !ok {
		a.errorf(diagnostics.ErrA004, def, "type '%s' of '%s' has no properties", sym.DataType().Name(), sym.Name())
		return
	}
	if sym.DataType().Name() == config.AssignTaskTypeName {
		local := symbols.NewLocalScope(a.currentScope(), def)
		local.Bind(symbols.NewVariable(config.EmptyElementName, local, symbols.StringType))
		a.pushScope(local)
		defer a.popScope()
	}
	a.visitProperties(def.Properties(), scope, sym.DataType())
}

// visitProperties resolves each property name as a member of owner and
// analyzes the initializers with owner pushed on the scope stack.
func (a *Analyzer) visitProperties(props []*ast.Node, scope symbols.Scope, owner symbols.Type) {
	a.pushScope(scope)
	defer a.popScope()
	for _, prop := range props {
		if prop == nil || prop.HasErrors() {
			continue
		}
		member, ok := scope.Resolve(prop.IdName(), false)
		if !ok {
			a.errorf(diagnostics.ErrA001, prop, "type '%s' has no property '%s'", owner.Name(), prop.IdName())
			continue
		}
		a.table().AddReference(prop.IdNode(), member)
		if prop.Expr() != nil {
			a.visitExpr(prop.Expr())
		}
	}
}

func (a *Analyzer) visitEntityType(def *ast.Node) {
	sym, ok := a.table().Definition(def)
	if !ok {
		return
	}
	entity := sym.(*symbols.AggregateType)
	for _, comp := range def.Components() {
		member, ok := entity.Member(comp.IdName())
		if !ok {
			continue
		}
		compType, ok := member.DataType().(*symbols.AggregateType)
		if !ok {
			continue
		}
		a.table().AddReference(comp.IdNode(), compType)
		a.visitProperties(comp.Properties(), compType, compType)
	}
}

func (a *Analyzer) visitItemType(def *ast.Node) {
	sym, ok := a.table().Definition(def)
	if !ok {
		return
	}
	item := sym.(*symbols.AggregateType)
	a.visitProperties(def.Properties(), item, item)
}

func (a *Analyzer) visitFuncDefinition(def *ast.Node) {
	sym, ok := a.table().Definition(def)
	if !ok {
		return
	}
	fn, ok := sym.(*symbols.FunctionSymbol)
	if !ok || def.Body() == nil {
		return
	}
	a.pushScope(fn)
	defer a.popScope()
	a.visitStmt(def.Body())
}

// visitGraph checks that every node of the graph names a bound definition
// and that edge types are variants of edge_type.
func (a *Analyzer) visitGraph(def *ast.Node) {
	edgeTypes, _ := a.resolveGlobalType(config.EdgeTypeName)
	enum, _ := edgeTypes.(*symbols.EnumType)

	resolveID := func(id *ast.Node) {
		sym, ok := a.resolve(id.Name)
		if !ok {
			a.errorf(diagnostics.ErrA007, id, "graph '%s' references unknown task '%s'", def.IdName(), id.Name)
			return
		}
		a.table().AddReference(id, sym)
	}
	checkAttrs := func(attrs []*ast.Node) {
		for _, attr := range attrs {
			if attr.IdName() != config.EdgeTypeAttribute || enum == nil {
				continue
			}
			value := attr.Child(1)
			variant, ok := enum.Variant(value.Name)
			if !ok {
				a.errorf(diagnostics.ErrA007, attr, "unknown dependency type '%s'", value.Name)
				continue
			}
			a.table().AddReference(value, variant)
		}
	}

	for _, stmt := range def.DotStmts() {
		if stmt == nil || stmt.HasErrors() {
			continue
		}
		switch stmt.Kind {
		case ast.KindDotEdgeStmt:
			operands := stmt.EdgeOperands()
			if len(operands) < 2 {
				a.errorf(diagnostics.ErrA007, stmt, "edge statement needs at least two operands")
				continue
			}
			for _, list := range operands {
				for _, id := range list.Children {
					resolveID(id)
				}
			}
			checkAttrs(stmt.Attributes())
		case ast.KindDotNodeStmt:
			resolveID(stmt.IdNode())
		}
	}
}

func (a *Analyzer) visitStmt(n *ast.Node) {
	if n == nil || n.HasErrors() {
		return
	}
	switch n.Kind {
	case ast.KindBlock:
		a.pushScope(symbols.NewLocalScope(a.currentScope(), n))
		for _, stmt := range n.Children {
			a.visitStmt(stmt)
		}
		a.popScope()
	case ast.KindConditionalStmtIf, ast.KindConditionalStmtIfElse:
		a.visitExpr(n.Condition())
		a.visitBranch(n.Then())
		a.visitBranch(n.Else())
	case ast.KindWhileLoop:
		a.visitExpr(n.Condition())
		a.pushScope(symbols.NewLocalScope(a.currentScope(), n))
		a.visitStmt(n.Body())
		a.popScope()
	case ast.KindForLoop, ast.KindCountingForLoop:
		a.visitForLoop(n)
	case ast.KindVarDeclaration:
		a.visitVarDeclaration(n)
	case ast.KindAssignment:
		a.visitExpr(n.Lhs())
		a.visitExpr(n.Rhs())
	case ast.KindReturnStmt:
		if n.Expr() != nil {
			a.visitExpr(n.Expr())
		}
	default:
		a.visitExpr(n)
	}
}

// visitBranch gives a non-block branch its own scope; a block creates one
// itself.
func (a *Analyzer) visitBranch(n *ast.Node) {
	if n == nil {
		return
	}
	if n.Kind == ast.KindBlock {
		a.visitStmt(n)
		return
	}
	a.pushScope(symbols.NewLocalScope(a.currentScope(), n))
	a.visitStmt(n)
	a.popScope()
}

func (a *Analyzer) visitForLoop(n *ast.Node) {
	a.visitExpr(n.Iterable())

	loop := symbols.NewLocalScope(a.currentScope(), n)
	a.pushScope(loop)
	defer a.popScope()

	varType, ok := a.resolveTypeNode(n.TypeSpecifier())
	if !ok {
		a.errorf(diagnostics.ErrA003, n.TypeSpecifier(), "could not resolve type of loop variable '%s'", n.IdName())
		return
	}
	loopVar := symbols.NewVariable(n.IdName(), loop, varType)
	loop.Bind(loopVar)
	a.table().AddDefinition(n.IdNode(), loopVar)

	if counterID := n.CounterId(); counterID != nil {
		counter := symbols.NewVariable(counterID.Name, loop, symbols.IntType)
		if !loop.Bind(counter) {
			a.errorf(diagnostics.ErrA002, counterID, "counter '%s' shadows the loop variable", counterID.Name)
			return
		}
		a.table().AddDefinition(counterID, counter)
	}
	a.visitStmt(n.Body())
}

func (a *Analyzer) visitVarDeclaration(n *ast.Node) {
	name := n.IdName()
	scope := a.currentScope()
	if _, exists := scope.Resolve(name, false); exists {
		a.errorf(diagnostics.ErrA002, n, "variable '%s' already defined in this scope", name)
		return
	}

	var t symbols.Type
	switch n.DeclKind() {
	case ast.DeclTyped:
		resolved, ok := a.resolveTypeNode(n.TypeSpecifier())
		if !ok {
			a.errorf(diagnostics.ErrA003, n.TypeSpecifier(), "could not resolve type of variable '%s'", name)
			return
		}
		t = resolved
	default:
		if n.Expr() == nil {
			a.errorf(diagnostics.ErrA005, n, "variable '%s' has neither a type nor an initializer", name)
			return
		}
		t = a.visitExpr(n.Expr())
		if t == nil {
			a.errorf(diagnostics.ErrA005, n, "could not infer type of variable '%s'", name)
			return
		}
	}

	sym := symbols.NewVariable(name, scope, t)
	scope.Bind(sym)
	a.table().AddDefinition(n, sym)
	a.table().AddReference(n.IdNode(), sym)
}
