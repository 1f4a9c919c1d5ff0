package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/questlang/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[ast.Kind]int{
	ast.KindLogicOr:    1,
	ast.KindLogicAnd:   2,
	ast.KindEquality:   3,
	ast.KindComparison: 4,
	ast.KindTerm:       5,
	ast.KindFactor:     6,
	ast.KindUnary:      7,
}

func getPrecedence(k ast.Kind) int {
	if p, ok := operatorPrecedence[k]; ok {
		return p
	}
	return 10 // Atoms, calls and member access
}

type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: 100, column: 0}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: width, column: 0}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

// Print renders a whole program, or any single node, as source text.
func Print(n *ast.Node) string {
	p := NewCodePrinter()
	p.Node(n)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.column = len(s) - i - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *CodePrinter) newline() {
	p.buf.WriteByte('\n')
	p.column = 0
}

// Node prints n at the current position.
func (p *CodePrinter) Node(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindProgram:
		p.printProgram(n)
	case ast.KindObjectDefinition:
		p.printObjectDef(n)
	case ast.KindPrototypeDefinition:
		p.printEntityType(n)
	case ast.KindItemPrototypeDefinition:
		p.write("item_type " + n.IdName() + " ")
		p.printPropertyBlock(n.Properties())
	case ast.KindFuncDefinition:
		p.printFuncDef(n)
	case ast.KindImport:
		p.printImport(n)
	case ast.KindDotDefinition:
		p.printGraph(n)
	case ast.KindBlock, ast.KindReturnStmt, ast.KindConditionalStmtIf, ast.KindConditionalStmtIfElse,
		ast.KindWhileLoop, ast.KindForLoop, ast.KindCountingForLoop, ast.KindVarDeclaration, ast.KindAssignment:
		p.printStmt(n)
	default:
		if n.Kind.IsTypeIdentifier() && n.Kind != ast.KindIdentifier {
			p.write(typeName(n))
			return
		}
		p.printExpr(n, 0, false)
	}
}

func (p *CodePrinter) printProgram(n *ast.Node) {
	for i, def := range n.Children {
		if def == nil {
			continue
		}
		// Consecutive imports stay together; other definitions get a blank line.
		if i > 0 && !(def.Kind == ast.KindImport && n.Children[i-1] != nil && n.Children[i-1].Kind == ast.KindImport) {
			p.newline()
		}
		p.writeIndent()
		p.Node(def)
		p.newline()
	}
}

func (p *CodePrinter) printObjectDef(n *ast.Node) {
	p.write(typeName(n.TypeSpecifier()) + " " + n.IdName() + " ")
	p.printPropertyBlock(n.Properties())
}

// printPropertyBlock prints `{ name: value, ... }`, one property per line.
func (p *CodePrinter) printPropertyBlock(props []*ast.Node) {
	if len(props) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for i, prop := range props {
		p.newline()
		p.writeIndent()
		p.write(prop.IdName() + ": ")
		p.printExpr(prop.Expr(), 0, false)
		if i < len(props)-1 {
			p.write(",")
		}
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printEntityType(n *ast.Node) {
	p.write("entity_type " + n.IdName() + " ")
	comps := n.Components()
	if len(comps) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for i, comp := range comps {
		p.newline()
		p.writeIndent()
		p.printAggregate(comp)
		if i < len(comps)-1 {
			p.write(",")
		}
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printAggregate(n *ast.Node) {
	p.write(n.IdName() + " ")
	p.printPropertyBlock(n.Properties())
}

func (p *CodePrinter) printFuncDef(n *ast.Node) {
	p.write("fn " + n.IdName() + "(")
	for i, param := range n.Params() {
		if i > 0 {
			p.write(", ")
		}
		p.write(typeName(param.TypeSpecifier()) + " " + param.IdName())
	}
	p.write(")")
	if ret := n.TypeSpecifier(); ret != nil {
		p.write(" -> " + typeName(ret))
	}
	p.write(" ")
	p.printBlock(n.Body())
}

func (p *CodePrinter) printImport(n *ast.Node) {
	p.write("#import " + strconv.Quote(n.Name) + ":" + n.ImportSymbol().Name)
	if alias := n.ImportAlias(); alias != nil {
		p.write(" as " + alias.Name)
	}
}

func (p *CodePrinter) printGraph(n *ast.Node) {
	p.write("graph " + n.IdName() + " ")
	stmts := n.DotStmts()
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, stmt := range stmts {
		p.newline()
		p.writeIndent()
		switch stmt.Kind {
		case ast.KindDotEdgeStmt:
			for i, operand := range stmt.EdgeOperands() {
				if i > 0 {
					p.write(" -> ")
				}
				ids := make([]string, 0, len(operand.Children))
				for _, id := range operand.Children {
					ids = append(ids, id.Name)
				}
				p.write(strings.Join(ids, ", "))
			}
		case ast.KindDotNodeStmt:
			p.write(stmt.IdName())
		default:
			p.write("<" + stmt.Kind.String() + ">")
		}
		p.printAttributes(stmt.Attributes())
		p.write(";")
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printAttributes(attrs []*ast.Node) {
	if len(attrs) == 0 {
		return
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.IdName()+"="+a.Rhs().Name)
	}
	p.write(" [" + strings.Join(parts, ", ") + "]")
}

// --- Statements ---

func (p *CodePrinter) printBlock(n *ast.Node) {
	if n == nil || len(n.Children) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, stmt := range n.Children {
		p.newline()
		p.writeIndent()
		p.printStmt(stmt)
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write("}")
}

// printBody prints the body of a conditional or loop: blocks inline,
// single statements on the same line.
func (p *CodePrinter) printBody(n *ast.Node) {
	p.write(" ")
	p.printStmt(n)
}

func (p *CodePrinter) printStmt(n *ast.Node) {
	if n == nil {
		p.write(";")
		return
	}
	switch n.Kind {
	case ast.KindBlock:
		p.printBlock(n)
	case ast.KindReturnStmt:
		if e := n.Expr(); e != nil {
			p.write("return ")
			p.printExpr(e, 0, false)
			p.write(";")
		} else {
			p.write("return;")
		}
	case ast.KindConditionalStmtIf, ast.KindConditionalStmtIfElse:
		p.write("if ")
		p.printExpr(n.Condition(), 0, false)
		p.printBody(n.Then())
		if n.Kind == ast.KindConditionalStmtIfElse {
			if n.Then() != nil && n.Then().Kind == ast.KindBlock {
				p.write(" ")
			} else {
				p.newline()
				p.writeIndent()
			}
			p.write("else")
			p.printBody(n.Else())
		}
	case ast.KindWhileLoop:
		p.write("while ")
		p.printExpr(n.Condition(), 0, false)
		p.printBody(n.Body())
	case ast.KindForLoop, ast.KindCountingForLoop:
		p.write("for " + typeName(n.TypeSpecifier()) + " " + n.IdName() + " in ")
		p.printExpr(n.Iterable(), 0, false)
		if counter := n.CounterId(); counter != nil {
			p.write(" count " + counter.Name)
		}
		p.printBody(n.Body())
	case ast.KindVarDeclaration:
		p.write("var " + n.IdName())
		if n.DeclKind() == ast.DeclTyped {
			p.write(" : " + typeName(n.TypeSpecifier()))
		} else {
			p.write(" = ")
			p.printExpr(n.Expr(), 0, false)
		}
		p.write(";")
	case ast.KindAssignment:
		p.printExpr(n.Lhs(), 0, false)
		p.write(" = ")
		p.printExpr(n.Rhs(), 0, false)
		p.write(";")
	default:
		p.printExpr(n, 0, false)
		p.write(";")
	}
}

// --- Expressions ---

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(n *ast.Node, parentPrec int, isRight bool) {
	if n == nil {
		p.write("<???>")
		return
	}
	switch {
	case n.Kind.IsBinary():
		prec := getPrecedence(n.Kind)
		// All binary operators are left-associative.
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(n.Lhs(), prec, false)
		p.write(" " + n.Op.String() + " ")
		p.printExpr(n.Rhs(), prec, true)
		if needParens {
			p.write(")")
		}
		return
	case n.Kind == ast.KindUnary:
		p.write(n.Op.String())
		p.printExpr(n.Expr(), getPrecedence(ast.KindUnary), false)
		return
	}

	switch n.Kind {
	case ast.KindIdentifier:
		p.write(n.Name)
	case ast.KindNumber:
		p.write(strconv.FormatInt(n.IntValue(), 10))
	case ast.KindDecimalNumber:
		s := strconv.FormatFloat(n.FloatValue(), 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		p.write(s)
	case ast.KindStringLiteral:
		p.write(strconv.Quote(n.StringValue()))
	case ast.KindBool:
		p.write(strconv.FormatBool(n.BoolValue()))
	case ast.KindGroupedExpression:
		p.write("(")
		p.printExpr(n.Expr(), 0, false)
		p.write(")")
	case ast.KindMemberAccess:
		p.printExpr(n.Lhs(), getPrecedence(ast.KindMemberAccess), false)
		p.write(".")
		p.printExpr(n.Rhs(), getPrecedence(ast.KindMemberAccess), false)
	case ast.KindFuncCall:
		p.write(n.IdName())
		p.printList("(", ")", n.Args())
	case ast.KindListDefinition:
		p.printList("[", "]", n.Children)
	case ast.KindSetDefinition:
		p.printList("<", ">", n.Children)
	case ast.KindAggregateValueDefinition:
		p.printAggregate(n)
	case ast.KindListTypeIdentifier, ast.KindSetTypeIdentifier, ast.KindMapTypeIdentifier:
		p.write(typeName(n))
	case ast.KindError:
		p.write("<error>")
	default:
		p.write("<" + n.Kind.String() + ">")
	}
}

// printList prints comma separated items between open and close, breaking
// one item per line when the single-line form exceeds the line width.
func (p *CodePrinter) printList(open, close string, items []*ast.Node) {
	flat := &CodePrinter{indent: p.indent, column: p.column}
	flat.write(open)
	for i, item := range items {
		if i > 0 {
			flat.write(", ")
		}
		flat.printExpr(item, 0, false)
	}
	flat.write(close)

	out := flat.String()
	if p.lineWidth == 0 || len(items) < 2 || (p.column+len(out) <= p.lineWidth && !strings.Contains(out, "\n")) {
		p.write(out)
		return
	}

	p.write(open)
	p.indent++
	for i, item := range items {
		p.newline()
		p.writeIndent()
		p.printExpr(item, 0, false)
		if i < len(items)-1 {
			p.write(",")
		}
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write(close)
}

// typeName renders a type identifier. Container type identifiers carry
// their structural name.
func typeName(n *ast.Node) string {
	if n == nil {
		return "<???>"
	}
	if n.Name != "" {
		return n.Name
	}
	switch n.Kind {
	case ast.KindListTypeIdentifier:
		return ast.ListTypeName(typeName(n.ElementType()))
	case ast.KindSetTypeIdentifier:
		return ast.SetTypeName(typeName(n.ElementType()))
	case ast.KindMapTypeIdentifier:
		return ast.MapTypeName(typeName(n.KeyType()), typeName(n.ElementType()))
	}
	return "<???>"
}
