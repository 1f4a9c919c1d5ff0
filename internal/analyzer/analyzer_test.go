package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/symbols"
)

// newTestEnv binds a handful of host-like aggregate types.
func newTestEnv(t *testing.T) *environment.Environment {
	t.Helper()
	env := environment.New(t.TempDir(), nil)
	global := env.GlobalScope()

	health := symbols.NewAggregateType("health_component", global, nil)
	health.Bind(symbols.NewVariable("hp", health, symbols.IntType))
	health.Bind(symbols.NewVariable("max_hp", health, symbols.IntType))

	node := symbols.NewAggregateType("node_config", global, nil)
	node.Bind(symbols.NewVariable("name", node, symbols.StringType))
	node.Bind(symbols.NewVariable("peer", node, node))

	item := symbols.NewAggregateType("quest_item", global, nil)
	item.Bind(symbols.NewVariable("display_name", item, symbols.StringType))
	item.Bind(symbols.NewVariable("description", item, symbols.StringType))

	for _, typ := range []symbols.Type{health, node, item} {
		if err := env.BindType(typ); err != nil {
			t.Fatalf("BindType: %v", err)
		}
	}
	return env
}

func analyze(t *testing.T, env *environment.Environment, defs ...*ast.Node) (*Analyzer, *symbols.FileScope) {
	t.Helper()
	a := New(env)
	root := ast.NewProgram(defs...)
	fs := a.Analyze(&environment.File{Path: filepath.Join(env.LibraryRoot, "main.dng"), Root: root})
	return a, fs
}

func codes(errs *Errors) []diagnostics.ErrorCode {
	var out []diagnostics.ErrorCode
	for _, err := range errs.List() {
		out = append(out, err.Code)
	}
	return out
}

func expectNoErrors(t *testing.T, a *Analyzer) {
	t.Helper()
	if a.Errors().Len() > 0 {
		t.Fatalf("unexpected analysis errors:\n%s", a.Errors())
	}
}

func TestMutualForwardReference(t *testing.T) {
	env := newTestEnv(t)
	refB := ast.Ident("b")
	refA := ast.Ident("a")
	a, fs := analyze(t, env,
		ast.ObjectDef("node_config", "a", ast.Prop("peer", refB)),
		ast.ObjectDef("node_config", "b", ast.Prop("peer", refA)),
	)
	expectNoErrors(t, a)

	symB, _ := fs.Resolve("b", false)
	got, ok := env.SymbolTable().Reference(refB)
	if !ok || got != symB {
		t.Errorf("reference to b resolved to %v, want %v", got, symB)
	}
	symA, _ := fs.Resolve("a", false)
	if got, _ := env.SymbolTable().Reference(refA); got != symA {
		t.Errorf("reference to a resolved to %v, want %v", got, symA)
	}
}

func sampleProgram() []*ast.Node {
	return []*ast.Node{
		ast.EntityType("monster", ast.Component("health_component", ast.Prop("hp", ast.Int(10)))),
		ast.ObjectDef("node_config", "first", ast.Prop("name", ast.Str("one")), ast.Prop("peer", ast.Ident("second"))),
		ast.ObjectDef("node_config", "second", ast.Prop("peer", ast.Ident("first"))),
		ast.FuncDef("double", ast.Ident("int"), []*ast.Node{ast.Param(ast.Ident("int"), "x")},
			ast.VarInfer("y", ast.Binary(ast.KindTerm, ast.OpPlus, ast.Ident("x"), ast.Ident("x"))),
			ast.For(ast.Ident("int"), "i", ast.ListLit(ast.Int(1), ast.Int(2)),
				ast.NewBlock(ast.Assign(ast.Ident("y"), ast.Ident("i")))),
			ast.Return(ast.Ident("y"))),
	}
}

// shape lists, in tree order, every node with a reference and the names of
// what it references.
func shape(env *environment.Environment, root *ast.Node) []string {
	var out []string
	ast.Walk(root, func(n *ast.Node) bool {
		for _, sym := range env.SymbolTable().References(n) {
			out = append(out, n.Kind.String()+":"+sym.Name())
		}
		return true
	})
	return out
}

func TestAnalysisIsIdempotent(t *testing.T) {
	firstEnv := newTestEnv(t)
	firstRoot := ast.NewProgram(sampleProgram()...)
	a := New(firstEnv)
	a.Analyze(&environment.File{Path: "main.dng", Root: firstRoot})
	expectNoErrors(t, a)
	defs, refs := firstEnv.SymbolTable().Len()

	// Re-analysis in the same environment changes nothing.
	New(firstEnv).Analyze(&environment.File{Path: "main.dng", Root: firstRoot})
	if d, r := firstEnv.SymbolTable().Len(); d != defs || r != refs {
		t.Errorf("re-analysis changed table size from (%d, %d) to (%d, %d)", defs, refs, d, r)
	}

	// A fresh environment produces the same shape.
	secondEnv := newTestEnv(t)
	secondRoot := ast.NewProgram(sampleProgram()...)
	New(secondEnv).Analyze(&environment.File{Path: "main.dng", Root: secondRoot})
	if diff := cmp.Diff(shape(firstEnv, firstRoot), shape(secondEnv, secondRoot)); diff != "" {
		t.Errorf("symbol table shape differs (-first +second):\n%s", diff)
	}
}

func TestResolutionClimbsPastAggregateScopes(t *testing.T) {
	env := newTestEnv(t)
	// "peer" is also a member name of node_config; "other" is not and must
	// be found in the file scope below the pushed type scope.
	ref := ast.Ident("other")
	a, fs := analyze(t, env,
		ast.ObjectDef("node_config", "other"),
		ast.ObjectDef("node_config", "main", ast.Prop("peer", ref)),
	)
	expectNoErrors(t, a)
	want, _ := fs.Resolve("other", false)
	if got, _ := env.SymbolTable().Reference(ref); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEntityAndItemTypes(t *testing.T) {
	env := newTestEnv(t)
	a, fs := analyze(t, env,
		ast.EntityType("monster", ast.Component("health_component", ast.Prop("hp", ast.Int(10)))),
		ast.ItemType("potion", ast.Prop("display_name", ast.Str("Potion"))),
		ast.ItemType("broken", ast.Prop("weight", ast.Int(3))),
	)

	monsterSym, ok := fs.Resolve("monster", false)
	if !ok {
		t.Fatal("monster not bound")
	}
	monster := monsterSym.(*symbols.AggregateType)
	if monster.Origin != symbols.OriginPrototype {
		t.Errorf("monster origin = %v", monster.Origin)
	}
	member, ok := monster.Member("health_component")
	if !ok || member.DataType().Name() != "health_component" {
		t.Errorf("monster.health_component = %v", member)
	}

	potionSym, ok := fs.Resolve("potion", false)
	if !ok || potionSym.(*symbols.AggregateType).Origin != symbols.OriginItem {
		t.Errorf("potion = %v", potionSym)
	}
	if _, ok := fs.Resolve("broken", false); ok {
		t.Error("item type with an unknown property was bound")
	}
	if diff := cmp.Diff([]diagnostics.ErrorCode{diagnostics.ErrA006}, codes(a.Errors())); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestVariableInference(t *testing.T) {
	body := []*ast.Node{
		ast.VarInfer("sum", ast.Binary(ast.KindTerm, ast.OpPlus, ast.Int(1), ast.Int(2))),
		ast.VarInfer("less", ast.Binary(ast.KindComparison, ast.OpLess, ast.Int(1), ast.Float(2))),
		ast.VarInfer("text", ast.Str("a")),
		ast.VarInfer("names", ast.ListLit(ast.Str("a"), ast.Str("b"))),
		ast.VarInfer("mixed", ast.Binary(ast.KindTerm, ast.OpPlus, ast.Str("a"), ast.Int(1))),
	}
	env := newTestEnv(t)
	fn := ast.FuncDef("f", nil, nil, body...)
	a, _ := analyze(t, env, fn)

	want := map[string]string{"sum": "int", "less": "bool", "text": "string", "names": "string[]"}
	for _, decl := range body[:4] {
		sym, ok := env.SymbolTable().Definition(decl)
		if !ok {
			t.Errorf("%s: no definition", decl.IdName())
			continue
		}
		if got := sym.DataType().Name(); got != want[decl.IdName()] {
			t.Errorf("%s: type %s, want %s", decl.IdName(), got, want[decl.IdName()])
		}
	}
	if diff := cmp.Diff([]diagnostics.ErrorCode{diagnostics.ErrA005}, codes(a.Errors())); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestAnalysisErrors(t *testing.T) {
	tests := []struct {
		name     string
		defs     []*ast.Node
		code     diagnostics.ErrorCode
		sentinel error
	}{
		{
			name: "redefined object",
			defs: []*ast.Node{
				ast.ObjectDef("node_config", "dup"),
				ast.ObjectDef("node_config", "dup"),
			},
			code:     diagnostics.ErrA002,
			sentinel: diagnostics.ErrRedefinedName,
		},
		{
			name: "unresolved identifier",
			defs: []*ast.Node{
				ast.ObjectDef("node_config", "n", ast.Prop("peer", ast.Ident("missing"))),
			},
			code:     diagnostics.ErrA001,
			sentinel: diagnostics.ErrUnresolvedSymbol,
		},
		{
			name: "empty element outside assign_task",
			defs: []*ast.Node{
				ast.ObjectDef("node_config", "n", ast.Prop("peer", ast.Ident(config.EmptyElementName))),
			},
			code:     diagnostics.ErrA001,
			sentinel: diagnostics.ErrUnresolvedSymbol,
		},
		{
			name: "member access on scalar",
			defs: []*ast.Node{
				ast.FuncDef("f", nil, nil,
					ast.VarInfer("x", ast.Int(1)),
					ast.Member(ast.Ident("x"), ast.Ident("y"))),
			},
			code:     diagnostics.ErrA004,
			sentinel: diagnostics.ErrTypeMismatch,
		},
		{
			name: "call of a variable",
			defs: []*ast.Node{
				ast.FuncDef("f", nil, nil,
					ast.VarInfer("x", ast.Int(1)),
					ast.Call("x")),
			},
			code:     diagnostics.ErrA008,
			sentinel: diagnostics.ErrNotCallable,
		},
		{
			name: "duplicate parameter",
			defs: []*ast.Node{
				ast.FuncDef("f", nil, []*ast.Node{
					ast.Param(ast.Ident("int"), "x"),
					ast.Param(ast.Ident("int"), "x"),
				}),
			},
			code:     diagnostics.ErrA002,
			sentinel: diagnostics.ErrRedefinedName,
		},
		{
			name: "unknown member",
			defs: []*ast.Node{
				ast.ObjectDef("node_config", "n", ast.Prop("colour", ast.Str("red"))),
			},
			code:     diagnostics.ErrA001,
			sentinel: diagnostics.ErrUnresolvedSymbol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := analyze(t, newTestEnv(t), tt.defs...)
			list := a.Errors().List()
			if len(list) != 1 {
				t.Fatalf("got %d errors, want 1:\n%s", len(list), a.Errors())
			}
			if list[0].Code != tt.code {
				t.Errorf("code = %s, want %s", list[0].Code, tt.code)
			}
			if !errors.Is(list[0], tt.sentinel) {
				t.Errorf("%v is not %v", list[0], tt.sentinel)
			}
		})
	}
}

func TestShadowingInNestedScopesIsAllowed(t *testing.T) {
	env := newTestEnv(t)
	a, _ := analyze(t, env, ast.FuncDef("f", nil, []*ast.Node{ast.Param(ast.Ident("int"), "x")},
		ast.VarInfer("x", ast.Str("shadow")),
		ast.If(ast.Bool(true), ast.VarInfer("x", ast.Float(1))),
	))
	expectNoErrors(t, a)
}

func writeLibFile(t *testing.T, root, name string, defs ...*ast.Node) {
	t.Helper()
	src, err := ast.Encode(ast.NewProgram(defs...))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestImports(t *testing.T) {
	env := newTestEnv(t)
	lib := env.LibraryRoot
	writeLibFile(t, lib, "items.dng",
		ast.FuncDef("helper", ast.Ident("int"), nil, ast.Return(ast.Int(1))),
		ast.EntityType("goblin", ast.Component("health_component")),
	)
	writeLibFile(t, lib, "reexport.dng", ast.Import("items", "helper", ""))

	call := ast.Call("h")
	a, fs := analyze(t, env,
		ast.Import("items", "helper", "h"),
		ast.Import("items", "goblin", ""),
		ast.Import("../outside", "helper", "escaped"),
		ast.Import("reexport", "helper", "chained"),
		ast.Import("items", "missing", ""),
		ast.FuncDef("use", ast.Ident("int"), nil, ast.Return(call)),
	)

	if _, ok := fs.Resolve("h", false); !ok {
		t.Error("aliased import not bound")
	}
	goblin, ok := fs.Resolve("goblin", false)
	if !ok {
		t.Fatal("imported type not bound")
	}
	if _, isProxy := goblin.(symbols.Proxy); !isProxy {
		t.Errorf("goblin is %T, want an import proxy", goblin)
	}
	if _, ok := fs.Resolve("chained", false); ok {
		t.Error("chained import was bound")
	}
	if ref, ok := env.SymbolTable().Reference(call); !ok || symbols.Unwrap(ref).Name() != "helper" {
		t.Errorf("call resolved to %v", ref)
	}

	want := []diagnostics.ErrorCode{diagnostics.ErrI001, diagnostics.ErrI002, diagnostics.ErrI004}
	if diff := cmp.Diff(want, codes(a.Errors())); diff != "" {
		t.Errorf("errors (-want +got):\n%s\n%s", diff, a.Errors())
	}
	for _, err := range a.Errors().List() {
		if !errors.Is(err, diagnostics.ErrImportViolation) {
			t.Errorf("%v is not an import violation", err)
		}
	}
	if !strings.Contains(a.Errors().String(), "outside") {
		t.Errorf("escape error does not name the path:\n%s", a.Errors())
	}
}

func TestMemberAccessChains(t *testing.T) {
	env := newTestEnv(t)
	name := ast.Ident("name")
	a, _ := analyze(t, env,
		ast.ObjectDef("node_config", "n"),
		ast.FuncDef("f", ast.Ident("string"), nil,
			ast.Return(ast.Member(ast.Ident("n"), ast.Member(ast.Ident("peer"), name)))),
	)
	expectNoErrors(t, a)
	sym, ok := env.SymbolTable().Reference(name)
	if !ok || sym.Scope().(symbols.Type).Name() != "node_config" {
		t.Errorf("n.peer.name resolved to %v", sym)
	}
}
