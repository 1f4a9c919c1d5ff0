package evaluator_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/questlang/internal/analyzer"
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/scenario"
	"github.com/funvibe/questlang/internal/symbols"
	"github.com/funvibe/questlang/internal/taskgraph"
	"github.com/funvibe/questlang/pkg/host"
)

type harness struct {
	env  *environment.Environment
	inst *host.Instantiator
	in   *evaluator.Interpreter
	fs   *symbols.FileScope
	out  *bytes.Buffer
}

// run analyzes defs as one file of the game environment and initializes an
// interpreter over it.
func run(t *testing.T, defs ...*ast.Node) *harness {
	t.Helper()
	env, inst, err := host.NewGameEnvironment(config.DefaultProject(t.TempDir()))
	if err != nil {
		t.Fatalf("NewGameEnvironment: %v", err)
	}
	a := analyzer.New(env)
	fs := a.Analyze(&environment.File{
		Path: filepath.Join(env.LibraryRoot, "main.dng"),
		Root: ast.NewProgram(defs...),
	})
	if a.Errors().Len() > 0 {
		t.Fatalf("unexpected analysis errors:\n%s", a.Errors())
	}
	in := evaluator.New(env, inst, nil)
	out := &bytes.Buffer{}
	in.Out = out
	if err := in.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return &harness{env: env, inst: inst, in: in, fs: fs, out: out}
}

func (h *harness) callable(t *testing.T, name string) symbols.Callable {
	t.Helper()
	sym, ok := h.fs.Resolve(name, false)
	if !ok {
		t.Fatalf("no symbol %q", name)
	}
	c, ok := sym.(symbols.Callable)
	if !ok {
		t.Fatalf("%q is a %T, not a callable", name, sym)
	}
	return c
}

// call runs a DSL function and returns its result as a host object.
func (h *harness) call(t *testing.T, name string, args ...any) any {
	t.Helper()
	v, err := h.in.CallRaw(h.callable(t, name), args...)
	if err != nil {
		t.Fatalf("calling %s: %v", name, err)
	}
	h.expectBalanced(t)
	out, err := h.inst.Instantiate(v)
	if err != nil {
		t.Fatalf("instantiate result of %s: %v", name, err)
	}
	return out
}

func (h *harness) lookup(t *testing.T, name string) any {
	t.Helper()
	v, err := h.in.Lookup(h.fs, name)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", name, err)
	}
	return v.Internal()
}

func (h *harness) expectBalanced(t *testing.T) {
	t.Helper()
	if mem, stmts := h.in.StackDepth(); mem != 0 || stmts != 0 {
		t.Errorf("stacks not unwound: memory=%d statements=%d", mem, stmts)
	}
}

func typ(name string) *ast.Node { return ast.Ident(name) }

func listOf(elem string) *ast.Node { return ast.ListType(typ(elem)) }

func add(lhs, rhs *ast.Node) *ast.Node { return ast.Binary(ast.KindTerm, ast.OpPlus, lhs, rhs) }

func eq(lhs, rhs *ast.Node) *ast.Node { return ast.Binary(ast.KindEquality, ast.OpEqual, lhs, rhs) }

func less(lhs, rhs *ast.Node) *ast.Node {
	return ast.Binary(ast.KindComparison, ast.OpLess, lhs, rhs)
}

func methodCall(recv, method string, args ...*ast.Node) *ast.Node {
	return ast.Member(ast.Ident(recv), ast.Call(method, args...))
}

// quizTask is a single choice task definition with two answers.
func quizTask(name string, props ...*ast.Node) *ast.Node {
	base := []*ast.Node{
		ast.Prop("description", ast.Str("Which one?")),
		ast.Prop("answers", ast.ListLit(ast.Str("left"), ast.Str("right"))),
		ast.Prop("correct_answer_index", ast.Int(1)),
		ast.Prop("points", ast.Float(2)),
	}
	return ast.ObjectDef(config.SingleChoiceTaskTypeName, name, append(base, props...)...)
}

func TestForLoopVisitsElementsInOrder(t *testing.T) {
	h := run(t,
		ast.FuncDef("collect", listOf("string"),
			[]*ast.Node{ast.Param(listOf("string"), "xs")},
			ast.VarTyped("seen", listOf("string")),
			ast.For(typ("string"), "s", ast.Ident("xs"), ast.NewBlock(
				methodCall("seen", config.AddMethodName, ast.Ident("s")),
			)),
			ast.Return(ast.Ident("seen")),
		),
		ast.FuncDef("sum", typ("int"),
			[]*ast.Node{ast.Param(listOf("int"), "xs")},
			ast.VarInfer("total", ast.Int(0)),
			ast.For(typ("int"), "x", ast.Ident("xs"), ast.NewBlock(
				ast.Assign(ast.Ident("total"), add(ast.Ident("total"), ast.Ident("x"))),
			)),
			ast.Return(ast.Ident("total")),
		),
	)

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", []string{}, []string{}},
		{"one", []string{"a"}, []string{"a"}},
		{"many", []string{"c", "a", "b", "a"}, []string{"c", "a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.call(t, "collect", tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("collect mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := h.call(t, "sum", []int64{1, 2, 3, 4}); got != int64(10) {
		t.Errorf("sum = %v, want 10", got)
	}
}

func TestCountingForLoopCounter(t *testing.T) {
	h := run(t,
		ast.FuncDef("counters", listOf("int"),
			[]*ast.Node{ast.Param(listOf("string"), "xs")},
			ast.VarTyped("seen", listOf("int")),
			ast.CountingFor(typ("string"), "s", ast.Ident("xs"), "i", ast.NewBlock(
				methodCall("seen", config.AddMethodName, ast.Ident("i")),
			)),
			ast.Return(ast.Ident("seen")),
		),
	)

	got := h.call(t, "counters", []string{"x", "y", "z"})
	if diff := cmp.Diff([]int64{0, 1, 2}, got); diff != "" {
		t.Errorf("counter mismatch (-want +got):\n%s", diff)
	}
	got = h.call(t, "counters", []string{})
	if diff := cmp.Diff([]int64{}, got); diff != "" {
		t.Errorf("counter on empty list (-want +got):\n%s", diff)
	}
}

func TestReturnUnwindsToCallBoundary(t *testing.T) {
	// find returns from inside a while loop nested in a for loop.
	find := ast.FuncDef("find", typ("int"),
		[]*ast.Node{ast.Param(listOf("int"), "xs"), ast.Param(typ("int"), "want")},
		ast.For(typ("int"), "x", ast.Ident("xs"), ast.NewBlock(
			ast.VarInfer("inner", ast.Int(0)),
			ast.While(less(ast.Ident("inner"), ast.Int(3)), ast.NewBlock(
				ast.If(eq(ast.Ident("x"), ast.Ident("want")), ast.NewBlock(
					ast.Return(add(
						ast.Binary(ast.KindFactor, ast.OpMultiply, ast.Ident("x"), ast.Int(10)),
						ast.Ident("inner"))),
				)),
				ast.Assign(ast.Ident("inner"), add(ast.Ident("inner"), ast.Int(1))),
			)),
		)),
		ast.Return(ast.Unary(ast.OpMinus, ast.Int(1))),
	)
	outer := ast.FuncDef("outer", typ("int"),
		[]*ast.Node{ast.Param(listOf("int"), "xs")},
		ast.VarInfer("r", ast.Call("find", ast.Ident("xs"), ast.Int(3))),
		ast.Return(add(ast.Ident("r"), ast.Int(1))),
	)
	fact := ast.FuncDef("fact", typ("int"),
		[]*ast.Node{ast.Param(typ("int"), "n")},
		ast.If(less(ast.Ident("n"), ast.Int(2)), ast.Return(ast.Int(1))),
		ast.Return(ast.Binary(ast.KindFactor, ast.OpMultiply, ast.Ident("n"),
			ast.Call("fact", ast.Binary(ast.KindTerm, ast.OpMinus, ast.Ident("n"), ast.Int(1))))),
	)
	h := run(t, find, outer, fact)

	tests := []struct {
		name string
		fn   string
		args []any
		want int64
	}{
		{"found", "find", []any{[]int64{1, 2, 3}, int64(2)}, 20},
		{"missing", "find", []any{[]int64{1, 2, 3}, int64(7)}, -1},
		{"nested call", "outer", []any{[]int64{3}}, 31},
		{"recursion", "fact", []any{int64(5)}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.call(t, tt.fn, tt.args...); got != tt.want {
				t.Errorf("%s = %v, want %d", tt.fn, got, tt.want)
			}
		})
	}
}

func TestRuntimeErrorsLeaveStacksBalanced(t *testing.T) {
	h := run(t,
		ast.FuncDef("iterate_int", nil, nil,
			ast.For(typ("int"), "x", ast.Int(5), ast.NewBlock()),
		),
		ast.FuncDef("divide", typ("int"), nil,
			ast.Return(ast.Binary(ast.KindFactor, ast.OpDivide, ast.Int(1), ast.Int(0))),
		),
		ast.FuncDef("forever", typ("int"), nil,
			ast.Return(ast.Call("forever")),
		),
		ast.FuncDef("negate_string", typ("string"), nil,
			ast.Return(ast.Unary(ast.OpMinus, ast.Str("x"))),
		),
	)

	tests := []struct {
		fn   string
		want diagnostics.ErrorCode
	}{
		{"iterate_int", diagnostics.ErrR003},
		{"divide", diagnostics.ErrR006},
		{"forever", diagnostics.ErrR006},
		{"negate_string", diagnostics.ErrR003},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			_, err := h.in.CallRaw(h.callable(t, tt.fn))
			if err == nil {
				t.Fatal("expected an error")
			}
			var d *diagnostics.DiagnosticError
			if !errors.As(err, &d) {
				t.Fatalf("error %v is not a diagnostic", err)
			}
			if d.Code != tt.want {
				t.Errorf("code = %s, want %s (%v)", d.Code, tt.want, err)
			}
			h.expectBalanced(t)
		})
	}
}

func TestConditionsUseTruthiness(t *testing.T) {
	not := func(n *ast.Node) *ast.Node { return ast.Unary(ast.OpNot, n) }
	h := run(t,
		ast.FuncDef("count_down", typ("int"), []*ast.Node{ast.Param(typ("int"), "n")},
			ast.VarInfer("steps", ast.Int(0)),
			ast.While(ast.Ident("n"), ast.NewBlock(
				ast.Assign(ast.Ident("n"), ast.Binary(ast.KindTerm, ast.OpMinus, ast.Ident("n"), ast.Int(1))),
				ast.Assign(ast.Ident("steps"), add(ast.Ident("steps"), ast.Int(1))),
			)),
			ast.Return(ast.Ident("steps")),
		),
		ast.FuncDef("int_truth", typ("bool"), []*ast.Node{ast.Param(typ("int"), "x")},
			ast.IfElse(ast.Ident("x"), ast.Return(ast.Bool(true)), ast.Return(ast.Bool(false))),
		),
		ast.FuncDef("string_truth", typ("bool"), []*ast.Node{ast.Param(typ("string"), "s")},
			ast.Return(not(not(ast.Ident("s")))),
		),
		ast.FuncDef("float_or_string", typ("bool"),
			[]*ast.Node{ast.Param(typ("float"), "f"), ast.Param(typ("string"), "s")},
			ast.Return(ast.Binary(ast.KindLogicOr, ast.OpOr, ast.Ident("f"), ast.Ident("s"))),
		),
		ast.FuncDef("int_and_string", typ("bool"),
			[]*ast.Node{ast.Param(typ("int"), "n"), ast.Param(typ("string"), "s")},
			ast.Return(ast.Binary(ast.KindLogicAnd, ast.OpAnd, ast.Ident("n"), ast.Ident("s"))),
		),
		ast.FuncDef("nothing", nil, nil),
		ast.FuncDef("none_truth", typ("bool"), nil,
			ast.If(ast.Call("nothing"), ast.Return(ast.Bool(true))),
			ast.Return(ast.Bool(false)),
		),
		ast.FuncDef("unset_edge", typ("bool"), nil,
			ast.VarTyped("e", typ(config.EdgeTypeName)),
			ast.Return(not(not(ast.Ident("e")))),
		),
		ast.FuncDef("set_edge", typ("bool"), nil,
			ast.Return(not(not(ast.Member(ast.Ident(config.EdgeTypeName), ast.Ident("seq"))))),
		),
	)

	tests := []struct {
		name string
		fn   string
		args []any
		want any
	}{
		{"while counts down", "count_down", []any{int64(3)}, int64(3)},
		{"while skips zero", "count_down", []any{int64(0)}, int64(0)},
		{"negative int", "int_truth", []any{int64(-2)}, true},
		{"zero int", "int_truth", []any{int64(0)}, false},
		{"string", "string_truth", []any{"x"}, true},
		{"empty string", "string_truth", []any{""}, false},
		{"or of zeros", "float_or_string", []any{0.0, ""}, false},
		{"or float", "float_or_string", []any{0.5, ""}, true},
		{"or string", "float_or_string", []any{0.0, "x"}, true},
		{"and short circuit", "int_and_string", []any{int64(0), "x"}, false},
		{"and both", "int_and_string", []any{int64(1), "x"}, true},
		{"none", "none_truth", nil, false},
		{"enum without variant", "unset_edge", nil, false},
		{"enum variant", "set_edge", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.call(t, tt.fn, tt.args...); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.fn, tt.args, got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	h := run(t,
		ast.FuncDef("greet", nil, []*ast.Node{ast.Param(typ("string"), "who")},
			ast.Call(config.PrintFuncName, ast.Ident("who")),
		),
	)
	h.call(t, "greet", "world")
	h.call(t, "greet", "again")
	if got, want := h.out.String(), "world\nagain\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrototypeDefaultsAndOverrides(t *testing.T) {
	h := run(t,
		ast.EntityType("monster",
			ast.Component("health_component", ast.Prop("hp", ast.Int(10)), ast.Prop("max_hp", ast.Int(20))),
			ast.Component("draw_component", ast.Prop("path", ast.Str("monster.png"))),
		),
		ast.ObjectDef("monster", "grunt"),
		ast.ObjectDef("monster", "weakling",
			ast.Prop("health_component", ast.Component("health_component", ast.Prop("hp", ast.Int(5))))),
		ast.FuncDef("spawn", typ(config.EntityTypeName), nil,
			ast.Return(ast.Call(config.InstantiateNamedFuncName, ast.Ident("monster"), ast.Str("spawned"))),
		),
	)

	tests := []struct {
		name string
		got  func(t *testing.T) any
		want *host.Entity
	}{
		{
			name: "defaults",
			got:  func(t *testing.T) any { return h.lookup(t, "grunt") },
			want: &host.Entity{
				Name:   "grunt",
				Health: &host.HealthComponent{HP: 10, MaxHP: 20},
				Draw:   &host.DrawComponent{Path: "monster.png"},
			},
		},
		{
			name: "override",
			got:  func(t *testing.T) any { return h.lookup(t, "weakling") },
			want: &host.Entity{
				Name:   "weakling",
				Health: &host.HealthComponent{HP: 5},
				Draw:   &host.DrawComponent{Path: "monster.png"},
			},
		},
		{
			name: "instantiated",
			got:  func(t *testing.T) any { return h.call(t, "spawn") },
			want: &host.Entity{
				Name:   "spawned",
				Health: &host.HealthComponent{HP: 10, MaxHP: 20},
				Draw:   &host.DrawComponent{Path: "monster.png"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got(t)); diff != "" {
				t.Errorf("entity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContainerCoercionIntoAdapterList(t *testing.T) {
	h := run(t, quizTask("q1"))

	task, ok := h.lookup(t, "q1").(*host.SingleChoiceTask)
	if !ok {
		t.Fatalf("q1 is %T", h.lookup(t, "q1"))
	}
	want := &host.SingleChoiceTask{
		Name:               "q1",
		Description:        "Which one?",
		Answers:            []*host.Content{{Text: "left"}, {Text: "right"}},
		Points:             2,
		CorrectAnswerIndex: 1,
	}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectNames(t *testing.T) {
	h := run(t,
		quizTask("plain"),
		quizTask("named", ast.Prop(config.NameMemberName, ast.Str("Door quiz"))),
	)
	for ident, want := range map[string]string{"plain": "plain", "named": "Door quiz"} {
		task, ok := h.lookup(t, ident).(*host.SingleChoiceTask)
		if !ok {
			t.Fatalf("%s is %T", ident, h.lookup(t, ident))
		}
		if task.Name != want {
			t.Errorf("%s: name = %q, want %q", ident, task.Name, want)
		}
	}
}

func TestAssignTaskEmptyElement(t *testing.T) {
	h := run(t,
		ast.ObjectDef(config.AssignTaskTypeName, "sort",
			ast.Prop("description", ast.Str("Sort the goods")),
			ast.Prop("solution", ast.SetLit(
				ast.ListLit(ast.Str("cans"), ast.Ident(config.EmptyElementName)),
				ast.ListLit(ast.Ident(config.EmptyElementName), ast.Str("stone")),
			)),
		),
	)

	task, ok := h.lookup(t, "sort").(*host.AssignTask)
	if !ok {
		t.Fatalf("sort is %T", h.lookup(t, "sort"))
	}
	want := [][]*host.Element{
		{{Text: "cans"}, {Text: config.EmptyElementName}},
		{{Text: config.EmptyElementName}, {Text: "stone"}},
	}
	if diff := cmp.Diff(want, task.Solution); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
	h.expectBalanced(t)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	h := run(t, quizTask("q1"))

	first := h.lookup(t, "q1")
	second := h.lookup(t, "q1")
	if first != second {
		t.Errorf("second lookup built a new host object: %p != %p", first, second)
	}
	h.expectBalanced(t)

	// Initialize resets the run; the object is built again.
	if err := h.in.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if third := h.lookup(t, "q1"); third == first {
		t.Error("object survived Initialize")
	}
}

func TestGraphEdges(t *testing.T) {
	h := run(t,
		quizTask("t1"),
		quizTask("t2"),
		quizTask("t3"),
		quizTask("t4"),
		ast.Graph("flow",
			ast.SimpleEdge("t1", "t2", "c_c"),
			ast.Edge([][]string{{"t2", "t3"}, {"t4"}}),
		),
		ast.ObjectDef(config.QuestConfigTypeName, "quest",
			ast.Prop("quest_desc", ast.Str("a small quest")),
			ast.Prop("dependency_graph", ast.Ident("flow")),
		),
	)

	out, err := h.in.GenerateConfig(h.fs, "")
	if err != nil {
		t.Fatalf("GenerateConfig: %v", err)
	}
	quest, ok := out.(*host.QuestConfig)
	if !ok {
		t.Fatalf("entry point is %T", out)
	}
	if quest.Name != "quest" || quest.QuestDesc != "a small quest" {
		t.Errorf("quest = %+v", quest)
	}
	g := quest.DependencyGraph
	if g == nil {
		t.Fatal("dependency graph not set")
	}
	want := []taskgraph.Edge{
		{From: "t1", To: "t2", Type: taskgraph.ConditionalCorrect},
		{From: "t2", To: "t4", Type: taskgraph.Sequence},
		{From: "t3", To: "t4", Type: taskgraph.Sequence},
	}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	node, ok := g.Node("t3")
	if !ok {
		t.Fatal("graph has no node t3")
	}
	if task, ok := node.Task.(*host.SingleChoiceTask); !ok || task.Name != "t3" {
		t.Errorf("node t3 carries %#v", node.Task)
	}
}

func TestBuildTaskWithExplicitBuilder(t *testing.T) {
	h := run(t,
		ast.EntityType("guard", ast.Component("draw_component", ast.Prop("path", ast.Str("guard.png")))),
		ast.FuncDef("two_rooms", ast.SetType(ast.SetType(typ(config.EntityTypeName))),
			[]*ast.Node{ast.Param(typ(config.SingleChoiceTaskTypeName), "task")},
			ast.VarTyped("hall", ast.SetType(typ(config.EntityTypeName))),
			methodCall("hall", config.AddMethodName,
				ast.Call(config.InstantiateNamedFuncName, ast.Ident("guard"), ast.Str("gatekeeper"))),
			ast.VarTyped("yard", ast.SetType(typ(config.EntityTypeName))),
			ast.VarTyped("rooms", ast.SetType(ast.SetType(typ(config.EntityTypeName)))),
			methodCall("rooms", config.AddMethodName, ast.Ident("hall")),
			methodCall("rooms", config.AddMethodName, ast.Ident("yard")),
			ast.Return(ast.Ident("rooms")),
		),
		quizTask("q1", ast.Prop("scenario_builder", ast.Ident("two_rooms"))),
	)

	task, err := h.in.Lookup(h.fs, "q1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	out, err := h.in.BuildTask(task)
	if err != nil {
		t.Fatalf("BuildTask: %v", err)
	}
	h.expectBalanced(t)

	want := [][]*host.Entity{
		{{Name: "gatekeeper", Draw: &host.DrawComponent{Path: "guard.png"}}},
		{},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("rooms mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTaskPicksRegisteredBuilder(t *testing.T) {
	h := run(t, quizTask("q1"))
	h.in.SetScenarioRegistry(scenario.NewRegistry[string, symbols.Callable](rand.New(rand.NewPCG(1, 2))))
	if err := h.in.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	builders := h.in.Scenarios().Builders(config.SingleChoiceTaskTypeName)
	if len(builders) != 1 || builders[0].Name() != config.DefaultSingleChoiceScenarioName {
		t.Fatalf("registered builders = %v", builders)
	}

	task := h.lookup(t, "q1")
	out, err := h.in.BuildTask(task)
	if err != nil {
		t.Fatalf("BuildTask: %v", err)
	}
	rooms, ok := out.([][]*host.Entity)
	if !ok || len(rooms) != 1 || len(rooms[0]) != 1 {
		t.Fatalf("rooms = %#v", out)
	}
	if got, want := rooms[0][0].Name, "quest_giver_q1"; got != want {
		t.Errorf("quest giver = %q, want %q", got, want)
	}
}

func TestCallRawTranslatesHostArguments(t *testing.T) {
	h := run(t,
		ast.FuncDef("first_answer", typ(config.ContentTypeName),
			[]*ast.Node{ast.Param(typ(config.SingleChoiceTaskTypeName), "task")},
			ast.Return(methodCall2("task", "answers", ast.Call(config.GetMethodName, ast.Int(0)))),
		),
	)
	task := &host.SingleChoiceTask{Answers: []*host.Content{{Text: "yes"}, {Text: "no"}}}
	got := h.call(t, "first_answer", task)
	if diff := cmp.Diff(&host.Content{Text: "yes"}, got); diff != "" {
		t.Errorf("first answer mismatch (-want +got):\n%s", diff)
	}
}

// methodCall2 builds recv.member.call.
func methodCall2(recv, member string, call *ast.Node) *ast.Node {
	return ast.Member(ast.Ident(recv), ast.Member(ast.Ident(member), call))
}
