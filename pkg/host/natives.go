package host

import (
	"fmt"
	"math"
	"strings"

	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/symbols"
)

type nativeDecl struct {
	name      string
	signature string
	impl      evaluator.NativeImpl
}

// natives implements the built-in functions of the game environment.
type natives struct {
	inst *Instantiator
}

func (g *natives) decls() []nativeDecl {
	return []nativeDecl{
		{config.PrintFuncName, "fn(string)->none", g.print},
		{config.InstantiateFuncName, "fn(prototype)->entity", g.instantiate},
		{config.InstantiateNamedFuncName, "fn(prototype,string)->entity", g.instantiateNamed},
		{config.BuildQuestItemFuncName, "fn(item_prototype,content)->quest_item", g.buildQuestItem},
		{config.PlaceQuestItemFuncName, "fn(quest_item,entity<>)->none", g.placeQuestItem},
		{config.GradeSingleChoiceFuncName, "fn(single_choice_task,content<>)->float", g.gradeSingleChoice},
		{config.GradeMultipleChoiceFuncName, "fn(multiple_choice_task,content<>)->float", g.gradeMultipleChoice},
		{config.DefaultSingleChoiceScenarioName, "fn(single_choice_task)->entity<><>", g.singleChoiceScenario},
		{config.DefaultMultiChoiceScenarioName, "fn(multiple_choice_task)->entity<><>", g.multipleChoiceScenario},
		{config.DefaultAssignScenarioBuilderName, "fn(assign_task)->entity<><>", g.assignScenario},
	}
}

func (g *natives) bind(env *environment.Environment) error {
	global := env.GlobalScope()
	for _, d := range g.decls() {
		t, err := symbols.ResolveTypeName(global, d.signature)
		if err != nil {
			return fmt.Errorf("native %s: %w", d.name, err)
		}
		ft, ok := t.(*symbols.FunctionType)
		if !ok {
			return fmt.Errorf("native %s: %s is not a function type", d.name, d.signature)
		}
		if err := env.BindCallable(evaluator.NewNativeFunction(d.name, global, ft, d.impl)); err != nil {
			return err
		}
	}
	return nil
}

func nativeError(name string, format string, args ...any) error {
	return diagnostics.Errorf(diagnostics.ErrR005, nil, "%s: %s", name, fmt.Sprintf(format, args...))
}

func checkArgs(name string, args []evaluator.Value, n int) error {
	if len(args) != n {
		return diagnostics.Errorf(diagnostics.ErrR003, nil, "%s takes %d arguments, got %d", name, n, len(args))
	}
	return nil
}

// hostArg instantiates an argument and asserts its host type.
func hostArg[T any](g *natives, name string, v evaluator.Value) (T, error) {
	var zero T
	host, err := g.inst.Instantiate(v)
	if err != nil {
		return zero, nativeError(name, "%v", err)
	}
	out, ok := host.(T)
	if !ok {
		return zero, nativeError(name, "expected %T, got %T", zero, host)
	}
	return out, nil
}

func (g *natives) print(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, display(a))
	}
	fmt.Fprintln(in.Out, strings.Join(parts, " "))
	return nil, nil
}

func display(v evaluator.Value) string {
	switch v := v.(type) {
	case *evaluator.Scalar, *evaluator.EncapsulatedField, *evaluator.EnumValue:
		if v.Internal() == nil {
			return symbols.TypeName(v.DataType())
		}
		return fmt.Sprint(v.Internal())
	case *evaluator.AggregateValue:
		if v.Internal() != nil {
			return fmt.Sprintf("%+v", v.Internal())
		}
	case *evaluator.FunctionValue:
		if v.Callable() != nil {
			return v.Callable().Name()
		}
	}
	return symbols.TypeName(v.DataType())
}

func (g *natives) instantiate(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArgs(config.InstantiateFuncName, args, 1); err != nil {
		return nil, err
	}
	return g.newEntity(config.InstantiateFuncName, args[0], "")
}

func (g *natives) instantiateNamed(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if err := checkArgs(config.InstantiateNamedFuncName, args, 2); err != nil {
		return nil, err
	}
	name, ok := args[1].Internal().(string)
	if !ok {
		return nil, nativeError(config.InstantiateNamedFuncName, "name must be a string")
	}
	return g.newEntity(config.InstantiateNamedFuncName, args[0], name)
}

// newEntity stamps a host object from a prototype value.
func (g *natives) newEntity(fn string, protoValue evaluator.Value, name string) (evaluator.Value, error) {
	proto, ok := evaluator.AsPrototype(protoValue)
	if !ok {
		return nil, nativeError(fn, "argument of type %s is not a prototype", symbols.TypeName(protoValue.DataType()))
	}
	host, err := g.inst.instantiatePrototype(proto)
	if err != nil {
		return nil, nativeError(fn, "%v", err)
	}
	if n, ok := host.(evaluator.Namer); ok && name != "" {
		n.SetName(name)
	}
	return g.inst.Translate(host, nil)
}

func (g *natives) buildQuestItem(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.BuildQuestItemFuncName
	if err := checkArgs(fn, args, 2); err != nil {
		return nil, err
	}
	proto, ok := evaluator.AsPrototype(args[0])
	if !ok || proto.Type().Origin != symbols.OriginItem {
		return nil, nativeError(fn, "first argument must be an item type")
	}
	host, err := g.inst.instantiatePrototype(proto)
	if err != nil {
		return nil, nativeError(fn, "%v", err)
	}
	item := host.(*QuestItem)

	content, err := g.inst.Instantiate(args[1])
	if err != nil {
		return nil, nativeError(fn, "%v", err)
	}
	switch c := content.(type) {
	case *Content:
		item.Content = c
	case string:
		item.Content = &Content{Text: c}
	case nil:
	default:
		return nil, nativeError(fn, "cannot use %T as content", content)
	}
	return g.inst.Translate(item, nil)
}

func (g *natives) placeQuestItem(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.PlaceQuestItemFuncName
	if err := checkArgs(fn, args, 2); err != nil {
		return nil, err
	}
	item, err := hostArg[*QuestItem](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	room, ok := args[1].(*evaluator.SetValue)
	if !ok {
		return nil, nativeError(fn, "second argument must be a set of entities")
	}
	v, err := g.inst.Translate(worldItem(item), symbols.ElementType(room.DataType()))
	if err != nil {
		return nil, nativeError(fn, "%v", err)
	}
	room.Add(v)
	return nil, nil
}

// worldItem is the entity that lies in a room and carries item.
func worldItem(item *QuestItem) *Entity {
	return &Entity{
		Name:     item.DisplayName,
		Position: &PositionComponent{},
		Draw:     &DrawComponent{Path: item.TexturePath},
		Item:     item,
	}
}

func (g *natives) gradeSingleChoice(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.GradeSingleChoiceFuncName
	if err := checkArgs(fn, args, 2); err != nil {
		return nil, err
	}
	task, err := hostArg[*SingleChoiceTask](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	given, err := hostArg[[]*Content](g, fn, args[1])
	if err != nil {
		return nil, err
	}
	return evaluator.NewScalar(symbols.FloatType, GradeSingleChoice(task, given)), nil
}

func (g *natives) gradeMultipleChoice(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.GradeMultipleChoiceFuncName
	if err := checkArgs(fn, args, 2); err != nil {
		return nil, err
	}
	task, err := hostArg[*MultipleChoiceTask](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	given, err := hostArg[[]*Content](g, fn, args[1])
	if err != nil {
		return nil, err
	}
	return evaluator.NewScalar(symbols.FloatType, GradeMultipleChoice(task, given)), nil
}

// GradeSingleChoice awards the task's points when exactly the correct
// answer was given.
func GradeSingleChoice(task *SingleChoiceTask, given []*Content) float64 {
	if len(given) != 1 || task.CorrectAnswerIndex < 0 || task.CorrectAnswerIndex >= len(task.Answers) {
		return 0
	}
	correct := task.Answers[task.CorrectAnswerIndex]
	if correct == nil || given[0] == nil || given[0].Text != correct.Text {
		return 0
	}
	return task.Points
}

// GradeMultipleChoice splits the points evenly over the correct answers.
// Every correct answer given adds its share, every wrong one takes a share
// away; the result is never negative.
func GradeMultipleChoice(task *MultipleChoiceTask, given []*Content) float64 {
	correct := make(map[string]bool)
	for _, idx := range task.CorrectAnswerIndices {
		if idx >= 0 && idx < len(task.Answers) && task.Answers[idx] != nil {
			correct[task.Answers[idx].Text] = true
		}
	}
	if len(correct) == 0 {
		return 0
	}
	share := task.Points / float64(len(correct))
	score := 0.0
	seen := make(map[string]bool)
	for _, c := range given {
		if c == nil || seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		if correct[c.Text] {
			score += share
		} else {
			score -= share
		}
	}
	return math.Max(score, 0)
}
