package host

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/symbols"
)

const (
	questGiverTexture = "character/knight"
	chestTexture      = "objects/treasurechest"
	scrollTexture     = "items/book/wisdom_scroll.png"
)

// Rooms is the host form of a scenario: one entity set per room.
type Rooms = [][]*Entity

func questGiver(taskName string) *Entity {
	name := "quest_giver"
	if taskName != "" {
		name += "_" + taskName
	}
	return &Entity{
		Name:     name,
		Position: &PositionComponent{},
		Draw:     &DrawComponent{Path: questGiverTexture},
	}
}

// QuizScenario puts a quest giver asking the quiz into a single room.
func QuizScenario(taskName string) Rooms {
	return Rooms{{questGiver(taskName)}}
}

// AssignScenario puts a quest giver, one chest per solution container and
// one scroll per element into a single room. The empty element stands for
// no container in the first position and for no element after it.
func AssignScenario(task *AssignTask) Rooms {
	room := []*Entity{questGiver(task.Name)}
	for _, entry := range task.Solution {
		if len(entry) == 0 || entry[0] == nil {
			continue
		}
		if !isEmptyElement(entry[0]) {
			room = append(room, &Entity{
				Name:     entry[0].Text,
				Position: &PositionComponent{},
				Draw:     &DrawComponent{Path: chestTexture},
			})
		}
		for _, e := range entry[1:] {
			if e == nil || isEmptyElement(e) {
				continue
			}
			room = append(room, worldItem(&QuestItem{
				DisplayName: e.Text,
				TexturePath: scrollTexture,
				Content:     &Content{Text: e.Text},
			}))
		}
	}
	return Rooms{room}
}

func isEmptyElement(e *Element) bool {
	return e.Text == config.EmptyElementName
}

func (g *natives) rooms(fn string, rooms Rooms) (evaluator.Value, error) {
	t, err := symbols.ResolveTypeName(g.inst.types.global, scenarioTypeName)
	if err != nil {
		return nil, nativeError(fn, "%v", err)
	}
	return g.inst.Translate(rooms, t)
}

// scenarioTypeName is the DSL type of a scenario.
var scenarioTypeName = ast.SetTypeName(ast.SetTypeName(config.EntityTypeName))

func (g *natives) singleChoiceScenario(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.DefaultSingleChoiceScenarioName
	if err := checkArgs(fn, args, 1); err != nil {
		return nil, err
	}
	task, err := hostArg[*SingleChoiceTask](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	return g.rooms(fn, QuizScenario(task.Name))
}

func (g *natives) multipleChoiceScenario(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.DefaultMultiChoiceScenarioName
	if err := checkArgs(fn, args, 1); err != nil {
		return nil, err
	}
	task, err := hostArg[*MultipleChoiceTask](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	return g.rooms(fn, QuizScenario(task.Name))
}

func (g *natives) assignScenario(in *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	const fn = config.DefaultAssignScenarioBuilderName
	if err := checkArgs(fn, args, 1); err != nil {
		return nil, err
	}
	task, err := hostArg[*AssignTask](g, fn, args[0])
	if err != nil {
		return nil, err
	}
	return g.rooms(fn, AssignScenario(task))
}
