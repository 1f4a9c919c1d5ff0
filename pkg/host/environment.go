package host

import (
	"fmt"
	"reflect"

	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/taskgraph"
)

// hostTypes are declared in this order; components come before the types
// holding them only for readability, Complete resolves members afterwards.
var hostTypes = []struct {
	name   string
	sample any
}{
	{"position_component", PositionComponent{}},
	{"velocity_component", VelocityComponent{}},
	{"health_component", HealthComponent{}},
	{"draw_component", DrawComponent{}},
	{config.ContentTypeName, Content{}},
	{config.ElementTypeName, Element{}},
	{config.QuestItemTypeName, QuestItem{}},
	{config.EntityTypeName, Entity{}},
	{config.SingleChoiceTaskTypeName, SingleChoiceTask{}},
	{config.MultipleChoiceTaskTypeName, MultipleChoiceTask{}},
	{config.AssignTaskTypeName, AssignTask{}},
	{config.QuestConfigTypeName, QuestConfig{}},
	{config.DungeonConfigTypeName, DungeonConfig{}},
}

// NewGameEnvironment builds the environment quest files are analyzed and
// run in: container methods, the edge_type enum, the host types and the
// native functions. The returned Instantiator belongs to the environment
// and is passed to the interpreter. A nil project uses the defaults for
// the working directory.
func NewGameEnvironment(project *config.Project) (*environment.Environment, *Instantiator, error) {
	if project == nil {
		project = config.DefaultProject(".")
	}
	env := environment.New(project.LibraryPath(), nil)
	env.ScenarioDir = project.ScenarioDir

	global := env.GlobalScope()
	// Container types built from here on carry the built-in methods.
	evaluator.InstallContainerMethods(global)

	types := NewTypeBuilder(global)
	if _, err := types.DeclareEnum(config.EdgeTypeName, reflect.TypeFor[taskgraph.EdgeType](), taskgraph.EdgeTypeNames()); err != nil {
		return nil, nil, err
	}
	for _, ht := range hostTypes {
		if _, err := types.Declare(ht.name, ht.sample); err != nil {
			return nil, nil, err
		}
	}
	if err := types.Complete(); err != nil {
		return nil, nil, fmt.Errorf("building host types: %w", err)
	}

	inst := NewInstantiator(types)
	n := &natives{inst: inst}
	if err := n.bind(env); err != nil {
		return nil, nil, err
	}
	return env, inst, nil
}

// BuildScenario runs the scenario builder of a task host object on the
// interpreter the instantiator is bound to.
func (i *Instantiator) BuildScenario(task any) (Rooms, error) {
	if i.in == nil {
		return nil, errNoInterpreter
	}
	out, err := i.in.BuildTask(task)
	if err != nil {
		return nil, err
	}
	rooms, ok := out.(Rooms)
	if !ok {
		return nil, fmt.Errorf("scenario builder returned %T", out)
	}
	return rooms, nil
}
