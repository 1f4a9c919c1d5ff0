package host

import (
	"github.com/funvibe/questlang/internal/taskgraph"
)

// Host types are plain structs. A `dsl` tag names the DSL member a field
// backs; `dsltype` gives the member's type where the Go type does not
// determine it (functions, sets).

type PositionComponent struct {
	X float64 `dsl:"x" yaml:"x"`
	Y float64 `dsl:"y" yaml:"y"`
}

type VelocityComponent struct {
	XVelocity float64 `dsl:"x_velocity" yaml:"x_velocity"`
	YVelocity float64 `dsl:"y_velocity" yaml:"y_velocity"`
}

type HealthComponent struct {
	HP    int `dsl:"hp" yaml:"hp"`
	MaxHP int `dsl:"max_hp" yaml:"max_hp"`
}

type DrawComponent struct {
	Path string `dsl:"path" yaml:"path"`
}

// Content is one answer of a choice task. Assigning a string to a content
// member wraps it.
type Content struct {
	Text string `dsl:"text" yaml:"text"`
}

// Element is one piece of an assign task solution.
type Element struct {
	Text string `dsl:"text" yaml:"text"`
}

// QuestItem is an item a player carries; item_type definitions instantiate
// to it.
type QuestItem struct {
	DisplayName string   `dsl:"display_name" yaml:"display_name"`
	Description string   `dsl:"description" yaml:"description,omitempty"`
	TexturePath string   `dsl:"texture_path" yaml:"texture_path,omitempty"`
	Content     *Content `dsl:"content" yaml:"content,omitempty"`
}

// Entity is a game entity template. entity_type definitions instantiate
// to it, one field per component type.
type Entity struct {
	Name     string             `dsl:"name" yaml:"name"`
	Position *PositionComponent `dsl:"position_component" yaml:"position,omitempty"`
	Velocity *VelocityComponent `dsl:"velocity_component" yaml:"velocity,omitempty"`
	Health   *HealthComponent   `dsl:"health_component" yaml:"health,omitempty"`
	Draw     *DrawComponent     `dsl:"draw_component" yaml:"draw,omitempty"`
	Item     *QuestItem         `dsl:"quest_item" yaml:"item,omitempty"`
}

func (e *Entity) SetName(name string) { e.Name = name }

type SingleChoiceTask struct {
	Name               string     `dsl:"name" yaml:"name"`
	Description        string     `dsl:"description" yaml:"description"`
	Answers            []*Content `dsl:"answers" yaml:"answers"`
	Points             float64    `dsl:"points" yaml:"points"`
	PointsToPass       float64    `dsl:"points_to_pass" yaml:"points_to_pass"`
	CorrectAnswerIndex int        `dsl:"correct_answer_index" yaml:"correct_answer_index"`
	Explanation        string     `dsl:"explanation" yaml:"explanation,omitempty"`
	GradingFunction    *Callback  `dsl:"grading_function" dsltype:"fn(single_choice_task,content<>)->float" yaml:"grading_function,omitempty"`
	ScenarioBuilder    *Callback  `dsl:"scenario_builder" dsltype:"fn(single_choice_task)->entity<><>" yaml:"scenario_builder,omitempty"`
}

type MultipleChoiceTask struct {
	Name                 string     `dsl:"name" yaml:"name"`
	Description          string     `dsl:"description" yaml:"description"`
	Answers              []*Content `dsl:"answers" yaml:"answers"`
	Points               float64    `dsl:"points" yaml:"points"`
	PointsToPass         float64    `dsl:"points_to_pass" yaml:"points_to_pass"`
	CorrectAnswerIndices []int      `dsl:"correct_answer_indices" yaml:"correct_answer_indices"`
	Explanation          string     `dsl:"explanation" yaml:"explanation,omitempty"`
	GradingFunction      *Callback  `dsl:"grading_function" dsltype:"fn(multiple_choice_task,content<>)->float" yaml:"grading_function,omitempty"`
	ScenarioBuilder      *Callback  `dsl:"scenario_builder" dsltype:"fn(multiple_choice_task)->entity<><>" yaml:"scenario_builder,omitempty"`
}

// AssignTask asks the player to sort elements into containers. Each
// solution entry lists a container followed by the elements it takes.
type AssignTask struct {
	Name            string       `dsl:"name" yaml:"name"`
	Description     string       `dsl:"description" yaml:"description"`
	Points          float64      `dsl:"points" yaml:"points"`
	PointsToPass    float64      `dsl:"points_to_pass" yaml:"points_to_pass"`
	Solution        [][]*Element `dsl:"solution" dsltype:"element[]<>" yaml:"solution"`
	Explanation     string       `dsl:"explanation" yaml:"explanation,omitempty"`
	GradingFunction *Callback    `dsl:"grading_function" dsltype:"fn(assign_task,element<>)->float" yaml:"grading_function,omitempty"`
	ScenarioBuilder *Callback    `dsl:"scenario_builder" dsltype:"fn(assign_task)->entity<><>" yaml:"scenario_builder,omitempty"`
}

// QuestConfig is the entry point of a quest file.
type QuestConfig struct {
	Name            string           `dsl:"name" yaml:"name"`
	QuestDesc       string           `dsl:"quest_desc" yaml:"quest_desc,omitempty"`
	QuestPoints     int              `dsl:"quest_points" yaml:"quest_points,omitempty"`
	DependencyGraph *taskgraph.Graph `dsl:"dependency_graph" yaml:"dependency_graph,omitempty"`
}

// DungeonConfig is the entry point of a dungeon file.
type DungeonConfig struct {
	Name            string           `dsl:"name" yaml:"name"`
	DependencyGraph *taskgraph.Graph `dsl:"dependency_graph" yaml:"dependency_graph,omitempty"`
}
