package config

import "strings"

const SourceFileExt = ".dng"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".dng", ".dng.yaml", ".dng.yml"}

// HasSourceExt reports whether path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt strips the longest recognized source extension from name.
func TrimSourceExt(name string) string {
	best := ""
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return strings.TrimSuffix(name, best)
}

// Basic type names
const (
	NoneTypeName          = "none"
	BoolTypeName          = "bool"
	IntTypeName           = "int"
	FloatTypeName         = "float"
	StringTypeName        = "string"
	GraphTypeName         = "graph"
	PrototypeTypeName     = "prototype"
	ItemPrototypeTypeName = "item_prototype"
)

// Host aggregate type names
const (
	QuestConfigTypeName        = "quest_config"
	DungeonConfigTypeName      = "dungeon_config"
	EntityTypeName             = "entity"
	QuestItemTypeName          = "quest_item"
	ContentTypeName            = "content"
	ElementTypeName            = "element"
	SingleChoiceTaskTypeName   = "single_choice_task"
	MultipleChoiceTaskTypeName = "multiple_choice_task"
	AssignTaskTypeName         = "assign_task"
)

// EntryPointTypeNames are the object types the finder treats as entry points.
var EntryPointTypeNames = []string{QuestConfigTypeName, DungeonConfigTypeName}

// TaskTypeNames are the task types scenario builders are registered for.
var TaskTypeNames = []string{SingleChoiceTaskTypeName, MultipleChoiceTaskTypeName, AssignTaskTypeName}

// Reserved member and slot names
const (
	NameMemberName    = "name"
	ReturnValueName   = "$return_value$"
	// Scalar member wrapped by the adapter types content and element.
	AdapterTextMember = "text"
	// EmptyElementName is bound while an assign_task's properties are
	// evaluated. A solution entry naming it stands for an empty container
	// or an element that belongs to no container.
	EmptyElementName  = "_"
)

// Graph definitions
const (
	EdgeTypeName      = "edge_type"
	EdgeTypeAttribute = "type"
)

// ScenarioBuilderMember is the task member holding an explicit builder.
const ScenarioBuilderMember = "scenario_builder"

// Built-in function names
const (
	PrintFuncName                    = "print"
	InstantiateFuncName              = "instantiate"
	InstantiateNamedFuncName         = "instantiate_named"
	BuildQuestItemFuncName           = "build_quest_item"
	PlaceQuestItemFuncName           = "place_quest_item"
	GradeSingleChoiceFuncName        = "grade_single_choice_task"
	GradeMultipleChoiceFuncName      = "grade_multiple_choice_task"
	DefaultSingleChoiceScenarioName  = "$default_single_choice_scenario$"
	DefaultMultiChoiceScenarioName   = "$default_multiple_choice_scenario$"
	DefaultAssignScenarioBuilderName = "$default_assign_scenario$"
)

// Container method names
const (
	AddMethodName      = "add"
	SizeMethodName     = "size"
	GetMethodName      = "get"
	ContainsMethodName = "contains"
	KeysMethodName     = "keys"
	ValuesMethodName   = "values"
)

// Scenario builder selection
const (
	ScenarioHistorySize = 5
	ScenarioDecay       = 0.65
)

// Project configuration defaults
const (
	ProjectFileName     = "questlang.yaml"
	DefaultLibraryDir   = "lib"
	DefaultScenarioDir  = "scenarios"
	DefaultCatalogPath  = "questlang.sqlite"
	DefaultLogLevel     = "info"
	DefaultColorSetting = "auto"
)
