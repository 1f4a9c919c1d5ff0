package evaluator

import (
	"slices"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// scenarioResultTypeName is the return type of scenario builders: rooms of
// entities.
var scenarioResultTypeName = ast.SetTypeName(ast.SetTypeName(config.EntityTypeName))

// ScenarioTaskType returns the task type name a function builds scenarios
// for, if its signature is fn(<task type>) -> entity<><>.
func ScenarioTaskType(c symbols.Callable) (string, bool) {
	ft := c.FunctionType()
	if ft == nil || len(ft.Params) != 1 || ft.Return == nil {
		return "", false
	}
	if ft.Return.Name() != scenarioResultTypeName {
		return "", false
	}
	param := ft.Params[0].Name()
	if !slices.Contains(config.TaskTypeNames, param) {
		return "", false
	}
	return param, true
}

// registerScenarioBuilders registers the native builders, then every user
// function with a builder signature in the analyzed files.
func (in *Interpreter) registerScenarioBuilders() {
	in.scenarios.Clear()
	for _, c := range in.env.Callables() {
		if key, ok := ScenarioTaskType(c); ok {
			in.scenarios.Register(key, c)
		}
	}
	for _, fs := range in.env.FileScopes() {
		for _, sym := range fs.Symbols() {
			fn, ok := sym.(*symbols.FunctionSymbol)
			if !ok {
				continue
			}
			if key, ok := ScenarioTaskType(fn); ok {
				in.scenarios.Register(key, fn)
				in.logger.Debug("scenario builder registered", "task_type", key, "function", fn.Name(), "file", fs.Path)
			}
		}
	}
}

// BuildTask builds the scenario of a task: the task's own scenario_builder
// when set, otherwise a registered builder picked for its type. task is a
// value or a host task object; the result is the instantiated host value.
func (in *Interpreter) BuildTask(task any) (any, error) {
	v, ok := task.(Value)
	if !ok {
		translated, err := in.inst.Translate(task, nil)
		if err != nil {
			return nil, in.errorf(diagnostics.ErrR005, nil, "translate task %T: %v", task, err)
		}
		v = translated
	}
	agg, ok := v.(*AggregateValue)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR003, nil, "value of type '%s' is not a task", typeName(v))
	}
	taskType, _ := agg.AggregateType()
	if taskType == nil {
		return nil, in.errorf(diagnostics.ErrR003, nil, "value of type '%s' is not a task", typeName(v))
	}

	builder, ok := in.explicitBuilder(agg)
	if !ok {
		builder, ok = in.scenarios.Pick(taskType.Name())
		if !ok {
			return nil, in.errorf(diagnostics.ErrR001, nil, "no scenario builder for task type '%s'", taskType.Name())
		}
	}
	in.logger.Debug("building task", "task_type", taskType.Name(), "builder", builder.Name())

	result, err := in.CallRaw(builder, agg)
	if err != nil {
		return nil, err
	}
	host, err := in.inst.Instantiate(result)
	if err != nil {
		return nil, in.errorf(diagnostics.ErrR005, nil, "instantiate scenario of '%s': %v", builder.Name(), err)
	}
	return host, nil
}

func (in *Interpreter) explicitBuilder(task *AggregateValue) (symbols.Callable, bool) {
	m, ok := task.Member(config.ScenarioBuilderMember)
	if !ok {
		return nil, false
	}
	fv, ok := in.plain(m).(*FunctionValue)
	if !ok || fv.Callable() == nil {
		return nil, false
	}
	return fv.Callable(), true
}
