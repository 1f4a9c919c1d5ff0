package evaluator

import (
	"errors"
	"io"
	"math/rand/v2"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/pipeline"
	"github.com/funvibe/questlang/internal/scenario"
	"github.com/funvibe/questlang/internal/symbols"
)

// EvaluatorProcessor interprets the analyzed file and stores the host
// object of its entry point in ctx.Result. Files with errors are skipped.
type EvaluatorProcessor struct {
	Instantiator TypeInstantiator
	// Out receives print output; nil keeps the interpreter default.
	Out io.Writer
	// Seed makes scenario builder selection reproducible when non-zero.
	Seed uint64
	// Interpreter is the interpreter of the last run.
	Interpreter *Interpreter
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.FileScope == nil || ctx.Env == nil {
		return ctx
	}

	in := New(ctx.Env, ep.Instantiator, ctx.Logger)
	if ep.Out != nil {
		in.Out = ep.Out
	}
	if ep.Seed != 0 {
		in.SetScenarioRegistry(scenario.NewRegistry[string, symbols.Callable](rand.New(rand.NewPCG(ep.Seed, ep.Seed))))
	}
	ep.Interpreter = in

	if err := in.Initialize(); err != nil {
		ctx.Errors = append(ctx.Errors, asDiagnostic(err, ctx.FilePath))
		return ctx
	}
	result, err := in.GenerateConfig(ctx.FileScope, ctx.EntryPoint)
	if err != nil {
		ctx.Errors = append(ctx.Errors, asDiagnostic(err, ctx.FilePath))
		return ctx
	}
	ctx.Result = result
	return ctx
}

func asDiagnostic(err error, file string) *diagnostics.DiagnosticError {
	var d *diagnostics.DiagnosticError
	if !errors.As(err, &d) {
		d = diagnostics.NewError(diagnostics.ErrR006, ast.Span{}, err.Error())
	}
	if d.File == "" {
		d.File = file
	}
	return d
}
