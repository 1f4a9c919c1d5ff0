package analyzer

import (
	"os"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/pipeline"
	"github.com/funvibe/questlang/internal/utils"
)

// SemanticAnalyzerProcessor analyzes ctx.File in ctx.Env, followed by the
// files of the environment's scenario directory so their builders are
// available to the interpreter.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.File == nil || ctx.AstRoot == nil || ctx.Env == nil {
		return ctx
	}

	a := New(ctx.Env)
	a.SetLogger(ctx.Logger)
	ctx.FileScope = a.Analyze(ctx.File)
	sap.analyzeScenarios(ctx, a)

	for _, err := range a.Errors().List() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

func (sap *SemanticAnalyzerProcessor) analyzeScenarios(ctx *pipeline.PipelineContext, a *Analyzer) {
	dir := ctx.Env.ScenarioPath()
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		ctx.Logger.Debug("no scenario directory", "path", dir)
		return
	}
	paths, err := utils.CollectSourceFiles(dir)
	if err != nil {
		a.Errors().Add(diagnostics.NewError(diagnostics.ErrI003, ast.Span{File: dir}, err.Error()))
		return
	}
	for _, path := range paths {
		if _, done := ctx.Env.FileScope(path); done {
			continue
		}
		file, err := ctx.Env.LoadFile(path)
		if err != nil {
			a.Errors().Add(&diagnostics.DiagnosticError{
				Code:     diagnostics.ErrI003,
				Category: diagnostics.CategoryImportViolation,
				File:     path,
				Message:  err.Error(),
			})
			continue
		}
		for _, rec := range file.Errors {
			d := diagnostics.NewError(diagnostics.ErrP001, rec.Span, rec.Message)
			d.File = path
			a.Errors().Add(d)
		}
		a.child().Analyze(file)
		ctx.Logger.Debug("scenario file analyzed", "path", path)
	}
}
