package pipeline

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
)

// ParseProcessor decodes SourceCode with the environment's parser.
type ParseProcessor struct{}

func (pp *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Env == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrR006, ast.Span{}, "parser: no environment"))
		return ctx
	}

	root, records := ctx.Env.Parser.Parse(ctx.FilePath, ctx.SourceCode)
	ctx.AstRoot = root
	ctx.File = &environment.File{Path: ctx.FilePath, Root: root, Errors: records}

	for _, rec := range records {
		err := diagnostics.NewError(diagnostics.ErrP001, rec.Span, rec.Message)
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
