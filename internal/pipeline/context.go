package pipeline

import (
	"log/slog"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/symbols"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one file through parsing, analysis and
// interpretation.
type PipelineContext struct {
	SourceCode []byte
	FilePath   string

	Env       *environment.Environment
	AstRoot   *ast.Node
	File      *environment.File
	FileScope *symbols.FileScope

	// EntryPoint names the top-level definition to interpret; empty picks
	// the first quest_config or dungeon_config definition.
	EntryPoint string
	// Result is the host object produced by interpretation.
	Result any

	Errors []*diagnostics.DiagnosticError
	Logger *slog.Logger
}

func NewPipelineContext(source []byte) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}
