package pipeline

import "fmt"

// Pipeline runs processors in order over one context.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage. Stages keep running after errors so the
// analysis diagnostics of a file with syntax errors are still collected;
// each stage decides for itself whether earlier errors block it.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		before := len(ctx.Errors)
		ctx = processor.Process(ctx)
		if ctx.Logger != nil {
			ctx.Logger.Debug("pipeline stage done",
				"stage", fmt.Sprintf("%T", processor),
				"file", ctx.FilePath,
				"new_errors", len(ctx.Errors)-before)
		}
	}
	return ctx
}
