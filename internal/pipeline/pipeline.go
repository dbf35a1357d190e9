package pipeline

import (
	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/token"
)

// Context carries a filter program through the processing stages.
type Context struct {
	Source string
	Tokens []token.Token
	Filter ast.Filter
	Errors []error
}

func NewContext(source string) *Context {
	return &Context{Source: source}
}

// Failed reports whether any stage recorded an error.
func (c *Context) Failed() bool {
	return len(c.Errors) > 0
}

// Processor is one processing stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
