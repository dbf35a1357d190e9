package parser

import (
	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/pipeline"
)

// Processor is the parsing stage. It consumes the token buffer left by
// the tokenization stage, falling back to lexing the source directly
// when run standalone.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	var f ast.Filter
	var err error
	if len(ctx.Tokens) > 0 {
		f, err = ParseTokens(ctx.Tokens)
	} else {
		f, err = Parse(ctx.Source)
	}
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Filter = f
	return ctx
}
