package lexer

import (
	"github.com/hajdbo/jqsh/internal/pipeline"
	"github.com/hajdbo/jqsh/internal/token"
)

// Processor is the tokenization stage. It buffers the full token stream
// so later stages and diagnostics can inspect it.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.Source)
	for {
		tok := l.NextToken()
		ctx.Tokens = append(ctx.Tokens, tok)
		if tok.Type == token.EOF {
			return ctx
		}
	}
}
