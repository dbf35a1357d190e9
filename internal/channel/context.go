package channel

import "github.com/hajdbo/jqsh/internal/ast"

// Builtin is one registered operation. It receives its argument filters
// unevaluated (builtins decide how and against which forked input to
// evaluate them) plus the input/output channel pair, and must follow the
// worker contract: terminate out exactly once, short-circuit on input
// exceptions, propagate scope.
type Builtin func(args []ast.Filter, in, out *Channel)

// Catalog resolves builtin names. Implementations are immutable after
// construction and shared through Context.
type Catalog interface {
	// Lookup finds the implementation registered for exactly
	// (name, numArgs).
	Lookup(name string, numArgs int) (Builtin, bool)
	// Has reports whether name is registered at any arity.
	Has(name string) bool
	// Arities lists the fixed arities registered for name.
	Arities(name string) []int
}

// Context is the read-only execution environment attached to a channel's
// scope: process arguments, the builtin catalog, and whether this run is
// the top-level invocation.
type Context struct {
	Argv    []string
	IsMain  bool
	Catalog Catalog
}

func NewContext() *Context {
	return &Context{IsMain: true}
}

// CommandLineContext builds the top-level context for a CLI run.
func CommandLineContext(argv []string, catalog Catalog) *Context {
	return &Context{Argv: argv, IsMain: true, Catalog: catalog}
}

// Imported returns a copy with IsMain cleared.
func (c *Context) Imported() *Context {
	ret := *c
	ret.IsMain = false
	return &ret
}
