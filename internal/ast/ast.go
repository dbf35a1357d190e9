package ast

import (
	"strings"

	"github.com/hajdbo/jqsh/internal/values"
)

// Filter is one pipeline-stage node. The variant set is closed: every
// node type lives in this package and owns exactly the fields its
// semantics need. A filter's String form re-parses to an equivalently
// evaluating tree.
type Filter interface {
	String() string
	filterNode()
}

// Empty is the empty filter: it passes its input through unchanged.
type Empty struct{}

func (Empty) String() string { return "" }
func (Empty) filterNode()    {}

// IsEmpty reports whether f is the empty filter.
func IsEmpty(f Filter) bool {
	_, ok := f.(Empty)
	return ok
}

// Parens is a grouping construct with no semantic effect beyond scoping.
type Parens struct {
	Child Filter
}

func (p *Parens) String() string { return "(" + p.Child.String() + ")" }
func (*Parens) filterNode()      {}

// ArrayLiteral drains its child's full output into one array value.
type ArrayLiteral struct {
	Child Filter
}

func (a *ArrayLiteral) String() string { return "[" + a.Child.String() + "]" }
func (*ArrayLiteral) filterNode()      {}

// ObjectLiteral builds an object from its child's output of
// [key, value] pairs.
type ObjectLiteral struct {
	Child Filter
}

func (o *ObjectLiteral) String() string { return "{" + o.Child.String() + "}" }
func (*ObjectLiteral) filterNode()      {}

// Clause is one (keyword, filter) pair of a conditional or try form.
type Clause struct {
	Keyword string // "if", "elif", "then", "else", "try", "catch", "except"
	Body    Filter
}

// Conditional is a flat if/elif/then/else clause chain.
type Conditional struct {
	Clauses []Clause
}

func (c *Conditional) String() string { return clauseString(c.Clauses) }
func (*Conditional) filterNode()      {}

// Try is a try block with named catch handlers, an optional default
// except handler and an optional else handler.
type Try struct {
	Clauses []Clause
}

func (t *Try) String() string { return clauseString(t.Clauses) }
func (*Try) filterNode()      {}

func clauseString(clauses []Clause) string {
	parts := make([]string, len(clauses))
	for i, cl := range clauses {
		parts[i] = cl.Keyword + " " + cl.Body.String()
	}
	return strings.Join(parts, " ") + " end"
}

// Name is a bare identifier reference.
type Name struct {
	Name string
}

func (n *Name) String() string { return n.Name }
func (*Name) filterNode()      {}

// NumberLiteral holds a digit run. Decimal numbers are composed by the
// dot operator from two adjacent literals, so no digits here carry a
// decimal point.
type NumberLiteral struct {
	Digits string
}

func (n *NumberLiteral) String() string { return n.Digits }
func (*NumberLiteral) filterNode()      {}

// StringLiteral holds the decoded string body.
type StringLiteral struct {
	Text string
}

func (s *StringLiteral) String() string { return values.Quote(s.Text) }
func (*StringLiteral) filterNode()      {}
