package ast

import "strings"

// Pipe evaluates its right operand against the left operand's output.
type Pipe struct {
	Left  Filter
	Right Filter
}

func (p *Pipe) String() string { return p.Left.String() + " | " + p.Right.String() }
func (*Pipe) filterNode()      {}

// Add combines forked operand outputs pairwise: number addition, string
// and array concatenation, object merge.
type Add struct {
	Left  Filter
	Right Filter
}

func (a *Add) String() string { return a.Left.String() + " + " + a.Right.String() }
func (*Add) filterNode()      {}

// Multiply combines forked operand outputs pairwise: number
// multiplication, string and array repetition.
type Multiply struct {
	Left  Filter
	Right Filter
}

func (m *Multiply) String() string { return m.Left.String() + " * " + m.Right.String() }
func (*Multiply) filterNode()      {}

// Pair yields one [left, right] pair per left output value; the right
// operand must produce exactly one value.
type Pair struct {
	Left  Filter
	Right Filter
}

func (p *Pair) String() string { return p.Left.String() + ": " + p.Right.String() }
func (*Pair) filterNode()      {}

// Comma sequences its operands: all of left's output, then all of
// right's, with both running concurrently.
type Comma struct {
	Left  Filter
	Right Filter
}

func (c *Comma) String() string { return c.Left.String() + ", " + c.Right.String() }
func (*Comma) filterNode()      {}

// Semicolon chains statements: the left operand's bindings become visible
// to the right operand, the left operand's values are discarded.
type Semicolon struct {
	Left  Filter
	Right Filter
}

func (s *Semicolon) String() string { return s.Left.String() + "; " + s.Right.String() }
func (*Semicolon) filterNode()      {}

// Assign installs the right operand's captured value sequence under the
// left operand's name (local for names, global for $-variables).
type Assign struct {
	Left  Filter
	Right Filter
}

func (a *Assign) String() string { return a.Left.String() + " = " + a.Right.String() }
func (*Assign) filterNode()      {}

// Apply is the overloaded dot/juxtaposition form. In the binary form
// Operands has exactly two entries (either possibly Empty); in the
// variadic form it is a run of juxtaposed operands, the first of which
// names a builtin or command. What an Apply means is resolved at
// evaluation time.
type Apply struct {
	Operands []Filter
	Variadic bool
}

func NewApplyDot(left, right Filter) *Apply {
	return &Apply{Operands: []Filter{left, right}}
}

func NewApplyCall(operands ...Filter) *Apply {
	return &Apply{Operands: operands, Variadic: true}
}

func (a *Apply) String() string {
	parts := make([]string, len(a.Operands))
	for i, op := range a.Operands {
		parts[i] = op.String()
	}
	if a.Variadic {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, ".")
}
func (*Apply) filterNode() {}

// Command invokes an external process named by its operand.
type Command struct {
	Child Filter
}

func (c *Command) String() string { return "!" + c.Child.String() }
func (*Command) filterNode()      {}

// GlobalVariable references (or, under Assign, binds) a dynamically
// scoped variable.
type GlobalVariable struct {
	Child Filter
}

func (g *GlobalVariable) String() string { return "$" + g.Child.String() }
func (*GlobalVariable) filterNode()      {}
