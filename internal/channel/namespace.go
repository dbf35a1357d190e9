package channel

import "github.com/hajdbo/jqsh/internal/values"

// Namespace maps variable names to their captured value sequences. A
// variable captures everything a sub-pipeline produced, and replays the
// whole sequence on reference.
//
// Namespaces are never mutated once attached to a channel: a filter that
// introduces a binding builds a copy-with-addition and attaches that to
// its output channel, so sibling branches forked from the same input
// never observe each other's bindings.
type Namespace map[string][]values.Value

func (ns Namespace) Lookup(name string) ([]values.Value, bool) {
	seq, ok := ns[name]
	return seq, ok
}

// With returns a copy of ns with name bound to seq.
func (ns Namespace) With(name string, seq []values.Value) Namespace {
	ret := make(Namespace, len(ns)+1)
	for k, v := range ns {
		ret[k] = v
	}
	ret[name] = seq
	return ret
}
