package evaluator

import (
	"iter"
	"strings"

	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/values"
)

// drainOperands forks the input, evaluates both operands concurrently
// and collects their complete output sequences.
func drainOperands(left, right ast.Filter, in *channel.Channel) (lv, rv []values.Value) {
	forks := in.Fork(2)
	leftOut := Start(left, forks[0])
	rightOut := Start(right, forks[1])
	done := make(chan struct{})
	go func() {
		rv = rightOut.Drain()
		close(done)
	}()
	lv = leftOut.Drain()
	<-done
	return lv, rv
}

// combinePairs pairs the two sequences index by index, cycling the
// shorter one so that the result has max(m, n) entries. If one side is
// empty the other side's values pass through unchanged.
func combinePairs(lv, rv []values.Value, combine func(a, b values.Value) values.Value) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		switch {
		case len(lv) == 0 && len(rv) == 0:
			return
		case len(lv) == 0:
			for _, v := range rv {
				if !yield(v) {
					return
				}
			}
		case len(rv) == 0:
			for _, v := range lv {
				if !yield(v) {
					return
				}
			}
		default:
			n := max(len(lv), len(rv))
			for i := 0; i < n; i++ {
				if !yield(combine(lv[i%len(lv)], rv[i%len(rv)])) {
					return
				}
			}
		}
	}
}

func runAdd(f *ast.Add, in *channel.Channel) iter.Seq[values.Value] {
	lv, rv := drainOperands(f.Left, f.Right, in)
	return combinePairs(lv, rv, addValues)
}

func addValues(a, b values.Value) values.Value {
	switch a := a.(type) {
	case values.Number:
		if b, ok := b.(values.Number); ok {
			return values.Number{Value: a.Value.Add(b.Value)}
		}
	case values.String:
		if b, ok := b.(values.String); ok {
			return values.String{Value: a.Value + b.Value}
		}
	case *values.Array:
		if b, ok := b.(*values.Array); ok {
			items := make([]values.Value, 0, len(a.Items)+len(b.Items))
			items = append(items, a.Items...)
			items = append(items, b.Items...)
			return values.NewArray(items...)
		}
	case *values.Object:
		if b, ok := b.(*values.Object); ok {
			return a.Merge(b)
		}
	}
	return values.NewException(values.TypeError)
}

func runMultiply(f *ast.Multiply, in *channel.Channel) iter.Seq[values.Value] {
	lv, rv := drainOperands(f.Left, f.Right, in)
	return combinePairs(lv, rv, multiplyValues)
}

func multiplyValues(a, b values.Value) values.Value {
	if an, ok := a.(values.Number); ok {
		switch b := b.(type) {
		case values.Number:
			return values.Number{Value: an.Value.Mul(b.Value)}
		case values.String:
			return repeatString(b, an)
		case *values.Array:
			return repeatArray(b, an)
		}
		return values.NewException(values.TypeError)
	}
	if bn, ok := b.(values.Number); ok {
		switch a := a.(type) {
		case values.String:
			return repeatString(a, bn)
		case *values.Array:
			return repeatArray(a, bn)
		}
	}
	return values.NewException(values.TypeError)
}

func repeatString(s values.String, count values.Number) values.Value {
	n, ok := repeatCount(count)
	if !ok {
		return values.NewException(values.IntegerError)
	}
	return values.String{Value: strings.Repeat(s.Value, n)}
}

func repeatArray(a *values.Array, count values.Number) values.Value {
	n, ok := repeatCount(count)
	if !ok {
		return values.NewException(values.IntegerError)
	}
	items := make([]values.Value, 0, n*len(a.Items))
	for i := 0; i < n; i++ {
		items = append(items, a.Items...)
	}
	return values.NewArray(items...)
}

// repeatCount validates an integral, non-negative repetition factor.
// Negative factors clamp to zero, matching the empty result of
// repeating something a negative number of times.
func repeatCount(count values.Number) (int, bool) {
	if !count.IsInteger() {
		return 0, false
	}
	n := count.Value.IntPart()
	if n < 0 {
		n = 0
	}
	return int(n), true
}

// runPair evaluates the right operand to exactly one value and yields a
// two-element array for each left operand value.
func runPair(f *ast.Pair, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		forks := in.Fork(2)
		rightValue, ok := Start(f.Right, forks[1]).Next()
		if !ok {
			yield(values.NewException(values.EmptyError))
			return
		}
		for v := range Start(f.Left, forks[0]).Values() {
			if !yield(values.NewArray(v, rightValue)) {
				return
			}
		}
	}
}

// runComma yields the left operand's values first, then the right
// operand's. The right operand evaluates concurrently; its output
// buffers until the left operand finishes.
func runComma(f *ast.Comma, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		forks := in.Fork(2)
		rightOut := Start(f.Right, forks[1])
		for v := range Start(f.Left, forks[0]).Values() {
			if !yield(v) {
				return
			}
		}
		emitAll(rightOut, yield)
	}
}

// runCommandFilter resolves a bare !name command and runs it with no
// extra arguments.
func runCommandFilter(f *ast.Command, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		forks := in.Fork(2)
		name, err := sensibleString(f.Child, forks[1])
		if err != nil {
			yield(values.NewException(values.SensibleString))
			return
		}
		runCommand([]string{name}, forks[0], yield)
	}
}
