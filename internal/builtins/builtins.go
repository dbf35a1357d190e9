package builtins

import (
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/evaluator"
	"github.com/hajdbo/jqsh/internal/values"
)

// constant builds a builtin that yields one fixed value.
func constant(v values.Value) channel.Builtin {
	return func(_ []ast.Filter, in, out *channel.Channel) {
		channel.Bridge(in, out, func(_ *channel.Channel, emit func(values.Value) bool) {
			emit(v)
		})
	}
}

// empty yields nothing.
func empty(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(_ *channel.Channel, _ func(values.Value) bool) {})
}

// argvAll yields each process argument as a String.
func argvAll(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		for _, arg := range bridge.Context().Argv {
			if !emit(values.String{Value: arg}) {
				return
			}
		}
	})
}

// argvNth indexes the process arguments with the argument filter's
// single value.
func argvNth(args []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		forks := bridge.Fork(2)
		idx, exc := singleIndex(args[0], forks[1])
		if exc != nil {
			emit(exc)
			return
		}
		argv := forks[0].Context().Argv
		if idx < 0 || idx >= int64(len(argv)) {
			emit(values.NewException(values.IndexError))
			return
		}
		emit(values.String{Value: argv[idx]})
	})
}

// singleIndex evaluates a filter that must produce exactly one integral
// number.
func singleIndex(f ast.Filter, in *channel.Channel) (int64, *values.Exception) {
	v, ok := evaluator.Start(f, in).Next()
	if !ok {
		return 0, values.NewException(values.EmptyError)
	}
	if exc, ok := v.(*values.Exception); ok {
		return 0, exc
	}
	n, ok := v.(values.Number)
	if !ok {
		return 0, values.NewException(values.TypeError)
	}
	if !n.IsInteger() {
		return 0, values.NewException(values.IntegerError)
	}
	return n.Value.IntPart(), nil
}

// each runs the argument filter once per input value, with that value as
// the filter's entire input.
func each(args []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		for v := range bridge.Values() {
			seed := channel.NewSeed(v)
			seed.Terminate()
			go seed.AdoptScope(bridge)
			for r := range evaluator.Start(args[0], seed).Values() {
				if !emit(r) {
					return
				}
			}
		}
	})
}

// explode yields one codepoint number per rune of each input string,
// the inverse of implode.
func explode(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		for v := range bridge.Values() {
			s, ok := v.(values.String)
			if !ok {
				emit(values.NewException(values.TypeError))
				return
			}
			for _, r := range s.Runes() {
				if !emit(values.NumberFromInt(int64(r))) {
					return
				}
			}
		}
	})
}

// implode collects the whole input stream of codepoint numbers into one
// string.
func implode(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		var b strings.Builder
		for v := range bridge.Values() {
			n, ok := v.(values.Number)
			if !ok {
				emit(values.NewException(values.TypeError))
				return
			}
			if !n.IsInteger() {
				emit(values.NewException(values.IntegerError))
				return
			}
			cp := n.Value.IntPart()
			if cp < 0 || cp > 0x10FFFF || utf16.IsSurrogate(rune(cp)) {
				emit(values.NewException(values.UnicodeError))
				return
			}
			b.WriteRune(rune(cp))
		}
		emit(values.String{Value: b.String()})
	})
}

// fold implements for (intermediate states emitted) and reduce (final
// state only). The first argument produces the initial state sequence;
// each input value advances the state by running the second argument
// with the current state as its entire input.
func fold(emitIntermediate bool) channel.Builtin {
	return func(args []ast.Filter, in, out *channel.Channel) {
		channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
			forks := bridge.Fork(2)
			state := evaluator.Start(args[0], forks[1]).Drain()
			if exc := firstException(state); exc != nil {
				emit(exc)
				return
			}
			for range forks[0].Values() {
				seed := channel.NewSeed(state...)
				seed.Terminate()
				go seed.AdoptScope(forks[0])
				state = evaluator.Start(args[1], seed).Drain()
				if exc := firstException(state); exc != nil {
					emit(exc)
					return
				}
				if emitIntermediate {
					for _, v := range state {
						if !emit(v) {
							return
						}
					}
				}
			}
			if !emitIntermediate {
				for _, v := range state {
					if !emit(v) {
						return
					}
				}
			}
		})
	}
}

func firstException(seq []values.Value) *values.Exception {
	for _, v := range seq {
		if exc, ok := v.(*values.Exception); ok {
			return exc
		}
	}
	return nil
}

// isMain reports whether this run is the top-level invocation.
func isMain(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		emit(values.Boolean{Value: bridge.Context().IsMain})
	})
}

// nth yields the n-th input value, counting from zero.
func nth(args []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		forks := bridge.Fork(2)
		idx, exc := singleIndex(args[0], forks[1])
		if exc != nil {
			emit(exc)
			return
		}
		var i int64
		for v := range forks[0].Values() {
			if i == idx {
				emit(v)
				return
			}
			i++
		}
		emit(values.NewException(values.NumValues))
	})
}

// rangeBuiltin yields 0..n-1 for each input integer n.
func rangeBuiltin(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
		for v := range bridge.Values() {
			n, ok := v.(values.Number)
			if !ok {
				emit(values.NewException(values.TypeError))
				return
			}
			if !n.IsInteger() {
				emit(values.NewException(values.IntegerError))
				return
			}
			for i := int64(0); i < n.Value.IntPart(); i++ {
				if !emit(values.NumberFromInt(i)) {
					return
				}
			}
		}
	})
}

// uuidBuiltin yields one random identifier.
func uuidBuiltin(_ []ast.Filter, in, out *channel.Channel) {
	channel.Bridge(in, out, func(_ *channel.Channel, emit func(values.Value) bool) {
		emit(values.String{Value: uuid.NewString()})
	})
}
