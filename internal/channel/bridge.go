package channel

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/hajdbo/jqsh/internal/values"
)

// Bridge runs the generic worker protocol shared by filters and
// builtins. Input values are relayed into a bridge channel for the body
// while the wrapper watches for upstream exceptions, which short-circuit
// the pipeline. Values the body emits are pushed downstream; an emitted
// exception stops the body. Scope flows from the input to both the
// bridge and the output, and the output is terminated exactly once.
func Bridge(in, out *Channel, body func(bridge *Channel, emit func(values.Value) bool)) {
	bridge := New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				slog.Debug("worker body panicked", "panic", r)
				out.Throw(&values.Exception{
					Name:   values.Internal,
					Detail: fmt.Sprintf("%v\n%s", r, debug.Stack()),
				})
			}
		}()
		body(bridge, func(v values.Value) bool {
			out.Push(v)
			return !values.IsException(v)
		})
	}()
	go func() {
		bridge.AdoptScope(in)
		out.AdoptScope(in)
	}()
	var pending *values.Exception
	for v := range in.Values() {
		if exc, ok := v.(*values.Exception); ok {
			pending = exc
			break
		}
		bridge.Push(v)
	}
	bridge.Terminate()
	<-done
	// the body's output for the prefix flushes before the exception
	if pending != nil {
		out.Throw(pending)
	}
	out.Terminate()
}
