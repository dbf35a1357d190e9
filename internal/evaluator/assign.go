package evaluator

import (
	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/values"
)

// runAssign captures the right operand's complete output sequence and
// binds it under the target name. The binding travels downstream as
// scope; the output carries no values. An exception in the captured
// sequence aborts the binding and is forwarded instead.
func runAssign(f *ast.Assign, in, out *channel.Channel) {
	forks := in.Fork(2)
	valueOut := Start(f.Right, forks[0])
	switch target := f.Left.(type) {
	case *ast.Name:
		assignLocal(target.Name, valueOut, forks[1], out)
	case *ast.GlobalVariable:
		assignGlobal(target, valueOut, forks[1], out)
	default:
		out.Throw(&values.Exception{
			Name:       values.Assignment,
			TargetText: f.Left.String(),
		})
	}
}

func assignLocal(name string, valueOut, in, out *channel.Channel) {
	go out.AdoptGlobals(in)
	go out.AdoptContext(in)
	locals := in.Locals()
	captured := valueOut.Drain()
	if exc := firstException(captured); exc != nil {
		out.Push(exc)
		out.SetLocals(locals)
		out.Terminate()
		return
	}
	out.SetLocals(locals.With(name, captured))
	out.Terminate()
}

func assignGlobal(target *ast.GlobalVariable, valueOut, in, out *channel.Channel) {
	go out.AdoptLocals(in)
	go out.AdoptContext(in)
	name, err := sensibleString(target.Child, in)
	if err != nil {
		out.ThrowKind(values.SensibleString)
		return
	}
	globals := in.Globals()
	captured := valueOut.Drain()
	if exc := firstException(captured); exc != nil {
		out.Push(exc)
		out.SetGlobals(globals)
		out.Terminate()
		return
	}
	out.SetGlobals(globals.With(name, captured))
	out.Terminate()
}

func firstException(seq []values.Value) *values.Exception {
	for _, v := range seq {
		if exc, ok := v.(*values.Exception); ok {
			return exc
		}
	}
	return nil
}
