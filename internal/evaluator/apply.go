package evaluator

import (
	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/values"
)

// runApply dispatches the dot/juxtaposition family: bare identity,
// decimal fusion of two number literals, container indexing, commands
// with arguments and builtin calls.
func runApply(f *ast.Apply, in, out *channel.Channel) {
	ops := f.Operands
	if allEmpty(ops) {
		go out.AdoptScope(in)
		out.Pull(in)
		return
	}
	if cmd, ok := ops[0].(*ast.Command); ok {
		runCommandCall(cmd, ops[1:], in, out)
		return
	}
	if !f.Variadic {
		whole, wok := ops[0].(*ast.NumberLiteral)
		frac, fok := ops[1].(*ast.NumberLiteral)
		if wok && fok {
			runDecimalFusion(whole, frac, in, out)
			return
		}
		if ast.IsEmpty(ops[0]) {
			runIndex(ops[1], in, out)
			return
		}
		// a dot chain indexes left to right
		if inner, ok := ops[0].(*ast.Apply); ok && !inner.Variadic {
			runIndex(ops[1], Start(inner, in), out)
			return
		}
	}
	runBuiltinCall(ops[0], ops[1:], in, out)
}

func allEmpty(ops []ast.Filter) bool {
	for _, op := range ops {
		if !ast.IsEmpty(op) {
			return false
		}
	}
	return true
}

// runDecimalFusion joins two adjacent digit runs into one decimal
// number, which is how fractional literals are written.
func runDecimalFusion(whole, frac *ast.NumberLiteral, in, out *channel.Channel) {
	n, err := values.NewNumber(whole.Digits + "." + frac.Digits)
	if err != nil {
		out.Throw(&values.Exception{Name: values.Internal, Detail: err.Error()})
		return
	}
	out.Push(n)
	out.Terminate()
	out.AdoptScope(in)
}

// runIndex evaluates the key filter to exactly one value and indexes
// each input value with it. Objects take any key kind; arrays take
// integral numbers, counting from the end when negative.
func runIndex(keyFilter ast.Filter, in, out *channel.Channel) {
	forks := in.Fork(2)
	in = forks[0]
	key, ok := Start(keyFilter, forks[1]).Next()
	if !ok {
		out.ThrowKind(values.EmptyError)
		return
	}
	if exc, ok := key.(*values.Exception); ok {
		out.Throw(exc)
		return
	}
	for v := range in.Values() {
		switch v := v.(type) {
		case *values.Exception:
			out.Throw(v)
			return
		case *values.Object:
			item, ok := v.Get(key)
			if !ok {
				out.ThrowKind(values.KeyError)
				return
			}
			out.Push(item)
		case *values.Array:
			num, ok := key.(values.Number)
			if !ok {
				out.ThrowKind(values.TypeError)
				return
			}
			if !num.IsInteger() {
				out.ThrowKind(values.IntegerError)
				return
			}
			idx := int(num.Value.IntPart())
			if idx < 0 {
				idx += len(v.Items)
			}
			if idx < 0 || idx >= len(v.Items) {
				out.ThrowKind(values.IndexError)
				return
			}
			out.Push(v.Items[idx])
		default:
			out.ThrowKind(values.TypeError)
			return
		}
	}
	out.Terminate()
	out.AdoptScope(in)
}

// runCommandCall builds an argument vector from the command name and
// each trailing operand, then runs the external process.
func runCommandCall(cmd *ast.Command, args []ast.Filter, in, out *channel.Channel) {
	forks := in.Fork(len(args) + 2)
	in = forks[0]
	argv := make([]string, 0, len(args)+1)
	name, err := sensibleString(cmd.Child, forks[1])
	if err != nil {
		out.ThrowKind(values.SensibleString)
		return
	}
	argv = append(argv, name)
	for i, arg := range args {
		s, err := sensibleString(arg, forks[i+2])
		if err != nil {
			out.ThrowKind(values.SensibleString)
			return
		}
		argv = append(argv, s)
	}
	runCommand(argv, in, func(v values.Value) bool {
		out.Push(v)
		return !values.IsException(v)
	})
	out.Terminate()
	out.AdoptScope(in)
}

// runBuiltinCall resolves a named builtin at the call's arity.
func runBuiltinCall(nameFilter ast.Filter, args []ast.Filter, in, out *channel.Channel) {
	forks := in.Fork(2)
	in = forks[0]
	name, err := sensibleString(nameFilter, forks[1])
	if err != nil {
		out.ThrowKind(values.SensibleString)
		return
	}
	ctx := in.Context()
	if ctx.Catalog == nil {
		out.Throw(&values.Exception{Name: values.NameError, MissingName: name})
		return
	}
	builtin, ok := ctx.Catalog.Lookup(name, len(args))
	if ok {
		builtin(args, in, out)
		return
	}
	if ctx.Catalog.Has(name) {
		out.Throw(&values.Exception{
			Name:        values.NumArgsError,
			MissingName: name,
			Expected:    ctx.Catalog.Arities(name),
			Received:    len(args),
		})
		return
	}
	out.Throw(&values.Exception{Name: values.NameError, MissingName: name})
}
