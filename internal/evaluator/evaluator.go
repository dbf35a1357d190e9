package evaluator

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"runtime/debug"

	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/values"
)

// Start evaluates a filter against an input channel. It returns the
// output channel immediately; evaluation proceeds in background workers
// that communicate only through channel operations. A nil input stands
// for the conventional terminated, empty seed channel.
//
// Any panic inside a worker is converted into an internal exception and
// the output channel is terminated, so every started worker terminates
// its output exactly once.
func Start(f ast.Filter, in *channel.Channel) *channel.Channel {
	if in == nil {
		in = channel.NewTerminated()
	}
	out := channel.New()
	go func() {
		defer guard(out, f)
		runRaw(f, in, out)
	}()
	return out
}

func guard(out *channel.Channel, f ast.Filter) {
	if r := recover(); r != nil {
		slog.Debug("filter worker panicked", "filter", f.String(), "panic", r)
		out.Throw(&values.Exception{
			Name:   values.Internal,
			Detail: fmt.Sprintf("%v\n%s", r, debug.Stack()),
		})
	}
}

// runRaw dispatches one filter node. Nodes that must inspect and forward
// their raw input operate on both channel endpoints directly; everything
// else is expressed as a value-producing sequence and goes through the
// guarded bridge wrapper.
func runRaw(f ast.Filter, in, out *channel.Channel) {
	switch f := f.(type) {
	case ast.Empty:
		go out.AdoptScope(in)
		out.Pull(in)
	case *ast.Apply:
		runApply(f, in, out)
	case *ast.Assign:
		runAssign(f, in, out)
	case *ast.Semicolon:
		runSemicolon(f, in, out)
	case *ast.Name:
		runName(f, in, out)
	case *ast.GlobalVariable:
		runGlobalVariable(f, in, out)
	default:
		channel.Bridge(in, out, func(bridge *channel.Channel, emit func(values.Value) bool) {
			run(f, bridge)(emit)
		})
	}
}

// run builds the value sequence for the generator-style variants. The
// sequence runs against the bridge channel, never the raw input.
func run(f ast.Filter, in *channel.Channel) iter.Seq[values.Value] {
	switch f := f.(type) {
	case *ast.Parens:
		return Start(f.Child, in).Values()
	case *ast.ArrayLiteral:
		return runArrayLiteral(f, in)
	case *ast.ObjectLiteral:
		return runObjectLiteral(f, in)
	case *ast.Conditional:
		return runConditional(f, in)
	case *ast.Try:
		return runTry(f, in)
	case *ast.NumberLiteral:
		return runNumberLiteral(f)
	case *ast.StringLiteral:
		return yieldOne(values.String{Value: f.Text})
	case *ast.Pipe:
		return Start(f.Right, Start(f.Left, in)).Values()
	case *ast.Add:
		return runAdd(f, in)
	case *ast.Multiply:
		return runMultiply(f, in)
	case *ast.Pair:
		return runPair(f, in)
	case *ast.Comma:
		return runComma(f, in)
	case *ast.Command:
		return runCommandFilter(f, in)
	}
	panic(fmt.Sprintf("no evaluation rule for %T", f))
}

func yieldOne(v values.Value) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		yield(v)
	}
}

func runNumberLiteral(f *ast.NumberLiteral) iter.Seq[values.Value] {
	n, err := values.NewNumber(f.Digits)
	if err != nil {
		// the lexer only produces digit runs, so this cannot happen
		return yieldOne(&values.Exception{Name: values.Internal, Detail: err.Error()})
	}
	return yieldOne(n)
}

// runArrayLiteral drains the child's full output into one array value.
func runArrayLiteral(f *ast.ArrayLiteral, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		yield(values.NewArray(Start(f.Child, in).Drain()...))
	}
}

// runObjectLiteral pushes each child output value into an object under
// construction. A malformed element yields an inline exception, which
// stops the output; only a clean build yields the finished object.
func runObjectLiteral(f *ast.ObjectLiteral, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		obj := values.NewObject()
		for v := range Start(f.Child, in).Values() {
			switch err := obj.Push(v); {
			case errors.Is(err, values.ErrPairType):
				if !yield(values.NewException(values.TypeError)) {
					return
				}
			case errors.Is(err, values.ErrPairLength):
				if !yield(values.NewException(values.LengthError)) {
					return
				}
			}
		}
		yield(obj)
	}
}

// runConditional walks the if/elif/then/else clause chain. Each
// condition is evaluated to exactly one value against a fork of the
// input; only the taken branch runs, against the un-consumed remainder.
func runConditional(f *ast.Conditional, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		conditional := false
		for _, cl := range f.Clauses {
			switch cl.Keyword {
			case "if", "elif":
				forks := in.Fork(2)
				in = forks[0]
				v, ok := Start(cl.Body, forks[1]).Next()
				if !ok {
					yield(values.NewException(values.EmptyError))
					return
				}
				if values.IsException(v) {
					yield(v)
					return
				}
				conditional = values.Truthy(v)
			case "then":
				if !conditional {
					continue
				}
				emitAll(Start(cl.Body, in), yield)
				return
			case "else":
				if conditional {
					continue
				}
				emitAll(Start(cl.Body, in), yield)
				return
			}
		}
	}
}

// runTry evaluates the try block against a fork of the input and watches
// its output for an exception. A matching named handler, else the
// default handler, runs against input forked before the try block; an
// unhandled exception is re-yielded. Without an exception the else
// handler runs if present, otherwise the try block's own output replays.
func runTry(f *ast.Try, in *channel.Channel) iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		var tryBlock ast.Filter = ast.Empty{}
		handlers := make(map[string]ast.Filter)
		var defaultHandler, elseHandler ast.Filter
		var pendingNames []string
		for _, cl := range f.Clauses {
			switch cl.Keyword {
			case "try":
				tryBlock = cl.Body
			case "catch":
				forks := in.Fork(2)
				in = forks[0]
				name, err := sensibleString(cl.Body, forks[1])
				if err != nil {
					yield(values.NewException(values.SensibleString))
					return
				}
				pendingNames = append(pendingNames, name)
			case "then":
				for _, n := range pendingNames {
					handlers[n] = cl.Body
				}
				pendingNames = nil
			case "except":
				defaultHandler = cl.Body
			case "else":
				elseHandler = cl.Body
			}
		}
		forks := in.Fork(2)
		tryIn, exceptIn := forks[0], forks[1]
		tryForks := Start(tryBlock, tryIn).Fork(2)
		tryOut, replay := tryForks[0], tryForks[1]
		for v := range tryOut.Values() {
			exc, ok := v.(*values.Exception)
			if !ok {
				continue
			}
			if handler, ok := handlers[exc.Name]; ok {
				emitAll(Start(handler, exceptIn), yield)
				return
			}
			if defaultHandler != nil {
				emitAll(Start(defaultHandler, exceptIn), yield)
				return
			}
			yield(exc)
			return
		}
		if elseHandler != nil {
			emitAll(Start(elseHandler, exceptIn), yield)
			return
		}
		emitAll(replay, yield)
	}
}

func emitAll(ch *channel.Channel, yield func(values.Value) bool) {
	for v := range ch.Values() {
		if !yield(v) {
			return
		}
	}
}

// runName resolves a bare identifier: a local binding replays its
// captured sequence, otherwise a zero-argument builtin is invoked.
func runName(f *ast.Name, in, out *channel.Channel) {
	if seq, ok := in.Locals().Lookup(f.Name); ok {
		go out.AdoptScope(in)
		for _, v := range seq {
			out.Push(v)
		}
		out.Terminate()
		return
	}
	ctx := in.Context()
	if ctx.Catalog != nil {
		if builtin, ok := ctx.Catalog.Lookup(f.Name, 0); ok {
			builtin(nil, in, out)
			return
		}
		if ctx.Catalog.Has(f.Name) {
			out.Throw(&values.Exception{
				Name:        values.NumArgsError,
				MissingName: f.Name,
				Expected:    ctx.Catalog.Arities(f.Name),
				Received:    0,
			})
			return
		}
	}
	out.Throw(&values.Exception{Name: values.NameError, MissingName: f.Name})
}

// runGlobalVariable replays a dynamically scoped binding.
func runGlobalVariable(f *ast.GlobalVariable, in, out *channel.Channel) {
	go out.AdoptScope(in)
	name, err := sensibleString(f.Child, in)
	if err != nil {
		out.ThrowKind(values.SensibleString)
		return
	}
	seq, ok := in.Globals().Lookup(name)
	if !ok {
		out.Throw(&values.Exception{Name: values.NameError, MissingName: name})
		return
	}
	for _, v := range seq {
		out.Push(v)
	}
	out.Terminate()
}

// runSemicolon makes the left operand's bindings visible to the right
// operand while discarding the left operand's values.
func runSemicolon(f *ast.Semicolon, in, out *channel.Channel) {
	forks := in.Fork(2)
	leftOut := Start(f.Left, forks[0])
	rightIn := channel.New()
	go rightIn.AdoptScope(leftOut)
	go rightIn.Pull(forks[1])
	rightOut := Start(f.Right, rightIn)
	for v := range rightOut.Values() {
		out.Push(v)
	}
	out.Terminate()
	out.AdoptScope(rightOut)
}

var (
	errEmptyResult = errors.New("filter produced no values")
	errNotString   = errors.New("filter produced a non-string value")
)

// sensibleString evaluates a filter that must stand for exactly one
// string, as used where a name-like argument is required. A bare name is
// taken literally, without evaluation.
func sensibleString(f ast.Filter, in *channel.Channel) (string, error) {
	if n, ok := f.(*ast.Name); ok {
		return n.Name, nil
	}
	v, ok := Start(f, in).Next()
	if !ok {
		return "", errEmptyResult
	}
	s, ok := v.(values.String)
	if !ok {
		return "", errNotString
	}
	return s.Value, nil
}
