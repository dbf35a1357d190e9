package channel

import (
	"iter"
	"sync"

	"github.com/hajdbo/jqsh/internal/values"
)

// Channel is an ordered, terminable stream of values plus scope metadata
// (local namespace, global namespace, context). It supports fan-out into
// multiple independently-paced readers over one logical producer, which
// is how every multi-operand filter lets each operand see identical input.
//
// Value transport is an unbounded FIFO: Push never blocks, readers block
// until a value arrives or termination is observed. The scope fields are
// write-once waitable cells; readers of a cell block until a producer has
// attached it.
type Channel struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue          []values.Value
	inputDone      bool // Terminate called; no further Push is valid
	readerDone     bool // end-of-stream observed (or the channel was forked away)
	locals         cell[Namespace]
	globals        cell[Namespace]
	context        cell[*Context]
}

func New() *Channel {
	ch := &Channel{}
	ch.cond = sync.NewCond(&ch.mu)
	return ch
}

// NewTerminated returns a terminated channel seeded with vs and empty
// scope. It is the conventional input for a root filter.
func NewTerminated(vs ...values.Value) *Channel {
	ch := NewWithScope(vs...)
	ch.Terminate()
	return ch
}

// NewWithScope returns an open channel seeded with vs, with empty local
// and global namespaces and a default context already attached.
func NewWithScope(vs ...values.Value) *Channel {
	ch := New()
	ch.queue = append(ch.queue, vs...)
	ch.SetLocals(Namespace{})
	ch.SetGlobals(Namespace{})
	ch.SetContext(NewContext())
	return ch
}

// NewSeed returns an open channel seeded with vs whose scope is left for
// the caller to attach (typically adopted from another channel).
func NewSeed(vs ...values.Value) *Channel {
	ch := New()
	ch.queue = append(ch.queue, vs...)
	return ch
}

// Push appends a value. Pushing to a terminated channel is a programming
// contract violation and panics; the worker boundary converts such panics
// into internal exceptions.
func (ch *Channel) Push(v values.Value) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.inputDone {
		panic("push on terminated jqsh channel")
	}
	ch.queue = append(ch.queue, v)
	ch.cond.Broadcast()
}

// Terminate marks end-of-stream. It is idempotent: throw paths terminate
// and the generic worker wrapper terminates again afterwards.
func (ch *Channel) Terminate() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.inputDone = true
	ch.cond.Broadcast()
}

// Throw pushes an exception (best-effort: a terminated channel swallows
// it), attaches empty scope to any scope cell still unset so no consumer
// blocks forever, and terminates.
func (ch *Channel) Throw(exc *values.Exception) {
	ch.mu.Lock()
	if !ch.inputDone {
		ch.queue = append(ch.queue, exc)
	}
	ch.inputDone = true
	ch.cond.Broadcast()
	ch.mu.Unlock()
	ch.locals.set(Namespace{})
	ch.globals.set(Namespace{})
	ch.context.set(NewContext())
}

// ThrowKind is shorthand for throwing a fresh exception of a kind.
func (ch *Channel) ThrowKind(kind string) {
	ch.Throw(values.NewException(kind))
}

// Next returns the next value, blocking until one is available. The
// second result is false once the channel has terminated; after that,
// Next never blocks again.
func (ch *Channel) Next() (values.Value, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for {
		if ch.readerDone {
			return nil, false
		}
		if len(ch.queue) > 0 {
			v := ch.queue[0]
			ch.queue = ch.queue[1:]
			return v, true
		}
		if ch.inputDone {
			ch.readerDone = true
			return nil, false
		}
		ch.cond.Wait()
	}
}

// Values is the sequential consumption view of the channel.
func (ch *Channel) Values() iter.Seq[values.Value] {
	return func(yield func(values.Value) bool) {
		for {
			v, ok := ch.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Drain collects every remaining value.
func (ch *Channel) Drain() []values.Value {
	var vs []values.Value
	for v := range ch.Values() {
		vs = append(vs, v)
	}
	return vs
}

// Fork splits the channel into n channels that each replay the same value
// sequence in push order, independently paced — a broadcast, not a
// partition. The original appears terminated to further direct readers.
// Each fork receives its own copy of the scope metadata, attached as soon
// as the source's scope is known.
func (ch *Channel) Fork(n int) []*Channel {
	ch.mu.Lock()
	if ch.readerDone {
		ch.mu.Unlock()
		ret := make([]*Channel, n)
		for i := range ret {
			ret[i] = New()
			ret[i].Terminate()
			go ret[i].AdoptScope(ch)
		}
		return ret
	}
	buffered := ch.queue
	ch.queue = nil
	live := !ch.inputDone
	ch.readerDone = true
	ch.mu.Unlock()

	ret := make([]*Channel, n)
	for i := range ret {
		ret[i] = New()
		ret[i].queue = append(ret[i].queue, buffered...)
		go ret[i].AdoptScope(ch)
	}
	if live {
		go ch.spread(ret)
	} else {
		for _, fork := range ret {
			fork.Terminate()
		}
	}
	return ret
}

// spread relays values pushed after the fork point into every fork, then
// terminates them when the source terminates.
func (ch *Channel) spread(forks []*Channel) {
	for {
		ch.mu.Lock()
		for len(ch.queue) == 0 && !ch.inputDone {
			ch.cond.Wait()
		}
		if len(ch.queue) == 0 {
			ch.mu.Unlock()
			break
		}
		v := ch.queue[0]
		ch.queue = ch.queue[1:]
		ch.mu.Unlock()
		for _, fork := range forks {
			fork.Push(v)
		}
	}
	for _, fork := range forks {
		fork.Terminate()
	}
}

// Pull forwards every value from other into ch until other terminates,
// then terminates ch. Used to splice one channel's output into another.
func (ch *Channel) Pull(other *Channel) {
	for v := range other.Values() {
		ch.Push(v)
	}
	ch.Terminate()
}

// Locals blocks until the local namespace is attached, then returns it.
func (ch *Channel) Locals() Namespace { return ch.locals.get() }

// Globals blocks until the global namespace is attached.
func (ch *Channel) Globals() Namespace { return ch.globals.get() }

// Context blocks until the context is attached.
func (ch *Channel) Context() *Context { return ch.context.get() }

// SetLocals attaches the local namespace. Later sets are ignored: scope
// cells are write-once.
func (ch *Channel) SetLocals(ns Namespace) { ch.locals.set(ns) }

func (ch *Channel) SetGlobals(ns Namespace) { ch.globals.set(ns) }

func (ch *Channel) SetContext(c *Context) { ch.context.set(c) }

// AdoptScope copies all three scope fields from another channel,
// blocking until each is available there. Nodes that pass scope through
// unchanged run it in its own goroutine.
func (ch *Channel) AdoptScope(from *Channel) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); ch.SetLocals(from.Locals()) }()
	go func() { defer wg.Done(); ch.SetGlobals(from.Globals()) }()
	go func() { defer wg.Done(); ch.SetContext(from.Context()) }()
	wg.Wait()
}

// AdoptLocals copies only the local namespace field.
func (ch *Channel) AdoptLocals(from *Channel) { ch.SetLocals(from.Locals()) }

// AdoptGlobals copies only the global namespace field.
func (ch *Channel) AdoptGlobals(from *Channel) { ch.SetGlobals(from.Globals()) }

// AdoptContext copies only the context field.
func (ch *Channel) AdoptContext(from *Channel) { ch.SetContext(from.Context()) }
