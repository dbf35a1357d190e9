package channel

import "sync"

// cell is a write-once waitable slot. Readers block until the first set;
// later sets are ignored. This mirrors how scope metadata behaves: it is
// attached once per channel and never mutated afterwards, but a producer
// may attach it after consumers have already started waiting.
type cell[T any] struct {
	once  sync.Once
	init  sync.Once
	ready chan struct{}
	v     T
}

func (c *cell[T]) channel() chan struct{} {
	c.init.Do(func() { c.ready = make(chan struct{}) })
	return c.ready
}

func (c *cell[T]) set(v T) {
	ready := c.channel()
	c.once.Do(func() {
		c.v = v
		close(ready)
	})
}

func (c *cell[T]) get() T {
	<-c.channel()
	return c.v
}
