package task

import (
	g "github.com/anacrolix/generics"
)

// Waker is the resumption handle of a task. A future that returns
// Pending arranges for Wake to be called once polling it again can
// make progress. Wake may be called from any goroutine and any number
// of times.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to the Waker interface.
type WakerFunc func()

func (f WakerFunc) Wake() { f() }

type noopWaker struct{}

func (noopWaker) Wake() {}

// NoopWaker ignores wake-ups. It suits callers that poll in a loop
// regardless of readiness.
var NoopWaker Waker = noopWaker{}

// Context is passed to every poll. It is only valid for the duration
// of that poll.
type Context struct {
	waker Waker
}

func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

func (cx *Context) Waker() Waker {
	return cx.waker
}

// Poll is the outcome of polling a future: either Ready with a value
// or Pending.
type Poll[T any] struct {
	value T
	ready bool
}

func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

func (p Poll[T]) IsReady() bool { return p.ready }

func (p Poll[T]) IsPending() bool { return !p.ready }

// Get returns the value and whether the poll was ready.
func (p Poll[T]) Get() (T, bool) { return p.value, p.ready }

// Future is a computation that completes after being polled one or
// more times. Once a future returned Ready it must not be polled
// again.
type Future[T any] interface {
	Poll(cx *Context) Poll[T]
}

// FutureFunc adapts a poll function to the Future interface.
type FutureFunc[T any] func(cx *Context) Poll[T]

func (f FutureFunc[T]) Poll(cx *Context) Poll[T] { return f(cx) }

// Stream is a sequence whose items are pulled one poll at a time.
// PollNext returns Pending while the next item is not available,
// Ready(Some(item)) for an item and Ready(None) once the sequence is
// exhausted.
type Stream[T any] interface {
	PollNext(cx *Context) Poll[g.Option[T]]
}

// Value returns a future that is immediately ready with v.
func Value[T any](v T) Future[T] {
	return FutureFunc[T](func(*Context) Poll[T] {
		return Ready(v)
	})
}
