package task

import (
	"errors"

	"github.com/webriots/strim/internal/coro"
)

// ErrPolledAfterCompletion is the panic value of polling an Async
// future again after it returned Ready or was closed.
var ErrPolledAfterCompletion = errors.New("task: future polled after completion")

// Awaiter is handed to the body of an Async future. It holds the
// Context of the poll currently running the body.
type Awaiter struct {
	cx      *Context
	suspend func() *Context
}

// Context returns the Context of the poll currently running the body.
// It changes every time the body resumes from a suspension.
func (a *Awaiter) Context() *Context {
	return a.cx
}

// Await polls f with the current Context until it is Ready and
// returns its value. Each time f is Pending the body suspends and the
// enclosing Async future reports Pending to its own poller; f is
// polled again with the Context of the next poll.
//
// If the body is unwound while suspended, because the Async future was
// closed, f is closed too when it has a Close method.
func Await[T any](a *Awaiter, f Future[T]) T {
	for {
		if v, ok := f.Poll(a.cx).Get(); ok {
			return v
		}
		a.cx = a.suspendOn(f)
	}
}

func (a *Awaiter) suspendOn(f any) *Context {
	resumed := false
	defer func() {
		if resumed {
			return
		}
		if c, ok := f.(interface{ Close() }); ok {
			c.Close()
		}
	}()
	cx := a.suspend()
	resumed = true
	return cx
}

// AsyncFuture runs a Go function as a Future. See Async.
type AsyncFuture[T any] struct {
	body   func(*Awaiter) T
	resume func(*Context) (T, bool)
	cancel func()
	done   bool
}

// Async returns a future that runs body on a coroutine the first time
// it is polled. The body may block only through Await; every other
// blocking call stalls the poller.
//
// Panics raised by body are re-raised from Poll, wrapped with the
// body's stack; errors.Is sees through the wrapping.
func Async[T any](body func(a *Awaiter) T) *AsyncFuture[T] {
	return &AsyncFuture[T]{body: body}
}

func (f *AsyncFuture[T]) Poll(cx *Context) Poll[T] {
	if f.done {
		panic(ErrPolledAfterCompletion)
	}
	if f.resume == nil {
		body := f.body
		f.body = nil
		f.resume, f.cancel = coro.New(func(
			cx *Context,
			_ func(T) *Context,
			suspend func() *Context,
		) T {
			return body(&Awaiter{cx: cx, suspend: suspend})
		})
	}
	v, running := f.resume(cx)
	if running {
		return Pending[T]()
	}
	f.done = true
	return Ready(v)
}

// Close abandons the future. A body suspended in Await unwinds, running
// its deferred calls. Closing a completed future does nothing.
func (f *AsyncFuture[T]) Close() {
	if f.done {
		return
	}
	f.done = true
	f.body = nil
	if f.cancel != nil {
		f.cancel()
	}
}
