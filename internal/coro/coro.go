package coro

import (
	"errors"
	"fmt"
	"iter"
)

// ErrCanceled is the panic value seen by a coroutine that is canceled
// while suspended, and by yield/suspend calls made after the
// coroutine completed or was canceled.
var ErrCanceled = errors.New("coro: coroutine canceled")

// New creates a new coroutine with the provided function. The
// coroutine does not start until the first call to resume.
//
// Parameters:
//   - fn: The coroutine body. It receives the value passed to the
//     first resume call, a 'yield' function that hands a value to the
//     caller and pauses execution, and a 'suspend' function that
//     pauses execution without handing over a value. Both return the
//     value passed to the resume call that continues the coroutine.
//
// Returns:
//   - resume: Passes a value to the coroutine and runs it until it
//     next yields, suspends or returns. It reports the value the
//     coroutine yielded (the zero value for suspend) or returned, and
//     whether the coroutine is still running.
//   - cancel: Unwinds a suspended coroutine. The pending yield or
//     suspend panics with ErrCanceled inside the coroutine so that its
//     deferred calls run. Canceling a completed coroutine is a no-op.
//
// Control moves between the caller and the coroutine through the
// runtime coroutine switch used by iter.Pull; nothing runs
// concurrently and no channel is allocated.
func New[In, Out any](
	fn func(in In, yield func(Out) In, suspend func() In) Out,
) (resume func(In) (Out, bool), cancel func()) {
	var (
		in   In
		out  Out
		done bool
		perr error
	)

	next, stop := iter.Pull[Out](func(send func(Out) bool) {
		defer func() {
			if p := recover(); p != nil {
				if err, ok := p.(error); !ok || err != perr {
					perr = newPanicError(p)
				}
			}
			done = true
		}()

		yield := func(val Out) In {
			if done {
				panic(ErrCanceled)
			}
			if !send(val) {
				panic(perr)
			}
			return in
		}

		suspend := func() In {
			var zero Out
			return yield(zero)
		}

		out = fn(in, yield, suspend)
	})

	resume = func(val In) (Out, bool) {
		if perr != nil {
			panic(perr)
		}
		if done {
			var zero Out
			return zero, false
		}
		in = val
		v, running := next()
		if perr != nil {
			panic(perr)
		}
		if running {
			return v, true
		}
		done = true
		return out, false
	}

	cancel = func() {
		if done {
			return
		}
		canceled := fmt.Errorf("%w", ErrCanceled)
		perr = canceled
		stop()
		done = true
		if perr != canceled {
			panic(perr)
		}
	}

	return
}
