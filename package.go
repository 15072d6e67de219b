// Package strim turns a producer function that yields items at
// explicit suspension points into a pull-based task.Stream, without a
// channel or any buffer between producer and consumer.
//
// A stream is created with Func (or New for a producer that is
// already a task.Future). Nothing runs until the stream is first
// polled. Each PollNext resumes the producer until it yields an item,
// returns, or waits on a future that is not ready yet:
//
//	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[int]) {
//		for i := range 3 {
//			task.Await(a, y.Yield(i))
//		}
//	})
//	for v := range strim.All(s) {
//		fmt.Println(v)
//	}
//
// A yielded item travels to the driver through the Waker of the poll
// that resumed the producer. Every PollNext wraps the incoming Waker
// in one that also records which stream is being driven and where
// that drive expects its item; the yield looks its own stream up in
// that chain of records. This keeps nested streams apart: a stream
// drained from inside another stream's producer never sees the outer
// stream's items, and the outer stream never sees the inner's, even
// when the inner producer yields to the outer stream directly.
//
// Misuse is reported by panicking: yielding outside a drive of the
// owning stream (for example from another goroutine) panics with
// ErrNoFrame, yielding twice in one drive panics with ErrDoubleYield.
// Panics raised inside a producer reach the driver wrapped with the
// producer's stack; use errors.Is to identify them.
//
// TryFunc builds the error-aware variant, whose items are Result
// values and whose producer can end the stream with an error.
package strim
