// Package task is a small cooperative execution model: futures are
// polled with a Context that carries the Waker of the task driving
// them, report Pending when they cannot make progress, and call
// Wake when they can.
//
// Async turns an ordinary Go function into a Future. The function
// runs on a coroutine and awaits other futures with Await, which
// suspends the coroutine every time the awaited future is Pending,
// so straight-line Go code composes with hand-written poll functions.
//
// BlockOn is a minimal executor that drives a single future to
// completion on the calling goroutine.
package task
