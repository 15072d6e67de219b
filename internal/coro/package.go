// Package coro provides the stackful coroutines that let plain Go
// functions suspend in the middle of a poll. A coroutine is created
// with New, which returns resume and cancel functions. The resume
// function passes a value into the coroutine and runs it until its
// next suspension point, and the cancel function unwinds it early.
//
// Within a coroutine function, the yield parameter returns a value to
// the caller while pausing execution, and the suspend parameter pauses
// execution without returning a value. Both return the value passed to
// the resume call that continues the coroutine.
//
// Panics inside a coroutine are captured together with the coroutine
// stack and re-raised at the resume call site, so a panic in a deeply
// nested coroutine surfaces at the outermost driver with every stack
// that it crossed. Escaped yield and suspend functions cannot be used
// after the coroutine completes.
package coro
