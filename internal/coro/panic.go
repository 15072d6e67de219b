package coro

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// panicError carries a value recovered inside a coroutine across the
// coroutine switch, along with the stack of the coroutine that
// panicked. Panics that cross several nested coroutines end up
// wrapped once per coroutine.
type panicError struct {
	value any
	stack []byte
}

func newPanicError(v any) error {
	return &panicError{
		value: v,
		stack: debug.Stack(),
	}
}

func (p *panicError) Error() string {
	return fmt.Sprintf("%v", p.value)
}

func (p *panicError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", p.value, p.stack)
}

// Unwrap returns the recovered value when it is an error, which lets
// errors.Is match sentinel panics through any number of coroutines.
func (p *panicError) Unwrap() error {
	err, ok := p.value.(error)
	if !ok {
		return nil
	}
	return err
}

// DebugString renders the whole chain, outermost coroutine first,
// including the stack of every panicError found along the way.
func (p *panicError) DebugString() string {
	var sb strings.Builder
	walkErrors(p, func(e error) {
		if pe, ok := e.(*panicError); ok {
			sb.WriteString(pe.ErrorWithStack())
		} else {
			sb.WriteString(e.Error())
		}
	})
	return sb.String()
}

// walkErrors visits err and everything it wraps depth first, once per
// distinct error.
func walkErrors(err error, visit func(error)) {
	seen := make(map[error]bool)

	var walk func(error)
	walk = func(e error) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		visit(e)

		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, ue := range u.Unwrap() {
				walk(ue)
			}
		default:
			walk(errors.Unwrap(e))
		}
	}

	walk(err)
}
