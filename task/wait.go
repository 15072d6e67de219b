package task

import (
	"sync/atomic"
	"time"
)

// YieldNow returns a future that is Pending on its first poll, waking
// its task right away, and Ready on the next. It gives the poller a
// chance to regain control without waiting for anything.
func YieldNow() Future[struct{}] {
	yielded := false
	return FutureFunc[struct{}](func(cx *Context) Poll[struct{}] {
		if yielded {
			return Ready(struct{}{})
		}
		yielded = true
		cx.Waker().Wake()
		return Pending[struct{}]()
	})
}

// After returns a future that becomes Ready once d has elapsed since
// its first poll. The timer wakes the task from its own goroutine. The
// future has a Close method that stops a timer which has not fired;
// Await calls it when the awaiting body is unwound.
func After(d time.Duration) Future[struct{}] {
	return &afterFuture{d: d}
}

type afterFuture struct {
	d     time.Duration
	timer *time.Timer
	fired atomic.Bool
	waker atomic.Pointer[Waker]
}

func (f *afterFuture) Poll(cx *Context) Poll[struct{}] {
	if f.fired.Load() {
		return Ready(struct{}{})
	}
	w := cx.Waker()
	f.waker.Store(&w)
	if f.timer == nil {
		f.timer = time.AfterFunc(f.d, func() {
			f.fired.Store(true)
			(*f.waker.Load()).Wake()
		})
	}
	if f.fired.Load() {
		return Ready(struct{}{})
	}
	return Pending[struct{}]()
}

func (f *afterFuture) Close() {
	if f.timer != nil {
		f.timer.Stop()
	}
}
