package strim

import (
	g "github.com/anacrolix/generics"

	"github.com/webriots/strim/task"
)

// Yielder hands items from a producer to the driver of its stream. It
// is only usable while that stream is being driven: await the futures
// it returns from the producer body, on the goroutine driving the
// stream.
//
// The Context a drive hands the producer must not leave the producer's
// goroutine. A yield made elsewhere through a Context of a drive that
// is still running is not detected and delivers its item; a yield
// through any other Context panics with ErrNoFrame.
type Yielder[T any] struct {
	id uint64
}

// Yield returns a future that hands v to the current drive of the
// stream and suspends the producer once. The driver receives v from
// the PollNext that observed the suspension; the next PollNext resumes
// the producer after the Yield.
func (y Yielder[T]) Yield(v T) task.Future[struct{}] {
	return &yieldFuture[T]{item: g.Some(v), id: y.id}
}

type yieldFuture[T any] struct {
	item g.Option[T]
	id   uint64
}

func (f *yieldFuture[T]) Poll(cx *task.Context) task.Poll[struct{}] {
	if !f.item.Ok {
		return task.Ready(struct{}{})
	}

	fr := findFrame(cx.Waker(), f.id)
	if fr == nil {
		panic(ErrNoFrame)
	}

	fr.out.(*cell[T]).put(f.item.Value)
	f.item = g.None[T]()
	return task.Pending[struct{}]()
}
