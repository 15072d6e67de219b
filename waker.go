package strim

import "github.com/webriots/strim/task"

// frame records one active drive call: which stream is being driven
// and the cell that receives its item. prev is the frame of the drive
// call that is polling this one, if any.
type frame struct {
	id     uint64
	out    any
	prev   *frame
	active bool
}

// frameWaker is the Waker a producer sees while its stream is driven.
// Wake-ups pass through to the waker of the driver.
type frameWaker struct {
	inner task.Waker
	frame *frame
}

func (w *frameWaker) Wake() {
	w.inner.Wake()
}

func frameOf(w task.Waker) *frame {
	fw, ok := w.(*frameWaker)
	if !ok {
		return nil
	}
	return fw.frame
}

// withFrame polls with a Context whose waker carries a new frame for
// stream id on top of the frames already attached to cx. The frame is
// retired when poll returns.
func withFrame[T any](
	cx *task.Context,
	id uint64,
	out any,
	poll func(*task.Context) task.Poll[T],
) task.Poll[T] {
	f := &frame{
		id:     id,
		out:    out,
		prev:   frameOf(cx.Waker()),
		active: true,
	}
	defer func() { f.active = false }()

	return poll(task.NewContext(&frameWaker{inner: cx.Waker(), frame: f}))
}

// findFrame walks from the innermost frame attached to w outwards and
// returns the active frame of stream id. A retired frame ends the
// walk, since everything reachable from it belongs to a drive that has
// already returned or to a Context kept past its poll.
func findFrame(w task.Waker, id uint64) *frame {
	for f := frameOf(w); f != nil && f.active; f = f.prev {
		if f.id == id {
			return f
		}
	}
	return nil
}

// UnwrapWaker returns the waker that the innermost stream drive
// wrapped. It lets producer code hand the driver's own waker to
// libraries that inspect or wrap wakers themselves.
//
// UnwrapWaker panics with ErrNoWrapper if w is not the waker of a
// stream drive.
func UnwrapWaker(w task.Waker) task.Waker {
	fw, ok := w.(*frameWaker)
	if !ok {
		panic(ErrNoWrapper)
	}
	return fw.inner
}

// Unwrap returns a future that polls f with the waker the innermost
// stream drive wrapped, as returned by UnwrapWaker. Polling it outside
// a stream drive panics with ErrNoWrapper.
func Unwrap[T any](f task.Future[T]) task.Future[T] {
	return task.FutureFunc[T](func(cx *task.Context) task.Poll[T] {
		return f.Poll(task.NewContext(UnwrapWaker(cx.Waker())))
	})
}
