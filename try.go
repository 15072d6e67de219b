package strim

import (
	"iter"

	g "github.com/anacrolix/generics"

	"github.com/webriots/strim/task"
)

// Result is an item of a TryStream: a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Err returns a Result holding err.
func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Unpack returns the value and the error of r.
func (r Result[T]) Unpack() (T, error) {
	return r.Value, r.Err
}

// TryYielder is the Yielder of a TryStream.
type TryYielder[T any] struct {
	y Yielder[Result[T]]
}

// YieldResult hands r to the current drive of the stream, like
// Yielder.Yield.
func (y TryYielder[T]) YieldResult(r Result[T]) task.Future[struct{}] {
	return y.y.Yield(r)
}

// YieldOk hands v to the driver as an Ok item.
func (y TryYielder[T]) YieldOk(v T) task.Future[struct{}] {
	return y.YieldResult(Ok(v))
}

// YieldErr hands err to the driver as an item. Unlike returning err
// from the producer it does not end the stream.
func (y TryYielder[T]) YieldErr(err error) task.Future[struct{}] {
	return y.YieldResult(Err[T](err))
}

// TryStream is a Stream of Result items whose producer completes with
// an error. A non-nil error is delivered as one last Err item, after
// which the stream is finished.
type TryStream[T any] struct {
	m machine[Result[T], error]
}

var _ task.Stream[Result[int]] = (*TryStream[int])(nil)

// NewTry returns a TryStream whose producer is the future returned by
// factory, called once on the first PollNext.
func NewTry[T any](factory func(y TryYielder[T]) task.Future[error]) *TryStream[T] {
	return &TryStream[T]{
		m: newMachine(
			func(y Yielder[Result[T]]) task.Future[error] {
				return factory(TryYielder[T]{y: y})
			},
			func(err error) g.Option[Result[T]] {
				if err == nil {
					return g.None[Result[T]]()
				}
				return g.Some(Err[T](err))
			},
		),
	}
}

// TryFunc returns a TryStream whose producer is body, run with
// task.Async. The error body returns, if any, is the stream's last
// item.
func TryFunc[T any](body func(a *task.Awaiter, y TryYielder[T]) error) *TryStream[T] {
	return NewTry(func(y TryYielder[T]) task.Future[error] {
		return task.Async(func(a *task.Awaiter) error {
			return body(a, y)
		})
	})
}

// PollNext drives the producer until it yields, completes or is
// Pending. A producer error is returned as Ready(Some(Err(err))) before
// the stream reports Ready(None).
func (s *TryStream[T]) PollNext(cx *task.Context) task.Poll[g.Option[Result[T]]] {
	return s.m.pollNext(cx)
}

// Done reports whether the stream is finished.
func (s *TryStream[T]) Done() bool {
	return s.m.done()
}

// Close abandons the producer, unwinding it if it is suspended. The
// stream is finished afterwards.
func (s *TryStream[T]) Close() {
	s.m.close()
}

// Next returns a future resolving to the next item of s.
func (s *TryStream[T]) Next() task.Future[g.Option[Result[T]]] {
	return Next[Result[T]](s)
}

// All returns a blocking iterator over the remaining items of s as
// value and error pairs.
func (s *TryStream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for r := range All[Result[T]](s) {
			if !yield(r.Unpack()) {
				return
			}
		}
	}
}
