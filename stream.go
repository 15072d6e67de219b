package strim

import (
	"iter"

	g "github.com/anacrolix/generics"

	"github.com/webriots/strim/task"
)

// Stream is a task.Stream fed by a producer that yields items through
// a Yielder. The zero value is not usable; create streams with New or
// Func. A Stream must be driven from one goroutine at a time.
type Stream[T any] struct {
	m machine[T, struct{}]
}

var _ task.Stream[int] = (*Stream[int])(nil)

// New returns a stream whose producer is the future returned by
// factory. The factory is called once, on the first PollNext, with the
// Yielder bound to the new stream.
func New[T any](factory func(y Yielder[T]) task.Future[struct{}]) *Stream[T] {
	return &Stream[T]{
		m: newMachine(factory, func(struct{}) g.Option[T] {
			return g.None[T]()
		}),
	}
}

// Func returns a stream whose producer is body, run with task.Async.
// The stream is finished when body returns.
func Func[T any](body func(a *task.Awaiter, y Yielder[T])) *Stream[T] {
	return New(func(y Yielder[T]) task.Future[struct{}] {
		return task.Async(func(a *task.Awaiter) struct{} {
			body(a, y)
			return struct{}{}
		})
	})
}

// PollNext resumes the producer until it yields an item, finishes, or
// waits on a future that is not ready. It returns Ready(Some(item)),
// Ready(None) or Pending respectively. Once the stream is finished
// PollNext keeps returning Ready(None) without doing anything.
func (s *Stream[T]) PollNext(cx *task.Context) task.Poll[g.Option[T]] {
	return s.m.pollNext(cx)
}

// Done reports whether the stream is finished, without driving it.
func (s *Stream[T]) Done() bool {
	return s.m.done()
}

// Close finishes the stream early. A producer suspended in the middle
// of its body is unwound, running its deferred calls.
func (s *Stream[T]) Close() {
	s.m.close()
}

// Next returns a future that resolves to the next item of s.
func (s *Stream[T]) Next() task.Future[g.Option[T]] {
	return Next[T](s)
}

// All returns a blocking iterator over the remaining items of s.
func (s *Stream[T]) All() iter.Seq[T] {
	return All[T](s)
}
