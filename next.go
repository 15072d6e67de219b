package strim

import (
	"iter"

	g "github.com/anacrolix/generics"

	"github.com/webriots/strim/task"
)

// Next returns a future that resolves to the next item of s, or None
// once s is exhausted.
func Next[T any](s task.Stream[T]) task.Future[g.Option[T]] {
	return task.FutureFunc[g.Option[T]](s.PollNext)
}

// All returns an iterator over the items of s. Each step blocks the
// calling goroutine with task.BlockOn until the next item is ready.
// If the loop stops early and s has a Close method, s is closed.
func All[T any](s task.Stream[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item := task.BlockOn(Next(s))
			if !item.Ok {
				return
			}
			if !yield(item.Value) {
				if c, ok := s.(interface{ Close() }); ok {
					c.Close()
				}
				return
			}
		}
	}
}
