package strim

import (
	"sync/atomic"

	g "github.com/anacrolix/generics"

	"github.com/webriots/strim/task"
)

type state uint8

const (
	uninitialized state = iota
	running
	finished
)

var lastID atomic.Uint64

// machine drives one producer. Item is what the producer yields and
// Out is what its future completes with; last turns the completion
// into an optional final item.
type machine[Item, Out any] struct {
	id      uint64
	state   state
	polling bool
	factory func(Yielder[Item]) task.Future[Out]
	fut     task.Future[Out]
	last    func(Out) g.Option[Item]
}

func newMachine[Item, Out any](
	factory func(Yielder[Item]) task.Future[Out],
	last func(Out) g.Option[Item],
) machine[Item, Out] {
	return machine[Item, Out]{
		id:      lastID.Add(1),
		factory: factory,
		last:    last,
	}
}

func (m *machine[Item, Out]) pollNext(cx *task.Context) task.Poll[g.Option[Item]] {
	if m.polling {
		if m.state == uninitialized {
			panic(ErrRestarted)
		}
		panic(ErrReentrantPoll)
	}
	m.polling = true
	defer func() { m.polling = false }()

	for {
		switch m.state {
		case uninitialized:
			factory := m.factory
			m.factory = nil
			m.fut = factory(Yielder[Item]{id: m.id})
			m.state = running

		case running:
			var out cell[Item]
			res := withFrame(cx, m.id, &out, m.fut.Poll)

			if v, ok := res.Get(); ok {
				m.finish()
				if item := m.last(v); item.Ok {
					return task.Ready(item)
				}
				continue
			}
			if item := out.take(); item.Ok {
				return task.Ready(item)
			}
			return task.Pending[g.Option[Item]]()

		case finished:
			return task.Ready(g.None[Item]())
		}
	}
}

func (m *machine[Item, Out]) finish() {
	m.state = finished
	m.factory = nil
	m.fut = nil
}

func (m *machine[Item, Out]) done() bool {
	return m.state == finished
}

// close abandons the producer. A producer suspended in a yield or an
// await unwinds if its future supports being closed.
func (m *machine[Item, Out]) close() {
	if m.polling {
		panic(ErrReentrantPoll)
	}
	if c, ok := m.fut.(interface{ Close() }); ok {
		c.Close()
	}
	m.finish()
}
