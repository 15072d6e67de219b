package strim

import g "github.com/anacrolix/generics"

// cell is the single slot through which one drive call receives its
// item.
type cell[T any] struct {
	slot g.Option[T]
}

func (c *cell[T]) put(v T) {
	if c.slot.Ok {
		panic(ErrDoubleYield)
	}
	c.slot = g.Some(v)
}

// take empties the cell and returns what it held.
func (c *cell[T]) take() g.Option[T] {
	v := c.slot
	c.slot = g.None[T]()
	return v
}
