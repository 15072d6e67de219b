package main

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/webriots/strim"
	"github.com/webriots/strim/task"
)

type config struct {
	Count    int
	Interval time.Duration
	Stacks   bool
}

type sample struct {
	name string
	// Samples that end in an error are skipped unless asked for by name.
	failing bool
	items   func(config) iter.Seq2[string, error]
}

var samples = []sample{
	{name: "lyrics", items: lyrics},
	{name: "fibonacci", items: fibonacci},
	{name: "nested", items: nested},
	{name: "ticker", items: ticker},
	{name: "failing", items: failing, failing: true},
	{name: "escaped", items: escaped, failing: true},
}

func lookupSample(name string) (sample, bool) {
	for _, s := range samples {
		if s.name == name {
			return s, true
		}
	}
	return sample{}, false
}

func okItems[T any](seq iter.Seq[T], format func(T) string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for v := range seq {
			if !yield(format(v), nil) {
				return
			}
		}
	}
}

// Song: "Verdächtig" by Systemabsturz.
var verses = []string{
	"Fahr den Imsi-Catcher hoch",
	"Mach das Richtmikro an",
	"Bring Alexa auf den Markt",
	"Zapf den Netzknoten an",
	"Fahr den Ü-Wagen vor",
	"Kauf den Staatstrojaner ein",
	"Fake die Exit-Nodes bei Tor",
	"Ihr wollt doch alle sicher sein",
}

func lyrics(config) iter.Seq2[string, error] {
	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[string]) {
		for _, v := range verses {
			task.Await(a, y.Yield(v))
		}
	})
	return okItems(s.All(), func(v string) string { return v })
}

func fibonacci(cfg config) iter.Seq2[string, error] {
	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[uint64]) {
		var x, z uint64 = 0, 1
		for range cfg.Count {
			task.Await(a, y.Yield(x))
			x, z = z, x+z
		}
	})
	return okItems(s.All(), func(v uint64) string { return strconv.FormatUint(v, 10) })
}

// nested numbers the words of an inner stream. The inner producer also
// reports its own progress straight to the outer stream.
func nested(cfg config) iter.Seq2[string, error] {
	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[string]) {
		words := strim.Func(func(a *task.Awaiter, wy strim.Yielder[string]) {
			for i, v := range verses[:min(cfg.Count, len(verses))] {
				task.Await(a, wy.Yield(v))
				task.Await(a, y.Yield(fmt.Sprintf("(inner sent verse %d)", i)))
			}
		})
		n := 0
		for {
			item := task.Await(a, words.Next())
			if !item.Ok {
				return
			}
			n++
			task.Await(a, y.Yield(fmt.Sprintf("#%d %s", n, item.Value)))
		}
	})
	return okItems(s.All(), func(v string) string { return v })
}

func ticker(cfg config) iter.Seq2[string, error] {
	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[time.Duration]) {
		start := time.Now()
		for range cfg.Count {
			task.Await(a, task.After(cfg.Interval))
			task.Await(a, y.Yield(time.Since(start)))
		}
	})
	return okItems(s.All(), func(d time.Duration) string {
		return "tick after " + d.Round(time.Millisecond).String()
	})
}

var errGaveUp = errors.New("gave up")

func failing(cfg config) iter.Seq2[string, error] {
	s := strim.TryFunc(func(a *task.Awaiter, y strim.TryYielder[int]) error {
		for i := range cfg.Count {
			if i == cfg.Count/2 {
				return fmt.Errorf("after %d items: %w", i, errGaveUp)
			}
			task.Await(a, y.YieldOk(i))
		}
		return nil
	})
	return func(yield func(string, error) bool) {
		for v, err := range s.All() {
			if !yield(strconv.Itoa(v), err) {
				return
			}
		}
	}
}

// escaped keeps the Yielder of a finished stream and yields through it
// from a nested producer, which panics with strim.ErrNoFrame.
func escaped(config) iter.Seq2[string, error] {
	var leaked strim.Yielder[string]
	for range strim.Func(func(_ *task.Awaiter, y strim.Yielder[string]) { leaked = y }).All() {
	}

	s := strim.Func(func(a *task.Awaiter, y strim.Yielder[string]) {
		task.Await(a, y.Yield("yielding through a stale Yielder"))
		inner := strim.Func(func(a *task.Awaiter, _ strim.Yielder[struct{}]) {
			task.Await(a, leaked.Yield("never delivered"))
		})
		task.Await(a, inner.Next())
	})
	return okItems(s.All(), func(v string) string { return v })
}
