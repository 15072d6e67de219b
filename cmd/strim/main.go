// Command strim runs sample producers as strim streams and prints the
// items they yield.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/anacrolix/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

var logger = log.Default.WithNames("strim")

type args struct {
	Samples  []string      `arg:"positional" help:"samples to run; all but the failing ones when empty"`
	Count    int           `default:"10" help:"number of items produced by counting samples"`
	Interval time.Duration `default:"50ms" help:"delay between ticker items"`
	Parallel bool          `help:"drive every sample on its own goroutine"`
	Stacks   bool          `help:"log the producer stacks of a sample that panics"`
}

func (args) Description() string {
	var names []string
	for _, s := range samples {
		names = append(names, s.name)
	}
	return "Drives yield-based streams. Samples: " + strings.Join(names, ", ")
}

func main() {
	if err := mainErr(); err != nil {
		logger.Levelf(log.Error, "fatal error: %v", err)
		os.Exit(1)
	}
}

func mainErr() error {
	var a args
	p := arg.MustParse(&a)
	if a.Count < 0 {
		p.Fail("count must not be negative")
	}

	selected, err := selectSamples(a.Samples)
	if err != nil {
		return err
	}
	cfg := config{Count: a.Count, Interval: a.Interval, Stacks: a.Stacks}

	if !a.Parallel {
		for _, s := range selected {
			if err := runSample(os.Stdout, s, cfg); err != nil {
				return err
			}
		}
		return nil
	}

	var eg errgroup.Group
	for _, s := range selected {
		eg.Go(func() error {
			return runSample(os.Stdout, s, cfg)
		})
	}
	return eg.Wait()
}

func selectSamples(names []string) ([]sample, error) {
	if len(names) == 0 {
		var all []sample
		for _, s := range samples {
			if !s.failing {
				all = append(all, s)
			}
		}
		return all, nil
	}
	var selected []sample
	for _, name := range names {
		s, ok := lookupSample(name)
		if !ok {
			return nil, xerrors.Errorf("unknown sample %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// runSample drains one sample, writing one line per item. An error
// item ends the run. A panic from the sample's producers is returned as
// an error.
func runSample(w io.Writer, s sample, cfg config) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr, ok := p.(error)
		if !ok {
			panic(p)
		}
		if report, ok := stackReport(perr); ok && cfg.Stacks {
			logger.Levelf(log.Error, "sample %q panicked:\n%s", s.name, report)
		}
		err = xerrors.Errorf("sample %q panicked: %w", s.name, perr)
	}()

	logger.Levelf(log.Info, "running sample %q", s.name)
	started := time.Now()
	n := 0
	for item, err := range s.items(cfg) {
		if err != nil {
			return xerrors.Errorf("sample %q after %d items: %w", s.name, n, err)
		}
		n++
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.name, item); err != nil {
			return xerrors.Errorf("writing item: %w", err)
		}
	}
	logger.Levelf(log.Debug, "sample %q yielded %d items in %v", s.name, n, time.Since(started))
	return nil
}

// stackReport renders err with the stack of every producer coroutine
// it crossed, if it came out of one.
func stackReport(err error) (string, bool) {
	var d interface{ DebugString() string }
	if !errors.As(err, &d) {
		return "", false
	}
	return d.DebugString(), true
}
