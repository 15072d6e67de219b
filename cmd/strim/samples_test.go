package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webriots/strim"
)

func runToLines(t *testing.T, name string, cfg config) ([]string, error) {
	t.Helper()
	s, ok := lookupSample(name)
	require.True(t, ok, "sample %q", name)
	var buf bytes.Buffer
	err := runSample(&buf, s, cfg)
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), err
}

func TestFibonacciSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "fibonacci", config{Count: 8})
	r.NoError(err)
	r.Equal([]string{
		"fibonacci: 0", "fibonacci: 1", "fibonacci: 1", "fibonacci: 2",
		"fibonacci: 3", "fibonacci: 5", "fibonacci: 8", "fibonacci: 13",
	}, lines)
}

func TestLyricsSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "lyrics", config{})
	r.NoError(err)
	r.Len(lines, len(verses))
	r.Equal("lyrics: "+verses[0], lines[0])
}

func TestNestedSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "nested", config{Count: 2})
	r.NoError(err)
	r.Equal([]string{
		"nested: #1 " + verses[0],
		"nested: (inner sent verse 0)",
		"nested: #2 " + verses[1],
		"nested: (inner sent verse 1)",
	}, lines)
}

func TestTickerSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "ticker", config{Count: 3, Interval: time.Millisecond})
	r.NoError(err)
	r.Len(lines, 3)
	for _, l := range lines {
		r.True(strings.HasPrefix(l, "ticker: tick after "), l)
	}
}

func TestFailingSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "failing", config{Count: 6})
	r.ErrorIs(err, errGaveUp)
	r.Equal([]string{"failing: 0", "failing: 1", "failing: 2"}, lines)
}

func TestEscapedSample(t *testing.T) {
	r := require.New(t)

	lines, err := runToLines(t, "escaped", config{Stacks: true})
	r.ErrorIs(err, strim.ErrNoFrame)
	r.Contains(err.Error(), `sample "escaped" panicked`)
	r.Equal([]string{"escaped: yielding through a stale Yielder"}, lines)

	report, ok := stackReport(err)
	r.True(ok)
	// The inner and the outer producer each add a stack.
	r.Equal(2, strings.Count(report, "[running]:"))
}

func TestStackReportPlainError(t *testing.T) {
	_, ok := stackReport(errors.New("plain"))
	require.False(t, ok)
}

func TestSelectSamples(t *testing.T) {
	r := require.New(t)

	all, err := selectSamples(nil)
	r.NoError(err)
	for _, s := range all {
		r.False(s.failing, s.name)
	}
	r.Len(all, len(samples)-2)

	picked, err := selectSamples([]string{"failing", "lyrics"})
	r.NoError(err)
	r.Equal("failing", picked[0].name)
	r.Equal("lyrics", picked[1].name)

	_, err = selectSamples([]string{"nope"})
	r.Error(err)
}
