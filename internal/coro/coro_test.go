package coro

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

type body = func(int, func(string) int, func() int) string

// mustPanic runs f and returns the error it panicked with.
func mustPanic(t *testing.T, f func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Error("Expected panic but got none")
			return
		}
		var ok bool
		if err, ok = r.(error); !ok {
			t.Errorf("Expected error type from panic, got %T", r)
		}
	}()
	f()
	return nil
}

func expectPanicMessage(t *testing.T, want string, f func()) {
	t.Helper()
	if err := mustPanic(t, f); err != nil && err.Error() != want {
		t.Errorf("Expected panic message '%s', got '%s'", want, err.Error())
	}
}

func expectStep(t *testing.T, resume func(int) (string, bool), in int, wantOut string, wantRunning bool) {
	t.Helper()
	out, running := resume(in)
	if running != wantRunning {
		t.Errorf("Expected running to be %v after resume(%d)", wantRunning, in)
	}
	if out != wantOut {
		t.Errorf("Expected output to be '%s', got '%s'", wantOut, out)
	}
}

// expectCanceledInside recovers the cancellation panic inside the
// coroutine body and records that the body unwound.
func expectCanceledInside(t *testing.T, unwound *bool) {
	*unwound = true
	p := recover()
	if p == nil {
		t.Error("Expected panic but got none")
		return
	}
	err, ok := p.(error)
	if !ok {
		t.Errorf("Expected error type from panic, got %T", p)
		return
	}
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("Expected error to be ErrCanceled, got '%v'", err)
	}
}

func TestCoroutineYield(t *testing.T) {
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		if input := yield("first"); input != 1 {
			t.Errorf("Expected input to be 1, got %d", input)
		}
		if input := yield("second"); input != 2 {
			t.Errorf("Expected input to be 2, got %d", input)
		}
		return "done"
	})
	defer cancel()

	expectStep(t, resume, 0, "first", true)
	expectStep(t, resume, 1, "second", true)
	expectStep(t, resume, 2, "done", false)
	expectStep(t, resume, 3, "", false)
}

func TestCoroutineSuspend(t *testing.T) {
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		if input := suspend(); input != 1 {
			t.Errorf("Expected input to be 1, got %d", input)
		}
		if input := yield("yielded"); input != 2 {
			t.Errorf("Expected input to be 2, got %d", input)
		}
		return "done"
	})
	defer cancel()

	expectStep(t, resume, 0, "", true)
	expectStep(t, resume, 1, "yielded", true)
	expectStep(t, resume, 2, "done", false)
	expectStep(t, resume, 3, "", false)
}

func TestCoroutineFirstInput(t *testing.T) {
	resume, cancel := New(func(first int, yield func(int) int, suspend func() int) int {
		second := yield(first * 10)
		return first + second
	})
	defer cancel()

	out, running := resume(4)
	if !running || out != 40 {
		t.Errorf("Expected (40, true), got (%d, %v)", out, running)
	}
	out, running = resume(5)
	if running || out != 9 {
		t.Errorf("Expected (9, false), got (%d, %v)", out, running)
	}
}

func TestCoroutineSuspendAfterYield(t *testing.T) {
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		yield("value")
		suspend()
		return "done"
	})
	defer cancel()

	expectStep(t, resume, 0, "value", true)
	expectStep(t, resume, 0, "", true)
	expectStep(t, resume, 0, "done", false)
}

func TestCoroutinePanic(t *testing.T) {
	for _, tc := range []struct {
		name  string
		body  body
		steps int
	}{
		{
			name: "before any yield",
			body: func(int, func(string) int, func() int) string {
				panic("test panic")
			},
		},
		{
			name: "after a yield",
			body: func(_ int, yield func(string) int, _ func() int) string {
				yield("first")
				panic("test panic")
			},
			steps: 1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resume, cancel := New(tc.body)
			for range tc.steps {
				expectStep(t, resume, 0, "first", true)
			}
			expectPanicMessage(t, "test panic", func() { resume(0) })
			expectPanicMessage(t, "test panic", func() { resume(1) })
			cancel()
		})
	}
}

func TestCoroutineCancel(t *testing.T) {
	unwound := false
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		defer expectCanceledInside(t, &unwound)
		yield("before cancel")
		t.Error("coroutine should have been canceled")
		return ""
	})

	expectStep(t, resume, 0, "before cancel", true)
	cancel()
	cancel()
	cancel()

	if !unwound {
		t.Error("Expected deferred calls to run on cancel")
	}
	expectPanicMessage(t, ErrCanceled.Error(), func() { resume(0) })
}

func TestCoroutineCancelUnrecovered(t *testing.T) {
	unwound := false
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		defer func() { unwound = true }()
		suspend()
		t.Error("coroutine should have been canceled")
		return ""
	})

	resume(0)
	cancel()

	if !unwound {
		t.Error("Expected deferred calls to run on cancel")
	}
}

func TestCoroutineCancelBeforeResume(t *testing.T) {
	resume, cancel := New(func(int, func(string) int, func() int) string {
		t.Error("coroutine should not start")
		return ""
	})

	cancel()
	expectPanicMessage(t, ErrCanceled.Error(), func() { resume(0) })
}

func TestCoroutineCancelAfterCompletion(t *testing.T) {
	resume, cancel := New(func(int, func(string) int, func() int) string {
		return "completed"
	})

	expectStep(t, resume, 0, "completed", false)
	cancel()
	expectStep(t, resume, 0, "", false)
}

func TestCancelDuringCoroutinePanic(t *testing.T) {
	unwound := false
	resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
		// The coroutine recovers the cancellation, then panics again.
		defer func() {
			unwound = true
			panic("deferred error")
		}()
		func() {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic but got none")
				}
			}()
			yield("before panic")
		}()
		return ""
	})

	expectStep(t, resume, 0, "before panic", true)
	expectPanicMessage(t, "deferred error", cancel)

	if !unwound {
		t.Error("Expected deferred calls to run on cancel")
	}
}

func TestEscapedPrimitives(t *testing.T) {
	for _, tc := range []struct {
		name   string
		cancel bool
		use    func(yield func(string) int, suspend func() int)
	}{
		{"yield after completion", false, func(y func(string) int, _ func() int) { y("already done") }},
		{"suspend after completion", false, func(_ func(string) int, s func() int) { s() }},
		{"yield after cancel", true, func(y func(string) int, _ func() int) { y("already done") }},
		{"suspend after cancel", true, func(_ func(string) int, s func() int) { s() }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				yieldEscaped   func(string) int
				suspendEscaped func() int
			)
			resume, cancel := New(func(_ int, yield func(string) int, suspend func() int) string {
				yieldEscaped, suspendEscaped = yield, suspend
				func() {
					defer func() { recover() }()
					yield("first yield")
				}()
				return "done"
			})

			expectStep(t, resume, 0, "first yield", true)
			if tc.cancel {
				cancel()
			} else {
				expectStep(t, resume, 1, "done", false)
			}

			expectPanicMessage(t, ErrCanceled.Error(), func() {
				tc.use(yieldEscaped, suspendEscaped)
			})
		})
	}
}

func TestCoroutineNested(t *testing.T) {
	var trace []string

	outer, cancelOuter := New(func(_ int, yield func(string) int, suspend func() int) string {
		inner, cancelInner := New(func(_ int, yield func(string) int, suspend func() int) string {
			trace = append(trace, "inner start")
			yield("inner 1")
			trace = append(trace, "inner resumed")
			return "inner done"
		})
		defer cancelInner()

		v, _ := inner(0)
		yield(v)
		v, running := inner(0)
		if running {
			t.Error("Expected inner coroutine to be completed")
		}
		trace = append(trace, "outer saw "+v)
		return "outer done"
	})
	defer cancelOuter()

	expectStep(t, outer, 0, "inner 1", true)
	expectStep(t, outer, 0, "outer done", false)

	want := "inner start,inner resumed,outer saw inner done"
	if got := strings.Join(trace, ","); got != want {
		t.Errorf("Expected trace '%s', got '%s'", want, got)
	}
}

func TestNestedPanicUnwraps(t *testing.T) {
	sentinel := errors.New("sentinel")
	resume, _ := New(func(int, func(string) int, func() int) string {
		inner, cancel := New(func(int, func(string) int, func() int) string {
			panic(sentinel)
		})
		defer cancel()
		inner(0)
		return ""
	})

	err := mustPanic(t, func() { resume(0) })
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected error to wrap sentinel, got '%v'", err)
	}
}

func TestDebugString(t *testing.T) {
	resume, _ := New(func(int, func(string) int, func() int) string {
		resume, cancel := New(func(int, func(string) int, func() int) string {
			panic("test panic")
		})
		defer cancel()
		resume(0)
		return ""
	})

	defer func() {
		p := recover()
		if p == nil {
			t.Error("Expected panic but got none")
			return
		}

		err, ok := p.(interface{ DebugString() string })
		if !ok {
			t.Errorf("Expected error with DebugString method, got %T", p)
			return
		}

		var (
			lineNums     []int
			lineNumRegex = regexp.MustCompile(`:(\d+) \+`)
		)

		for _, line := range strings.Split(err.DebugString(), "\n") {
			if !strings.Contains(line, "coro_test.go:") {
				continue
			}
			matches := lineNumRegex.FindStringSubmatch(line)
			if len(matches) != 2 {
				t.Errorf("Expected 2 matches, got %d", len(matches))
				continue
			}
			lineNum, err := strconv.Atoi(matches[1])
			if err != nil {
				t.Errorf("Error converting line number: %v", err)
				continue
			}
			lineNums = append(lineNums, lineNum)
		}

		// The outer stack points at resume(0), the inner one at the panic.
		if len(lineNums) != 2 {
			t.Errorf("Expected 2 line numbers, got %d", len(lineNums))
			return
		}
		if lineNums[0]-lineNums[1] != 3 {
			t.Errorf("Expected line difference of 3, got %d", lineNums[0]-lineNums[1])
		}
	}()

	resume(0)
}
