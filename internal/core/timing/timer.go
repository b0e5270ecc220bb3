package timing

import (
	"context"
	"time"

	"github.com/zeusync/redistiming/internal/core/observability/interfaces"
)

// Timer measures a single invocation. It is not safe for concurrent use.
type Timer struct {
	rec     interfaces.Recorder
	start   time.Time
	stopped bool
}

// Start begins timing. Pair it with a deferred Stop:
//
//	defer timing.Start(agg).Stop()
func Start(rec interfaces.Recorder) *Timer {
	return &Timer{rec: rec, start: time.Now()}
}

// Stop records the elapsed time and returns it. Only the first call records.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.stopped {
		return elapsed
	}
	t.stopped = true
	t.rec.Record(Milliseconds(elapsed))
	return elapsed
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Do runs fn once and records its duration, including when fn panics.
func Do(rec interfaces.Recorder, fn func() error) error {
	defer Start(rec).Stop()
	return fn()
}

// Wrap returns fn instrumented with rec.
func Wrap(rec interfaces.Recorder, fn func() error) func() error {
	return func() error {
		defer Start(rec).Stop()
		return fn()
	}
}

func WrapValue[T any](rec interfaces.Recorder, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		defer Start(rec).Stop()
		return fn()
	}
}

func WrapFunc[A, T any](rec interfaces.Recorder, fn func(A) (T, error)) func(A) (T, error) {
	return func(arg A) (T, error) {
		defer Start(rec).Stop()
		return fn(arg)
	}
}

// WrapContext instruments the common func(ctx, arg) (T, error) shape. The
// context is passed through untouched; timeouts stay fn's business.
func WrapContext[A, T any](rec interfaces.Recorder, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	return func(ctx context.Context, arg A) (T, error) {
		defer Start(rec).Stop()
		return fn(ctx, arg)
	}
}
