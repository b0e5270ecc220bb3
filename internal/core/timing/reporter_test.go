package timing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/redistiming/internal/core/observability/log"
)

// fakeClock publishes every requested delay and fires only when told to.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	delays chan time.Duration
	fire   chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{
		now:    now,
		delays: make(chan time.Duration, 16),
		fire:   make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.delays <- d
	return c.fire
}

func (c *fakeClock) nextDelay(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.delays:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("reporter did not wait for the next report")
		return 0
	}
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	c.fire <- now
}

type panickingSource struct{}

func (panickingSource) Drain() (float64, float64) { panic("drain exploded") }

func newObservedLogger() (*log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return log.NewWithCore(core), logs
}

func TestReporter_ReportsOnSchedule(t *testing.T) {
	logger, logs := newObservedLogger()
	clock := newFakeClock(at(12, 0, 5, 0))
	agg := NewAggregator()
	r := NewReporter(agg, logger, WithClock(clock))

	require.NoError(t, r.Start(context.Background()))
	defer func() { require.NoError(t, r.Close()) }()

	require.Equal(t, 25*time.Second, clock.nextDelay(t))

	agg.Record(10)
	agg.Record(20)
	agg.Record(30)
	clock.advance(25 * time.Second)

	require.Equal(t, time.Minute, clock.nextDelay(t))

	entries := logs.FilterMessage("measure#redis.average=20ms measure#redis.max=30ms").All()
	require.Len(t, entries, 1)
	require.Equal(t, "metrics", entries[0].LoggerName)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, Stats{}, agg.Snapshot())
	require.Equal(t, uint64(1), r.Reports())

	clock.advance(time.Minute)
	require.Equal(t, time.Minute, clock.nextDelay(t))
	require.Len(t, logs.FilterMessage("measure#redis.average=0ms measure#redis.max=0ms").All(), 1)
}

func TestReporter_Lifecycle(t *testing.T) {
	logger, _ := newObservedLogger()

	t.Run("Start Twice", func(t *testing.T) {
		r := NewReporter(NewAggregator(), logger, WithClock(newFakeClock(at(12, 0, 0, 0))))
		require.NoError(t, r.Start(context.Background()))
		require.True(t, r.Running())
		require.ErrorIs(t, r.Start(context.Background()), ErrReporterAlreadyRunning)
		require.NoError(t, r.Stop())
		require.False(t, r.Running())
	})

	t.Run("Stop Without Start", func(t *testing.T) {
		r := NewReporter(NewAggregator(), logger)
		require.ErrorIs(t, r.Stop(), ErrReporterNotRunning)
	})

	t.Run("Restart", func(t *testing.T) {
		r := NewReporter(NewAggregator(), logger, WithClock(newFakeClock(at(12, 0, 0, 0))))
		require.NoError(t, r.Start(context.Background()))
		require.NoError(t, r.Stop())
		require.NoError(t, r.Start(context.Background()))
		require.NoError(t, r.Stop())
	})

	t.Run("Closed", func(t *testing.T) {
		r := NewReporter(NewAggregator(), logger, WithClock(newFakeClock(at(12, 0, 0, 0))))
		require.NoError(t, r.Start(context.Background()))
		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
		require.False(t, r.Running())
		require.ErrorIs(t, r.Start(context.Background()), ErrReporterClosed)
	})

	t.Run("Context Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := NewReporter(NewAggregator(), logger, WithClock(newFakeClock(at(12, 0, 0, 0))))
		require.NoError(t, r.Start(ctx))

		cancel()
		require.Eventually(t, func() bool { return !r.Running() }, time.Second, 5*time.Millisecond)
		require.NoError(t, r.Start(context.Background()))
		require.NoError(t, r.Stop())
	})
}

func TestReporter_StopLeavesWindow(t *testing.T) {
	logger, logs := newObservedLogger()
	clock := newFakeClock(at(12, 0, 0, 0))
	agg := NewAggregator()
	r := NewReporter(agg, logger, WithClock(clock))

	require.NoError(t, r.Start(context.Background()))
	clock.nextDelay(t)
	agg.Record(5)
	require.NoError(t, r.Stop())

	require.Equal(t, uint64(1), agg.Snapshot().Count)
	require.Empty(t, logs.FilterLoggerName("metrics").FilterLevelExact(zapcore.InfoLevel).All())
}

func TestReporter_ReportRecoversPanic(t *testing.T) {
	logger, logs := newObservedLogger()
	r := NewReporter(panickingSource{}, logger)

	require.NotPanics(t, r.Report)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	require.Equal(t, "Failed to report metrics", entries[0].Message)
	require.Equal(t, "drain exploded", entries[0].ContextMap()["panic"])
	require.Zero(t, r.Reports())
}

func TestReporter_LoopSurvivesPanic(t *testing.T) {
	logger, logs := newObservedLogger()
	clock := newFakeClock(at(12, 0, 0, 0))
	r := NewReporter(panickingSource{}, logger, WithClock(clock))

	require.NoError(t, r.Start(context.Background()))
	defer func() { require.NoError(t, r.Stop()) }()

	require.Equal(t, 30*time.Second, clock.nextDelay(t))
	clock.advance(30 * time.Second)
	require.Equal(t, time.Minute, clock.nextDelay(t))
	require.True(t, r.Running())
	require.Len(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), 1)
}

func TestReporter_NamedUnderParent(t *testing.T) {
	logger, logs := newObservedLogger()
	r := NewReporter(NewAggregator(), logger.Named("app"))

	r.Report()

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "app.metrics", entries[0].LoggerName)
}
