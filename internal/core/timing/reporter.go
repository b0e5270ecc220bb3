package timing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/zeusync/redistiming/internal/core/observability/interfaces"
	"github.com/zeusync/redistiming/internal/core/observability/log"
)

// LoggerName is the name of the channel summary lines are written to.
const LoggerName = "metrics"

// Reporter periodically drains a window and logs its summary at :30 past
// every minute. A process normally owns exactly one Reporter, started from
// its composition root.
type Reporter struct {
	source interfaces.Drainer
	logger log.Log
	clock  Clock

	lifecycle sync.Mutex
	stopChan  chan struct{}
	doneChan  chan struct{}
	closed    int32 // atomic bool

	reports uint64 // atomic
}

type ReporterOption func(*Reporter)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) ReporterOption {
	return func(r *Reporter) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewReporter creates a stopped reporter. Summary lines go to
// logger.Named("metrics") at info level.
func NewReporter(source interfaces.Drainer, logger log.Log, opts ...ReporterOption) *Reporter {
	if logger == nil {
		if provided := log.Provide(); provided != nil {
			logger = provided
		} else {
			logger = log.New(log.LevelInfo)
		}
	}

	r := &Reporter{
		source: source,
		logger: logger.Named(LoggerName),
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the reporting loop. The loop ends on Stop, Close or when
// ctx is done.
func (r *Reporter) Start(ctx context.Context) error {
	if atomic.LoadInt32(&r.closed) == 1 {
		return ErrReporterClosed
	}

	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if r.doneChan != nil {
		select {
		case <-r.doneChan:
		default:
			return ErrReporterAlreadyRunning
		}
	}

	r.stopChan = make(chan struct{})
	r.doneChan = make(chan struct{})

	go r.run(ctx, r.stopChan, r.doneChan)

	return nil
}

// Stop signals the loop and waits for it to exit. The current window is
// left in place for the next run.
func (r *Reporter) Stop() error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if r.doneChan == nil {
		return ErrReporterNotRunning
	}

	close(r.stopChan)
	<-r.doneChan

	r.stopChan = nil
	r.doneChan = nil

	return nil
}

// Close stops the reporter for good.
func (r *Reporter) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	if err := r.Stop(); err != nil && !errors.Is(err, ErrReporterNotRunning) {
		return err
	}
	return nil
}

// Running reports whether the loop is currently active.
func (r *Reporter) Running() bool {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if r.doneChan == nil {
		return false
	}
	select {
	case <-r.doneChan:
		return false
	default:
		return true
	}
}

// Reports is the number of summary lines written so far.
func (r *Reporter) Reports() uint64 {
	return atomic.LoadUint64(&r.reports)
}

// Report drains the source and logs one summary line. A panic raised by the
// source or the logger is logged and swallowed so the loop keeps going.
func (r *Reporter) Report() {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Failed to report metrics", log.Any("panic", p))
		}
	}()

	avg, max := r.source.Drain()
	r.logger.Info(FormatSummary(avg, max))
	atomic.AddUint64(&r.reports, 1)
}

func (r *Reporter) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	r.logger.Debug("Reporter started")
	defer r.logger.Debug("Reporter stopped")

	for {
		wait := r.clock.After(Delay(r.clock.Now()))

		select {
		case <-wait:
			r.Report()
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
