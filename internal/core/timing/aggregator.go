package timing

import (
	"math"
	"sync"

	"github.com/zeusync/redistiming/internal/core/observability/interfaces"
)

var _ interfaces.RecordDrainer = (*Aggregator)(nil)

// Stats is a point-in-time copy of an Aggregator window.
type Stats struct {
	Count   uint64
	TotalMs float64
	MaxMs   float64
}

// Average returns TotalMs / Count, or 0 for an empty window.
func (s Stats) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalMs / float64(s.Count)
}

// Aggregator accumulates latency samples for one reporting window.
// The zero value is ready to use.
type Aggregator struct {
	mu    sync.Mutex
	stats Stats
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record adds one sample. Negative samples are counted as zero.
func (a *Aggregator) Record(ms float64) {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}

	a.mu.Lock()
	a.stats.TotalMs += ms
	if ms > a.stats.MaxMs {
		a.stats.MaxMs = ms
	}
	a.stats.Count++
	a.mu.Unlock()
}

// Drain returns the average and max of the current window and resets it
// in the same critical section.
func (a *Aggregator) Drain() (avg, max float64) {
	stats := a.DrainStats()
	return stats.Average(), stats.MaxMs
}

// DrainStats is Drain returning the full window.
func (a *Aggregator) DrainStats() Stats {
	a.mu.Lock()
	stats := a.stats
	a.stats = Stats{}
	a.mu.Unlock()

	return stats
}

// Snapshot reads the current window without resetting it.
func (a *Aggregator) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
