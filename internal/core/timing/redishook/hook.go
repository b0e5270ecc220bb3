// Package redishook feeds the latency of every go-redis command into a
// timing recorder.
package redishook

import (
	"context"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/zeusync/redistiming/internal/core/observability/interfaces"
	"github.com/zeusync/redistiming/internal/core/timing"
)

var _ redis.Hook = (*Hook)(nil)

// Hook times single commands and whole pipelines. Dials are not timed.
type Hook struct {
	rec interfaces.Recorder
}

func New(rec interfaces.Recorder) *Hook {
	return &Hook{rec: rec}
}

// Instrument attaches a new Hook to client and returns it.
func Instrument(client redis.UniversalClient, rec interfaces.Recorder) *Hook {
	h := New(rec)
	client.AddHook(h)
	return h
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		defer timing.Start(h.rec).Stop()
		return next(ctx, cmd)
	}
}

// ProcessPipelineHook records one sample per pipeline round trip.
func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		defer timing.Start(h.rec).Stop()
		return next(ctx, cmds)
	}
}
