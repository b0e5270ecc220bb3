// Package probe drives a steady SET/GET workload against Redis so the
// instrumented client always has traffic to report on.
package probe

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/redistiming/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid probe configuration")

type Config struct {
	Workers   int
	Interval  time.Duration
	Keyspace  uint64
	KeyPrefix string
	TTL       time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:   4,
		Interval:  100 * time.Millisecond,
		Keyspace:  1024,
		KeyPrefix: "probe",
		TTL:       5 * time.Minute,
	}
}

// Stats counts probe traffic since the probe was created.
type Stats struct {
	Sets   uint64
	Gets   uint64
	Misses uint64
}

type Probe struct {
	client redis.Cmdable
	config Config
	runID  string
	logger log.Log

	sets   uint64 // atomic
	gets   uint64 // atomic
	misses uint64 // atomic
}

func New(client redis.Cmdable, config Config, logger log.Log) (*Probe, error) {
	if config.Workers <= 0 || config.Interval <= 0 || config.Keyspace == 0 || config.KeyPrefix == "" {
		return nil, ErrInvalidConfig
	}

	runID := uuid.NewString()
	if logger == nil {
		logger = log.New(log.LevelInfo)
	}

	return &Probe{
		client: client,
		config: config,
		runID:  runID,
		logger: logger.With(log.String("component", "probe"), log.String("run_id", runID)),
	}, nil
}

func (p *Probe) RunID() string {
	return p.runID
}

func (p *Probe) Stats() Stats {
	return Stats{
		Sets:   atomic.LoadUint64(&p.sets),
		Gets:   atomic.LoadUint64(&p.gets),
		Misses: atomic.LoadUint64(&p.misses),
	}
}

// Key returns the key a worker touches on a given round. Each round is a
// SET followed by a GET of the same key.
func (p *Probe) Key(worker int, round uint64) string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(worker))
	binary.BigEndian.PutUint64(buf[8:], round)
	slot := xxhash.Sum64(buf[:]) % p.config.Keyspace

	return p.config.KeyPrefix + ":" + p.runID + ":" + strconv.FormatUint(slot, 10)
}

// Run blocks until ctx is done or a worker hits a Redis error. Cancellation
// is not reported as an error.
func (p *Probe) Run(ctx context.Context) error {
	p.logger.Info("Probe started",
		log.Int("workers", p.config.Workers),
		log.Duration("interval", p.config.Interval))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.config.Workers; w++ {
		w := w
		g.Go(func() error {
			return p.work(gctx, w)
		})
	}

	err := g.Wait()
	if err != nil {
		p.logger.Error("Probe failed", log.Error(err))
		return err
	}

	p.logger.Info("Probe stopped",
		log.Uint64("sets", atomic.LoadUint64(&p.sets)),
		log.Uint64("gets", atomic.LoadUint64(&p.gets)))

	return nil
}

func (p *Probe) work(ctx context.Context, worker int) error {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for step := uint64(0); ; step++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := p.step(ctx, worker, step); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("probe worker %d: %w", worker, err)
		}
	}
}

func (p *Probe) step(ctx context.Context, worker int, step uint64) error {
	key := p.Key(worker, step/2)

	if step%2 == 0 {
		atomic.AddUint64(&p.sets, 1)
		return p.client.Set(ctx, key, strconv.FormatUint(step, 10), p.config.TTL).Err()
	}

	atomic.AddUint64(&p.gets, 1)
	err := p.client.Get(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		atomic.AddUint64(&p.misses, 1)
		return nil
	}
	return err
}
