package injector

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/zeusync/redistiming/internal/config"
	"github.com/zeusync/redistiming/internal/core/observability/log"
	"github.com/zeusync/redistiming/internal/core/timing"
	"github.com/zeusync/redistiming/internal/core/timing/redishook"
	"github.com/zeusync/redistiming/internal/probe"
)

// ProviderSet builds one App per process: a single aggregator shared by the
// redis hook and the one reporter that drains it.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideAggregator,
	ProvideReporter,
	ProvideRedis,
	ProvideProbe,
	NewApp,
)

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	lc, err := cfg.Log.Logger()
	if err != nil {
		return nil, err
	}
	return log.NewWithConfig(lc)
}

func ProvideAggregator() *timing.Aggregator {
	return timing.NewAggregator()
}

func ProvideReporter(agg *timing.Aggregator, logger *log.Logger) (*timing.Reporter, func()) {
	reporter := timing.NewReporter(agg, logger)
	return reporter, func() {
		_ = reporter.Close()
	}
}

func ProvideRedis(cfg config.Config, agg *timing.Aggregator) (*redis.Client, func()) {
	client := redis.NewClient(cfg.Redis.Options())
	redishook.Instrument(client, agg)
	return client, func() {
		_ = client.Close()
	}
}

// ProvideProbe returns nil when the probe is disabled.
func ProvideProbe(cfg config.Config, client *redis.Client, logger *log.Logger) (*probe.Probe, error) {
	if !cfg.Probe.Enabled {
		return nil, nil
	}
	return probe.New(client, probe.Config{
		Workers:   cfg.Probe.Workers,
		Interval:  cfg.Probe.Interval,
		Keyspace:  cfg.Probe.Keyspace,
		KeyPrefix: cfg.Probe.KeyPrefix,
		TTL:       cfg.Probe.TTL,
	}, logger)
}
