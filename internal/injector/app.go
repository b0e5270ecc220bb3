package injector

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/zeusync/redistiming/internal/config"
	"github.com/zeusync/redistiming/internal/core/observability/log"
	"github.com/zeusync/redistiming/internal/core/timing"
	"github.com/zeusync/redistiming/internal/probe"
)

// App is the process composition root.
type App struct {
	Config     config.Config
	Logger     *log.Logger
	Aggregator *timing.Aggregator
	Reporter   *timing.Reporter
	Redis      *redis.Client
	Probe      *probe.Probe
}

func NewApp(
	cfg config.Config,
	logger *log.Logger,
	agg *timing.Aggregator,
	reporter *timing.Reporter,
	client *redis.Client,
	p *probe.Probe,
) *App {
	return &App{
		Config:     cfg,
		Logger:     logger,
		Aggregator: agg,
		Reporter:   reporter,
		Redis:      client,
		Probe:      p,
	}
}

// Run starts the reporter and blocks until ctx is done or the probe fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.Reporter.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Reporter.Stop(); err != nil {
			a.Logger.Warn("Failed to stop reporter", log.Error(err))
		}
	}()

	a.Logger.Info("Timing reporter started",
		log.String("redis_addr", a.Config.Redis.Addr),
		log.Bool("probe", a.Probe != nil))

	if a.Probe == nil {
		<-ctx.Done()
		return nil
	}
	return a.Probe.Run(ctx)
}
