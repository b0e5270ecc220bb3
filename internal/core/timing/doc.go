// Package timing measures the wall-clock latency of arbitrary operations,
// aggregates count, total and max per reporting window, and logs a summary
// line at :30 past every minute.
//
// Typical wiring:
//
//	agg := timing.NewAggregator()
//	rep := timing.NewReporter(agg, logger)
//	_ = rep.Start(ctx)
//	defer rep.Close()
//
//	load := timing.WrapContext(agg, store.Load)
//	user, err := load(ctx, "user:42")
package timing
