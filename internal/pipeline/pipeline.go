package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/types"
)

// Resolver is the part of the processor the warm-up needs.
type Resolver interface {
	Resolve(sel aggregator.Selector) *types.CountryAggregate
}

type WarmResult struct {
	Countries  int   `json:"countries"`
	Warmed     int   `json:"warmed"`
	DurationMs int64 `json:"duration_ms"`
}

// Warm resolves every country aggregate on a bounded set of workers so the
// first interactive queries hit the cache. It stops early when ctx is done
// and reports how many countries were warmed.
func Warm(ctx context.Context, r Resolver, countries []string, workers int, timeout time.Duration) (WarmResult, error) {
	log := logger.New().Component("pipeline.warm")
	start := time.Now()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if workers <= 0 {
		workers = 1
	}

	var warmed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, country := range countries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.Resolve(aggregator.CountrySelector(country))
			atomic.AddInt64(&warmed, 1)
			return nil
		})
	}
	err := g.Wait()

	res := WarmResult{
		Countries:  len(countries),
		Warmed:     int(atomic.LoadInt64(&warmed)),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.WithError(err).WithField("warmed", res.Warmed).Warn("warm-up interrupted")
		return res, fmt.Errorf("warm-up: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"countries":   res.Countries,
		"duration_ms": res.DurationMs,
	}).Info("aggregate cache warmed")
	return res, nil
}
