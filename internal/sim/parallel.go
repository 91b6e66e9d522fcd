package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunParallel is Run with trials spread over up to workers goroutines
// (GOMAXPROCS when workers <= 0). Each trial owns its result slot, so the
// outcome is identical to Run for the same seed. The bound estimator must be
// safe for concurrent use.
func (s *Simulator) RunParallel(ctx context.Context, p Params, seed int64, workers int) (*Outcome, error) {
	est, err := s.prepare(p)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool := NewSamplePool(p.SampleSize)
	results := make([]IntervalResult, p.NumSimulations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := runTrial(est, p, seed, i, pool)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.finish(p, seed, est, results), nil
}

// RunWorkers picks the runner for a worker count: 1 runs sequentially, any
// other value goes through RunParallel (<= 0 meaning GOMAXPROCS).
func (s *Simulator) RunWorkers(ctx context.Context, p Params, seed int64, workers int) (*Outcome, error) {
	if workers == 1 {
		return s.Run(ctx, p, seed)
	}
	return s.RunParallel(ctx, p, seed, workers)
}
