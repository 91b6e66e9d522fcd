package analysis

import (
	"context"
	"fmt"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cisim/internal/sim"
)

// EnsembleResult summarises the capture rate of the same configuration
// repeated over consecutive seeds.
type EnsembleResult struct {
	Seeds  []int64   `json:"seeds"`
	Rates  []float64 `json:"rates"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std_dev"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	P05    float64   `json:"p05"`
	P95    float64   `json:"p95"`
}

// Ensemble runs p once per seed in [seedStart, seedStart+runs) with a fresh
// Simulator per run. Rates are reported in seed order.
func Ensemble(
	ctx context.Context,
	method sim.Method,
	p sim.Params,
	seedStart int64,
	runs int,
	workers int,
) (*EnsembleResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run (got %d)", runs)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &EnsembleResult{
		Seeds: make([]int64, runs),
		Rates: make([]float64, runs),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		seed := seedStart + int64(i)
		res.Seeds[i] = seed
		g.Go(func() error {
			out, err := sim.New(method).Run(gctx, p, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res.Rates[i] = out.CaptureRate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rates := stats.Float64Data(res.Rates)
	var err error
	if res.Mean, err = stats.Mean(rates); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if res.Min, err = stats.Min(rates); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if res.Max, err = stats.Max(rates); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	// nearest rank: defined for any ensemble size
	if res.P05, err = stats.PercentileNearestRank(rates, 5); err != nil {
		return nil, fmt.Errorf("p05: %w", err)
	}
	if res.P95, err = stats.PercentileNearestRank(rates, 95); err != nil {
		return nil, fmt.Errorf("p95: %w", err)
	}
	if runs > 1 {
		if res.StdDev, err = stats.StandardDeviationSample(rates); err != nil {
			return nil, fmt.Errorf("std dev: %w", err)
		}
	}
	return res, nil
}
