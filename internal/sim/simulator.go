package sim

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var errNoMethod = errors.New("sim: no estimation method configured")

type Simulator struct {
	method  Method
	metrics []Metric
}

func New(method Method) *Simulator {
	return &Simulator{
		method:  method,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) Method() Method { return s.method }

// Run draws params.NumSimulations samples in trial order and builds one
// interval per sample. Parameters are validated before anything is drawn.
func (s *Simulator) Run(ctx context.Context, p Params, seed int64) (*Outcome, error) {
	est, err := s.prepare(p)
	if err != nil {
		return nil, err
	}

	pool := NewSamplePool(p.SampleSize)
	results := make([]IntervalResult, p.NumSimulations)

	for i := range results {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r, err := runTrial(est, p, seed, i, pool)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}

	return s.finish(p, seed, est, results), nil
}

func (s *Simulator) prepare(p Params) (Estimator, error) {
	if s.method == nil {
		return nil, errNoMethod
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.method.Bind(p)
}

func runTrial(est Estimator, p Params, seed int64, trial int, pool *SamplePool) (IntervalResult, error) {
	sample := pool.Get()
	defer pool.Put(sample)

	dist := distuv.Normal{
		Mu:    p.PopulationMean,
		Sigma: p.PopulationStd,
		Src:   TrialSource(seed, trial),
	}
	for j := range sample {
		sample[j] = dist.Rand()
	}

	center, margin, err := est.Estimate(sample)
	if err != nil {
		return IntervalResult{}, &TrialError{Trial: trial, Wrapped: err}
	}
	if !(margin >= 0) {
		return IntervalResult{}, &TrialError{Trial: trial, Wrapped: ErrNegativeMargin}
	}

	r := IntervalResult{
		SampleMean: center,
		Lower:      center - margin,
		Upper:      center + margin,
	}
	r.Captured = r.Contains(p.PopulationMean)
	return r, nil
}

func (s *Simulator) finish(p Params, seed int64, est Estimator, results []IntervalResult) *Outcome {
	out := &Outcome{
		Params:  p,
		Method:  s.method.Name(),
		Seed:    seed,
		Results: results,
		Metrics: make(map[string]float64),
	}
	if cv, ok := est.(CriticalValuer); ok {
		out.Critical = cv.Critical()
	}
	if se, ok := est.(StdErrorer); ok {
		out.StdErr = se.StdErr()
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for _, r := range results {
		if r.Captured {
			out.CaptureCount++
		}
		for _, m := range s.metrics {
			m.Observe(r)
		}
	}
	out.CaptureRate = float64(out.CaptureCount) / float64(len(results))

	for _, m := range s.metrics {
		v := m.Value()
		if math.IsNaN(v) {
			continue
		}
		out.Metrics[m.Name()] = v
	}
	return out
}
