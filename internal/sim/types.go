package sim

import (
	"fmt"
	"math"
)

// Params are the inputs of one simulation run. ConfidenceLevel is a fraction,
// not a percentage.
type Params struct {
	SampleSize      int     `json:"sample_size"`
	PopulationMean  float64 `json:"population_mean"`
	PopulationStd   float64 `json:"population_std"`
	NumSimulations  int     `json:"num_simulations"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

func (p Params) Validate() error {
	if p.SampleSize < 2 {
		return paramErr("sample_size", float64(p.SampleSize), "must be at least 2")
	}
	if math.IsNaN(p.PopulationMean) || math.IsInf(p.PopulationMean, 0) {
		return paramErr("population_mean", p.PopulationMean, "must be finite")
	}
	if !(p.PopulationStd > 0) || math.IsInf(p.PopulationStd, 0) {
		return paramErr("population_std", p.PopulationStd, "must be positive and finite")
	}
	if p.NumSimulations < 1 {
		return paramErr("num_simulations", float64(p.NumSimulations), "must be at least 1")
	}
	if !(p.ConfidenceLevel > 0 && p.ConfidenceLevel < 1) {
		return paramErr("confidence_level", p.ConfidenceLevel, "must be strictly between 0 and 1")
	}
	return nil
}

type IntervalResult struct {
	SampleMean float64 `json:"sample_mean"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Captured   bool    `json:"captured"`
}

func (r IntervalResult) Width() float64 { return r.Upper - r.Lower }

// Contains reports whether v lies inside the closed interval.
func (r IntervalResult) Contains(v float64) bool {
	return v >= r.Lower && v <= r.Upper
}

type Outcome struct {
	Params       Params             `json:"params"`
	Method       string             `json:"method"`
	Seed         int64              `json:"seed"`
	Critical     float64            `json:"critical,omitempty"`
	StdErr       float64            `json:"std_err,omitempty"`
	Results      []IntervalResult   `json:"results"`
	CaptureCount int                `json:"capture_count"`
	CaptureRate  float64            `json:"capture_rate"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

func (o *Outcome) CapturePercent() float64 { return o.CaptureRate * 100 }

// Summary is the one-line textual result shown under every plot.
func (o *Outcome) Summary() string {
	return fmt.Sprintf("Captured Population Mean in %d of %d simulations (%.1f%%)",
		o.CaptureCount, o.Params.NumSimulations, o.CapturePercent())
}

// Method is an interval-estimation strategy. Bind fixes everything that is
// constant across a run (critical value, standard error) and returns the
// per-sample estimator.
type Method interface {
	Name() string
	Bind(p Params) (Estimator, error)
}

// Estimator turns one sample into an interval center and a nonnegative
// half-width.
type Estimator interface {
	Estimate(sample []float64) (center, margin float64, err error)
}

// CriticalValuer is implemented by estimators whose critical value does not
// depend on the sample.
type CriticalValuer interface {
	Critical() float64
}

// StdErrorer is implemented by estimators with a run-wide standard error.
type StdErrorer interface {
	StdErr() float64
}

type Metric interface {
	Name() string
	Observe(r IntervalResult)
	Value() float64
	Reset()
}
