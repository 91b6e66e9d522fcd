package methods

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/cisim/internal/sim"
)

// ZSigma builds z-intervals from the known population standard deviation.
type ZSigma struct{}

func NewZSigma() *ZSigma { return &ZSigma{} }

func (z *ZSigma) Name() string { return string(KindZSigma) }

func (z *ZSigma) Bind(p sim.Params) (sim.Estimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &zEstimator{
		z:  CriticalZ(p.ConfidenceLevel),
		se: p.PopulationStd / math.Sqrt(float64(p.SampleSize)),
	}, nil
}

// CriticalZ returns the two-sided standard normal critical value for a
// confidence level given as a fraction.
func CriticalZ(level float64) float64 {
	return distuv.UnitNormal.Quantile(1 - (1-level)/2)
}

type zEstimator struct {
	z  float64
	se float64
}

func (e *zEstimator) Estimate(sample []float64) (float64, float64, error) {
	mean, err := stats.Mean(sample)
	if err != nil {
		return 0, 0, fmt.Errorf("sample mean: %w", err)
	}
	return mean, e.z * e.se, nil
}

func (e *zEstimator) Critical() float64 { return e.z }
func (e *zEstimator) StdErr() float64   { return e.se }
