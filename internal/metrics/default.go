package metrics

import "github.com/san-kum/cisim/internal/sim"

// Default is the metric set attached to every CLI run.
func Default(p sim.Params) []sim.Metric {
	return []sim.Metric{
		NewCaptureRate(),
		NewMeanWidth(),
		NewMiss(Above, p.PopulationMean),
		NewMiss(Below, p.PopulationMean),
	}
}
