package metrics

import (
	"github.com/montanaflynn/stats"

	"github.com/san-kum/cisim/internal/sim"
)

// MeanWidth averages upper-lower over all intervals.
type MeanWidth struct {
	name   string
	widths stats.Float64Data
}

func NewMeanWidth() *MeanWidth {
	return &MeanWidth{name: "mean_width"}
}

func (w *MeanWidth) Name() string {
	return w.name
}

func (w *MeanWidth) Observe(r sim.IntervalResult) {
	w.widths = append(w.widths, r.Width())
}

func (w *MeanWidth) Value() float64 {
	mean, err := stats.Mean(w.widths)
	if err != nil {
		return 0
	}
	return mean
}

func (w *MeanWidth) Reset() {
	w.widths = w.widths[:0]
}
