package export

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cisim/internal/sim"
)

type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 15}
}

// Bounds splits an outcome into lower, mean and upper series in trial order.
func Bounds(out *sim.Outcome) (lower, mean, upper []float64) {
	lower = make([]float64, len(out.Results))
	mean = make([]float64, len(out.Results))
	upper = make([]float64, len(out.Results))
	for i, r := range out.Results {
		lower[i] = r.Lower
		mean[i] = r.SampleMean
		upper[i] = r.Upper
	}
	return lower, mean, upper
}

// PlotIntervals draws the interval envelope against the population mean.
func PlotIntervals(out *sim.Outcome, opts PlotOptions) string {
	if len(out.Results) == 0 {
		return ""
	}
	lower, mean, upper := Bounds(out)

	population := make([]float64, len(out.Results))
	for i := range population {
		population[i] = out.Params.PopulationMean
	}

	return asciigraph.PlotMany(
		[][]float64{lower, mean, upper, population},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Default, asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("lower", "sample mean", "upper", "population mean"),
		asciigraph.Caption(out.Summary()),
	)
}
