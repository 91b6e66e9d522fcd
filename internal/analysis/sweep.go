package analysis

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"

	"github.com/san-kum/cisim/internal/sim"
)

// Axis names the parameter being swept.
type Axis string

const (
	AxisConfidence Axis = "confidence"
	AxisSampleSize Axis = "sample-size"
)

func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisConfidence, "level":
		return AxisConfidence, nil
	case AxisSampleSize, "n":
		return AxisSampleSize, nil
	}
	return "", fmt.Errorf("unknown sweep axis: %s", s)
}

// SweepPoint is the outcome of one run within a sweep.
type SweepPoint struct {
	Value        float64 `json:"value"`
	Nominal      float64 `json:"nominal"`
	Empirical    float64 `json:"empirical"`
	CaptureCount int     `json:"capture_count"`
	MeanWidth    float64 `json:"mean_width"`
}

// Gap is empirical minus nominal coverage.
func (p SweepPoint) Gap() float64 { return p.Empirical - p.Nominal }

// Linspace returns steps evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(steps-1)
	vals := make([]float64, steps)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	vals[steps-1] = hi
	return vals
}

// Sweep runs s once per value with base altered along axis. Confidence values
// are fractions; sample sizes are rounded to the nearest integer. workers is
// passed to [sim.Simulator.RunWorkers] for every point.
func Sweep(
	ctx context.Context,
	s *sim.Simulator,
	base sim.Params,
	seed int64,
	axis Axis,
	values []float64,
	workers int,
) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(values))

	for _, v := range values {
		p := base
		switch axis {
		case AxisConfidence:
			p.ConfidenceLevel = v
		case AxisSampleSize:
			p.SampleSize = int(math.Round(v))
		default:
			return nil, fmt.Errorf("unknown sweep axis: %s", axis)
		}

		out, err := s.RunWorkers(ctx, p, seed, workers)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", axis, v, err)
		}

		widths := make(stats.Float64Data, len(out.Results))
		for i, r := range out.Results {
			widths[i] = r.Width()
		}
		mw, err := stats.Mean(widths)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", axis, v, err)
		}

		points = append(points, SweepPoint{
			Value:        v,
			Nominal:      p.ConfidenceLevel,
			Empirical:    out.CaptureRate,
			CaptureCount: out.CaptureCount,
			MeanWidth:    mw,
		})
	}

	return points, nil
}

func WriteTable(w io.Writer, axis Axis, points []SweepPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tnominal\tempirical\tgap\tmean width\t\n", axis)
	for _, p := range points {
		val := fmt.Sprintf("%.4g", p.Value)
		if axis == AxisConfidence {
			val = fmt.Sprintf("%.2f%%", p.Value*100)
		}
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%+.2f\t%.4f\t\n",
			val, p.Nominal*100, p.Empirical*100, p.Gap()*100, p.MeanWidth)
	}
	return tw.Flush()
}

// PlotCoverage draws nominal and empirical coverage (in percent) over the sweep.
func PlotCoverage(points []SweepPoint, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	nominal := make([]float64, len(points))
	empirical := make([]float64, len(points))
	for i, p := range points {
		nominal[i] = p.Nominal * 100
		empirical[i] = p.Empirical * 100
	}

	return asciigraph.PlotMany(
		[][]float64{nominal, empirical},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Green),
		asciigraph.SeriesLegends("nominal %", "empirical %"),
		asciigraph.Caption("coverage"),
	)
}
