package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/cisim/internal/sim"
)

// Format selects the chart encoding.
type Format int

const (
	SVG Format = iota
	PNG
)

var (
	capturedColor = chart.ColorBlue
	missedColor   = chart.ColorRed
	meanDotColor  = chart.ColorBlack
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return SVG, nil
	case ".png":
		return PNG, nil
	}
	return 0, fmt.Errorf("unsupported chart format %q (want .svg or .png)", filepath.Ext(path))
}

type ChartOptions struct {
	Width  int
	Height int
	Title  string
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  1200,
		Height: 600,
		Title:  "Confidence Intervals Across Simulations",
	}
}

func intervalStyle(color drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: color,
		StrokeWidth: 1.5,
	}
}

// IntervalChart lays out one vertical segment per trial, a dot at each sample
// mean and a horizontal line at the population mean.
func IntervalChart(out *sim.Outcome, opts ChartOptions) chart.Chart {
	n := len(out.Results)
	mu := out.Params.PopulationMean

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Population Mean",
			Style:   chart.Style{StrokeColor: missedColor, StrokeWidth: 2},
			XValues: []float64{-1, float64(n)},
			YValues: []float64{mu, mu},
		},
	}

	namedCaptured, namedMissed := false, false
	for i, r := range out.Results {
		s := chart.ContinuousSeries{
			XValues: []float64{float64(i), float64(i)},
			YValues: []float64{r.Lower, r.Upper},
		}
		if r.Captured {
			s.Style = intervalStyle(capturedColor)
			if !namedCaptured {
				s.Name, namedCaptured = "Captured Interval", true
			}
		} else {
			s.Style = intervalStyle(missedColor)
			if !namedMissed {
				s.Name, namedMissed = "Missed Interval", true
			}
		}
		series = append(series, s)
	}

	xs := make([]float64, n)
	means := make([]float64, n)
	for i, r := range out.Results {
		xs[i] = float64(i)
		means[i] = r.SampleMean
	}
	series = append(series, chart.ContinuousSeries{
		Name: "Sample Mean",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    2.5,
			DotColor:    meanDotColor,
		},
		XValues: xs,
		YValues: means,
	})

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Simulation",
			Range: &chart.ContinuousRange{Min: -1, Max: float64(n)},
		},
		YAxis: chart.YAxis{
			Name: "Confidence Interval Range",
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func RenderChart(w io.Writer, out *sim.Outcome, format Format, opts ChartOptions) error {
	if len(out.Results) == 0 {
		return fmt.Errorf("no intervals to chart")
	}
	ch := IntervalChart(out, opts)

	rp := chart.SVG
	if format == PNG {
		rp = chart.PNG
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
