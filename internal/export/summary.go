package export

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/san-kum/cisim/internal/sim"
)

// WriteSummary prints the run parameters, the summary line and any metrics.
// The summary line is green when the empirical rate reaches the nominal
// level and yellow otherwise.
func WriteSummary(w io.Writer, out *sim.Outcome) error {
	dim := color.New(color.Faint)
	p := out.Params

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "method\t%s\n", out.Method)
	fmt.Fprintf(tw, "seed\t%d\n", out.Seed)
	fmt.Fprintf(tw, "sample size\t%d\n", p.SampleSize)
	fmt.Fprintf(tw, "population\tN(%g, %g²)\n", p.PopulationMean, p.PopulationStd)
	fmt.Fprintf(tw, "confidence\t%g%%\n", p.ConfidenceLevel*100)
	if out.Critical != 0 {
		fmt.Fprintf(tw, "critical value\t%.6f\n", out.Critical)
	}
	if out.StdErr != 0 {
		fmt.Fprintf(tw, "standard error\t%.4f\n", out.StdErr)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	line := color.New(color.FgGreen, color.Bold)
	if out.CaptureRate < p.ConfidenceLevel {
		line = color.New(color.FgYellow, color.Bold)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if _, err := line.Fprintln(w, out.Summary()); err != nil {
		return err
	}

	if len(out.Metrics) == 0 {
		return nil
	}
	names := make([]string, 0, len(out.Metrics))
	for name := range out.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	dim.Fprintln(w, "metrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, out.Metrics[name])
	}
	return nil
}
