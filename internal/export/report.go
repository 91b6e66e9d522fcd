package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"sort"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/san-kum/cisim/internal/sim"
)

// Markdown renders the run as a markdown document: parameters, the summary
// line and metrics. chartPNG, when non-empty, is embedded as a data URI.
func Markdown(title string, out *sim.Outcome, chartPNG []byte) []byte {
	var b bytes.Buffer
	p := out.Params

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**%s**\n\n", out.Summary())

	b.WriteString("| parameter | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| method | %s |\n", out.Method)
	fmt.Fprintf(&b, "| seed | %d |\n", out.Seed)
	fmt.Fprintf(&b, "| sample size | %d |\n", p.SampleSize)
	fmt.Fprintf(&b, "| population mean | %g |\n", p.PopulationMean)
	fmt.Fprintf(&b, "| population std | %g |\n", p.PopulationStd)
	fmt.Fprintf(&b, "| simulations | %d |\n", p.NumSimulations)
	fmt.Fprintf(&b, "| confidence | %g%% |\n", p.ConfidenceLevel*100)
	if out.Critical != 0 {
		fmt.Fprintf(&b, "| critical value | %.6f |\n", out.Critical)
	}
	if out.StdErr != 0 {
		fmt.Fprintf(&b, "| standard error | %.4f |\n", out.StdErr)
	}

	if len(out.Metrics) > 0 {
		names := make([]string, 0, len(out.Metrics))
		for name := range out.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n## Metrics\n\n| metric | value |\n|---|---|\n")
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %.6f |\n", name, out.Metrics[name])
		}
	}

	if len(chartPNG) > 0 {
		fmt.Fprintf(&b, "\n## Intervals\n\n![intervals](data:image/png;base64,%s)\n",
			base64.StdEncoding.EncodeToString(chartPNG))
	}
	return b.Bytes()
}

// WriteReport writes a standalone HTML page with the run's tables and its
// interval chart.
func WriteReport(w io.Writer, title string, out *sim.Outcome) error {
	var png bytes.Buffer
	if len(out.Results) > 0 {
		if err := RenderChart(&png, out, PNG, DefaultChartOptions()); err != nil {
			return err
		}
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	_, err := w.Write(markdown.ToHTML(Markdown(title, out, png.Bytes()), p, r))
	return err
}
