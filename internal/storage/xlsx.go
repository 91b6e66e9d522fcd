package storage

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/cisim/internal/sim"
)

const (
	summarySheet   = "Summary"
	intervalsSheet = "Intervals"
)

// ExportXLSX writes a workbook with a Summary sheet of run parameters and
// metrics and an Intervals sheet with one row per trial.
func ExportXLSX(w io.Writer, runID string, out *sim.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	idx, err := f.NewSheet(intervalsSheet)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	p := out.Params
	rows := [][]any{
		{"run", runID},
		{"method", out.Method},
		{"seed", out.Seed},
		{"sample_size", p.SampleSize},
		{"population_mean", p.PopulationMean},
		{"population_std", p.PopulationStd},
		{"num_simulations", p.NumSimulations},
		{"confidence_level", p.ConfidenceLevel},
		{"critical", out.Critical},
		{"std_err", out.StdErr},
		{"capture_count", out.CaptureCount},
		{"capture_rate", out.CaptureRate},
		{"summary", out.Summary()},
	}
	names := make([]string, 0, len(out.Metrics))
	for name := range out.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []any{name, out.Metrics[name]})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return err
	}

	header := make([]any, len(intervalsHeader))
	for i, h := range intervalsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(intervalsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(intervalsSheet, "A1", "E1", bold); err != nil {
		return err
	}
	for i, r := range out.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i, r.SampleMean, r.Lower, r.Upper, r.Captured}
		if err := f.SetSheetRow(intervalsSheet, cell, &row); err != nil {
			return err
		}
	}

	f.SetActiveSheet(idx)
	return f.Write(w)
}
