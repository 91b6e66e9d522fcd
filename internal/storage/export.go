package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/cisim/internal/sim"
)

type ExportData struct {
	ID           string               `json:"id,omitempty"`
	Method       string               `json:"method"`
	Seed         int64                `json:"seed"`
	Params       sim.Params           `json:"params"`
	Critical     float64              `json:"critical"`
	StdErr       float64              `json:"std_err"`
	CaptureCount int                  `json:"capture_count"`
	CaptureRate  float64              `json:"capture_rate"`
	Summary      string               `json:"summary"`
	Metrics      map[string]float64   `json:"metrics"`
	Intervals    []sim.IntervalResult `json:"intervals"`
}

func ExportJSON(w io.Writer, runID string, out *sim.Outcome) error {
	data := ExportData{
		ID:           runID,
		Method:       out.Method,
		Seed:         out.Seed,
		Params:       out.Params,
		Critical:     out.Critical,
		StdErr:       out.StdErr,
		CaptureCount: out.CaptureCount,
		CaptureRate:  out.CaptureRate,
		Summary:      out.Summary(),
		Metrics:      out.Metrics,
		Intervals:    out.Results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportCSV(w io.Writer, results []sim.IntervalResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(intervalsHeader); err != nil {
		return err
	}
	for i, r := range results {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.SampleMean, 'f', 6, 64),
			strconv.FormatFloat(r.Lower, 'f', 6, 64),
			strconv.FormatFloat(r.Upper, 'f', 6, 64),
			strconv.FormatBool(r.Captured),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
