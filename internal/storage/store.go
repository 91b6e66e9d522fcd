package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/cisim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	intervalsFile = "intervals.csv"
)

var intervalsHeader = []string{"trial", "sample_mean", "lower", "upper", "captured"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Method       string             `json:"method"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Params       sim.Params         `json:"params"`
	Critical     float64            `json:"critical"`
	StdErr       float64            `json:"std_err"`
	CaptureCount int                `json:"capture_count"`
	CaptureRate  float64            `json:"capture_rate"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("20060102-150405"), uuid.NewString()[:8])
}

// Save writes metadata.json and intervals.csv into a fresh run directory and
// returns the run id.
func (s *Store) Save(out *sim.Outcome) (string, error) {
	now := time.Now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Method:       out.Method,
		Timestamp:    now,
		Seed:         out.Seed,
		Params:       out.Params,
		Critical:     out.Critical,
		StdErr:       out.StdErr,
		CaptureCount: out.CaptureCount,
		CaptureRate:  out.CaptureRate,
		Metrics:      out.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeIntervals(filepath.Join(runDir, intervalsFile), out.Results); err != nil {
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeIntervals(path string, results []sim.IntervalResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(intervalsHeader); err != nil {
		return err
	}
	for i, r := range results {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.SampleMean, 'g', -1, 64),
			strconv.FormatFloat(r.Lower, 'g', -1, 64),
			strconv.FormatFloat(r.Upper, 'g', -1, 64),
			strconv.FormatBool(r.Captured),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadIntervals(runID string) ([]sim.IntervalResult, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, intervalsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(intervalsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []sim.IntervalResult{}, nil
	}

	results := make([]sim.IntervalResult, 0, len(records)-1)
	for i, record := range records[1:] {
		var (
			res  sim.IntervalResult
			errs [4]error
		)
		res.SampleMean, errs[0] = strconv.ParseFloat(record[1], 64)
		res.Lower, errs[1] = strconv.ParseFloat(record[2], 64)
		res.Upper, errs[2] = strconv.ParseFloat(record[3], 64)
		res.Captured, errs[3] = strconv.ParseBool(record[4])
		for _, e := range errs {
			if e != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, e)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// LoadOutcome rebuilds the outcome of a saved run.
func (s *Store) LoadOutcome(runID string) (*RunMetadata, *sim.Outcome, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	results, err := s.LoadIntervals(runID)
	if err != nil {
		return nil, nil, err
	}

	out := &sim.Outcome{
		Params:       meta.Params,
		Method:       meta.Method,
		Seed:         meta.Seed,
		Critical:     meta.Critical,
		StdErr:       meta.StdErr,
		Results:      results,
		CaptureCount: meta.CaptureCount,
		CaptureRate:  meta.CaptureRate,
		Metrics:      meta.Metrics,
	}
	return meta, out, nil
}
