package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cisim/internal/sim"
)

func testOutcome() *sim.Outcome {
	return &sim.Outcome{
		Params: sim.Params{
			SampleSize:      10,
			PopulationMean:  50,
			PopulationStd:   15,
			NumSimulations:  3,
			ConfidenceLevel: 0.95,
		},
		Method:   "z-sigma",
		Seed:     42,
		Critical: 1.959963984540054,
		StdErr:   4.743416490252569,
		Results: []sim.IntervalResult{
			{SampleMean: 51.25, Lower: 41.95, Upper: 60.55, Captured: true},
			{SampleMean: 61.1, Lower: 51.8, Upper: 70.4, Captured: false},
			{SampleMean: 0.1 + 0.2, Lower: -9.0, Upper: 9.6, Captured: false},
		},
		CaptureCount: 1,
		CaptureRate:  1.0 / 3,
		Metrics:      map[string]float64{"mean_width": 18.6},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	out := testOutcome()
	runID, err := st.Save(out)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "z-sigma", meta.Method)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, out.Params, meta.Params)
	assert.Equal(t, 18.6, meta.Metrics["mean_width"])

	results, err := st.LoadIntervals(runID)
	require.NoError(t, err)
	assert.Equal(t, out.Results, results, "intervals should round-trip exactly")

	_, loaded, err := st.LoadOutcome(runID)
	require.NoError(t, err)
	assert.Equal(t, out.Summary(), loaded.Summary())
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(testOutcome())
	require.NoError(t, err)
	second, err := st.Save(testOutcome())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runID, err := st.Save(testOutcome())
	require.NoError(t, err)

	for _, name := range []string{"metadata.json", "intervals.csv"} {
		_, err := os.Stat(filepath.Join(tmpDir, runID, name))
		assert.NoError(t, err, "%s not created", name)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "intervals.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "trial,sample_mean,lower,upper,captured", lines[0])
	assert.Len(t, lines, 4)
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("does-not-exist")
	assert.Error(t, err)
	_, err = st.LoadIntervals("does-not-exist")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, "run-1", testOutcome()))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.ID)
	assert.Len(t, got.Intervals, 3)
	assert.Equal(t, "Captured Population Mean in 1 of 3 simulations (33.3%)", got.Summary)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, testOutcome().Results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0,51.250000,41.950000,60.550000,true", lines[1])
}
