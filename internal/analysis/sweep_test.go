package analysis

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cisim/internal/methods"
	"github.com/san-kum/cisim/internal/sim"
)

func baseParams() sim.Params {
	return sim.Params{
		SampleSize:      10,
		PopulationMean:  50,
		PopulationStd:   15,
		NumSimulations:  400,
		ConfidenceLevel: 0.95,
	}
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0.8}, Linspace(0.8, 0.99, 1))
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5), 1e-12)

	vals := Linspace(0.8, 0.99, 20)
	assert.Len(t, vals, 20)
	assert.Equal(t, 0.99, vals[19])
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
		err  bool
	}{
		{"confidence", AxisConfidence, false},
		{"level", AxisConfidence, false},
		{"sample-size", AxisSampleSize, false},
		{"n", AxisSampleSize, false},
		{"sigma", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSweepConfidence(t *testing.T) {
	s := sim.New(methods.NewZSigma())
	levels := []float64{0.80, 0.90, 0.95, 0.99}

	pts, err := Sweep(context.Background(), s, baseParams(), 42, AxisConfidence, levels, 0)
	require.NoError(t, err)
	require.Len(t, pts, len(levels))

	for i, p := range pts {
		assert.Equal(t, levels[i], p.Nominal)
		assert.InDelta(t, p.Nominal, p.Empirical, 0.07, "level %g", p.Nominal)
		if i > 0 {
			// same seed, same sample means: wider intervals capture at least as often
			assert.GreaterOrEqual(t, p.Empirical, pts[i-1].Empirical)
			assert.Greater(t, p.MeanWidth, pts[i-1].MeanWidth)
		}
	}
}

func TestSweepSampleSize(t *testing.T) {
	s := sim.New(methods.NewZSigma())
	sizes := []float64{2, 5, 20, 80}

	pts, err := Sweep(context.Background(), s, baseParams(), 7, AxisSampleSize, sizes, 4)
	require.NoError(t, err)
	require.Len(t, pts, len(sizes))

	for i, p := range pts {
		assert.Equal(t, 0.95, p.Nominal)
		if i > 0 {
			assert.Less(t, p.MeanWidth, pts[i-1].MeanWidth)
		}
	}
}

func TestSweepParallelMatchesSequential(t *testing.T) {
	s := sim.New(methods.NewZSigma())
	levels := Linspace(0.85, 0.99, 4)

	seq, err := Sweep(context.Background(), s, baseParams(), 3, AxisConfidence, levels, 1)
	require.NoError(t, err)
	par, err := Sweep(context.Background(), s, baseParams(), 3, AxisConfidence, levels, 8)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestSweepInvalidValue(t *testing.T) {
	s := sim.New(methods.NewZSigma())

	_, err := Sweep(context.Background(), s, baseParams(), 42, AxisSampleSize, []float64{10, 1}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrInvalidParameter))

	_, err = Sweep(context.Background(), s, baseParams(), 42, Axis("bogus"), []float64{1}, 0)
	assert.Error(t, err)
}

func TestWriteTableAndPlot(t *testing.T) {
	pts := []SweepPoint{
		{Value: 0.9, Nominal: 0.9, Empirical: 0.88, CaptureCount: 88, MeanWidth: 15.6},
		{Value: 0.95, Nominal: 0.95, Empirical: 0.96, CaptureCount: 96, MeanWidth: 18.6},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, AxisConfidence, pts))
	out := buf.String()
	assert.Contains(t, out, "empirical")
	assert.Contains(t, out, "95.00%")
	assert.Contains(t, out, "-2.00")

	plot := PlotCoverage(pts, 40, 8)
	assert.Contains(t, plot, "empirical %")
	assert.Empty(t, PlotCoverage(nil, 40, 8))
}
