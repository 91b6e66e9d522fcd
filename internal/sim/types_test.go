package sim

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestIntervalResult_Contains(t *testing.T) {
	r := IntervalResult{SampleMean: 5, Lower: 4, Upper: 6}

	tests := []struct {
		name string
		v    float64
		want bool
	}{
		{"inside", 5, true},
		{"lower edge", 4, true},
		{"upper edge", 6, true},
		{"below", 3.999, false},
		{"above", 6.001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.v); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}

	if r.Width() != 2 {
		t.Errorf("Width() = %v, want 2", r.Width())
	}
}

func TestOutcome_Summary(t *testing.T) {
	out := &Outcome{
		Params:       Params{NumSimulations: 100},
		CaptureCount: 94,
		CaptureRate:  0.94,
	}
	want := "Captured Population Mean in 94 of 100 simulations (94.0%)"
	if got := out.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	out = &Outcome{Params: Params{NumSimulations: 3}, CaptureCount: 2, CaptureRate: 2.0 / 3}
	if got := out.Summary(); !strings.HasSuffix(got, "(66.7%)") {
		t.Errorf("Summary() = %q, want one decimal place", got)
	}
}

func TestParamError(t *testing.T) {
	err := Params{SampleSize: 1, PopulationStd: 1, NumSimulations: 1, ConfidenceLevel: 0.9}.Validate()
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	want := "sim: invalid parameter: sample_size must be at least 2 (got 1)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParams_ValidateOK(t *testing.T) {
	p := Params{SampleSize: 2, PopulationMean: -3, PopulationStd: 0.001, NumSimulations: 1, ConfidenceLevel: 0.5}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSamplePool(t *testing.T) {
	pool := NewSamplePool(4)

	s1 := pool.Get()
	if len(s1) != 4 {
		t.Errorf("pool returned wrong size: %d", len(s1))
	}

	s1[0] = 1.0
	s1[1] = 2.0
	pool.Put(s1)

	s2 := pool.Get()
	if s2[0] != 0 || s2[1] != 0 {
		t.Error("pool did not reset sample")
	}

	pool.Put(make([]float64, 3))
	if got := pool.Get(); len(got) != 4 {
		t.Errorf("pool accepted a buffer of the wrong size: %d", len(got))
	}
}

func TestTrialSource(t *testing.T) {
	a := rand.New(TrialSource(42, 3))
	b := rand.New(TrialSource(42, 3))
	c := rand.New(TrialSource(42, 4))

	x, y, z := a.Uint64(), b.Uint64(), c.Uint64()
	if x != y {
		t.Error("same (seed, trial) produced different streams")
	}
	if x == z {
		t.Error("different trials produced the same stream")
	}
}

func TestTrialError(t *testing.T) {
	err := &TrialError{Trial: 7, Wrapped: ErrNegativeMargin}
	if !errors.Is(err, ErrNegativeMargin) {
		t.Error("TrialError does not unwrap")
	}
	if err.Error() != "trial 7: sim: estimator returned negative margin" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
