package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidParameter indicates an out-of-range or malformed input.
	ErrInvalidParameter = errors.New("sim: invalid parameter")

	// ErrNegativeMargin indicates an estimator produced a negative half-width.
	ErrNegativeMargin = errors.New("sim: estimator returned negative margin")
)

// ParamError names the offending parameter and wraps ErrInvalidParameter.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %g)", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

func paramErr(field string, value float64, reason string) error {
	return &ParamError{Field: field, Value: value, Reason: reason}
}

// TrialError wraps an estimator failure with the trial it happened in.
type TrialError struct {
	Trial   int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}
