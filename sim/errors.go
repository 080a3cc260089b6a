package sim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter marks caller errors: out-of-range model, contract or
	// engine parameters. Never retried.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateSample is returned when fewer than two samples back a
	// variance estimate. Callers report an infinite standard error instead.
	ErrDegenerateSample = errors.New("degenerate sample: need at least 2 samples for variance")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return invalidf("%s must be a finite number, got %v", name, val)
	}
	if val <= 0 {
		return invalidf("%s must be positive, got %v", name, val)
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return invalidf("%s must be a finite number, got %v", name, val)
	}
	return nil
}
