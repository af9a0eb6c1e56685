package curve

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when a parameter is NaN or infinite
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError names the offending field and value
type InvalidParameterError struct {
	Field string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v is not a finite number", e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidParameter
func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// Validate rejects non-finite fields. Range limits are not checked here;
// the model clamps finite values instead of rejecting them.
func (p Parameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"amplitude_a", p.AmplitudeA},
		{"amplitude_b", p.AmplitudeB},
		{"angular_freq_a", p.AngularFreqA},
		{"angular_freq_b", p.AngularFreqB},
		{"phase_offset", p.PhaseOffset},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return &InvalidParameterError{Field: f.name, Value: f.value}
		}
	}
	return nil
}
