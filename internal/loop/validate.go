package loop

import "math"

// ValidateInputs checks the input domain shared by every controller:
// the observation must be a finite scalar and the meal disturbance must
// be a non-negative number.
func ValidateInputs(obs Observation, meal float64) error {
	if math.IsNaN(obs.CGM) || math.IsInf(obs.CGM, 0) {
		return ErrInvalidObservation
	}
	if math.IsNaN(meal) || meal < 0 {
		return ErrInvalidDisturbance
	}
	return nil
}
