package controllers

import (
	"github.com/sirupsen/logrus"

	"github.com/san-kum/glucosim/internal/loop"
)

// Reference dosing constants.
const (
	DefaultBasalRate    = 0.05 // U/min, roughly 3 U/h
	DefaultMealBolus    = 1.0  // U, conservative fixed correction
	DefaultLowThreshold = 70.0 // mg/dL, pump suspension floor
)

// Safety is the basal-bolus policy with a hard low-glucose interlock.
//
// It is memoryless: each step is decided purely from the current glucose
// and meal values. Below LowThreshold the basal rate is forced to zero;
// the meal bolus is still delivered while suspended, which is a deliberate
// policy choice rather than an oversight.
type Safety struct {
	BasalRate    float64
	MealBolus    float64
	LowThreshold float64

	log *logrus.Logger
}

// NewSafety returns the policy with the reference constants. The logger
// receives bolus and suspension notifications; those are observability
// only and never feed back into dosing.
func NewSafety(log *logrus.Logger) *Safety {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Safety{
		BasalRate:    DefaultBasalRate,
		MealBolus:    DefaultMealBolus,
		LowThreshold: DefaultLowThreshold,
		log:          log,
	}
}

// Decide implements loop.Controller. It is total over the valid input
// domain: any finite glucose and non-negative meal yields an action with
// both fields >= 0. The state argument is passed through untouched.
func (s *Safety) Decide(obs loop.Observation, meal float64, st loop.State) (loop.Action, loop.State, error) {
	if err := loop.ValidateInputs(obs, meal); err != nil {
		return loop.Action{}, st, err
	}

	a := loop.Action{Basal: s.BasalRate}

	if meal > 0 {
		a.Bolus = s.MealBolus
		s.log.WithFields(logrus.Fields{"meal_g": meal, "bolus_u": a.Bolus}).
			Info("meal detected, bolusing")
	}

	if obs.CGM < s.LowThreshold {
		a.Basal = 0
		s.log.WithField("cgm", obs.CGM).Warn("low glucose, suspending basal")
	}

	return a, st, nil
}

// Suspended reports whether the interlock would zero the basal rate for
// the given glucose value.
func (s *Safety) Suspended(obs loop.Observation) bool {
	return obs.CGM < s.LowThreshold
}
