package controllers

import "github.com/san-kum/glucosim/internal/loop"

// PID shapes the basal rate around a nominal value to pull glucose toward
// a target. Unlike Safety it is stateful: the integral and previous-error
// terms travel in the threaded controller state rather than in the struct,
// so the driver contract is exercised exactly as a stateful policy needs
// it and one instance can serve independent runs.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64 // mg/dL

	Nominal      float64 // U/min basal around which the correction is applied
	MealBolus    float64 // U, same fixed meal correction as Safety
	LowThreshold float64 // mg/dL, same hard interlock as Safety
}

// PIDState is the controller state threaded through Decide.
type PIDState struct {
	Integral float64
	PrevErr  float64
	Primed   bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:           kp,
		Ki:           ki,
		Kd:           kd,
		Target:       target,
		Nominal:      DefaultBasalRate,
		MealBolus:    DefaultMealBolus,
		LowThreshold: DefaultLowThreshold,
	}
}

func (p *PID) Decide(obs loop.Observation, meal float64, st loop.State) (loop.Action, loop.State, error) {
	if err := loop.ValidateInputs(obs, meal); err != nil {
		return loop.Action{}, st, err
	}

	prev, _ := st.(PIDState)
	e := obs.CGM - p.Target

	next := PIDState{Integral: prev.Integral + e, PrevErr: e, Primed: true}
	deriv := 0.0
	if prev.Primed {
		deriv = e - prev.PrevErr
	}

	a := loop.Action{Basal: p.Nominal + p.Kp*e + p.Ki*next.Integral + p.Kd*deriv}
	if a.Basal < 0 {
		a.Basal = 0
	}
	if meal > 0 {
		a.Bolus = p.MealBolus
	}
	if obs.CGM < p.LowThreshold {
		a.Basal = 0
	}

	return a, next, nil
}
