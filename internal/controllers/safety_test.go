package controllers

import (
	"math"
	"testing"

	"github.com/san-kum/glucosim/internal/logging"
	"github.com/san-kum/glucosim/internal/loop"
)

func TestSafetyBaselineAboveThreshold(t *testing.T) {
	c := NewSafety(logging.Silent())

	for _, cgm := range []float64{70, 70.1, 100, 180, 400} {
		a, _, err := c.Decide(loop.Observation{CGM: cgm}, 0, nil)
		if err != nil {
			t.Fatalf("decide failed at cgm=%v: %v", cgm, err)
		}
		if a.Basal != DefaultBasalRate {
			t.Errorf("cgm=%v: basal = %v, want %v", cgm, a.Basal, DefaultBasalRate)
		}
		if a.Bolus != 0 {
			t.Errorf("cgm=%v: bolus = %v, want 0", cgm, a.Bolus)
		}
	}
}

func TestSafetySuspendsBelowThreshold(t *testing.T) {
	c := NewSafety(logging.Silent())

	for _, cgm := range []float64{69.9, 65, 40, 0, -5} {
		a, _, err := c.Decide(loop.Observation{CGM: cgm}, 0, nil)
		if err != nil {
			t.Fatalf("decide failed at cgm=%v: %v", cgm, err)
		}
		if a.Basal != 0 {
			t.Errorf("cgm=%v: basal = %v, want 0 (suspended)", cgm, a.Basal)
		}
	}
}

func TestSafetyMealBolus(t *testing.T) {
	c := NewSafety(logging.Silent())

	tests := []struct {
		meal      float64
		wantBolus float64
	}{
		{0, 0},
		{0.5, DefaultMealBolus},
		{30, DefaultMealBolus},
		{120, DefaultMealBolus},
	}
	for _, tt := range tests {
		a, _, err := c.Decide(loop.Observation{CGM: 120}, tt.meal, nil)
		if err != nil {
			t.Fatalf("decide failed at meal=%v: %v", tt.meal, err)
		}
		if a.Bolus != tt.wantBolus {
			t.Errorf("meal=%v: bolus = %v, want %v", tt.meal, a.Bolus, tt.wantBolus)
		}
	}
}

// The interlock zeroes only the basal rate; a meal bolus is still
// delivered while suspended. Deliberate policy choice, see DESIGN.md.
func TestSafetySuspendedStillBoluses(t *testing.T) {
	c := NewSafety(logging.Silent())

	a, _, err := c.Decide(loop.Observation{CGM: 60}, 25, nil)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if a.Basal != 0 {
		t.Errorf("basal = %v, want 0 (suspended)", a.Basal)
	}
	if a.Bolus != DefaultMealBolus {
		t.Errorf("bolus = %v, want %v (unaffected by suspension)", a.Bolus, DefaultMealBolus)
	}
}

func TestSafetyNeverNegative(t *testing.T) {
	c := NewSafety(logging.Silent())

	for _, cgm := range []float64{-100, 0, 40, 70, 120, 600} {
		for _, meal := range []float64{0, 10, 200} {
			a, _, err := c.Decide(loop.Observation{CGM: cgm}, meal, nil)
			if err != nil {
				t.Fatalf("decide failed at cgm=%v meal=%v: %v", cgm, meal, err)
			}
			if a.Basal < 0 || a.Bolus < 0 {
				t.Errorf("cgm=%v meal=%v: negative action %+v", cgm, meal, a)
			}
		}
	}
}

func TestSafetyRejectsInvalidInputs(t *testing.T) {
	c := NewSafety(logging.Silent())

	tests := []struct {
		name    string
		obs     loop.Observation
		meal    float64
		wantErr error
	}{
		{"NaN observation", loop.Observation{CGM: math.NaN()}, 0, loop.ErrInvalidObservation},
		{"Inf observation", loop.Observation{CGM: math.Inf(1)}, 0, loop.ErrInvalidObservation},
		{"negative meal", loop.Observation{CGM: 120}, -5, loop.ErrInvalidDisturbance},
		{"NaN meal", loop.Observation{CGM: 120}, math.NaN(), loop.ErrInvalidDisturbance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Decide(tt.obs, tt.meal, nil)
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSafetyStatePassthrough(t *testing.T) {
	c := NewSafety(logging.Silent())

	st := loop.State("opaque")
	_, out, err := c.Decide(loop.Observation{CGM: 120}, 0, st)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if out != st {
		t.Errorf("state = %v, want passthrough %v", out, st)
	}
}

func TestNone(t *testing.T) {
	c := NewNone()
	a, _, err := c.Decide(loop.Observation{CGM: 200}, 80, nil)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if a.Basal != 0 || a.Bolus != 0 {
		t.Errorf("none controller dosed: %+v", a)
	}
}

func TestPIDThreadsState(t *testing.T) {
	c := NewPID(0.001, 0.0001, 0.002, 110)

	var st loop.State = PIDState{}
	_, st, err := c.Decide(loop.Observation{CGM: 160}, 0, st)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	ps, ok := st.(PIDState)
	if !ok {
		t.Fatalf("state is %T, want PIDState", st)
	}
	if !ps.Primed {
		t.Error("state not primed after first step")
	}
	if ps.Integral != 50 {
		t.Errorf("integral = %v, want 50", ps.Integral)
	}

	_, st2, err := c.Decide(loop.Observation{CGM: 160}, 0, st)
	if err != nil {
		t.Fatalf("second decide failed: %v", err)
	}
	if st2.(PIDState).Integral != 100 {
		t.Errorf("integral = %v, want 100", st2.(PIDState).Integral)
	}
}

func TestPIDClampsAndSuspends(t *testing.T) {
	c := NewPID(0.001, 0, 0, 110)

	// far below target: raw output would be negative
	a, _, err := c.Decide(loop.Observation{CGM: 75}, 0, PIDState{})
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if a.Basal < 0 {
		t.Errorf("basal = %v, want >= 0", a.Basal)
	}

	a, _, err = c.Decide(loop.Observation{CGM: 60}, 0, PIDState{})
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if a.Basal != 0 {
		t.Errorf("basal = %v, want 0 below interlock threshold", a.Basal)
	}
}
