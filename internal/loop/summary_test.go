package loop

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	recs := []StepRecord{
		{CGM: 120},
		{CGM: 80},
		{CGM: 160},
		{CGM: 100},
	}

	s, err := Summarize(recs)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if s.Min != 80 {
		t.Errorf("min = %v, want 80", s.Min)
	}
	if s.Max != 160 {
		t.Errorf("max = %v, want 160", s.Max)
	}
	if math.Abs(s.Mean-115) > 1e-9 {
		t.Errorf("mean = %v, want 115", s.Mean)
	}
}

func TestSummarizeSingle(t *testing.T) {
	s, err := Summarize([]StepRecord{{CGM: 65}})
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if s.Mean != 65 || s.Min != 65 || s.Max != 65 {
		t.Errorf("summary = %+v, want all 65", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	if err != ErrEmptyResult {
		t.Errorf("err = %v, want ErrEmptyResult", err)
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name string
		cgm  float64
		meal float64
		want error
	}{
		{"valid", 120, 30, nil},
		{"zero meal", 65, 0, nil},
		{"negative glucose is finite", -10, 0, nil},
		{"NaN glucose", math.NaN(), 0, ErrInvalidObservation},
		{"negative Inf glucose", math.Inf(-1), 0, ErrInvalidObservation},
		{"negative meal", 120, -1, ErrInvalidDisturbance},
		{"NaN meal", 120, math.NaN(), ErrInvalidDisturbance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateInputs(Observation{CGM: tt.cgm}, tt.meal); err != tt.want {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
