package loop

// Summary holds the aggregate glucose statistics for a finished run.
type Summary struct {
	Mean float64
	Min  float64
	Max  float64
}

// Summarize computes mean/min/max over the CGM column. Statistics are
// undefined for an empty run, so zero records is ErrEmptyResult rather
// than a zero-valued Summary.
func Summarize(recs []StepRecord) (Summary, error) {
	if len(recs) == 0 {
		return Summary{}, ErrEmptyResult
	}

	s := Summary{Min: recs[0].CGM, Max: recs[0].CGM}
	sum := 0.0
	for _, r := range recs {
		sum += r.CGM
		if r.CGM < s.Min {
			s.Min = r.CGM
		}
		if r.CGM > s.Max {
			s.Max = r.CGM
		}
	}
	s.Mean = sum / float64(len(recs))
	return s, nil
}
