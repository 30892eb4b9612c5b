package loop

// Observation is the sensed glucose measurement for one step.
type Observation struct {
	CGM float64 // mg/dL
}

// Action is the pump command applied to the environment for one step.
// Both fields must be non-negative.
type Action struct {
	Basal float64 // U/min, continuous rate
	Bolus float64 // U, discrete dose for this step only
}

// State is opaque controller state. The driver never inspects it; it is
// returned by Decide and handed back unchanged on the next call, so
// stateful policies can carry integral terms or history without any
// change to the driver contract.
type State any

// Controller maps the current observation and meal disturbance to a pump
// action. Implementations must return non-negative action fields, must not
// perform I/O beyond an injected notification sink, and must reject a
// non-finite observation or a negative/NaN disturbance with a validation
// error.
type Controller interface {
	Decide(obs Observation, meal float64, st State) (Action, State, error)
}

// Meta is the per-step metadata reported by the environment. Zero values
// mean absent: a missing meal is 0 g, a missing time label makes the
// driver fall back to the loop index.
type Meta struct {
	Meal float64 // g carbohydrate arriving this step
	Time string  // timestamp or step label
}

// Environment is the external stepped simulation of patient, sensor and
// pump. It is opaque to this package and exclusively owned by one driver
// for the duration of a run. Reward is part of the protocol but unused
// here.
type Environment interface {
	Reset() (Observation, float64, bool, Meta, error)
	Step(a Action) (Observation, float64, bool, Meta, error)
}

// StepRecord is one row of the run table: the pre-action observation and
// disturbance plus the action taken on that step.
type StepRecord struct {
	Time  string
	CGM   float64
	Meal  float64
	Basal float64
	Bolus float64
}

// RecordWriter persists the finished record table. Implemented by
// report.CSVFile; the driver calls it exactly once, after statistics
// succeed.
type RecordWriter interface {
	WriteRecords(recs []StepRecord) error
}

// Observer is notified after every completed step. Used by live views.
type Observer interface {
	OnStep(rec StepRecord)
}
