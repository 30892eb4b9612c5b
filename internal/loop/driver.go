package loop

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// Result is the outcome of one completed run: the full record sequence in
// chronological order plus the derived glucose statistics.
type Result struct {
	Records []StepRecord
	Summary Summary
}

// Driver owns the step loop for a single run. It wires one environment to
// one controller, enforces the step budget, assembles the record table and
// hands it to the configured writer. A driver holds no locks: a run is
// single-threaded and the environment must not be shared with another run.
type Driver struct {
	env       Environment
	ctrl      Controller
	log       *logrus.Logger
	writer    RecordWriter
	observers []Observer
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the notification sink for run progress and the summary
// report. Defaults to the standard logrus logger.
func WithLogger(log *logrus.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// WithWriter sets the writer that persists the record table after a
// successful run. Without one, nothing is persisted.
func WithWriter(w RecordWriter) Option {
	return func(d *Driver) { d.writer = w }
}

// WithObserver registers an observer called after every completed step.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

// NewDriver creates a driver for the given environment and controller.
func NewDriver(env Environment, ctrl Controller, opts ...Option) *Driver {
	d := &Driver{env: env, ctrl: ctrl, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes at most maxSteps simulation steps, stopping early the first
// time the environment signals termination. st is the controller's initial
// state and is threaded through every Decide call.
//
// Each record carries the pre-action observation and disturbance together
// with the action taken on that step, tagged with the time label from the
// environment metadata (loop index if the environment supplies none).
//
// Any controller or environment failure aborts the run: no record table is
// written and no summary is reported. A run that records zero steps (zero
// budget, or termination signalled by Reset) fails with ErrEmptyResult.
func (d *Driver) Run(maxSteps int, st State) (*Result, error) {
	obs, _, done, meta, err := d.env.Reset()
	if err != nil {
		return nil, &RunError{Step: 0, Op: "reset", Wrapped: err}
	}

	recs := make([]StepRecord, 0, max(maxSteps, 0))
	for i := 0; i < maxSteps && !done; i++ {
		meal := meta.Meal

		action, next, err := d.ctrl.Decide(obs, meal, st)
		if err != nil {
			return nil, &RunError{Step: i, Op: "decide", Wrapped: err}
		}
		st = next

		nextObs, _, nextDone, nextMeta, err := d.env.Step(action)
		if err != nil {
			return nil, &RunError{Step: i, Op: "step", Wrapped: err}
		}

		rec := StepRecord{
			Time:  stepLabel(meta, i),
			CGM:   obs.CGM,
			Meal:  meal,
			Basal: action.Basal,
			Bolus: action.Bolus,
		}
		recs = append(recs, rec)
		for _, o := range d.observers {
			o.OnStep(rec)
		}

		obs, meta, done = nextObs, nextMeta, nextDone
	}

	summary, err := Summarize(recs)
	if err != nil {
		return nil, err
	}

	if d.writer != nil {
		if err := d.writer.WriteRecords(recs); err != nil {
			return nil, err
		}
	}

	d.log.WithFields(logrus.Fields{
		"steps": len(recs),
		"mean":  summary.Mean,
		"min":   summary.Min,
		"max":   summary.Max,
	}).Info("run complete")

	return &Result{Records: recs, Summary: summary}, nil
}

func stepLabel(m Meta, i int) string {
	if m.Time != "" {
		return m.Time
	}
	return strconv.Itoa(i)
}
