// Package env provides environment collaborators for the control loop.
// The physiological model proper lives outside this repository; Scripted
// replays a prepared trace so runs stay deterministic and reproducible.
package env

import (
	"errors"
	"math/rand"

	"github.com/san-kum/glucosim/internal/loop"
)

// ErrNoSamples indicates a scripted trace with zero samples.
var ErrNoSamples = errors.New("env: scripted trace has no samples")

// Sample is one point of a scripted trace.
type Sample struct {
	CGM  float64 `yaml:"cgm"`
	Meal float64 `yaml:"meal"`
	Time string  `yaml:"time"`
}

// Scripted replays a fixed (CGM, meal, label) trace through the
// reset/step protocol. With HoldLast it keeps returning the final sample
// (meal cleared) until the step budget runs out; otherwise it signals
// termination once the trace is exhausted. An optional seeded jitter adds
// reproducible sensor noise on top of the scripted glucose values.
type Scripted struct {
	samples  []Sample
	holdLast bool
	jitter   float64
	rng      *rand.Rand
	seed     int64
	idx      int
}

// ScriptedOption configures a Scripted environment.
type ScriptedOption func(*Scripted)

// WithHoldLast keeps the environment alive on the last sample instead of
// terminating when the trace ends.
func WithHoldLast() ScriptedOption {
	return func(s *Scripted) { s.holdLast = true }
}

// WithJitter adds uniform noise in [-amp, amp] mg/dL to every observation,
// drawn from a generator seeded with seed. The same seed reproduces the
// same run.
func WithJitter(amp float64, seed int64) ScriptedOption {
	return func(s *Scripted) {
		s.jitter = amp
		s.seed = seed
	}
}

// NewScripted builds a replay environment over the given trace.
func NewScripted(samples []Sample, opts ...ScriptedOption) (*Scripted, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	s := &Scripted{samples: samples}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewSource(s.seed))
	return s, nil
}

// Reset rewinds the trace and returns its first sample.
func (s *Scripted) Reset() (loop.Observation, float64, bool, loop.Meta, error) {
	s.idx = 0
	s.rng = rand.New(rand.NewSource(s.seed))
	return s.emit()
}

// Step advances the trace. The applied action does not influence the
// scripted glucose values.
func (s *Scripted) Step(_ loop.Action) (loop.Observation, float64, bool, loop.Meta, error) {
	s.idx++
	return s.emit()
}

func (s *Scripted) emit() (loop.Observation, float64, bool, loop.Meta, error) {
	i := s.idx
	if i >= len(s.samples) {
		if !s.holdLast {
			return loop.Observation{}, 0, true, loop.Meta{}, nil
		}
		last := s.samples[len(s.samples)-1]
		obs := loop.Observation{CGM: s.noisy(last.CGM)}
		return obs, 0, false, loop.Meta{Time: last.Time}, nil
	}

	sm := s.samples[i]
	obs := loop.Observation{CGM: s.noisy(sm.CGM)}
	return obs, 0, false, loop.Meta{Meal: sm.Meal, Time: sm.Time}, nil
}

func (s *Scripted) noisy(cgm float64) float64 {
	if s.jitter == 0 {
		return cgm
	}
	return cgm + (s.rng.Float64()*2-1)*s.jitter
}
