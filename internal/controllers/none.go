package controllers

import "github.com/san-kum/glucosim/internal/loop"

// None delivers no insulin at all. Useful as an open-loop baseline.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Decide(obs loop.Observation, meal float64, st loop.State) (loop.Action, loop.State, error) {
	if err := loop.ValidateInputs(obs, meal); err != nil {
		return loop.Action{}, st, err
	}
	return loop.Action{}, st, nil
}
