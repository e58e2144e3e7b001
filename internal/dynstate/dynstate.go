// Package dynstate provides a value that changes at discrete time steps.
package dynstate

import "sort"

// State is a step function over report steps: a value set at step n holds
// until the next step it is set at. Entries are kept sorted by step.
type State[T any] struct {
	initial T
	steps   []int
	values  []T
}

// New returns a State holding initial at every step until it is first set.
func New[T any](initial T) *State[T] {
	return &State[T]{initial: initial}
}

// Set stores v at exactly step, replacing a value already set there.
func (s *State[T]) Set(step int, v T) {
	i := sort.SearchInts(s.steps, step)
	if i < len(s.steps) && s.steps[i] == step {
		s.values[i] = v
		return
	}
	s.steps = append(s.steps, 0)
	s.values = append(s.values, v)
	copy(s.steps[i+1:], s.steps[i:])
	copy(s.values[i+1:], s.values[i:])
	s.steps[i] = step
	s.values[i] = v
}

// At returns the value set at the latest step at or before step.
func (s *State[T]) At(step int) T {
	i := sort.SearchInts(s.steps, step+1)
	if i == 0 {
		return s.initial
	}
	return s.values[i-1]
}

// Update replaces the value at step with fn applied to the value in force.
func (s *State[T]) Update(step int, fn func(T) T) {
	s.Set(step, fn(s.At(step)))
}

// Latest returns the most recently stepped value.
func (s *State[T]) Latest() T {
	if len(s.values) == 0 {
		return s.initial
	}
	return s.values[len(s.values)-1]
}

// Changed reports whether a value was set at exactly step.
func (s *State[T]) Changed(step int) bool {
	i := sort.SearchInts(s.steps, step)
	return i < len(s.steps) && s.steps[i] == step
}

// Steps returns the steps at which the value was set, ascending.
func (s *State[T]) Steps() []int {
	out := make([]int, len(s.steps))
	copy(out, s.steps)
	return out
}
