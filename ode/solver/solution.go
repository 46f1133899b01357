package solver

import (
	"github.com/san-kum/odeint/ode"
)

// Stats counts the work of one integration call.
type Stats struct {
	// Steps is the number of accepted steps.
	Steps int
	// Rejects is the number of rejected step attempts.
	Rejects int
	// Evals is the number of vector-field evaluations.
	Evals int
	// LastStep is the magnitude of the last accepted step.
	LastStep float64
}

// Solution is the result of one integration: the solution state at every
// requested time, in request order.
type Solution struct {
	T     []float64
	Y     []ode.State
	Stats Stats
}

// Component extracts one state component across all output times, in a
// shape the plotting helpers take directly.
func (s *Solution) Component(i int) []float64 {
	out := make([]float64, len(s.Y))
	for j, y := range s.Y {
		out[j] = y[i]
	}
	return out
}

// Last returns the final output state.
func (s *Solution) Last() ode.State {
	return s.Y[len(s.Y)-1]
}

// countingField wraps a field to count derivative evaluations.
type countingField struct {
	ode.Field
	n *int
}

func (c countingField) Derive(t float64, y ode.State) ode.State {
	*c.n++
	return c.Field.Derive(t, y)
}
