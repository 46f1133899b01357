package solver

import (
	"github.com/san-kum/odeint/ode"
)

// Interpolant evaluates the solution anywhere inside one accepted step.
// Without a midpoint it is the cubic Hermite through the endpoint values
// and derivatives; with one it is the quartic that additionally matches
// the method's own midpoint estimate, one order better inside
// Dormand-Prince steps. Endpoint queries return the stored endpoint
// states exactly.
type Interpolant struct {
	step ode.Step
	mid  ode.State
}

// NewInterpolant builds the interpolant for an accepted step. mid is the
// solver's midpoint estimate when the method provides one, nil otherwise.
func NewInterpolant(step ode.Step, mid ode.State) *Interpolant {
	return &Interpolant{step: step, mid: mid}
}

// Step returns the step this interpolant covers.
func (ip *Interpolant) Step() ode.Step { return ip.step }

// At evaluates the solution at t, which must lie within the step.
func (ip *Interpolant) At(t float64) (ode.State, error) {
	s := ip.step
	if t == s.T0 {
		return s.Y0.Clone(), nil
	}
	if t == s.T1 {
		return s.Y1.Clone(), nil
	}
	if !s.Contains(t) {
		return nil, ode.ErrInterpolationDomain
	}

	h := s.Span()
	x := (t - s.T0) / h
	if ip.mid != nil {
		return ip.quartic(x, h), nil
	}
	return ip.hermite(x, h), nil
}

// hermite is the cubic through (Y0, h*F0) and (Y1, h*F1) in the scaled
// variable x = (t-T0)/h.
func (ip *Interpolant) hermite(x, h float64) ode.State {
	s := ip.step
	h00 := (1 + 2*x) * (1 - x) * (1 - x)
	h10 := x * (1 - x) * (1 - x)
	h01 := x * x * (3 - 2*x)
	h11 := x * x * (x - 1)

	out := make(ode.State, len(s.Y0))
	for i := range out {
		out[i] = h00*s.Y0[i] + h10*h*s.F0[i] + h01*s.Y1[i] + h11*h*s.F1[i]
	}
	return out
}

// quartic matches both endpoints, both endpoint derivatives and the
// midpoint estimate.
func (ip *Interpolant) quartic(x, h float64) ode.State {
	s := ip.step
	out := make(ode.State, len(s.Y0))
	for i := range out {
		y0, y1, ym := s.Y0[i], s.Y1[i], ip.mid[i]
		f0, f1 := h*s.F0[i], h*s.F1[i]

		a := 2*(f1-f0) - 8*(y1+y0) + 16*ym
		b := 5*f0 - 3*f1 + 18*y0 + 14*y1 - 32*ym
		c := f1 - 4*f0 - 11*y0 - 5*y1 + 16*ym
		d := f0
		e := y0

		out[i] = e + x*(d+x*(c+x*(b+x*a)))
	}
	return out
}
