package field

import "github.com/san-kum/odeint/ode"

// Ramp is pure time-proportional forcing with no state coupling:
//
//	dy_i/dt = a_i * t
//
// The state never feeds back, so y_i(t) = y_i(0) + a_i(t² - t0²)/2
// exactly. Being explicitly time dependent, it also implements the
// optional TimeVJP capability the adjoint integrator probes for.
type Ramp struct {
	a []float64
}

func NewRamp(rates ...float64) *Ramp {
	if len(rates) == 0 {
		rates = []float64{1.0}
	}
	return &Ramp{a: append([]float64(nil), rates...)}
}

func (r *Ramp) Dim() int { return len(r.a) }

func (r *Ramp) Derive(t float64, y ode.State) ode.State {
	out := make(ode.State, len(y))
	for i, a := range r.a {
		out[i] = a * t
	}
	return out
}

func (r *Ramp) DefaultState() ode.State { return make(ode.State, len(r.a)) }

// Params aliases the forcing rates.
func (r *Ramp) Params() []float64 { return r.a }

func (r *Ramp) VJP(t float64, _, grad ode.State) (ode.State, []float64) {
	gy := make(ode.State, len(grad))
	gp := make([]float64, len(r.a))
	for i := range r.a {
		gp[i] = t * grad[i]
	}
	return gy, gp
}

// TimeVJP is grad · df/dt = sum_i a_i grad_i.
func (r *Ramp) TimeVJP(_ float64, _ ode.State, grad ode.State) float64 {
	dot := 0.0
	for i, a := range r.a {
		dot += a * grad[i]
	}
	return dot
}
