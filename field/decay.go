package field

import "github.com/san-kum/odeint/ode"

// Decay is elementwise exponential decay:
//
//	dy_i/dt = -rate_i * y_i
//
// The exact solution y_i(t) = y_i(0) * exp(-rate_i * t) makes it the
// standard accuracy fixture for every integrator in this module.
type Decay struct {
	rate []float64
}

// NewDecay builds a decay field with one rate per state component.
// With no arguments it is the scalar unit-rate field dy/dt = -y.
func NewDecay(rates ...float64) *Decay {
	if len(rates) == 0 {
		rates = []float64{1.0}
	}
	return &Decay{rate: append([]float64(nil), rates...)}
}

func (d *Decay) Dim() int { return len(d.rate) }

func (d *Decay) Derive(_ float64, y ode.State) ode.State {
	out := make(ode.State, len(y))
	for i, r := range d.rate {
		out[i] = -r * y[i]
	}
	return out
}

func (d *Decay) DefaultState() ode.State {
	y := make(ode.State, len(d.rate))
	for i := range y {
		y[i] = 1.0
	}
	return y
}

// Params aliases the decay rates.
func (d *Decay) Params() []float64 { return d.rate }

func (d *Decay) VJP(_ float64, y, grad ode.State) (ode.State, []float64) {
	gy := make(ode.State, len(y))
	gp := make([]float64, len(d.rate))
	for i, r := range d.rate {
		gy[i] = -r * grad[i]
		gp[i] = -y[i] * grad[i]
	}
	return gy, gp
}
