package field

import "github.com/san-kum/odeint/ode"

// Oscillator is the damped harmonic oscillator.
// State: [x, v] where v = dx/dt
// Equations:
//
//	dx/dt = v
//	dv/dt = -w²x - 2ζwv
//
// w is the natural frequency, ζ the damping ratio (0 undamped, 1
// critically damped).
type Oscillator struct {
	p []float64 // [w, zeta]
}

func NewOscillator(w, zeta float64) *Oscillator {
	return &Oscillator{p: []float64{w, zeta}}
}

func (o *Oscillator) Dim() int { return 2 }

func (o *Oscillator) Derive(_ float64, y ode.State) ode.State {
	w, z := o.p[0], o.p[1]
	return ode.State{y[1], -w*w*y[0] - 2*z*w*y[1]}
}

func (o *Oscillator) DefaultState() ode.State { return ode.State{1.0, 0.0} }

// Params aliases [w, zeta].
func (o *Oscillator) Params() []float64 { return o.p }

func (o *Oscillator) VJP(_ float64, y, grad ode.State) (ode.State, []float64) {
	w, z := o.p[0], o.p[1]
	x, v := y[0], y[1]
	g2 := grad[1]
	gy := ode.State{-w * w * g2, grad[0] - 2*z*w*g2}
	gp := []float64{(-2*w*x - 2*z*v) * g2, -2 * w * v * g2}
	return gy, gp
}
