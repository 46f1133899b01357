package field

import "github.com/san-kum/odeint/ode"

// VanDerPol is the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = mu(1 - x²)y - x
//
// Small mu is nearly harmonic; large mu produces stiff relaxation
// oscillations that punish low-order methods.
type VanDerPol struct {
	p []float64 // [mu]
}

func NewVanDerPol(mu float64) *VanDerPol {
	return &VanDerPol{p: []float64{mu}}
}

func (v *VanDerPol) Dim() int { return 2 }

func (v *VanDerPol) Derive(_ float64, s ode.State) ode.State {
	x, y := s[0], s[1]
	mu := v.p[0]
	return ode.State{y, mu*(1-x*x)*y - x}
}

func (v *VanDerPol) DefaultState() ode.State { return ode.State{2.0, 0.0} }

// Params aliases [mu].
func (v *VanDerPol) Params() []float64 { return v.p }

func (v *VanDerPol) VJP(_ float64, s, grad ode.State) (ode.State, []float64) {
	x, y := s[0], s[1]
	mu := v.p[0]
	g1, g2 := grad[0], grad[1]
	gy := ode.State{
		(-2*mu*x*y - 1) * g2,
		g1 + mu*(1-x*x)*g2,
	}
	gp := []float64{(1 - x*x) * y * g2}
	return gy, gp
}
