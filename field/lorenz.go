package field

import "github.com/san-kum/odeint/ode"

type Lorenz struct {
	p []float64 // [sigma, rho, beta]
}

// NewClassicLorenz uses the canonical chaotic parameters (10, 28, 8/3).
func NewClassicLorenz() *Lorenz { return NewLorenz(10.0, 28.0, 8.0/3.0) }

func NewLorenz(sigma, rho, beta float64) *Lorenz {
	return &Lorenz{p: []float64{sigma, rho, beta}}
}

func (l *Lorenz) Dim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(_ float64, s ode.State) ode.State {
	sigma, rho, beta := l.p[0], l.p[1], l.p[2]
	return ode.State{
		sigma * (s[1] - s[0]),
		s[0]*(rho-s[2]) - s[1],
		s[0]*s[1] - beta*s[2],
	}
}

func (l *Lorenz) DefaultState() ode.State { return ode.State{1.0, 1.0, 1.0} }

// Params aliases [sigma, rho, beta].
func (l *Lorenz) Params() []float64 { return l.p }

func (l *Lorenz) VJP(_ float64, s, grad ode.State) (ode.State, []float64) {
	sigma, rho, beta := l.p[0], l.p[1], l.p[2]
	x, y, z := s[0], s[1], s[2]
	g1, g2, g3 := grad[0], grad[1], grad[2]
	gy := ode.State{
		-sigma*g1 + (rho-z)*g2 + y*g3,
		sigma*g1 - g2 + x*g3,
		-x*g2 - beta*g3,
	}
	gp := []float64{(y - x) * g1, x * g2, -z * g3}
	return gy, gp
}
