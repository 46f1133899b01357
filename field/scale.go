package field

import "github.com/san-kum/odeint/ode"

// Scale multiplies the whole state by one shared coefficient:
//
//	dy/dt = theta * y
//
// Positive theta grows, negative decays. Its single parameter and known
// solution y0*exp(theta*t) make it the reference problem for gradient
// checks.
type Scale struct {
	n     int
	theta []float64
}

func NewScale(n int, theta float64) *Scale {
	if n < 1 {
		n = 1
	}
	return &Scale{n: n, theta: []float64{theta}}
}

func (s *Scale) Dim() int { return s.n }

func (s *Scale) Derive(_ float64, y ode.State) ode.State {
	out := make(ode.State, len(y))
	th := s.theta[0]
	for i, v := range y {
		out[i] = th * v
	}
	return out
}

func (s *Scale) DefaultState() ode.State {
	y := make(ode.State, s.n)
	for i := range y {
		y[i] = 1.0
	}
	return y
}

// Params aliases the single coefficient [theta].
func (s *Scale) Params() []float64 { return s.theta }

func (s *Scale) VJP(_ float64, y, grad ode.State) (ode.State, []float64) {
	gy := make(ode.State, len(y))
	th := s.theta[0]
	dot := 0.0
	for i, g := range grad {
		gy[i] = th * g
		dot += y[i] * g
	}
	return gy, []float64{dot}
}
