package adjoint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

// Gradients carries the result of one backward pass.
type Gradients struct {
	// Y0 is dL/dy(t0).
	Y0 ode.State
	// Times holds dL/dt[i] for every requested output time, t0 included.
	Times []float64
	// Params is dL/dtheta, nil for parameter-free fields.
	Params []float64
}

// TimeVJPer is the optional capability of non-autonomous fields: the
// product grad-transpose times df/dt at (t, y). Fields without it are
// treated as autonomous when time sensitivities are accumulated, which is
// exact whenever f ignores its t argument.
type TimeVJPer interface {
	TimeVJP(t float64, y, grad ode.State) float64
}

// Gradient runs the forward integration and then the continuous adjoint
// backward pass. gradY[i] is the upstream loss gradient dL/dy(times[i]);
// a time the loss does not touch takes a zero vector. Only dopri5 carries
// the augmented backward system; every other method returns
// ode.ErrAdjointUnsupported (fixed-step methods have the exact
// BackwardSteps fallback instead).
//
// The backward pass reconstructs y by integrating the field in reverse, so
// memory stays constant in the number of accepted forward steps.
func Gradient(f ode.VJPField, y0 ode.State, times []float64, gradY []ode.State, m solver.Method, opts ode.Options) (*solver.Solution, *Gradients, error) {
	named, ok := m.(interface{ Name() string })
	if !ok || named.Name() != "dopri5" {
		return nil, nil, ode.ErrAdjointUnsupported
	}
	n := len(y0)
	if err := checkGradY(gradY, times, n); err != nil {
		return nil, nil, err
	}

	sol, err := solver.Solve(f, y0, times, m, opts)
	if err != nil {
		return nil, nil, err
	}

	// One probe fixes the parameter count; the contract is linear in the
	// seed, so a unit seed exposes the shapes the field will keep using.
	seed := make(ode.State, n)
	for i := range seed {
		seed[i] = 1
	}
	gy, gp := f.VJP(times[0], y0, seed)
	if len(gy) != n {
		return nil, nil, fmt.Errorf("ode: VJP state gradient has length %d for dimension %d: %w", len(gy), n, ode.ErrShapeMismatch)
	}
	p := len(gp)

	N := len(times)
	grads := &Gradients{Times: make([]float64, N)}
	if N == 1 {
		grads.Y0 = gradY[0].Clone()
		if p > 0 {
			grads.Params = make([]float64, p)
		}
		return sol, grads, nil
	}

	af := &augmented{f: f, n: n, p: p}
	af.tv, _ = f.(TimeVJPer)

	aug := make(ode.State, af.Dim())
	copy(aug[:n], sol.Y[N-1])
	copy(aug[n:2*n], gradY[N-1])

	backOpts := opts
	backOpts.OnStep = nil
	backOpts.InitStep = 0

	for i := N - 1; i >= 1; i-- {
		// Shifting an output time slides the loss along the trajectory.
		dLdt := floats.Dot(f.Derive(times[i], sol.Y[i]), gradY[i])
		grads.Times[i] = dLdt
		aug[len(aug)-1] -= dLdt

		if times[i] != times[i-1] {
			back, err := solver.Solve(af, aug, []float64{times[i], times[i-1]}, step.NewDopri5(), backOpts)
			if err != nil {
				return nil, nil, fmt.Errorf("ode: adjoint backward pass over [%g, %g]: %w", times[i], times[i-1], err)
			}
			aug = back.Y[1]
		}
		// Pin the state slot back to the stored forward value and fold in
		// the boundary gradient for the next sub-interval.
		copy(aug[:n], sol.Y[i-1])
		floats.Add(aug[n:2*n], gradY[i-1])
	}

	grads.Y0 = aug[n : 2*n].Clone()
	grads.Times[0] = aug[len(aug)-1]
	if p > 0 {
		grads.Params = append([]float64(nil), aug[2*n:2*n+p]...)
	}
	return sol, grads, nil
}

func checkGradY(gradY []ode.State, times []float64, n int) error {
	if len(gradY) != len(times) {
		return fmt.Errorf("ode: %d output gradients for %d times: %w", len(gradY), len(times), ode.ErrShapeMismatch)
	}
	for _, g := range gradY {
		if len(g) != n {
			return ode.ErrShapeMismatch
		}
		if !g.IsValid() {
			return ode.ErrNonFinite
		}
	}
	return nil
}

// augmented is the backward system [y, adj_y, adj_params, adj_t]: the state
// re-derived in reverse, the adjoint driven by the negated Jacobian action,
// and quadrature slots for the parameter and time sensitivities.
type augmented struct {
	f    ode.VJPField
	tv   TimeVJPer
	n, p int
}

func (a *augmented) Dim() int { return 2*a.n + a.p + 1 }

func (a *augmented) Derive(t float64, z ode.State) ode.State {
	y := z[:a.n]
	adj := z[a.n : 2*a.n]
	out := make(ode.State, len(z))

	fy := a.f.Derive(t, y)
	gy, gp := a.f.VJP(t, y, adj)
	if len(fy) != a.n || len(gy) != a.n || len(gp) != a.p {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	copy(out[:a.n], fy)
	for i, v := range gy {
		out[a.n+i] = -v
	}
	for i, v := range gp {
		out[2*a.n+i] = -v
	}
	if a.tv != nil {
		out[len(out)-1] = -a.tv.TimeVJP(t, y, adj)
	}
	return out
}
