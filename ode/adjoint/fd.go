package adjoint

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
)

// Loss maps a forward solution to the scalar being differentiated.
type Loss func(sol *solver.Solution) float64

// FiniteDiffGradients approximates dL/dy0 and dL/dparams by central
// differences of repeated forward solves, the reference the adjoint
// results are validated against. Fields exposing Params have their
// parameters perturbed in place and restored before returning. The method
// is supplied as a factory because each perturbed solve needs its own
// stepper scratch state.
func FiniteDiffGradients(f ode.Field, y0 ode.State, times []float64, loss Loss, method func() solver.Method, opts ode.Options) (ode.State, []float64, error) {
	var params []float64
	if pf, ok := f.(ode.Parameterized); ok {
		params = pf.Params()
	}
	saved := append([]float64(nil), params...)
	defer func() { copy(params, saved) }()

	if _, err := solver.Solve(f, y0, times, method(), opts); err != nil {
		return nil, nil, err
	}

	x0 := make([]float64, len(y0)+len(params))
	copy(x0, y0)
	copy(x0[len(y0):], saved)

	eval := func(x []float64) float64 {
		copy(params, x[len(y0):])
		sol, err := solver.Solve(f, ode.State(x[:len(y0)]), times, method(), opts)
		if err != nil {
			return math.NaN()
		}
		return loss(sol)
	}
	grad := fd.Gradient(nil, eval, x0, &fd.Settings{Formula: fd.Central})

	gy0 := ode.State(grad[:len(y0)]).Clone()
	if len(params) == 0 {
		return gy0, nil, nil
	}
	return gy0, grad[len(y0) : len(y0)+len(params)], nil
}
