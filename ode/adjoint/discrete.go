package adjoint

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

// BackwardSteps computes gradients for a fixed-step Runge-Kutta forward
// pass by recording every accepted step and reversing them through
// StepVJP. Unlike the continuous adjoint it stores the whole trajectory,
// but the gradients are those of the computed discrete solution, exact up
// to roundoff. Adaptive tableaux are refused; use Gradient for dopri5.
// Requires Options.FixedStep > 0. Time sensitivities use the trajectory
// shift rule and treat the field as autonomous.
func BackwardSteps(f ode.VJPField, y0 ode.State, times []float64, gradY []ode.State, m *step.RK, opts ode.Options) (*solver.Solution, *Gradients, error) {
	if m.Adaptive() {
		return nil, nil, ode.ErrAdjointUnsupported
	}
	n := len(y0)
	if err := checkGradY(gradY, times, n); err != nil {
		return nil, nil, err
	}

	var rec []ode.Step
	fwd := opts
	user := opts.OnStep
	fwd.OnStep = func(s ode.Step) {
		rec = append(rec, s)
		if user != nil {
			user(s)
		}
	}
	sol, err := solver.Solve(f, y0, times, m, fwd)
	if err != nil {
		return nil, nil, err
	}

	N := len(times)
	grads := &Gradients{Times: make([]float64, N)}
	if N == 1 {
		grads.Y0 = gradY[0].Clone()
		return sol, grads, nil
	}
	for i := N - 1; i >= 1; i-- {
		grads.Times[i] = floats.Dot(f.Derive(times[i], sol.Y[i]), gradY[i])
		grads.Times[0] -= grads.Times[i]
	}

	adj := gradY[N-1].Clone()
	var pbar []float64
	idx := N - 1
	for s := len(rec) - 1; s >= 0; s-- {
		st := rec[s]
		gy, gp, err := m.StepVJP(f, st.T0, st.Y0, st.Span(), adj)
		if err != nil {
			return nil, nil, &ode.StepError{T: st.T0, Dt: st.Span(), Step: s, Err: err}
		}
		adj = gy
		if gp != nil {
			if pbar == nil {
				pbar = make([]float64, len(gp))
			} else if len(gp) != len(pbar) {
				return nil, nil, ode.ErrShapeMismatch
			}
			floats.Add(pbar, gp)
		}
		// Crossing an output boundary folds in that time's loss gradient.
		for idx > 1 && st.T0 == times[idx-1] {
			idx--
			floats.Add(adj, gradY[idx])
		}
	}
	for idx >= 1 {
		idx--
		floats.Add(adj, gradY[idx])
	}

	grads.Y0 = adj
	grads.Params = pbar
	return sol, grads, nil
}
