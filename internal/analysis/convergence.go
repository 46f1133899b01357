package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

// OrderStudy is the outcome of a step-size refinement: one error per
// step size, and the observed order fitted from them.
type OrderStudy struct {
	Method string
	Hs     []float64
	Errors []float64
	// Order is the least-squares slope of log error against log h.
	// NaN when fewer than two step sizes produced a nonzero error.
	Order float64
}

// Convergence integrates from t0 to t1 once per step size and measures
// the RMS error of the final state against ref. The method factory must
// produce fixed-step methods; each refinement gets a fresh instance.
func Convergence(f ode.Field, y0 ode.State, t0, t1 float64, ref ode.State, method func() solver.Method, hs []float64) (*OrderStudy, error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("no step sizes given")
	}
	study := &OrderStudy{
		Hs:     append([]float64(nil), hs...),
		Errors: make([]float64, len(hs)),
	}

	for i, h := range hs {
		m := method()
		if i == 0 {
			study.Method = methodName(m)
		}
		opts := ode.DefaultOptions()
		opts.FixedStep = h
		sol, err := solver.Solve(f, y0, []float64{t0, t1}, m, opts)
		if err != nil {
			return nil, fmt.Errorf("h=%g: %w", h, err)
		}
		study.Errors[i] = rms(sol.Last(), ref)
	}

	study.Order = fitOrder(study.Hs, study.Errors)
	return study, nil
}

// PrecisionPoint is one tolerance setting of a work-precision sweep.
type PrecisionPoint struct {
	Tol   float64
	Error float64
	Evals int
	Steps int
}

type PrecisionStudy struct {
	Method string
	Points []PrecisionPoint
}

// WorkPrecision integrates once per tolerance and records the error of
// the final state against ref together with the work spent. Atol rides
// three decades below rtol.
func WorkPrecision(f ode.Field, y0 ode.State, t0, t1 float64, ref ode.State, method func() solver.Method, tols []float64) (*PrecisionStudy, error) {
	if len(tols) == 0 {
		return nil, fmt.Errorf("no tolerances given")
	}
	study := &PrecisionStudy{}

	for i, tol := range tols {
		m := method()
		if i == 0 {
			study.Method = methodName(m)
		}
		opts := ode.DefaultOptions()
		opts.Rtol = tol
		opts.Atol = tol * 1e-3
		sol, err := solver.Solve(f, y0, []float64{t0, t1}, m, opts)
		if err != nil {
			return nil, fmt.Errorf("tol=%g: %w", tol, err)
		}
		study.Points = append(study.Points, PrecisionPoint{
			Tol:   tol,
			Error: rms(sol.Last(), ref),
			Evals: sol.Stats.Evals,
			Steps: sol.Stats.Steps,
		})
	}
	return study, nil
}

// Reference computes a tight-tolerance benchmark state at t1 for use as
// the ref argument of the studies.
func Reference(f ode.Field, y0 ode.State, t0, t1 float64) (ode.State, error) {
	opts := ode.DefaultOptions()
	opts.Rtol = 1e-12
	opts.Atol = 1e-14
	sol, err := solver.Solve(f, y0, []float64{t0, t1}, step.NewDopri5(), opts)
	if err != nil {
		return nil, err
	}
	return sol.Last(), nil
}

func rms(y, ref ode.State) float64 {
	return floats.Distance(y, ref, 2) / math.Sqrt(float64(len(ref)))
}

// fitOrder regresses log error on log h, skipping exact (zero) points.
func fitOrder(hs, errs []float64) float64 {
	var lh, le []float64
	for i, e := range errs {
		if e > 0 {
			lh = append(lh, math.Log(hs[i]))
			le = append(le, math.Log(e))
		}
	}
	if len(lh) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(lh, le, nil, false)
	return slope
}

func methodName(m solver.Method) string {
	if named, ok := m.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", m)
}
