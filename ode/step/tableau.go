package step

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odeint/ode"
)

// Tableau holds the Butcher coefficients of an explicit Runge-Kutta method.
// A is strictly lower triangular, stored as ragged rows: A[i] carries the i
// weights of stage i against the earlier stage derivatives. For embedded
// pairs BErr holds the difference between the propagated and the embedded
// solution weights, so the local error estimate is dt * sum(BErr[j]*k[j]).
type Tableau struct {
	Name  string
	Order int

	C    []float64
	A    [][]float64
	B    []float64
	BErr []float64

	// FSAL marks tableaux whose final stage is evaluated at (t+dt, y1),
	// letting the driver reuse it as the first stage of the next step.
	FSAL bool

	// Mid, when present, are interpolation weights: y(t+dt/2) is
	// approximated by y0 + dt * sum(Mid[j]*k[j]) to the method's order.
	Mid []float64

	// PI marks methods whose error estimators are smooth enough to
	// benefit from proportional-integral step control.
	PI bool
}

// Stages returns the number of derivative evaluations per step.
func (tab Tableau) Stages() int { return len(tab.C) }

// RK advances a state by one explicit Runge-Kutta step of its tableau.
// It implements ode.Stepper, and ode.EmbeddedStepper when the tableau
// carries embedded error weights.
type RK struct {
	tab     Tableau
	k       []ode.State
	scratch ode.State

	// first and last memoize derivative evaluations across calls: last
	// holds the FSAL stage of the previous accepted step, first the
	// opening stage of a step being retried after rejection. Matching is
	// by time and state identity, which holds for a sequential driver
	// and is why an RK value must not be shared across goroutines.
	first stageMemo
	last  stageMemo
}

type stageMemo struct {
	t  float64
	y  *float64
	k  ode.State
	ok bool
}

func (m *stageMemo) set(t float64, y ode.State, k ode.State) {
	*m = stageMemo{t: t, y: &y[0], k: k, ok: true}
}

func (m *stageMemo) match(t float64, y ode.State) bool {
	return m.ok && m.t == t && m.y == &y[0]
}

// New builds a stepper from tab. It panics if the tableau is malformed;
// tableaux are package constants, so a bad one is a programming error.
func New(tab Tableau) *RK {
	s := len(tab.C)
	if s == 0 || len(tab.A) != s || len(tab.B) != s {
		panic("step: tableau stage counts disagree")
	}
	for i, row := range tab.A {
		if len(row) != i {
			panic("step: tableau A is not strictly lower triangular")
		}
	}
	if tab.BErr != nil && len(tab.BErr) != s {
		panic("step: tableau error weights disagree with stage count")
	}
	if tab.Mid != nil && len(tab.Mid) != s {
		panic("step: tableau midpoint weights disagree with stage count")
	}
	return &RK{tab: tab, k: make([]ode.State, s)}
}

func (r *RK) Name() string { return r.tab.Name }

func (r *RK) Order() int { return r.tab.Order }

// Adaptive reports whether the tableau carries an embedded error estimate.
func (r *RK) Adaptive() bool { return r.tab.BErr != nil }

// FSAL reports whether the last stage doubles as the next step's first
// derivative.
func (r *RK) FSAL() bool { return r.tab.FSAL }

// PIControl reports whether the method prefers proportional-integral step
// control over the plain integral law.
func (r *RK) PIControl() bool { return r.tab.PI }

// eval computes the stage derivatives at (t, y) with step dt. The returned
// slice aliases r.k and is valid until the next call.
func (r *RK) eval(f ode.Field, t float64, y ode.State, dt float64) ([]ode.State, error) {
	n := len(y)
	if n == 0 {
		return nil, ode.ErrShapeMismatch
	}
	if len(r.scratch) != n {
		r.scratch = make(ode.State, n)
	}
	k := r.k
	for i := range k {
		if i == 0 {
			switch {
			case r.last.match(t, y):
				k[0] = r.last.k
			case r.first.match(t, y):
				k[0] = r.first.k
			default:
				k[0] = f.Derive(t, y)
			}
		} else {
			copy(r.scratch, y)
			for j, a := range r.tab.A[i] {
				if a != 0 {
					floats.AddScaled(r.scratch, dt*a, k[j])
				}
			}
			k[i] = f.Derive(t+r.tab.C[i]*dt, r.scratch)
		}
		if len(k[i]) != n {
			return nil, ode.ErrShapeMismatch
		}
	}
	r.first.set(t, y, k[0])
	return k, nil
}

// combine forms y0 + dt * sum(w[j]*k[j]), skipping zero weights.
func combine(y0 ode.State, k []ode.State, w []float64, dt float64) ode.State {
	y1 := y0.Clone()
	for j, b := range w {
		if b != 0 {
			floats.AddScaled(y1, dt*b, k[j])
		}
	}
	return y1
}

// Step advances y from t by dt and returns the new state.
func (r *RK) Step(f ode.Field, t float64, y ode.State, dt float64) (ode.State, error) {
	k, err := r.eval(f, t, y, dt)
	if err != nil {
		return nil, err
	}
	y1 := combine(y, k, r.tab.B, dt)
	if r.tab.FSAL {
		r.last.set(t+dt, y1, k[len(k)-1])
	}
	return y1, nil
}

// StepErr advances y from t by dt and additionally returns the per-component
// local error estimate and the stage derivatives. stages[0] is f(t, y);
// for FSAL tableaux the last stage is f(t+dt, y1). The stage slice is
// reused on the next call.
func (r *RK) StepErr(f ode.Field, t float64, y ode.State, dt float64) (y1, errEst ode.State, stages []ode.State, err error) {
	if r.tab.BErr == nil {
		return nil, nil, nil, ode.ErrNoErrorEstimate
	}
	k, err := r.eval(f, t, y, dt)
	if err != nil {
		return nil, nil, nil, err
	}
	y1 = combine(y, k, r.tab.B, dt)
	if r.tab.FSAL {
		r.last.set(t+dt, y1, k[len(k)-1])
	}
	errEst = make(ode.State, len(y))
	for j, d := range r.tab.BErr {
		if d != 0 {
			floats.AddScaled(errEst, dt*d, k[j])
		}
	}
	for i, e := range errEst {
		errEst[i] = math.Abs(e)
	}
	return y1, errEst, k, nil
}

// Midpoint interpolates the state at the middle of the step from the stage
// derivatives of StepErr. It returns nil when the tableau carries no
// midpoint weights, in which case callers fall back to Hermite
// interpolation.
func (r *RK) Midpoint(y0 ode.State, stages []ode.State, dt float64) ode.State {
	if r.tab.Mid == nil {
		return nil
	}
	return combine(y0, stages, r.tab.Mid, dt)
}

// StepVJP back-propagates grad = dL/dy1 through one step taken from (t, y)
// with width dt, by recomputing the stages and reversing the tableau
// combination with the field's vector-Jacobian products. It returns dL/dy
// and the accumulated dL/dparams (nil for parameter-free fields). The
// stages are recomputed locally, so interleaving StepVJP with forward
// stepping is safe.
func (r *RK) StepVJP(f ode.VJPField, t float64, y ode.State, dt float64, grad ode.State) (ode.State, []float64, error) {
	n := len(y)
	if n == 0 || len(grad) != n {
		return nil, nil, ode.ErrShapeMismatch
	}

	s := r.tab.Stages()
	k := make([]ode.State, s)
	stage := make(ode.State, n)
	build := func(i int) {
		copy(stage, y)
		for j, a := range r.tab.A[i] {
			if a != 0 {
				floats.AddScaled(stage, dt*a, k[j])
			}
		}
	}
	for i := 0; i < s; i++ {
		build(i)
		k[i] = f.Derive(t+r.tab.C[i]*dt, stage)
		if len(k[i]) != n {
			return nil, nil, ode.ErrShapeMismatch
		}
	}

	// Seed each stage adjoint with its propagation weight, then sweep the
	// stages in reverse so every kbar[i] is complete before it is spent.
	kbar := make([]ode.State, s)
	for i := range kbar {
		kbar[i] = make(ode.State, n)
		if b := r.tab.B[i]; b != 0 {
			floats.AddScaled(kbar[i], dt*b, grad)
		}
	}
	ybar := grad.Clone()
	var pbar []float64
	zero := make(ode.State, n)
	for i := s - 1; i >= 0; i-- {
		if floats.Equal(kbar[i], zero) {
			continue
		}
		build(i)
		gy, gp := f.VJP(t+r.tab.C[i]*dt, stage, kbar[i])
		if len(gy) != n {
			return nil, nil, ode.ErrShapeMismatch
		}
		floats.Add(ybar, gy)
		if gp != nil {
			if pbar == nil {
				pbar = make([]float64, len(gp))
			} else if len(gp) != len(pbar) {
				return nil, nil, ode.ErrShapeMismatch
			}
			floats.Add(pbar, gp)
		}
		for j, a := range r.tab.A[i] {
			if a != 0 {
				floats.AddScaled(kbar[j], dt*a, gy)
			}
		}
	}
	return ybar, pbar, nil
}
