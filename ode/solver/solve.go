package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/odeint/ode"
)

// Method is any algorithm this package can drive: a plain ode.Stepper
// under the fixed-step driver, an adaptive ode.EmbeddedStepper under the
// controller, or a self-paced ode.Advancer.
type Method interface {
	Order() int
}

// Midpointer is the optional dense-output capability of a stepper: a
// midpoint state computed from the stage derivatives of an accepted step.
// A nil result means the capability is absent for that tableau.
type Midpointer interface {
	Midpoint(y0 ode.State, stages []ode.State, dt float64) ode.State
}

// Solve integrates dy/dt = f(t,y) with y(times[0]) = y0 and returns the
// solution at every requested time, the first output row being y0 itself.
// times must be monotonic, increasing or decreasing; adjacent duplicates
// are allowed and yield identical rows. Validation happens before any
// stepping, and any step-level failure aborts the whole call.
func Solve(f ode.Field, y0 ode.State, times []float64, m Method, opts ode.Options) (*Solution, error) {
	dir, err := validate(f, y0, times, opts)
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		T: append([]float64(nil), times...),
		Y: make([]ode.State, 0, len(times)),
	}
	cf := countingField{f, &sol.Stats.Evals}

	// The row at times[0] is y0 by definition, no integration performed.
	sol.Y = append(sol.Y, y0.Clone())
	pending := 1
	for pending < len(times) && times[pending] == times[0] {
		sol.Y = append(sol.Y, y0.Clone())
		pending++
	}
	if pending == len(times) {
		return sol, nil
	}

	switch mm := m.(type) {
	case ode.Advancer:
		err = solveAdvancer(cf, y0, times, pending, dir, mm, opts, sol)
	case ode.Stepper:
		if adaptiveMethod(mm) {
			err = solveAdaptive(cf, y0, times, pending, dir, mm.(ode.EmbeddedStepper), opts, sol)
		} else {
			err = solveFixed(cf, y0, times, pending, dir, mm, opts, sol)
		}
	default:
		err = fmt.Errorf("ode: unsupported method %T", m)
	}
	if err != nil {
		return nil, err
	}
	return sol, nil
}

func validate(f ode.Field, y0 ode.State, times []float64, opts ode.Options) (float64, error) {
	if err := opts.Validate(); err != nil {
		return 0, fmt.Errorf("ode: invalid options: %w", err)
	}
	if len(times) == 0 {
		return 0, ode.ErrInvalidTimes
	}
	for _, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, ode.ErrInvalidTimes
		}
	}
	if len(y0) == 0 || f.Dim() != len(y0) {
		return 0, ode.ErrShapeMismatch
	}
	if !y0.IsValid() {
		return 0, ode.ErrNonFinite
	}

	dir := 0.0
	for i := 1; i < len(times); i++ {
		switch d := times[i] - times[i-1]; {
		case d == 0:
		case d > 0:
			if dir < 0 {
				return 0, ode.ErrInvalidTimes
			}
			dir = 1
		default:
			if dir > 0 {
				return 0, ode.ErrInvalidTimes
			}
			dir = -1
		}
	}
	return dir, nil
}

// adaptiveMethod reports whether m carries a usable embedded error
// estimate. Steppers expose the distinction through their Adaptive
// capability; an EmbeddedStepper without it is taken at face value.
func adaptiveMethod(m Method) bool {
	if _, ok := m.(ode.EmbeddedStepper); !ok {
		return false
	}
	if a, ok := m.(interface{ Adaptive() bool }); ok {
		return a.Adaptive()
	}
	return true
}

// solveFixed advances with a constant user step, sub-stepping each output
// interval on the uniform grid and shortening the final sub-step to land
// exactly on the requested time.
func solveFixed(f ode.Field, y0 ode.State, times []float64, pending int, dir float64, s ode.Stepper, opts ode.Options, sol *Solution) error {
	if opts.FixedStep <= 0 {
		return fmt.Errorf("ode: method %T has no error estimate and needs Options.FixedStep > 0", s)
	}
	if st, ok := s.(ode.Stateful); ok {
		st.Reset()
	}

	h := opts.FixedStep
	t := times[0]
	y := y0.Clone()

	doStep := func(tNext float64) error {
		if sol.Stats.Steps >= opts.MaxSteps {
			return ode.ErrTooManySteps
		}
		dt := tNext - t
		y1, err := s.Step(f, t, y, dt)
		if err != nil {
			return &ode.StepError{T: t, Dt: dt, Step: sol.Stats.Steps, Err: err}
		}
		if !y1.IsValid() {
			return &ode.StepError{T: t, Dt: dt, Step: sol.Stats.Steps, Err: ode.ErrNonFinite}
		}
		if st, ok := s.(ode.Stateful); ok {
			st.Commit()
		}
		if opts.OnStep != nil {
			opts.OnStep(ode.Step{T0: t, T1: tNext, Y0: y, Y1: y1})
		}
		t, y = tNext, y1
		sol.Stats.Steps++
		sol.Stats.LastStep = math.Abs(dt)
		return nil
	}

	for ; pending < len(times); pending++ {
		target := times[pending]
		if target == t {
			sol.Y = append(sol.Y, y.Clone())
			continue
		}

		tStart := t
		full := int(math.Floor(math.Abs(target-t) / h))
		for j := 1; j <= full; j++ {
			tNext := tStart + dir*(float64(j)*h)
			if dir*(tNext-target) >= 0 {
				break
			}
			if err := doStep(tNext); err != nil {
				return err
			}
		}
		if t != target {
			if err := doStep(target); err != nil {
				return err
			}
		}
		sol.Y = append(sol.Y, y.Clone())
	}
	return nil
}

// stepVisitor observes each accepted adaptive step; returning false stops
// the drive.
type stepVisitor func(rec ode.Step, ip *Interpolant) (bool, error)

// driveAdaptive is the accept/reject loop shared by Solve and SolveEvent.
func driveAdaptive(f ode.Field, y0 ode.State, t0, dir float64, es ode.EmbeddedStepper, opts ode.Options, stats *Stats, visit stepVisitor) error {
	if st, ok := es.(ode.Stateful); ok {
		st.Reset()
	}
	pi := false
	if p, ok := es.(interface{ PIControl() bool }); ok {
		pi = p.PIControl()
	}
	fsal := false
	if fs, ok := es.(interface{ FSAL() bool }); ok {
		fsal = fs.FSAL()
	}
	mp, hasMid := es.(Midpointer)
	ctrl := newController(opts, es.Order(), pi)

	t := t0
	y := y0.Clone()
	fNow := f.Derive(t, y)
	if len(fNow) != len(y) {
		return ode.ErrShapeMismatch
	}
	if !fNow.IsValid() {
		return &ode.StepError{T: t, Dt: 0, Step: 0, Err: ode.ErrNonFinite}
	}

	h := opts.InitStep
	if h <= 0 {
		h = ode.InitialStep(f, t, y, fNow, es.Order(), opts.Rtol, opts.Atol, dir)
	}
	h = math.Min(h, opts.MaxStep)
	if opts.MinStep > 0 {
		h = math.Max(h, opts.MinStep)
	}

	rejects := 0
	for {
		if stats.Steps >= opts.MaxSteps {
			return ode.ErrTooManySteps
		}
		dt := dir * h
		if t+dt == t {
			return &ode.StepError{T: t, Dt: dt, Step: stats.Steps, Err: ode.ErrStepTooSmall}
		}

		y1, errEst, stages, err := es.StepErr(f, t, y, dt)
		if err != nil {
			return &ode.StepError{T: t, Dt: dt, Step: stats.Steps, Err: err}
		}
		ratio := ode.ErrorRatio(errEst, y, y1, opts.Rtol, opts.Atol)
		if !y1.IsValid() {
			ratio = math.Inf(1)
		}

		if !ctrl.accept(ratio) {
			rejects++
			stats.Rejects++
			if rejects > opts.MaxRejects {
				return &ode.StepError{T: t, Dt: dt, Step: stats.Steps, Err: ode.ErrStepRejectionExhausted}
			}
			h = ctrl.propose(dt, ratio, false)
			continue
		}
		rejects = 0
		if st, ok := es.(ode.Stateful); ok {
			st.Commit()
		}

		t1 := t + dt
		f0 := stages[0].Clone()
		var f1 ode.State
		if fsal {
			f1 = stages[len(stages)-1].Clone()
		} else {
			f1 = f.Derive(t1, y1)
		}
		var mid ode.State
		if hasMid {
			mid = mp.Midpoint(y, stages, dt)
		}

		rec := ode.Step{T0: t, T1: t1, Y0: y, Y1: y1, F0: f0, F1: f1}
		stats.Steps++
		stats.LastStep = h
		if opts.OnStep != nil {
			opts.OnStep(rec)
		}

		cont, err := visit(rec, NewInterpolant(rec, mid))
		if err != nil {
			return err
		}

		t, y = t1, y1
		h = ctrl.propose(dt, ratio, true)
		if !cont {
			return nil
		}
	}
}

func solveAdaptive(f ode.Field, y0 ode.State, times []float64, pending int, dir float64, es ode.EmbeddedStepper, opts ode.Options, sol *Solution) error {
	return driveAdaptive(f, y0, times[0], dir, es, opts, &sol.Stats, func(rec ode.Step, ip *Interpolant) (bool, error) {
		for pending < len(times) && rec.Contains(times[pending]) {
			yq, err := ip.At(times[pending])
			if err != nil {
				return false, err
			}
			sol.Y = append(sol.Y, yq)
			pending++
		}
		return pending < len(times), nil
	})
}

// solveAdvancer drives a self-paced method, handing it each requested
// output time as the clipping target so outputs land exactly.
func solveAdvancer(f ode.Field, y0 ode.State, times []float64, pending int, dir float64, adv ode.Advancer, opts ode.Options, sol *Solution) error {
	if err := adv.Start(f, times[0], dir, y0, opts); err != nil {
		return err
	}
	for pending < len(times) {
		rec, err := adv.Advance(f, times[pending])
		if err != nil {
			return err
		}
		sol.Stats.Steps++
		sol.Stats.LastStep = math.Abs(rec.Span())
		if sol.Stats.Steps > opts.MaxSteps {
			return ode.ErrTooManySteps
		}
		if opts.OnStep != nil {
			opts.OnStep(rec)
		}

		ip := NewInterpolant(rec, nil)
		for pending < len(times) && rec.Contains(times[pending]) {
			yq, err := ip.At(times[pending])
			if err != nil {
				return err
			}
			sol.Y = append(sol.Y, yq)
			pending++
		}
	}
	return nil
}
