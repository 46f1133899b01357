package ode

import "math"

// State is a flat vector of solution components. Coupled states built from
// several tensors are packed into one State via a Layout.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Field is the vector field of an initial-value problem dy/dt = f(t, y).
// Derive must return a new State of length Dim for any y of length Dim.
type Field interface {
	Derive(t float64, y State) State
	Dim() int
}

// FuncField adapts a plain function to the Field interface.
type FuncField struct {
	N  int
	Fn func(t float64, y State) State
}

func (f FuncField) Dim() int                        { return f.N }
func (f FuncField) Derive(t float64, y State) State { return f.Fn(t, y) }

// Parameterized fields expose a flat view of their internal parameters.
// The returned slice aliases the field's storage.
type Parameterized interface {
	Field
	Params() []float64
}

// VJPField is a field with a reverse-mode vector-Jacobian product, the
// capability the adjoint module needs. VJP returns gradY = Jy(t,y)ᵀ·grad and
// gradParams = Jp(t,y)ᵀ·grad; gradParams is nil for parameter-free fields.
// The implementation is expected to come from an external autodiff engine or
// a hand-derived Jacobian; this package never differentiates anything itself.
type VJPField interface {
	Field
	VJP(t float64, y State, grad State) (gradY State, gradParams []float64)
}

// Step is one accepted integration step, the transient record the driver
// interpolates within. F0 and F1 are the field evaluated at the endpoints.
type Step struct {
	T0, T1 float64
	Y0, Y1 State
	F0, F1 State
}

// Span returns the signed step width.
func (s Step) Span() float64 { return s.T1 - s.T0 }

// Contains reports whether t lies inside the step, in either direction.
func (s Step) Contains(t float64) bool {
	if s.T0 <= s.T1 {
		return t >= s.T0 && t <= s.T1
	}
	return t <= s.T0 && t >= s.T1
}

// Stepper is a fixed-step single-step algorithm: advance y from t by dt.
type Stepper interface {
	Step(f Field, t float64, y State, dt float64) (State, error)
	Order() int
}

// EmbeddedStepper additionally produces a per-component local error estimate
// from an embedded lower-order solution, plus the stage derivatives.
// stages[0] is always f(t, y).
type EmbeddedStepper interface {
	Stepper
	StepErr(f Field, t float64, y State, dt float64) (y1, errEst State, stages []State, err error)
}

// Stateful steppers carry history across steps. Reset drops it; Commit tells
// the stepper the controller accepted the step it last proposed.
type Stateful interface {
	Reset()
	Commit()
}

// Advancer is a stepper that owns its own step-size (and possibly order)
// control and yields accepted steps one at a time. dir is +1 for increasing
// time, -1 for decreasing. Advance clips its natural step so the returned
// step never crosses target; passing the next requested output time makes
// the method land on it exactly. The variable-order Adams method is the one
// Advancer in this repo.
type Advancer interface {
	Start(f Field, t0, dir float64, y0 State, opts Options) error
	Advance(f Field, target float64) (Step, error)
	Order() int
}
