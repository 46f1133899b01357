package step

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odeint/ode"
)

// Adams-Bashforth weights on a uniform grid, most recent derivative first.
var abWeights = [][]float64{
	1: {1},
	2: {3.0 / 2.0, -1.0 / 2.0},
	3: {23.0 / 12.0, -16.0 / 12.0, 5.0 / 12.0},
	4: {55.0 / 24.0, -59.0 / 24.0, 37.0 / 24.0, -9.0 / 24.0},
}

// Adams is the explicit fixed-step Adams-Bashforth method of order 1 to 4.
// The first order-1 steps are bootstrapped with classical RK4 while the
// derivative history fills. A shortened step, as the fixed driver takes to
// land on the final time, drops the history and bootstraps again, since the
// weights assume a uniform grid. Implements ode.Stepper and ode.Stateful.
type Adams struct {
	order   int
	boot    *RK
	hist    []ode.State
	pending ode.State
	lastDt  float64
}

// NewAdams returns an Adams-Bashforth stepper of the given order. Order 1
// is explicit Euler with extra bookkeeping; orders above 4 are the domain
// of the variable-coefficient method and are rejected here.
func NewAdams(order int) *Adams {
	if order < 1 || order > 4 {
		panic(fmt.Sprintf("step: adams order must be in [1,4], got %d", order))
	}
	return &Adams{order: order, boot: NewRK4()}
}

func (a *Adams) Name() string { return fmt.Sprintf("adams%d", a.order) }

func (a *Adams) Order() int { return a.order }

// Reset drops the derivative history.
func (a *Adams) Reset() {
	a.hist = a.hist[:0]
	a.pending = nil
	a.lastDt = 0
}

// Commit records the derivative of the last proposed step into the history.
func (a *Adams) Commit() {
	if a.pending == nil {
		return
	}
	a.hist = append(a.hist, nil)
	copy(a.hist[1:], a.hist)
	a.hist[0] = a.pending
	if len(a.hist) > a.order-1 && a.order > 1 {
		a.hist = a.hist[:a.order-1]
	} else if a.order == 1 {
		a.hist = a.hist[:0]
	}
	a.pending = nil
}

func (a *Adams) Step(f ode.Field, t float64, y ode.State, dt float64) (ode.State, error) {
	if dt != a.lastDt {
		a.hist = a.hist[:0]
		a.lastDt = dt
	}
	fn := f.Derive(t, y)
	if len(fn) != len(y) {
		return nil, ode.ErrShapeMismatch
	}
	a.pending = fn

	if len(a.hist) < a.order-1 {
		return a.boot.Step(f, t, y, dt)
	}

	w := abWeights[a.order]
	y1 := y.Clone()
	floats.AddScaled(y1, dt*w[0], fn)
	for i := 1; i < a.order; i++ {
		floats.AddScaled(y1, dt*w[i], a.hist[i-1])
	}
	return y1, nil
}
