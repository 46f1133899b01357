package field

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/ode"
)

// Linear is the general linear system dy/dt = A y for a dense square A.
// The matrix entries are the field's parameters, in row-major order.
type Linear struct {
	a *mat.Dense
	n int
}

// NewLinear wraps a square matrix. The matrix is not copied; callers who
// keep mutating it share it with the field. Panics with mat.ErrShape on a
// non-square matrix.
func NewLinear(a *mat.Dense) *Linear {
	r, c := a.Dims()
	if r != c {
		panic(mat.ErrShape)
	}
	return &Linear{a: a, n: r}
}

// NewRotation is the 2D rotation generator [[0, w], [-w, 0]], whose
// trajectories are circles traversed at angular rate w. Handy because the
// exact solution is trigonometric.
func NewRotation(w float64) *Linear {
	return NewLinear(mat.NewDense(2, 2, []float64{0, w, -w, 0}))
}

func (l *Linear) Dim() int { return l.n }

func (l *Linear) Derive(_ float64, y ode.State) ode.State {
	out := make(ode.State, l.n)
	v := mat.NewVecDense(l.n, out)
	v.MulVec(l.a, mat.NewVecDense(l.n, y))
	return out
}

func (l *Linear) DefaultState() ode.State {
	y := make(ode.State, l.n)
	y[0] = 1.0
	return y
}

// Params aliases the matrix data, row-major.
func (l *Linear) Params() []float64 { return l.a.RawMatrix().Data }

func (l *Linear) VJP(_ float64, y, grad ode.State) (ode.State, []float64) {
	gy := make(ode.State, l.n)
	mat.NewVecDense(l.n, gy).MulVec(l.a.T(), mat.NewVecDense(l.n, grad))

	// d(Ay)_i/dA_ij = y_j, so the parameter gradient is the outer
	// product grad * y^T in the same row-major layout as Params.
	gp := make([]float64, l.n*l.n)
	for i, g := range grad {
		for j, v := range y {
			gp[i*l.n+j] = g * v
		}
	}
	return gy, gp
}
