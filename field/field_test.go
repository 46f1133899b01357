package field

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/ode"
)

// paramField is what every built-in field provides.
type paramField interface {
	ode.VJPField
	Params() []float64
	DefaultState() ode.State
}

type fieldCase struct {
	name string
	f    paramField
	t    float64
	y    ode.State
}

func testCases() []fieldCase {
	return []fieldCase{
		{"decay", NewDecay(0.5, 2.0), 0, ode.State{1.3, -2.1}},
		{"scale", NewScale(2, 0.8), 0, ode.State{1.1, 0.4}},
		{"rotation", NewRotation(1.7), 0, ode.State{0.9, -1.3}},
		{"linear", NewLinear(mat.NewDense(2, 2, []float64{0.3, -1.2, 0.7, 0.5})), 0, ode.State{0.6, -0.8}},
		{"oscillator", NewOscillator(2.0, 0.15), 0, ode.State{0.8, -1.1}},
		{"vanderpol", NewVanDerPol(1.3), 0, ode.State{1.5, -0.5}},
		{"lorenz", NewClassicLorenz(), 0, ode.State{1.2, -0.7, 2.0}},
		{"ramp", NewRamp(1.5, -0.25), 0.7, ode.State{0.2, 0.4}},
	}
}

func TestDeriveValues(t *testing.T) {
	cases := []struct {
		name string
		f    paramField
		t    float64
		y    ode.State
		want ode.State
	}{
		{"decay", NewDecay(2.0), 0, ode.State{3}, ode.State{-6}},
		{"scale", NewScale(2, 0.5), 0, ode.State{2, 4}, ode.State{1, 2}},
		{"rotation", NewRotation(2.0), 0, ode.State{1, 0}, ode.State{0, -2}},
		{"oscillator undamped", NewOscillator(2.0, 0), 0, ode.State{1, 0}, ode.State{0, -4}},
		{"vanderpol rest", NewVanDerPol(1.0), 0, ode.State{2, 0}, ode.State{0, -2}},
		{"lorenz classic", NewClassicLorenz(), 0, ode.State{1, 1, 1}, ode.State{0, 26, 1 - 8.0/3.0}},
		{"ramp", NewRamp(2.0), 3, ode.State{5}, ode.State{6}},
	}
	for _, tc := range cases {
		got := tc.f.Derive(tc.t, tc.y)
		if !floats.EqualApprox(got, tc.want, 1e-12) {
			t.Errorf("%s: Derive = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestVJPMatchesFiniteDifferences checks both halves of every analytic
// VJP against central differences of g(y,p) = grad . f(t, y).
func TestVJPMatchesFiniteDifferences(t *testing.T) {
	grad := []float64{0.83, -0.41, 0.56}
	settings := &fd.Settings{Formula: fd.Central}

	for _, tc := range testCases() {
		g := ode.State(grad[:tc.f.Dim()])
		gy, gp := tc.f.VJP(tc.t, tc.y, g)

		wantY := fd.Gradient(nil, func(x []float64) float64 {
			return floats.Dot(tc.f.Derive(tc.t, ode.State(x)), g)
		}, tc.y, settings)
		if !floats.EqualApprox(gy, wantY, 1e-6) {
			t.Errorf("%s: state VJP = %v, want %v", tc.name, gy, wantY)
		}

		params := tc.f.Params()
		if len(gp) != len(params) {
			t.Fatalf("%s: param VJP has %d entries for %d params", tc.name, len(gp), len(params))
		}
		saved := append([]float64(nil), params...)
		wantP := fd.Gradient(nil, func(x []float64) float64 {
			copy(params, x)
			return floats.Dot(tc.f.Derive(tc.t, tc.y), g)
		}, saved, settings)
		copy(params, saved)
		if !floats.EqualApprox(gp, wantP, 1e-6) {
			t.Errorf("%s: param VJP = %v, want %v", tc.name, gp, wantP)
		}
	}
}

func TestParamsAlias(t *testing.T) {
	f := NewScale(1, 0.5)
	f.Params()[0] = 2.0
	got := f.Derive(0, ode.State{1})
	if got[0] != 2.0 {
		t.Errorf("Derive after writing through Params = %v, want 2", got[0])
	}
}

func TestRampTimeVJP(t *testing.T) {
	r := NewRamp(2.0, 3.0)
	got := r.TimeVJP(1.5, ode.State{0, 0}, ode.State{0.5, 1.0})
	if math.Abs(got-4.0) > 1e-15 {
		t.Errorf("TimeVJP = %v, want 4", got)
	}
}

func TestDefaultStates(t *testing.T) {
	for _, tc := range testCases() {
		y := tc.f.DefaultState()
		if len(y) != tc.f.Dim() {
			t.Errorf("%s: default state has %d components, Dim is %d", tc.name, len(y), tc.f.Dim())
		}
	}
	if vdp := NewVanDerPol(1.0).DefaultState(); vdp[0] != 2.0 || vdp[1] != 0.0 {
		t.Errorf("vanderpol default = %v, want [2 0]", vdp)
	}
}

func TestLinearRejectsNonSquare(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on non-square matrix")
		}
	}()
	NewLinear(mat.NewDense(2, 3, nil))
}
