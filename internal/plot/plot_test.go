package plot

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
)

func circleSolution(n int) *solver.Solution {
	sol := &solver.Solution{}
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n-1)
		sol.T = append(sol.T, t)
		sol.Y = append(sol.Y, ode.State{math.Cos(t), math.Sin(t)})
	}
	return sol
}

func TestTrajectory(t *testing.T) {
	out := Trajectory(circleSolution(50), []string{"position"}, 40, 6)
	if !strings.Contains(out, "position") {
		t.Error("missing supplied label")
	}
	if !strings.Contains(out, "x1 vs time") {
		t.Error("missing fallback label")
	}
}

func TestSpread(t *testing.T) {
	sols := []*solver.Solution{circleSolution(30), circleSolution(30)}
	out := Spread(sols, 0, 40, 6)
	if !strings.Contains(out, "x0 across runs") {
		t.Error("missing caption")
	}
}

func TestConvergence(t *testing.T) {
	hs := []float64{0.1, 0.05, 0.025}
	errs := []float64{1e-2, 1e-3, 1e-4}
	out := Convergence(hs, errs, 40, 6)
	if !strings.Contains(out, "log10(error)") {
		t.Error("missing caption")
	}
	if !strings.Contains(out, "0.1") {
		t.Error("missing step legend")
	}
}

func TestConvergenceZeroError(t *testing.T) {
	// Exact methods report zero error; log10 must not blow up.
	out := Convergence([]float64{0.1, 0.05}, []float64{0, 0}, 20, 4)
	if out == "" {
		t.Error("expected output")
	}
}

func TestPhase(t *testing.T) {
	out, err := Phase(circleSolution(200), 0, 1, 40, 12)
	if err != nil {
		t.Fatalf("phase failed: %v", err)
	}
	for _, glyph := range []string{".", "o", "●", "┌", "┘"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("missing %q in output", glyph)
		}
	}
}

func TestPhaseAxisBounds(t *testing.T) {
	if _, err := Phase(circleSolution(10), 0, 5, 20, 10); err == nil {
		t.Error("expected error for out-of-range axis")
	}
	if _, err := Phase(&solver.Solution{}, 0, 1, 20, 10); err == nil {
		t.Error("expected error for empty solution")
	}
}

func TestPhaseDegenerateRange(t *testing.T) {
	sol := &solver.Solution{
		T: []float64{0, 1, 2},
		Y: []ode.State{{1, 1}, {1, 1}, {1, 1}},
	}
	if _, err := Phase(sol, 0, 1, 20, 5); err != nil {
		t.Errorf("constant trajectory should plot, got %v", err)
	}
}
