package export

import (
	"strings"
	"testing"

	"github.com/san-kum/odeint/ode/solver"
)

func TestArchiveRoundTrip(t *testing.T) {
	arch := NewArchive(t.TempDir())
	meta := Meta{Field: "oscillator", Method: "dopri5", Rtol: 1e-7, Atol: 1e-9}

	id, err := arch.Save(meta, sampleSolution())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(id, "oscillator-") {
		t.Errorf("run ID %q should start with the field name", id)
	}

	runs, err := arch.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != id || runs[0].Method != "dopri5" || runs[0].Steps != 12 {
		t.Errorf("listed meta = %+v", runs[0])
	}

	rm, err := arch.Load(id)
	if err != nil {
		t.Fatalf("load meta failed: %v", err)
	}
	if rm.Field != "oscillator" || rm.Evals != 80 {
		t.Errorf("meta = %+v", rm)
	}

	sol, err := arch.LoadTrajectory(id)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(sol.T) != 3 || len(sol.Y) != 3 {
		t.Fatalf("got %d times, %d states", len(sol.T), len(sol.Y))
	}
	if sol.T[1] != 0.5 || sol.Y[2][1] != -0.25 {
		t.Errorf("trajectory = %v / %v", sol.T, sol.Y)
	}
}

func TestArchiveDistinctIDs(t *testing.T) {
	arch := NewArchive(t.TempDir())
	meta := Meta{Field: "decay", Method: "rk4"}

	// Two saves inside the same second must not collide.
	a, err := arch.Save(meta, sampleSolution())
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	b, err := arch.Save(meta, sampleSolution())
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if a == b {
		t.Fatalf("both saves returned ID %q", a)
	}

	runs, err := arch.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestArchiveMissingDir(t *testing.T) {
	arch := NewArchive("/nonexistent/odeint-runs")
	runs, err := arch.List()
	if err != nil {
		t.Fatalf("listing a missing archive should not fail, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestArchiveLoadMissing(t *testing.T) {
	arch := NewArchive(t.TempDir())
	if _, err := arch.Load("decay-19700101-000000"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := arch.LoadTrajectory("decay-19700101-000000"); err == nil {
		t.Error("expected error for missing trajectory")
	}
}

func TestArchiveSaveEmpty(t *testing.T) {
	arch := NewArchive(t.TempDir())
	if _, err := arch.Save(Meta{Field: "decay"}, &solver.Solution{}); err == nil {
		t.Error("expected error for empty solution")
	}
}
