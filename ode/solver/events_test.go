package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/step"
)

type springField struct{}

func (springField) Dim() int { return 2 }
func (springField) Derive(t float64, y ode.State) ode.State {
	return ode.State{y[1], -y[0]}
}

func TestEventCosineZeroCrossing(t *testing.T) {
	// y(t) = cos t from (1, 0); the position first crosses zero at pi/2.
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	te, ye, stats, err := SolveEvent(springField{}, ode.State{1, 0}, 0, 10, ev, step.NewDopri5(), ode.DefaultOptions())
	if err != nil {
		t.Fatalf("SolveEvent failed: %v", err)
	}
	if math.Abs(te-math.Pi/2) > 1e-6 {
		t.Errorf("event time: got %.8f, expected %.8f", te, math.Pi/2)
	}
	if math.Abs(ye[0]) > 1e-6 {
		t.Errorf("event state: got %.2e, expected 0", ye[0])
	}
	if math.Abs(ye[1]+1) > 1e-5 {
		t.Errorf("velocity at event: got %.6f, expected -1", ye[1])
	}
	if stats.Steps == 0 || stats.Evals == 0 {
		t.Errorf("no work recorded: %+v", stats)
	}
}

func TestEventBackward(t *testing.T) {
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	te, _, _, err := SolveEvent(springField{}, ode.State{1, 0}, 0, -10, ev, step.NewDopri5(), ode.DefaultOptions())
	if err != nil {
		t.Fatalf("SolveEvent failed: %v", err)
	}
	if math.Abs(te+math.Pi/2) > 1e-6 {
		t.Errorf("event time: got %.8f, expected %.8f", te, -math.Pi/2)
	}
}

func TestEventAtStart(t *testing.T) {
	ev := func(tm float64, y ode.State) float64 { return y[1] }
	y0 := ode.State{1, 0}

	te, ye, stats, err := SolveEvent(springField{}, y0, 3, 10, ev, step.NewDopri5(), ode.DefaultOptions())
	if err != nil {
		t.Fatalf("SolveEvent failed: %v", err)
	}
	if te != 3 {
		t.Errorf("event time: got %g, expected 3", te)
	}
	if ye[0] != 1 || ye[1] != 0 {
		t.Errorf("event state: got %v, expected y0", ye)
	}
	if stats.Evals != 0 {
		t.Errorf("no integration expected, got %d evals", stats.Evals)
	}

	ye[0] = 99
	if y0[0] != 1 {
		t.Error("event state aliases the caller's initial state")
	}
}

func TestNoEvent(t *testing.T) {
	ev := func(tm float64, y ode.State) float64 { return 1 + y[0]*y[0] }

	_, _, _, err := SolveEvent(springField{}, ode.State{1, 0}, 0, 1, ev, step.NewDopri5(), ode.DefaultOptions())
	if !errors.Is(err, ErrNoEvent) {
		t.Errorf("expected ErrNoEvent, got %v", err)
	}
}

func TestEventNearEndpoint(t *testing.T) {
	// The crossing sits just inside the final clipped interval.
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	te, _, _, err := SolveEvent(springField{}, ode.State{1, 0}, 0, math.Pi/2+1e-3, ev, step.NewDopri5(), ode.DefaultOptions())
	if err != nil {
		t.Fatalf("SolveEvent failed: %v", err)
	}
	if math.Abs(te-math.Pi/2) > 1e-6 {
		t.Errorf("event time: got %.8f, expected %.8f", te, math.Pi/2)
	}
}

func TestEventLinearDescent(t *testing.T) {
	// dy/dt = -1 from y=1 crosses zero at exactly t=1, found here with the
	// adaptive Heun pair and linear dense output.
	f := ode.FuncField{N: 1, Fn: func(tm float64, y ode.State) ode.State {
		return ode.State{-1}
	}}
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	te, ye, _, err := SolveEvent(f, ode.State{1}, 0, 5, ev, step.NewAdaptiveHeun(), ode.DefaultOptions())
	if err != nil {
		t.Fatalf("SolveEvent failed: %v", err)
	}
	if math.Abs(te-1) > 1e-9 {
		t.Errorf("event time: got %.12f, expected 1", te)
	}
	if math.Abs(ye[0]) > 1e-9 {
		t.Errorf("event state: got %.2e, expected 0", ye[0])
	}
}

func TestEventRequiresAdaptiveMethod(t *testing.T) {
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	_, _, _, err := SolveEvent(springField{}, ode.State{1, 0}, 0, 10, ev, step.NewRK4(), ode.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a fixed-step method")
	}
	if errors.Is(err, ErrNoEvent) {
		t.Error("failure must be reported as unsupported, not as a missing event")
	}
}

func TestEventInvalidSpan(t *testing.T) {
	ev := func(tm float64, y ode.State) float64 { return y[0] }

	if _, _, _, err := SolveEvent(springField{}, ode.State{1, 0}, 2, 2, ev, step.NewDopri5(), ode.DefaultOptions()); !errors.Is(err, ode.ErrInvalidTimes) {
		t.Errorf("expected ErrInvalidTimes, got %v", err)
	}
}
