package ode

import (
	"math"
	"testing"
)

func TestInitialStep_Decay(t *testing.T) {
	f := FuncField{N: 1, Fn: func(_ float64, y State) State {
		return State{-y[0]}
	}}
	y0 := State{1}
	f0 := f.Derive(0, y0)

	h := InitialStep(f, 0, y0, f0, 5, 1e-3, 1e-6, 1)
	if !(h > 0) || math.IsInf(h, 0) {
		t.Fatalf("step = %v, want positive finite", h)
	}
	// The decay scale is 1, so the trial step must be well below it.
	if h >= 1 {
		t.Errorf("step = %v, too large for unit time scale", h)
	}
	if h < 1e-6 {
		t.Errorf("step = %v, needlessly tiny for a smooth field", h)
	}
}

func TestInitialStep_Backward(t *testing.T) {
	f := FuncField{N: 1, Fn: func(_ float64, y State) State {
		return State{-y[0]}
	}}
	y0 := State{1}
	f0 := f.Derive(0, y0)

	h := InitialStep(f, 0, y0, f0, 5, 1e-3, 1e-6, -1)
	// Direction applies at the call site; the estimate stays a magnitude.
	if !(h > 0) || math.IsInf(h, 0) {
		t.Fatalf("step = %v, want positive magnitude", h)
	}
}

func TestInitialStep_QuiescentField(t *testing.T) {
	f := FuncField{N: 2, Fn: func(_ float64, _ State) State {
		return State{0, 0}
	}}
	y0 := State{1, 2}

	h := InitialStep(f, 0, y0, State{0, 0}, 4, 1e-7, 1e-9, 1)
	if h != 1e-6 {
		t.Errorf("zero-derivative step = %v, want the 1e-6 floor", h)
	}
}

func TestInitialStep_TighterToleranceShrinksStep(t *testing.T) {
	f := FuncField{N: 1, Fn: func(_ float64, y State) State {
		return State{-y[0]}
	}}
	y0 := State{1}
	f0 := f.Derive(0, y0)

	loose := InitialStep(f, 0, y0, f0, 5, 1e-3, 1e-6, 1)
	tight := InitialStep(f, 0, y0, f0, 5, 1e-9, 1e-12, 1)
	if tight >= loose {
		t.Errorf("tight tolerance step %v should be below loose step %v", tight, loose)
	}
}
