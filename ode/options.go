package ode

import (
	"fmt"
	"math"
)

// Controller selects the step-size control law for adaptive methods.
type Controller int

const (
	// ControllerAuto picks PI control for the Dormand-Prince pairs and
	// integral-only control for everything else.
	ControllerAuto Controller = iota
	ControllerI
	ControllerPI
)

// Options carries tolerances, step bounds and hooks for one integration
// call. The zero value is not usable; start from DefaultOptions.
type Options struct {
	Rtol float64
	Atol float64

	// InitStep is the first trial step for adaptive methods. Zero selects
	// an automatic estimate from the initial derivative.
	InitStep float64
	MinStep  float64
	MaxStep  float64

	// FixedStep is the constant dt of the fixed-step driver. Required for
	// the non-embedded methods, ignored by the adaptive ones.
	FixedStep float64

	// MaxRejects bounds retries of a single step before the call fails.
	MaxRejects int
	// MaxSteps bounds accepted steps per call.
	MaxSteps int
	// MaxOrder caps the order of the variable-order Adams method.
	MaxOrder int

	Safety    float64
	MinFactor float64
	MaxFactor float64

	Control Controller

	// OnStep, if set, observes every accepted step.
	OnStep func(Step)
}

func DefaultOptions() Options {
	return Options{
		Rtol:       1e-7,
		Atol:       1e-9,
		MinStep:    0,
		MaxStep:    math.Inf(1),
		MaxRejects: 20,
		MaxSteps:   1_000_000,
		MaxOrder:   12,
		Safety:     0.9,
		MinFactor:  0.2,
		MaxFactor:  10.0,
	}
}

// Validate reports the first structurally invalid option.
func (o Options) Validate() error {
	if o.Rtol < 0 || o.Atol < 0 {
		return fmt.Errorf("tolerances must be non-negative, got rtol=%g atol=%g", o.Rtol, o.Atol)
	}
	if o.Rtol == 0 && o.Atol == 0 {
		return fmt.Errorf("at least one of rtol, atol must be positive")
	}
	if o.MinStep < 0 {
		return fmt.Errorf("MinStep must be non-negative, got %g", o.MinStep)
	}
	if o.MaxStep <= 0 {
		return fmt.Errorf("MaxStep must be positive, got %g", o.MaxStep)
	}
	if o.MinStep > o.MaxStep {
		return fmt.Errorf("MinStep %g exceeds MaxStep %g", o.MinStep, o.MaxStep)
	}
	if o.MaxRejects <= 0 {
		return fmt.Errorf("MaxRejects must be positive, got %d", o.MaxRejects)
	}
	if o.MaxSteps <= 0 {
		return fmt.Errorf("MaxSteps must be positive, got %d", o.MaxSteps)
	}
	if o.Safety <= 0 || o.Safety >= 1 {
		return fmt.Errorf("Safety must be in (0,1), got %g", o.Safety)
	}
	if o.MinFactor <= 0 || o.MaxFactor < 1 || o.MinFactor > 1 {
		return fmt.Errorf("step factors out of range: min=%g max=%g", o.MinFactor, o.MaxFactor)
	}
	return nil
}
