package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration calls.
var (
	// ErrInvalidTimes indicates an empty or non-strictly-monotonic time sequence.
	ErrInvalidTimes = errors.New("ode: time sequence must be non-empty and strictly monotonic")

	// ErrShapeMismatch indicates the field returned a vector of the wrong length.
	ErrShapeMismatch = errors.New("ode: field output dimension does not match state")

	// ErrNoErrorEstimate is returned by StepErr on methods without an
	// embedded error pair.
	ErrNoErrorEstimate = errors.New("ode: method has no embedded error estimate")

	// ErrStepRejectionExhausted indicates the controller could not find an
	// acceptable step within the retry budget.
	ErrStepRejectionExhausted = errors.New("ode: step rejected too many times (stiff field or tolerance too tight)")

	// ErrStepTooSmall indicates the proposed step fell below MinStep.
	ErrStepTooSmall = errors.New("ode: step size underflow below MinStep")

	// ErrInterpolationDomain indicates a dense-output query outside the
	// accepted step. This is an internal invariant violation, not a user error.
	ErrInterpolationDomain = errors.New("ode: interpolation query outside the accepted step")

	// ErrNonFinite indicates NaN or Inf in a state or derivative.
	ErrNonFinite = errors.New("ode: non-finite value in state or derivative")

	// ErrAdjointUnsupported indicates adjoint gradients were requested for a
	// method without an adjoint implementation.
	ErrAdjointUnsupported = errors.New("ode: adjoint gradients not supported for this method")

	// ErrTooManySteps indicates the step budget ran out before reaching the
	// final requested time.
	ErrTooManySteps = errors.New("ode: step budget exhausted")
)

// StepError wraps an error with the position of the failing step.
type StepError struct {
	T    float64
	Dt   float64
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, dt=%.3g): %v", e.Step, e.T, e.Dt, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
