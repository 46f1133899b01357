// Package adjoint computes gradients of a scalar loss through an ODE
// solution: with respect to the initial state, the requested output times,
// and any parameters of the vector field.
//
// The continuous path (Gradient) integrates the augmented adjoint system
// backward with dopri5, re-deriving the state along the way, so its memory
// use does not grow with trajectory length. The discrete path
// (BackwardSteps) replays a fixed-step forward pass in reverse through the
// tableau stages; it stores every step but differentiates the computed
// trajectory exactly. Both paths obtain Jacobian action exclusively through
// the field's VJP capability and never differentiate anything themselves.
package adjoint
