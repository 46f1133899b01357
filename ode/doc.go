// Package ode defines the core contracts for initial-value ODE solving.
//
// The package holds the types shared by the step-function library and the
// integration driver:
//
//   - [State]: flat float64 vector representing y(t)
//   - [Field]: the vector field dy/dt = f(t, y)
//   - [VJPField]: a field with a reverse-mode vector-Jacobian product,
//     supplied by an external autodiff engine
//   - [Stepper] / [EmbeddedStepper] / [Advancer]: single-step algorithms
//   - [Options]: tolerances and step bounds threaded through every call
//
// # Example
//
//	f := field.NewDecay(-1)
//	sol, _ := solver.Solve(f, ode.State{1}, []float64{0, 1, 2}, ode.DefaultOptions())
//
// # Precision
//
// All arithmetic is float64. There is no single-precision path: embedded
// error estimates of the adaptive methods are meaningless below double
// precision.
package ode
