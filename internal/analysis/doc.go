// Package analysis measures integrator behavior empirically.
//
// The package includes the two standard numerical-methods studies:
//
//   - [Convergence]: error versus step size for fixed-step methods,
//     with the observed order fitted by least squares
//   - [WorkPrecision]: error versus evaluation count across a
//     tolerance sweep for adaptive methods
//
// # Observed order
//
// A p-th order method halves its error by 2^p when the step halves, so
// the slope of log(error) against log(h) recovers p:
//
//	study, _ := analysis.Convergence(f, y0, 0, 1, ref, rk4, hs)
//	// study.Order is close to 4
package analysis
