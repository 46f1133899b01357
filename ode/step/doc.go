// Package step implements the single-step algorithms of the solver:
// the explicit Runge-Kutta family (Euler through Dormand-Prince 8(7)) driven
// by a shared Butcher-tableau evaluator, a fixed-order Adams-Bashforth
// multistep method, and the variable-order Adams-Bashforth-Moulton method.
//
// Steppers are stateless per step except for reusable scratch buffers and,
// for the Adams family, the derivative history; a stepper value must not be
// shared across concurrent integrations.
package step
