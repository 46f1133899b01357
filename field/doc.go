// Package field provides ready-made vector fields for the integrators.
//
// Each field implements [ode.Field]; most also carry tunable parameters
// behind [ode.Parameterized] and analytic vector-Jacobian products behind
// [ode.VJPField], which makes them directly usable with the adjoint
// gradient machinery:
//
//   - [Decay]: elementwise exponential decay
//   - [Scale]: growth/decay with one shared coefficient
//   - [Linear]: dy/dt = A y for a dense matrix A
//   - [Oscillator]: damped harmonic oscillator
//   - [VanDerPol]: Van der Pol limit cycle
//   - [Lorenz]: butterfly attractor
//   - [Ramp]: time-proportional forcing, no state coupling
//
// # Gradients
//
// Fields with parameters expose them as a flat slice that aliases the
// field's own storage, so gradient code can perturb and restore them in
// place:
//
//	f := field.NewVanDerPol(1.0)
//	p := f.Params() // [mu]
//	p[0] = 2.5      // f now uses mu = 2.5
package field
