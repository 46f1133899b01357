// Package solver drives steppers across a sequence of requested output
// times: fixed-step sub-stepping with exact landings, adaptive stepping
// with accept/reject control and dense-output interpolation, and the
// self-paced variable-order Adams driver. It also locates events by
// bisecting the dense output, and runs ensembles of independent solves.
package solver
