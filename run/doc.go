// Package run drives a hypflow computation from initial condition to
// final answer: the time loop, the steady-state convergence watch, the
// snapshot cadence and the end-of-run diagnostics (mass drift and, when
// an exact solution is known, discrete error norms).
//
// A Runner owns no global state, so the same type serves both execution
// modes: a serial run builds one Runner over the global assembly, a
// partitioned run builds one Runner per rank over that rank's piece and
// the collective reducer makes the diagnostics globally consistent.
package run
