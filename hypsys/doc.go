// Package hypsys defines the physics contract of hypflow: the closed set of
// hyperbolic conservation laws the evolution operator can advance.
//
// What
//
//   - System — the capability interface every conservation law implements:
//     initial data, pairwise flux evaluations (mean, jump), a guaranteed
//     wave-speed bound, exterior boundary states, and the steady-state /
//     known-solution / file-output flags consumed by the run orchestrator.
//   - New — dispatch from a (Problem, Setup) configuration pair to a
//     concrete System. Unrecognized identifiers are fatal configuration
//     errors surfaced here, before any time stepping begins.
//   - Error norms — mass-weighted L1/L2/L∞ norms against the known exact
//     solution, for systems that declare one.
//
// Variants
//
//   - Advection (Problem 0): linear transport u_t + div(v·u) = 0.
//     Setup 0 — 1-D smooth periodic translation, known solution.
//     Setup 1 — 2-D solid body rotation of a cosine hump, known solution.
//     Setup 2 — 1-D inflow relaxation, steady-state-seeking.
//   - Burgers (Problem 1): u_t + div(u²/2) = 0.
//     Setup 0 — 1-D periodic square wave (shock/rarefaction formation).
//
// # Contract
//
// The three pairwise evaluations are tied together by one inequality the
// limiter depends on: for any admissible states uL, uR and any unit normal,
//
//	|FluxJump(uL, uR, n, x)| ≤ WaveSpeed(uL, uR, n, x) · |uR − uL|,
//
// and WaveSpeed vanishes only where the normal flux is state-independent.
// Every variant added to this package must satisfy it; the property tests
// in hypsys_test.go check it over randomized states.
//
// Adding a conservation law is adding a variant here — the evolution
// operator never changes.
package hypsys
