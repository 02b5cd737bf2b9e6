// Package ode advances a state vector through time with strong-stability-
// preserving (SSP) explicit Runge-Kutta integrators.
//
// What
//
//   - Solver — wraps a RightHandSide and one of three methods: forward
//     Euler, Heun's two-stage SSP RK2, or the three-stage Shu-Osher SSP
//     RK3. Step advances the state in place and returns the new time.
//
// Why SSP matters here: the limited evolution operator guarantees bounds
// only for a single forward-Euler stage under its CFL restriction. SSP
// methods are, by construction, convex combinations of forward-Euler
// stages, so every property an Euler stage preserves (local bounds,
// conservation) survives the full multi-stage step. A non-SSP integrator
// of the same order would forfeit the guarantee.
//
// Determinism: stage order and the convex recombination arithmetic are
// fixed, so repeated runs on identical inputs are bitwise identical.
package ode
