// Package hypflow integrates scalar hyperbolic conservation laws with a
// bounds-preserving evolution operator built on monolithic convex
// limiting (MCL).
//
// 🚀 What is hypflow?
//
//	A numerical core for u_t + div f(u) = 0 that never invents new
//	extrema, organized as small composable packages:
//		• Physics contracts: advection & Burgers setups behind one interface
//		• Structured grids: 1-D and 2-D Bernstein elements, pairwise operator form
//		• Neighbor bounds: the local discrete maximum principle stencil
//		• Evolution: the unlimited high-order scheme and its MCL counterpart
//		• Time stepping: SSP Runge-Kutta integrators that keep stage guarantees
//		• Partitioning: in-process SPMD ranks with halo exchange and
//		  deterministic collectives
//
// ✨ Why choose hypflow?
//
//   - Provable bounds – every limited forward-Euler stage stays inside the
//     local neighbor range, shocks included
//   - Exact conservation – pair fluxes enter both endpoints with opposite
//     signs, down to the last bit
//   - Reproducible runs – fixed evaluation and reduction orders, on any
//     rank count
//
// The packages, bottom up:
//
//	fem/       — shared contracts: pairs, topologies, exchangers, reducers
//	hypsys/    — physics: flux means/jumps, wave speeds, exterior states
//	grid/      — Bernstein element grids and their pairwise assembly
//	bounds/    — per-dof admissible ranges from the neighbor stencil
//	evolve/    — the standard and MCL evolution operators, CFL certificate
//	ode/       — forward Euler, SSP RK2, SSP RK3
//	partition/ — contiguous rank blocks, two-layer ghosts, channel transport
//	config/    — YAML settings with strict validation
//	run/       — the time loop, steady-state watch and diagnostics
//	cmd/hypflow — the command-line driver
//
//	go get github.com/katalvlaran/hypflow
package hypflow
