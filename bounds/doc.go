// Package bounds computes the per-dof admissible ranges the MCL limiter
// enforces: for every degree of freedom, the minimum and maximum over its
// own value and the values of all its topological neighbors — the discrete
// local-maximum-principle stencil.
//
// What
//
//   - Stencil — built once from a fem.Topology; Refresh(u) recomputes the
//     (lo, hi) pair of every bounded dof from the current state snapshot.
//     Bounds start at the dof's own value, then expand over same-element
//     neighbors, then over cross-face neighbors, in the deterministic list
//     order the topology provides.
//   - Distributed operation — when the topology carries ghost layers, a
//     fem.Exchanger must be attached; Refresh then performs exactly one
//     blocking halo exchange before any cross-partition value is read, and
//     no bound of a boundary-adjacent dof is finalized until the exchange
//     has completed. The two-layer ghost halo lets the bounds of first-layer
//     ghost dofs be computed locally, so the limiter downstream never needs
//     a second communication round.
//
// Invariant: after Refresh, lo[i] ≤ u[i] ≤ hi[i] for every bounded dof —
// the bounds are derived from the very snapshot they constrain.
//
// Complexity: Refresh is O(Σ neighbors) time, zero allocations.
package bounds
