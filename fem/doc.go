// Package fem defines the shared contracts between the numerical core of
// hypflow and its mesh/assembly collaborators.
//
// The numerical core never sees mesh construction, basis assembly or mass
// lumping directly; it consumes their products through three narrow views:
//
//   - Topology — per-dof neighbor index lists (same-element and cross-face),
//     built once from mesh connectivity and immutable for the run. This is
//     the stencil the bounds package evaluates local extrema over.
//   - Assembly — the pairwise flux decomposition of the high-order weak
//     form: one Pair per coupled dof pair carrying the coefficient magnitude,
//     unit normal and midpoint, plus the lumped mass vector and any domain
//     boundary faces.
//   - Exchanger / Reducer — the two collective operations a distributed
//     run needs: a blocking halo exchange of boundary-adjacent values, and
//     deterministic associative reductions for global diagnostics.
//
// Serial runs satisfy Exchanger/Reducer trivially (no ghosts, SerialReducer).
// The partition package provides in-process SPMD implementations of both;
// grid provides the concrete Topology/Assembly pair.
package fem
