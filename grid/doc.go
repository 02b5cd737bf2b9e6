// Package grid builds structured element grids of Bernstein-type elements
// on the unit interval/square and exposes them through the fem.Topology and
// fem.Assembly contracts consumed by the hypflow core.
//
// What
//
//   - New1D(elements, order, periodic) — a uniform 1-D grid of `elements`
//     cells, each carrying the order-p Bernstein basis (p+1 dofs per cell).
//     Non-periodic grids expose their two domain-boundary faces.
//   - New2D(ex, ey, order) — a uniform, fully periodic 2-D quad grid with
//     (p+1)² dofs per cell.
//
// Degrees of freedom correspond 1:1 to the equispaced geometric nodes of
// each element (node k at local coordinate k/p); this is the nodal
// correspondence the neighbor-bounds stencil requires. Construction fails
// with ErrBadOrder for order < 1 — there is no meaningful stencil without
// it.
//
// The pairwise operator decomposition is assembled once, in closed form,
// from 1-D Bernstein integrals: the volume coefficients ∫B'ᵢBⱼ, the basis
// overlaps ∫BᵢBⱼ, and central face coupling across element interfaces. The
// resulting coefficient for each unordered pair is exactly antisymmetric
// between its endpoints, so the decomposition conserves mass pair by pair,
// and the per-dof coefficient rows sum to zero, so constant states are
// exactly preserved in the interior.
//
// # Determinism
//
// Dof indices are row-major over (element, local node); neighbor lists are
// sorted ascending and the pair sequence follows construction order, both
// fixed after New. All adjacency is stored as flat index arenas, not
// pointer graphs.
//
// Complexity: construction is O(N·p^d) time and memory for N dofs in d
// dimensions; all accessors are O(1).
package grid
