// Package evolve implements the bounds-preserving evolution operator of
// hypflow: given a state snapshot, it produces a conservative time
// derivative in one of two schemes.
//
// Schemes
//
//   - Standard — the unlimited high-order approximation: the pairwise
//     central-flux residual divided by the lumped mass. Accurate for smooth
//     data, but near discontinuities it produces oscillations that leave
//     the physical bounds. That is intentional; it is the baseline the
//     limited scheme is measured against.
//   - MCL — monolithic convex limiting. Each evaluation refreshes the
//     neighbor-bounds stencil, assembles the graph-Laplacian low-order
//     scheme from bar states, and adds back as much of the antidiffusive
//     flux of every pair as its two endpoints' bounds admit.
//
// The MCL construction, per coupled pair (i, j) with diffusion d = κ·λ:
//
//	ū   = (uᵢ+uⱼ)/2 − κ·n·(fⱼ−fᵢ)/(2d)     bar state, inside [min,max](uᵢ,uⱼ)
//	F   = d·(uᵢ−uⱼ)                         raw antidiffusive flux, F_ji = −F_ij
//	F̄   = clip of F into 2d·[mᵢ−ū, Mᵢ−ū] ∩ 2d·[ū−Mⱼ, ū−mⱼ]
//	mᵢ·duᵢ += 2d·(ū−uᵢ) + F̄,   mⱼ·duⱼ += 2d·(ū−uⱼ) − F̄
//
// The clip keeps the limited bar state ū + F̄/(2d) inside the bounds of
// both endpoints, so a forward-Euler step under the low-order CFL
// restriction is a convex combination of in-bounds values; and because F̄
// enters the two endpoints with opposite signs, the limiter cannot create
// or destroy mass. Both guarantees are per Euler stage — propagating them
// through a multi-stage integrator requires the SSP property (package ode).
//
// The operator also owns the steady-state machinery: ConvergenceCheck
// computes the mass-weighted residual ‖(u−uOld)/dt‖ and rolls the previous
// snapshot forward, for physics contracts that declare themselves
// steady-state-seeking.
//
// Distributed evaluation differs in exactly one point: a single blocking
// halo exchange per ComputeDerivative (performed inside the stencil refresh
// for MCL, or directly for Standard) before any cross-partition value is
// used. Everything after is purely local.
package evolve
