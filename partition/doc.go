// Package partition splits a globally assembled discretization into
// per-rank pieces for SPMD evaluation inside one process: every rank runs
// the same serial evolution code over its owned block, and all coupling
// crosses rank boundaries through an explicit halo exchange.
//
// What
//
//   - Group — built once from a Source (a global topology plus assembly)
//     and a rank count. Dofs are split into contiguous blocks; each rank's
//     Piece renumbers its block to local indices 0..n-1 followed by two
//     layers of ghost dofs in ascending global order.
//   - Piece — a fem.Topology + fem.Assembly over local indices. Pairs that
//     cross a rank boundary appear on both ranks as Half pairs: each side
//     applies the contribution to its own endpoint only, with the face
//     normal flipped on one side so the two contributions are exact
//     floating-point negations of each other. A distributed evaluation is
//     therefore conservative to the last bit, not just to roundoff.
//   - Exchanger — in-process channel transport. One Exchange fills every
//     ghost slot of the piece from the owning ranks; sends precede
//     receives and peers are visited in ascending rank order, so the
//     schedule is deadlock-free and deterministic.
//   - Reducer — collective sums and maxima through a rank-0 hub that
//     combines contributions in ascending rank order. Summation order is
//     fixed, so reductions are reproducible run to run.
//
// Two ghost layers, not one: the limiter needs the bounds of first-layer
// ghost dofs, and those bounds are min/max over the ghosts' own neighbors.
// With the second layer present they are computed locally, so a derivative
// evaluation costs exactly one communication round.
//
// Determinism: block cuts, ghost ordering, exchange schedule and reduction
// order are all functions of (NumDofs, ranks) alone. Running the same
// problem on any rank count reproduces the serial trajectory up to
// floating-point summation order, and collective results bitwise.
package partition
