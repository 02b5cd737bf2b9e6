// Package fem: shared types and contracts for the hypflow numerical core.
package fem

import "errors"

// Sentinel errors for contract violations surfaced at construction time.
var (
	// ErrNilTopology indicates a nil Topology was supplied.
	ErrNilTopology = errors.New("fem: topology must not be nil")
	// ErrNilAssembly indicates a nil Assembly was supplied.
	ErrNilAssembly = errors.New("fem: assembly must not be nil")
	// ErrBadTopology indicates inconsistent dof counts or out-of-range
	// neighbor indices in a Topology implementation.
	ErrBadTopology = errors.New("fem: inconsistent topology")
)

// Point is a position in the (at most two-dimensional) computational domain.
// One-dimensional providers leave the second coordinate at zero.
type Point [2]float64

// Pair is one coupled dof pair of the pairwise flux decomposition.
//
// The high-order weak-form residual of dof I receives the contribution
// Kappa·n·(f(u_I)+f(u_J)) from this pair, and dof J the exact negative;
// the decomposition is therefore conservative pair by pair. N is the unit
// coupling direction seen from I, X the pair midpoint (where position-
// dependent flux data, e.g. a velocity field, is evaluated).
//
// Half marks a pair whose J endpoint is owned by another partition: the
// local rank applies the pair to I only, and the owning rank holds the
// mirrored pair. Serial assemblies never set Half.
type Pair struct {
	I, J  int
	Kappa float64
	N     Point
	X     Point
	Half  bool
}

// BoundaryFace is a domain-boundary face entry of a non-periodic assembly.
// Dof receives the flux -Kappa·n·fhat, where fhat is the upwind numerical
// flux against the exterior state supplied by the physics contract.
type BoundaryFace struct {
	Dof   int
	Kappa float64
	N     Point
	X     Point
}

// Topology enumerates, per degree of freedom, the neighbor dofs whose
// values constrain its admissible range. Built once from mesh connectivity;
// immutable for the run.
//
// Index ranges, in order: [0, NumDofs) are owned dofs, [NumDofs, NumBounded)
// are first-layer ghosts (bounds locally computable after one exchange),
// [NumBounded, NumExtended) are second-layer ghosts (values only). Serial
// topologies have NumDofs == NumBounded == NumExtended.
type Topology interface {
	// NumDofs returns the number of owned degrees of freedom.
	NumDofs() int
	// NumBounded returns the number of dofs, owned plus first-layer ghosts,
	// whose lower/upper bounds can be computed locally.
	NumBounded() int
	// NumExtended returns the total local value-vector length including all
	// ghost layers.
	NumExtended() int
	// ElementNeighbors returns the same-element neighbors of dof i, sorted
	// ascending. Valid for i < NumBounded().
	ElementNeighbors(i int) []int
	// FaceNeighbors returns the cross-face neighbors of dof i, sorted
	// ascending. Valid for i < NumBounded().
	FaceNeighbors(i int) []int
}

// Assembly is the pairwise view of the assembled high-order operator:
// lumped masses, coupled pairs, boundary faces and dof node positions.
// Immutable for the run.
type Assembly interface {
	// NumDofs returns the number of owned degrees of freedom.
	NumDofs() int
	// LumpedMass returns one strictly positive mass per owned dof.
	// Callers must not mutate the returned slice.
	LumpedMass() []float64
	// Pairs returns the coupled dof pairs in a fixed, deterministic order.
	// Callers must not mutate the returned slice.
	Pairs() []Pair
	// Boundary returns the domain-boundary faces; empty for periodic
	// assemblies.
	Boundary() []BoundaryFace
	// NodeCoord returns the geometric node of owned dof i.
	NodeCoord(i int) Point
	// DomainSize returns the measure of the full computational domain
	// (identical on every partition).
	DomainSize() float64
}

// Exchanger performs the blocking halo exchange of a distributed run:
// owned values go out to peer ranks, ghost slots are filled with the
// corresponding remote values. Exchange is collective — every rank of the
// group must call it the same number of times — and returns only once all
// ghost values for this rank have arrived.
type Exchanger interface {
	Exchange(owned, ghost []float64) error
}

// Reducer provides order-deterministic associative reductions across all
// ranks. Serial runs use SerialReducer.
type Reducer interface {
	// SumAll returns the sum of v over all ranks, accumulated in a fixed
	// rank order so results are reproducible.
	SumAll(v float64) (float64, error)
	// MaxAll returns the maximum of v over all ranks.
	MaxAll(v float64) (float64, error)
}

// SerialReducer is the single-rank Reducer: both reductions are identities.
type SerialReducer struct{}

// SumAll returns v unchanged.
func (SerialReducer) SumAll(v float64) (float64, error) { return v, nil }

// MaxAll returns v unchanged.
func (SerialReducer) MaxAll(v float64) (float64, error) { return v, nil }
