// Package grid: core types and sentinel errors.
package grid

import (
	"errors"

	"github.com/katalvlaran/hypflow/fem"
)

// Sentinel errors for grid construction.
var (
	// ErrBadOrder indicates a polynomial order below 1; the Bernstein-type
	// nodal correspondence needs at least linear elements.
	ErrBadOrder = errors.New("grid: polynomial order must be at least 1")
	// ErrTooFewElements indicates fewer than two elements per periodic
	// direction; a single element would alias its own faces.
	ErrTooFewElements = errors.New("grid: need at least two elements per direction")
)

// coefficient magnitudes below this threshold are dropped from the pair
// set; the corresponding couplings are exact zeros of the Bernstein
// integrals up to roundoff.
const dropTol = 1e-14

// Grid is a structured element grid over the unit domain. Immutable once
// built; it implements fem.Topology and fem.Assembly.
type Grid struct {
	dim      int
	order    int
	ex, ey   int // elements per direction (ey == 1 in 1-D)
	periodic bool

	n      int // total dofs
	mass   []float64
	coords []fem.Point
	pairs  []fem.Pair
	bfaces []fem.BoundaryFace

	// Flat neighbor arenas: list of dof i is elemAdj[elemOff[i]:elemOff[i+1]].
	elemAdj, faceAdj []int
	elemOff, faceOff []int
}

// Dim returns the spatial dimension of the grid.
func (g *Grid) Dim() int { return g.dim }

// Order returns the polynomial order of the element basis.
func (g *Grid) Order() int { return g.order }

// Periodic reports whether the grid wraps around in every direction.
func (g *Grid) Periodic() bool { return g.periodic }

// NumDofs returns the number of degrees of freedom.
func (g *Grid) NumDofs() int { return g.n }

// NumBounded equals NumDofs: a serial grid has no ghost layers.
func (g *Grid) NumBounded() int { return g.n }

// NumExtended equals NumDofs: a serial grid has no ghost layers.
func (g *Grid) NumExtended() int { return g.n }

// ElementNeighbors returns the same-element neighbors of dof i, ascending.
func (g *Grid) ElementNeighbors(i int) []int {
	return g.elemAdj[g.elemOff[i]:g.elemOff[i+1]]
}

// FaceNeighbors returns the cross-face neighbors of dof i, ascending.
func (g *Grid) FaceNeighbors(i int) []int {
	return g.faceAdj[g.faceOff[i]:g.faceOff[i+1]]
}

// LumpedMass returns the strictly positive lumped mass per dof.
func (g *Grid) LumpedMass() []float64 { return g.mass }

// Pairs returns the coupled dof pairs in construction order.
func (g *Grid) Pairs() []fem.Pair { return g.pairs }

// Boundary returns the domain-boundary faces (empty when periodic).
func (g *Grid) Boundary() []fem.BoundaryFace { return g.bfaces }

// NodeCoord returns the geometric node of dof i.
func (g *Grid) NodeCoord(i int) fem.Point { return g.coords[i] }

// DomainSize returns the measure of the unit domain.
func (g *Grid) DomainSize() float64 { return 1 }
