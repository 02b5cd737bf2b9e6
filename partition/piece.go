package partition

import "github.com/katalvlaran/hypflow/fem"

// Piece is one rank's share of the global discretization, renumbered to
// local indices: owned dofs first, then first-layer ghosts, then
// second-layer ghosts, each layer in ascending global order. It satisfies
// both fem.Topology and fem.Assembly, so the serial bounds and evolution
// code runs on it unchanged.
type Piece struct {
	rank     int
	nOwn     int
	nBounded int
	nExt     int

	gstart  int   // global index of the first owned dof
	globals []int // local index -> global index, all nExt entries

	mass   []float64
	pairs  []fem.Pair
	bfaces []fem.BoundaryFace
	coords []fem.Point
	domain float64

	elemOff, elemAdj []int
	faceOff, faceAdj []int
}

// Rank returns the rank this piece belongs to.
func (p *Piece) Rank() int { return p.rank }

// NumDofs returns the number of owned dofs.
func (p *Piece) NumDofs() int { return p.nOwn }

// NumBounded returns owned plus first-layer ghost dofs; the bounds of all
// of them are computable from the extended value vector alone.
func (p *Piece) NumBounded() int { return p.nBounded }

// NumExtended returns owned plus both ghost layers.
func (p *Piece) NumExtended() int { return p.nExt }

// GlobalIndex returns the global dof index of local index i.
func (p *Piece) GlobalIndex(i int) int { return p.globals[i] }

// ElementNeighbors returns the same-element neighbors of bounded dof i,
// in local indices.
func (p *Piece) ElementNeighbors(i int) []int {
	return p.elemAdj[p.elemOff[i]:p.elemOff[i+1]]
}

// FaceNeighbors returns the cross-face neighbors of bounded dof i, in
// local indices.
func (p *Piece) FaceNeighbors(i int) []int {
	return p.faceAdj[p.faceOff[i]:p.faceOff[i+1]]
}

// LumpedMass returns the masses of the owned dofs.
func (p *Piece) LumpedMass() []float64 { return p.mass }

// Pairs returns the local coupled pairs. Pairs crossing the rank boundary
// are marked Half and mirrored on the peer rank with the normal flipped.
func (p *Piece) Pairs() []fem.Pair { return p.pairs }

// Boundary returns the domain-boundary faces whose dof this rank owns.
func (p *Piece) Boundary() []fem.BoundaryFace { return p.bfaces }

// NodeCoord returns the node position of local index i (ghosts included).
func (p *Piece) NodeCoord(i int) fem.Point { return p.coords[i] }

// DomainSize returns the measure of the whole global domain.
func (p *Piece) DomainSize() float64 { return p.domain }
