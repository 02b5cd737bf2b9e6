package partition

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hypflow/fem"
)

// Group holds the pieces, exchangers and reducers of one partitioned run.
type Group struct {
	n      int
	ranks  int
	starts []int // starts[r] .. starts[r+1] is rank r's block; len ranks+1

	pieces []*Piece
	exchs  []*Exchanger
	reds   []fem.Reducer
}

// NewGroup splits src into ranks contiguous blocks and builds the
// per-rank pieces together with their matching communication plumbing.
// The cut points depend only on (NumDofs, ranks), so the same inputs
// always produce the same partitioning.
func NewGroup(src Source, ranks int) (*Group, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	n := src.NumDofs()
	if ranks < 1 || ranks > n {
		return nil, fmt.Errorf("%w: %d ranks for %d dofs", ErrBadRankCount, ranks, n)
	}
	g := &Group{
		n:      n,
		ranks:  ranks,
		starts: make([]int, ranks+1),
		pieces: make([]*Piece, ranks),
		exchs:  make([]*Exchanger, ranks),
		reds:   make([]fem.Reducer, ranks),
	}
	for r := 0; r <= ranks; r++ {
		g.starts[r] = r * n / ranks
	}
	for r := 0; r < ranks; r++ {
		g.pieces[r] = g.buildPiece(src, r)
	}
	g.buildExchangers()
	buildReducers(g.reds)
	return g, nil
}

// owner returns the rank whose block contains global dof gid.
func (g *Group) owner(gid int) int {
	return sort.Search(g.ranks, func(r int) bool { return g.starts[r+1] > gid })
}

// buildPiece assembles rank r's piece: ghost discovery, renumbering, and
// the local views of pairs, boundary faces and neighbor lists.
func (g *Group) buildPiece(src Source, r int) *Piece {
	lo, hi := g.starts[r], g.starts[r+1]
	nOwn := hi - lo
	owned := func(gid int) bool { return gid >= lo && gid < hi }

	// Two ghost layers: direct neighbors of the owned block, then the
	// neighbors of those. Bitsets keep discovery linear and the resulting
	// ghost order ascending by construction.
	layer1 := bitset.New(uint(g.n))
	for gid := lo; gid < hi; gid++ {
		for _, nb := range src.ElementNeighbors(gid) {
			if !owned(nb) {
				layer1.Set(uint(nb))
			}
		}
		for _, nb := range src.FaceNeighbors(gid) {
			if !owned(nb) {
				layer1.Set(uint(nb))
			}
		}
	}
	layer2 := bitset.New(uint(g.n))
	for gid, ok := layer1.NextSet(0); ok; gid, ok = layer1.NextSet(gid + 1) {
		for _, nb := range src.ElementNeighbors(int(gid)) {
			if !owned(nb) && !layer1.Test(uint(nb)) {
				layer2.Set(uint(nb))
			}
		}
		for _, nb := range src.FaceNeighbors(int(gid)) {
			if !owned(nb) && !layer1.Test(uint(nb)) {
				layer2.Set(uint(nb))
			}
		}
	}

	nG1 := int(layer1.Count())
	nExt := nOwn + nG1 + int(layer2.Count())
	p := &Piece{
		rank:     r,
		nOwn:     nOwn,
		nBounded: nOwn + nG1,
		nExt:     nExt,
		gstart:   lo,
		globals:  make([]int, 0, nExt),
		domain:   src.DomainSize(),
	}
	for gid := lo; gid < hi; gid++ {
		p.globals = append(p.globals, gid)
	}
	for gid, ok := layer1.NextSet(0); ok; gid, ok = layer1.NextSet(gid + 1) {
		p.globals = append(p.globals, int(gid))
	}
	for gid, ok := layer2.NextSet(0); ok; gid, ok = layer2.NextSet(gid + 1) {
		p.globals = append(p.globals, int(gid))
	}
	local := make(map[int]int, nExt)
	for i, gid := range p.globals {
		local[gid] = i
	}

	p.mass = append([]float64(nil), src.LumpedMass()[lo:hi]...)
	p.coords = make([]fem.Point, nExt)
	for i, gid := range p.globals {
		p.coords[i] = src.NodeCoord(gid)
	}

	// Neighbor lists of every bounded dof, remapped to local indices. All
	// neighbors of bounded dofs are inside the extended set, that is what
	// the second ghost layer is for.
	p.elemOff = make([]int, p.nBounded+1)
	p.faceOff = make([]int, p.nBounded+1)
	for i := 0; i < p.nBounded; i++ {
		gid := p.globals[i]
		for _, nb := range src.ElementNeighbors(gid) {
			p.elemAdj = append(p.elemAdj, local[nb])
		}
		for _, nb := range src.FaceNeighbors(gid) {
			p.faceAdj = append(p.faceAdj, local[nb])
		}
		p.elemOff[i+1] = len(p.elemAdj)
		p.faceOff[i+1] = len(p.faceAdj)
	}

	// Pairs with both endpoints owned stay whole. Pairs crossing the rank
	// boundary become Half pairs on both sides; the mirror carries the
	// negated normal, so the flux it computes is the exact negation of the
	// original and the two one-sided applications sum to the serial pair.
	for _, pr := range src.Pairs() {
		switch {
		case owned(pr.I) && owned(pr.J):
			pr.I, pr.J = local[pr.I], local[pr.J]
			p.pairs = append(p.pairs, pr)
		case owned(pr.I):
			p.pairs = append(p.pairs, fem.Pair{
				I: local[pr.I], J: local[pr.J],
				Kappa: pr.Kappa, N: pr.N, X: pr.X, Half: true,
			})
		case owned(pr.J):
			p.pairs = append(p.pairs, fem.Pair{
				I: local[pr.J], J: local[pr.I],
				Kappa: pr.Kappa,
				N:     fem.Point{-pr.N[0], -pr.N[1]},
				X:     pr.X,
				Half:  true,
			})
		}
	}
	for _, bf := range src.Boundary() {
		if owned(bf.Dof) {
			bf.Dof = local[bf.Dof]
			p.bfaces = append(p.bfaces, bf)
		}
	}
	return p
}

// Ranks returns the number of ranks in the group.
func (g *Group) Ranks() int { return g.ranks }

// Piece returns rank r's piece.
func (g *Group) Piece(r int) *Piece { return g.pieces[r] }

// Exchanger returns rank r's halo exchanger (nil for single-rank groups).
func (g *Group) Exchanger(r int) fem.Exchanger {
	if g.exchs[r] == nil {
		return nil
	}
	return g.exchs[r]
}

// Reducer returns rank r's collective reducer.
func (g *Group) Reducer(r int) fem.Reducer { return g.reds[r] }

// Scatter splits a global state vector into per-rank owned blocks.
func (g *Group) Scatter(u []float64) ([][]float64, error) {
	if len(u) != g.n {
		return nil, fmt.Errorf("%w: state length %d for %d dofs", fem.ErrBadTopology, len(u), g.n)
	}
	parts := make([][]float64, g.ranks)
	for r := 0; r < g.ranks; r++ {
		parts[r] = append([]float64(nil), u[g.starts[r]:g.starts[r+1]]...)
	}
	return parts, nil
}

// Gather concatenates per-rank owned blocks back into the global vector.
func (g *Group) Gather(dst []float64, parts [][]float64) error {
	if len(dst) != g.n || len(parts) != g.ranks {
		return fem.ErrBadTopology
	}
	for r, part := range parts {
		if len(part) != g.starts[r+1]-g.starts[r] {
			return fmt.Errorf("%w: rank %d block length %d", fem.ErrBadTopology, r, len(part))
		}
		copy(dst[g.starts[r]:], part)
	}
	return nil
}

// Run executes fn once per rank, each on its own goroutine, and waits for
// all of them. The first error cancels nothing mid-flight (the collectives
// are lockstep), but it is the one Run returns.
func (g *Group) Run(fn func(rank int, p *Piece, ex fem.Exchanger, red fem.Reducer) error) error {
	var eg errgroup.Group
	for r := 0; r < g.ranks; r++ {
		r := r
		eg.Go(func() error {
			return fn(r, g.pieces[r], g.Exchanger(r), g.reds[r])
		})
	}
	return eg.Wait()
}
