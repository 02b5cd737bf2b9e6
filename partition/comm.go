package partition

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/hypflow/fem"
)

// sendPlan gathers the owned values one peer needs, in the peer's ghost
// order, so the receiver can scatter the buffer positionally.
type sendPlan struct {
	idx []int // local owned indices to gather
	ch  chan []float64
}

// recvPlan scatters one peer's buffer into this rank's ghost slots.
type recvPlan struct {
	pos []int // ghost-slice positions to fill
	ch  chan []float64
}

// Exchanger moves halo values between ranks over in-process channels.
// Each Exchange sends one freshly allocated buffer per peer and then
// receives one per peer, both in ascending rank order. Buffers are never
// reused after sending, so the caller may overwrite its state the moment
// Exchange returns.
type Exchanger struct {
	rank   int
	nOwn   int
	nGhost int
	peers  []int // ascending; send and receive sets coincide
	send   map[int]*sendPlan
	recv   map[int]*recvPlan
}

// Exchange fills ghost from the owning ranks' current owned values. It
// blocks until every ghost slot is final. All ranks of a group must call
// Exchange collectively and in the same sequence.
func (e *Exchanger) Exchange(owned, ghost []float64) error {
	if len(owned) != e.nOwn || len(ghost) != e.nGhost {
		return fmt.Errorf("%w: exchange buffers %d/%d", fem.ErrBadTopology, len(owned), len(ghost))
	}
	for _, q := range e.peers {
		sp := e.send[q]
		buf := make([]float64, len(sp.idx))
		for k, i := range sp.idx {
			buf[k] = owned[i]
		}
		sp.ch <- buf
	}
	for _, q := range e.peers {
		rp := e.recv[q]
		buf := <-rp.ch
		for k, p := range rp.pos {
			ghost[p] = buf[k]
		}
	}
	return nil
}

// buildExchangers derives every rank's send and receive plans from the
// pieces' ghost lists. The ghost adjacency is symmetric, so rank pairs
// always exchange in both directions.
func (g *Group) buildExchangers() {
	if g.ranks == 1 {
		return
	}
	for r := 0; r < g.ranks; r++ {
		p := g.pieces[r]
		g.exchs[r] = &Exchanger{
			rank:   r,
			nOwn:   p.nOwn,
			nGhost: p.nExt - p.nOwn,
			send:   make(map[int]*sendPlan),
			recv:   make(map[int]*recvPlan),
		}
	}
	for r := 0; r < g.ranks; r++ {
		p := g.pieces[r]
		for k := p.nOwn; k < p.nExt; k++ {
			gid := p.globals[k]
			q := g.owner(gid)
			rp := g.exchs[r].recv[q]
			if rp == nil {
				rp = &recvPlan{ch: make(chan []float64, 1)}
				g.exchs[r].recv[q] = rp
			}
			rp.pos = append(rp.pos, k-p.nOwn)
			sp := g.exchs[q].send[r]
			if sp == nil {
				sp = &sendPlan{ch: rp.ch}
				g.exchs[q].send[r] = sp
			}
			sp.idx = append(sp.idx, gid-g.starts[q])
		}
	}
	for r := 0; r < g.ranks; r++ {
		e := g.exchs[r]
		for q := range e.recv {
			e.peers = append(e.peers, q)
		}
		sort.Ints(e.peers)
	}
}

// hub carries the shared channels of one reduction group. Rank 0 combines
// contributions in ascending rank order and broadcasts the result, which
// fixes the summation order and makes every collective bitwise
// reproducible.
type hub struct {
	ranks int
	up    []chan float64
	down  []chan float64
}

// hubReducer is one rank's handle on the shared hub.
type hubReducer struct {
	rank int
	h    *hub
}

func (r *hubReducer) reduce(x float64, combine func(a, b float64) float64) float64 {
	if r.rank != 0 {
		r.h.up[r.rank] <- x
		return <-r.h.down[r.rank]
	}
	total := x
	for q := 1; q < r.h.ranks; q++ {
		total = combine(total, <-r.h.up[q])
	}
	for q := 1; q < r.h.ranks; q++ {
		r.h.down[q] <- total
	}
	return total
}

// SumAll returns the rank-ordered sum of every rank's contribution.
func (r *hubReducer) SumAll(x float64) (float64, error) {
	return r.reduce(x, func(a, b float64) float64 { return a + b }), nil
}

// MaxAll returns the maximum over every rank's contribution.
func (r *hubReducer) MaxAll(x float64) (float64, error) {
	return r.reduce(x, math.Max), nil
}

// buildReducers wires all ranks to one shared hub; a single-rank group
// gets the serial identity reducer instead.
func buildReducers(reds []fem.Reducer) {
	ranks := len(reds)
	if ranks == 1 {
		reds[0] = fem.SerialReducer{}
		return
	}
	h := &hub{
		ranks: ranks,
		up:    make([]chan float64, ranks),
		down:  make([]chan float64, ranks),
	}
	for r := 1; r < ranks; r++ {
		h.up[r] = make(chan float64, 1)
		h.down[r] = make(chan float64, 1)
	}
	for r := 0; r < ranks; r++ {
		reds[r] = &hubReducer{rank: r, h: h}
	}
}
