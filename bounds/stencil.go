package bounds

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hypflow/fem"
)

// Sentinel errors for stencil construction and refresh.
var (
	// ErrExchangerRequired indicates a topology with ghost layers but no
	// attached Exchanger.
	ErrExchangerRequired = errors.New("bounds: topology has ghost dofs but no exchanger")
	// ErrStateSize indicates a state vector whose length does not match the
	// topology's owned dof count.
	ErrStateSize = errors.New("bounds: state length does not match dof count")
)

// Option configures a Stencil.
type Option func(*Stencil)

// WithExchanger attaches the halo exchanger of a distributed topology.
func WithExchanger(x fem.Exchanger) Option {
	return func(s *Stencil) { s.exch = x }
}

// Stencil computes per-dof lower/upper bounds from a state snapshot.
// The neighbor index structure is taken from the topology at construction
// and never changes; only the bounds arrays mutate on Refresh.
type Stencil struct {
	top  fem.Topology
	exch fem.Exchanger

	nOwned, nBounded, nExt int

	lo, hi []float64
	ext    []float64 // extended value scratch; nil when there are no ghosts
	vals   []float64 // values of the last Refresh (ext, or the caller's u)
}

// New validates the topology and builds a Stencil over it. Topologies with
// ghost layers require WithExchanger.
func New(top fem.Topology, opts ...Option) (*Stencil, error) {
	if top == nil {
		return nil, fem.ErrNilTopology
	}
	s := &Stencil{
		top:      top,
		nOwned:   top.NumDofs(),
		nBounded: top.NumBounded(),
		nExt:     top.NumExtended(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.nOwned <= 0 || s.nBounded < s.nOwned || s.nExt < s.nBounded {
		return nil, fem.ErrBadTopology
	}
	if s.nExt > s.nOwned {
		if s.exch == nil {
			return nil, ErrExchangerRequired
		}
		s.ext = make([]float64, s.nExt)
	}
	for i := 0; i < s.nBounded; i++ {
		for _, j := range s.top.ElementNeighbors(i) {
			if j < 0 || j >= s.nExt {
				return nil, fmt.Errorf("%w: element neighbor %d of dof %d out of range", fem.ErrBadTopology, j, i)
			}
		}
		for _, j := range s.top.FaceNeighbors(i) {
			if j < 0 || j >= s.nExt {
				return nil, fmt.Errorf("%w: face neighbor %d of dof %d out of range", fem.ErrBadTopology, j, i)
			}
		}
	}
	s.lo = make([]float64, s.nBounded)
	s.hi = make([]float64, s.nBounded)
	return s, nil
}

// NumBounded returns the number of dofs Refresh computes bounds for.
func (s *Stencil) NumBounded() int { return s.nBounded }

// Refresh recomputes the bounds of every bounded dof from the snapshot u
// (owned values only). In the distributed case this performs the single
// blocking halo exchange of the evaluation; it returns only after all
// remote neighbor values have arrived and every bound is final.
func (s *Stencil) Refresh(u []float64) error {
	if len(u) != s.nOwned {
		return ErrStateSize
	}
	v := u
	if s.ext != nil {
		copy(s.ext, u)
		if err := s.exch.Exchange(s.ext[:s.nOwned], s.ext[s.nOwned:]); err != nil {
			return fmt.Errorf("bounds: halo exchange: %w", err)
		}
		v = s.ext
	}
	s.vals = v
	for i := 0; i < s.nBounded; i++ {
		lo, hi := v[i], v[i]
		for _, j := range s.top.ElementNeighbors(i) {
			if v[j] < lo {
				lo = v[j]
			} else if v[j] > hi {
				hi = v[j]
			}
		}
		for _, j := range s.top.FaceNeighbors(i) {
			if v[j] < lo {
				lo = v[j]
			} else if v[j] > hi {
				hi = v[j]
			}
		}
		s.lo[i], s.hi[i] = lo, hi
	}
	return nil
}

// Lo returns the lower bounds of the last Refresh. The slice is reused
// between calls; callers other than the evolution operator must copy.
func (s *Stencil) Lo() []float64 { return s.lo }

// Hi returns the upper bounds of the last Refresh.
func (s *Stencil) Hi() []float64 { return s.hi }

// Values returns the extended value vector of the last Refresh: owned
// values followed by ghost values. Valid until the next Refresh.
func (s *Stencil) Values() []float64 { return s.vals }

// Widen expands the bounds of dof i to include the exterior value g. The
// evolution operator uses this to admit prescribed inflow states at domain
// boundaries. Widening is local: ghost copies of dof i on other ranks keep
// their exchanged, un-widened bounds.
func (s *Stencil) Widen(i int, g float64) {
	if g < s.lo[i] {
		s.lo[i] = g
	}
	if g > s.hi[i] {
		s.hi[i] = g
	}
}
