package grid

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypflow/fem"
)

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*Grid, error)
		wantErr error
	}{
		{"1d zero order", func() (*Grid, error) { return New1D(8, 0, true) }, ErrBadOrder},
		{"1d one element", func() (*Grid, error) { return New1D(1, 2, true) }, ErrTooFewElements},
		{"2d zero order", func() (*Grid, error) { return New2D(4, 4, 0) }, ErrBadOrder},
		{"2d one column", func() (*Grid, error) { return New2D(1, 4, 2) }, ErrTooFewElements},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestMassPartitionOfUnity(t *testing.T) {
	grids := map[string]*Grid{}
	for _, p := range []int{1, 2, 3, 4} {
		g, err := New1D(16, p, true)
		require.NoError(t, err)
		grids[fmt.Sprintf("1d/p%d", p)] = g
	}
	for _, p := range []int{1, 2, 3} {
		g, err := New2D(4, 3, p)
		require.NoError(t, err)
		grids[fmt.Sprintf("2d/p%d", p)] = g
	}
	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			var sum float64
			for _, m := range g.LumpedMass() {
				require.Greater(t, m, 0.0)
				sum += m
			}
			assert.InDelta(t, g.DomainSize(), sum, 1e-12)
		})
	}
}

// rowSums accumulates, per dof, the signed coefficient vector of all its
// pairs. On a periodic grid every row must vanish: the discrete operator
// annihilates constants.
func rowSums(g *Grid) []fem.Point {
	s := make([]fem.Point, g.NumDofs())
	for _, p := range g.Pairs() {
		s[p.I][0] += p.Kappa * p.N[0]
		s[p.I][1] += p.Kappa * p.N[1]
		s[p.J][0] -= p.Kappa * p.N[0]
		s[p.J][1] -= p.Kappa * p.N[1]
	}
	return s
}

func TestRowSumsPeriodic(t *testing.T) {
	for name, build := range map[string]func() (*Grid, error){
		"1d/p3": func() (*Grid, error) { return New1D(12, 3, true) },
		"2d/p2": func() (*Grid, error) { return New2D(3, 4, 2) },
	} {
		t.Run(name, func(t *testing.T) {
			g, err := build()
			require.NoError(t, err)
			for i, s := range rowSums(g) {
				assert.InDelta(t, 0, s[0], 1e-12, "dof %d x", i)
				assert.InDelta(t, 0, s[1], 1e-12, "dof %d y", i)
			}
		})
	}
}

func TestRowSumsBounded(t *testing.T) {
	// On a non-periodic 1-D grid only the two trace dofs of the domain
	// boundary carry nonzero row sums, and those match the half face
	// weights the boundary flux completes.
	g, err := New1D(8, 3, false)
	require.NoError(t, err)
	n := g.NumDofs()
	for i, s := range rowSums(g) {
		switch i {
		case 0:
			assert.InDelta(t, -0.5, s[0], 1e-12)
		case n - 1:
			assert.InDelta(t, 0.5, s[0], 1e-12)
		default:
			assert.InDelta(t, 0, s[0], 1e-12, "dof %d", i)
		}
	}
}

func TestBoundaryFaces(t *testing.T) {
	gp, err := New1D(8, 2, true)
	require.NoError(t, err)
	assert.Empty(t, gp.Boundary())

	gb, err := New1D(8, 2, false)
	require.NoError(t, err)
	bf := gb.Boundary()
	require.Len(t, bf, 2)
	assert.Equal(t, 0, bf[0].Dof)
	assert.Equal(t, fem.Point{-1, 0}, bf[0].N)
	assert.Equal(t, gb.NumDofs()-1, bf[1].Dof)
	assert.Equal(t, fem.Point{1, 0}, bf[1].N)
}

func TestStencilSymmetry(t *testing.T) {
	for name, build := range map[string]func() (*Grid, error){
		"1d/periodic":  func() (*Grid, error) { return New1D(6, 3, true) },
		"1d/bounded":   func() (*Grid, error) { return New1D(6, 3, false) },
		"2d/order two": func() (*Grid, error) { return New2D(3, 3, 2) },
	} {
		t.Run(name, func(t *testing.T) {
			g, err := build()
			require.NoError(t, err)
			for i := 0; i < g.NumDofs(); i++ {
				for _, j := range g.ElementNeighbors(i) {
					assert.Contains(t, g.ElementNeighbors(j), i)
				}
				for _, j := range g.FaceNeighbors(i) {
					assert.Contains(t, g.FaceNeighbors(j), i)
				}
			}
		})
	}
}

func TestNeighborListsSorted(t *testing.T) {
	g, err := New2D(3, 3, 2)
	require.NoError(t, err)
	for i := 0; i < g.NumDofs(); i++ {
		for _, list := range [][]int{g.ElementNeighbors(i), g.FaceNeighbors(i)} {
			for k := 1; k < len(list); k++ {
				require.Less(t, list[k-1], list[k], "dof %d", i)
			}
		}
	}
}

// TestPairsCoverStencil checks that every coupled pair lies inside the
// bounds stencil: the limiter may then clip any pair flux against
// neighbor-derived bounds on both sides.
func TestPairsCoverStencil(t *testing.T) {
	for name, build := range map[string]func() (*Grid, error){
		"1d": func() (*Grid, error) { return New1D(8, 3, true) },
		"2d": func() (*Grid, error) { return New2D(3, 3, 2) },
	} {
		t.Run(name, func(t *testing.T) {
			g, err := build()
			require.NoError(t, err)
			for _, p := range g.Pairs() {
				require.NotEqual(t, p.I, p.J)
				require.False(t, p.Half)
				found := contains(g.ElementNeighbors(p.I), p.J) ||
					contains(g.FaceNeighbors(p.I), p.J)
				require.True(t, found, "pair (%d,%d) outside stencil", p.I, p.J)
			}
		})
	}
}

func TestPairNormalsUnit(t *testing.T) {
	g, err := New2D(3, 3, 3)
	require.NoError(t, err)
	for _, p := range g.Pairs() {
		require.Greater(t, p.Kappa, 0.0)
		assert.InDelta(t, 1, math.Hypot(p.N[0], p.N[1]), 1e-14)
	}
}

func TestNodeCoords1D(t *testing.T) {
	g, err := New1D(4, 2, true)
	require.NoError(t, err)
	for i := 0; i < g.NumDofs(); i++ {
		x := g.NodeCoord(i)
		require.GreaterOrEqual(t, x[0], 0.0)
		require.LessOrEqual(t, x[0], 1.0)
		require.Zero(t, x[1])
		if i > 0 {
			require.GreaterOrEqual(t, x[0], g.NodeCoord(i - 1)[0])
		}
	}
}

func TestPairMidSeam(t *testing.T) {
	// Midpoints across the periodic seam stay on the short arc.
	m := pairMid(fem.Point{0.95, 0}, fem.Point{0.05, 0})
	assert.InDelta(t, 0, m[0], 1e-12)
}

func TestOverlapClosedForm(t *testing.T) {
	// Order one: ∫B0² = ∫B1² = 1/3, ∫B0·B1 = 1/6.
	m := overlap(1)
	assert.InDelta(t, 1.0/3, m[0][0], 1e-15)
	assert.InDelta(t, 1.0/6, m[0][1], 1e-15)
	assert.InDelta(t, 1.0/6, m[1][0], 1e-15)
	assert.InDelta(t, 1.0/3, m[1][1], 1e-15)
}

func TestVolCoeffAntisymmetry(t *testing.T) {
	for _, p := range []int{1, 2, 3, 5} {
		a := volCoeff(p)
		for i := 0; i <= p; i++ {
			// Row sums equal the derivative of the partition of unity
			// pushed to the endpoints: B_i(1) − B_i(0).
			var sum float64
			for j := 0; j <= p; j++ {
				sum += a[i][j]
				if i != j {
					require.Equal(t, a[i][j], -a[j][i], "p=%d (%d,%d)", p, i, j)
				}
			}
			want := 0.0
			if i == p {
				want = 1
			}
			if i == 0 {
				want = -1
			}
			assert.InDelta(t, want, sum, 1e-13, "p=%d row %d", p, i)
		}
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
