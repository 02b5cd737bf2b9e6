package evolve

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypflow/bounds"
	"github.com/katalvlaran/hypflow/fem"
	"github.com/katalvlaran/hypflow/grid"
	"github.com/katalvlaran/hypflow/hypsys"
)

// newSystem builds the physics contract of one (problem, setup) pair.
func newSystem(t *testing.T, problem, setup int) hypsys.System {
	t.Helper()
	sys, err := hypsys.New(hypsys.Config{Problem: problem, Setup: setup})
	require.NoError(t, err)
	return sys
}

// newOperator assembles a serial operator over a fresh 1-D grid.
func newOperator(t *testing.T, sys hypsys.System, elements, order int, scheme Scheme) (*Operator, *grid.Grid) {
	t.Helper()
	g, err := grid.New1D(elements, order, sys.Periodic())
	require.NoError(t, err)
	opts := []Option{WithScheme(scheme)}
	if scheme == MCL {
		st, err := bounds.New(g)
		require.NoError(t, err)
		opts = append(opts, WithStencil(st))
	}
	op, err := New(sys, g, opts...)
	require.NoError(t, err)
	return op, g
}

// initialState samples the system's initial condition on the grid nodes.
func initialState(sys hypsys.System, asm fem.Assembly) []float64 {
	u := make([]float64, asm.NumDofs())
	for i := range u {
		u[i] = sys.InitialValue(asm.NodeCoord(i))
	}
	return u
}

func TestNewErrors(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemBurgers, hypsys.BurgersSquare)
	g, err := grid.New1D(4, 2, true)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sys     hypsys.System
		asm     fem.Assembly
		opts    []Option
		wantErr error
	}{
		{name: "nil system", asm: g, wantErr: ErrNilSystem},
		{name: "nil assembly", sys: sys, wantErr: fem.ErrNilAssembly},
		{name: "unknown scheme", sys: sys, asm: g, opts: []Option{WithScheme(Scheme(9))}, wantErr: ErrUnknownScheme},
		{name: "mcl without stencil", sys: sys, asm: g, opts: []Option{WithScheme(MCL)}, wantErr: ErrStencilRequired},
		{name: "bad mass", sys: sys, asm: badMassAssembly{Grid: g}, wantErr: ErrBadMass},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sys, tc.asm, tc.opts...)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestComputeDerivativeStateSize(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemBurgers, hypsys.BurgersSquare)
	op, g := newOperator(t, sys, 4, 2, Standard)
	du := make([]float64, g.NumDofs())
	require.ErrorIs(t, op.ComputeDerivative(du, make([]float64, 3), 0), ErrStateSize)
	require.ErrorIs(t, op.ComputeDerivative(make([]float64, 3), du, 0), ErrStateSize)
}

// TestConservation: on a periodic grid the mass-weighted derivative sums
// to zero for arbitrary states, in both schemes. Pairwise antisymmetry is
// exact, so only row-sum roundoff remains.
func TestConservation(t *testing.T) {
	const elements, order = 8, 2
	cases := map[string]struct {
		problem, setup int
		scheme         Scheme
	}{
		"burgers/standard":   {hypsys.ProblemBurgers, hypsys.BurgersSquare, Standard},
		"burgers/mcl":        {hypsys.ProblemBurgers, hypsys.BurgersSquare, MCL},
		"advection/standard": {hypsys.ProblemAdvection, hypsys.AdvectionSmooth, Standard},
		"advection/mcl":      {hypsys.ProblemAdvection, hypsys.AdvectionSmooth, MCL},
	}

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	for name, tc := range cases {
		sys := newSystem(t, tc.problem, tc.setup)
		op, g := newOperator(t, sys, elements, order, tc.scheme)
		n := g.NumDofs()
		mass := g.LumpedMass()
		du := make([]float64, n)
		properties.Property(name, prop.ForAll(
			func(u []float64) bool {
				if err := op.ComputeDerivative(du, u, 0); err != nil {
					return false
				}
				var total float64
				for i, d := range du {
					total += mass[i] * d
				}
				return math.Abs(total) < 1e-11
			},
			gen.SliceOfN(n, gen.Float64Range(0, 1)),
		))
	}
	properties.TestingRun(t)
}

func TestConstantStateIsInvariant(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemAdvection, hypsys.AdvectionSmooth)
	for _, scheme := range []Scheme{Standard, MCL} {
		op, g := newOperator(t, sys, 8, 3, scheme)
		u := make([]float64, g.NumDofs())
		for i := range u {
			u[i] = 0.7
		}
		du := make([]float64, len(u))
		require.NoError(t, op.ComputeDerivative(du, u, 0))
		for i, d := range du {
			assert.InDelta(t, 0, d, 1e-11, "%v dof %d", scheme, i)
		}
	}
}

// TestMCLBoundPreservation: forward-Euler steps of the limited scheme at
// 90% of the certified step size never leave the global range of the
// square-wave data, shock and rarefaction included.
func TestMCLBoundPreservation(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemBurgers, hypsys.BurgersSquare)
	op, g := newOperator(t, sys, 32, 2, MCL)
	u := initialState(sys, g)
	du := make([]float64, len(u))

	for step := 0; step < 50; step++ {
		dt, err := op.MaxStableStep(u, 0)
		require.NoError(t, err)
		require.Greater(t, dt, 0.0)
		require.False(t, math.IsInf(dt, 1))
		require.NoError(t, op.ComputeDerivative(du, u, 0))
		for i := range u {
			u[i] += 0.9 * dt * du[i]
		}
		for i, ui := range u {
			require.GreaterOrEqual(t, ui, -1e-12, "step %d dof %d", step, i)
			require.LessOrEqual(t, ui, 1+1e-12, "step %d dof %d", step, i)
		}
	}
}

// TestStandardOvershoots documents the contrast: the unlimited scheme on
// the same square wave leaves [0,1] (or diverges outright) within a few
// steps. This is the behavior the limiter exists to remove.
func TestStandardOvershoots(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemBurgers, hypsys.BurgersSquare)
	op, g := newOperator(t, sys, 32, 2, Standard)
	u := initialState(sys, g)
	du := make([]float64, len(u))

	violated := false
	for step := 0; step < 200 && !violated; step++ {
		require.NoError(t, op.ComputeDerivative(du, u, 0))
		for i := range u {
			u[i] += 5e-4 * du[i]
		}
		for _, ui := range u {
			if !(ui >= -1e-9 && ui <= 1+1e-9) {
				violated = true
				break
			}
		}
	}
	assert.True(t, violated, "unlimited square wave stayed in bounds")
}

// TestMCLSmoothTransportConsistency: for smoothly advected data the limited
// derivative approximates −div(v·u), so the worst nodal error shrinks under
// mesh refinement. Constant states and conservation are blind to a global
// orientation error in the bar states; a resolution-independent O(1) error
// here is exactly that defect.
func TestMCLSmoothTransportConsistency(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemAdvection, hypsys.AdvectionSmooth)
	maxErr := func(elements int) float64 {
		op, g := newOperator(t, sys, elements, 1, MCL)
		u := initialState(sys, g)
		du := make([]float64, len(u))
		require.NoError(t, op.ComputeDerivative(du, u, 0))
		var worst float64
		for i := range du {
			// d/dt of the translated bump at t = 0: −u₀'(x) = −π·sin(2πx).
			want := -math.Pi * math.Sin(2*math.Pi*g.NodeCoord(i)[0])
			if e := math.Abs(du[i] - want); e > worst {
				worst = e
			}
		}
		return worst
	}
	coarse, fine := maxErr(16), maxErr(64)
	assert.Less(t, coarse, 2.0)
	assert.Less(t, fine, 0.6*coarse)
}

func TestSteadyBoundaryEquilibrium(t *testing.T) {
	// The relaxation setup's fixed point is the constant inflow state; at
	// that state interior pairs and boundary fluxes must cancel exactly in
	// both schemes.
	sys := newSystem(t, hypsys.ProblemAdvection, hypsys.AdvectionRelaxation)
	for _, scheme := range []Scheme{Standard, MCL} {
		op, g := newOperator(t, sys, 8, 2, scheme)
		u := make([]float64, g.NumDofs())
		for i := range u {
			u[i] = 1
		}
		du := make([]float64, len(u))
		require.NoError(t, op.ComputeDerivative(du, u, 0))
		for i, d := range du {
			assert.InDelta(t, 0, d, 1e-11, "%v dof %d", scheme, i)
		}
	}
}

func TestConvergenceCheck(t *testing.T) {
	t.Run("not steady", func(t *testing.T) {
		sys := newSystem(t, hypsys.ProblemBurgers, hypsys.BurgersSquare)
		op, g := newOperator(t, sys, 4, 2, Standard)
		_, err := op.ConvergenceCheck(0.1, make([]float64, g.NumDofs()))
		require.ErrorIs(t, err, ErrNotSteadyState)
		assert.Nil(t, op.UOld())
	})
	t.Run("lifecycle", func(t *testing.T) {
		sys := newSystem(t, hypsys.ProblemAdvection, hypsys.AdvectionRelaxation)
		op, g := newOperator(t, sys, 4, 2, Standard)
		require.NotNil(t, op.UOld())

		u := initialState(sys, g)
		_, err := op.ConvergenceCheck(0, u)
		require.ErrorIs(t, err, ErrBadTimeStep)

		// First check measures against the zero snapshot.
		res, err := op.ConvergenceCheck(0.1, u)
		require.NoError(t, err)
		assert.Greater(t, res, 0.0)

		// An identical state one check later is a perfect fixed point.
		res, err = op.ConvergenceCheck(0.1, u)
		require.NoError(t, err)
		assert.Zero(t, res)
	})
}

func TestMaxStableStepScaling(t *testing.T) {
	sys := newSystem(t, hypsys.ProblemAdvection, hypsys.AdvectionSmooth)
	opCoarse, gc := newOperator(t, sys, 16, 1, MCL)
	opFine, gf := newOperator(t, sys, 32, 1, MCL)

	dtc, err := opCoarse.MaxStableStep(initialState(sys, gc), 0)
	require.NoError(t, err)
	dtf, err := opFine.MaxStableStep(initialState(sys, gf), 0)
	require.NoError(t, err)
	require.Greater(t, dtc, 0.0)
	require.Greater(t, dtf, 0.0)
	// Unit advection speed: the certified step halves with the mesh width.
	assert.InDelta(t, 0.5, dtf/dtc, 1e-9)
}

func TestSchemeString(t *testing.T) {
	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "mcl", MCL.String())
	assert.Equal(t, "unknown", Scheme(12).String())
}

// badMassAssembly corrupts one lumped mass entry.
type badMassAssembly struct {
	*grid.Grid
}

func (b badMassAssembly) LumpedMass() []float64 {
	m := append([]float64(nil), b.Grid.LumpedMass()...)
	m[0] = 0
	return m
}
