package hypsys

import (
	"bytes"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypflow/fem"
	"github.com/katalvlaran/hypflow/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		dim     int
		sysName string
	}{
		{name: "advection smooth", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionSmooth}, dim: 1, sysName: "advection"},
		{name: "advection rotation", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionRotation}, dim: 2, sysName: "advection"},
		{name: "advection relaxation", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionRelaxation}, dim: 1, sysName: "advection"},
		{name: "burgers square", cfg: Config{Problem: ProblemBurgers, Setup: BurgersSquare}, dim: 1, sysName: "burgers"},
		{name: "unknown problem", cfg: Config{Problem: 99}, wantErr: ErrUnknownProblem},
		{name: "unknown advection setup", cfg: Config{Problem: ProblemAdvection, Setup: 42}, wantErr: ErrUnknownSetup},
		{name: "unknown burgers setup", cfg: Config{Problem: ProblemBurgers, Setup: 7}, wantErr: ErrUnknownSetup},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sys, err := New(tc.cfg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.sysName, sys.Name())
			assert.Equal(t, tc.dim, sys.Dim())
		})
	}
}

func TestCapabilityFlags(t *testing.T) {
	tests := []struct {
		name                                       string
		cfg                                        Config
		periodic, steady, solutionKnown, fileOuput bool
	}{
		{name: "smooth", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionSmooth}, periodic: true, solutionKnown: true},
		{name: "rotation", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionRotation}, periodic: true, solutionKnown: true, fileOuput: true},
		{name: "relaxation", cfg: Config{Problem: ProblemAdvection, Setup: AdvectionRelaxation}, steady: true},
		{name: "burgers", cfg: Config{Problem: ProblemBurgers, Setup: BurgersSquare}, periodic: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sys, err := New(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.periodic, sys.Periodic())
			assert.Equal(t, tc.steady, sys.SteadyState())
			assert.Equal(t, tc.solutionKnown, sys.SolutionKnown())
			assert.Equal(t, tc.fileOuput, sys.FileOutput())
		})
	}
}

func TestExactMatchesInitialValue(t *testing.T) {
	for _, setup := range []int{AdvectionSmooth, AdvectionRotation} {
		sys, err := New(Config{Problem: ProblemAdvection, Setup: setup})
		require.NoError(t, err)
		for _, x := range []fem.Point{{0, 0}, {0.125, 0.75}, {0.5, 0.6}, {0.875, 0.9}} {
			assert.InDelta(t, sys.InitialValue(x), sys.Exact(x, 0), 1e-12,
				"setup %d at %v", setup, x)
		}
	}
}

func TestAdvectionSmoothTranslation(t *testing.T) {
	sys, err := New(Config{Problem: ProblemAdvection, Setup: AdvectionSmooth})
	require.NoError(t, err)
	// Unit speed: the profile at (x, t) equals the initial profile at x−t.
	for _, x := range []float64{0, 0.2, 0.55, 0.99} {
		got := sys.Exact(fem.Point{x, 0}, 0.3)
		want := sys.InitialValue(fem.Point{x - 0.3, 0})
		assert.InDelta(t, want, got, 1e-12)
	}
}

func TestAdvectionRotationPeriod(t *testing.T) {
	sys, err := New(Config{Problem: ProblemAdvection, Setup: AdvectionRotation})
	require.NoError(t, err)
	// Solid body rotation returns the hump after one unit of time.
	for _, x := range []fem.Point{{0.5, 0.75}, {0.45, 0.7}, {0.6, 0.8}} {
		assert.InDelta(t, sys.InitialValue(x), sys.Exact(x, 1), 1e-9)
	}
}

func TestExteriorState(t *testing.T) {
	sys, err := New(Config{Problem: ProblemAdvection, Setup: AdvectionRelaxation})
	require.NoError(t, err)
	// Velocity is (1, 0): the left face (outward normal −x) is inflow, the
	// right face (outward normal +x) is outflow.
	in := sys.ExteriorState(3.5, fem.Point{0, 0}, fem.Point{-1, 0}, 0)
	assert.Equal(t, relaxInflowValue, in)
	out := sys.ExteriorState(3.5, fem.Point{1, 0}, fem.Point{1, 0}, 0)
	assert.Equal(t, 3.5, out)
}

// TestWaveSpeedBound verifies the Lipschitz contract every scheme builds
// on: |FluxJump(uL,uR)| ≤ WaveSpeed(uL,uR)·|uR−uL|.
func TestWaveSpeedBound(t *testing.T) {
	systems := map[string]System{}
	for name, cfg := range map[string]Config{
		"advection/smooth":   {Problem: ProblemAdvection, Setup: AdvectionSmooth},
		"advection/rotation": {Problem: ProblemAdvection, Setup: AdvectionRotation},
		"burgers/square":     {Problem: ProblemBurgers, Setup: BurgersSquare},
	} {
		sys, err := New(cfg)
		require.NoError(t, err)
		systems[name] = sys
	}

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	for name, sys := range systems {
		sys := sys
		properties.Property(name, prop.ForAll(
			func(uL, uR, xx, xy, ang float64) bool {
				n := fem.Point{math.Cos(ang), math.Sin(ang)}
				if sys.Dim() == 1 {
					n = fem.Point{math.Cos(ang), 0}
				}
				x := fem.Point{xx, xy}
				jump := math.Abs(sys.FluxJump(uL, uR, n, x))
				lam := sys.WaveSpeed(uL, uR, n, x)
				return jump <= lam*math.Abs(uR-uL)*(1+1e-12)+1e-15
			},
			gen.Float64Range(-2, 2),
			gen.Float64Range(-2, 2),
			gen.Float64Range(0, 1),
			gen.Float64Range(0, 1),
			gen.Float64Range(0, 2*math.Pi),
		))
	}
	properties.TestingRun(t)
}

func TestErrorNorms(t *testing.T) {
	// A two-point assembly with known masses makes the norms exact by hand.
	sys, err := New(Config{Problem: ProblemAdvection, Setup: AdvectionSmooth})
	require.NoError(t, err)
	asm := stubAssembly{
		mass:   []float64{0.5, 0.5},
		coords: []fem.Point{{0.25, 0}, {0.75, 0}},
	}
	u := []float64{
		sys.Exact(asm.coords[0], 0) + 0.1,
		sys.Exact(asm.coords[1], 0) - 0.3,
	}
	errs := ComputeErrors(sys, asm, u, 1, 0)
	require.Len(t, errs, 3)
	assert.InDelta(t, 0.2, errs[0], 1e-12)
	assert.InDelta(t, math.Sqrt(0.05), errs[1], 1e-12)
	assert.InDelta(t, 0.3, errs[2], 1e-12)
}

func TestReportErrors(t *testing.T) {
	var buf bytes.Buffer
	logger.Set(zerolog.New(&buf))
	defer logger.Disable()

	ReportErrors([]float64{0.25, 0.5, 1})
	out := buf.String()
	assert.Contains(t, out, `"l1":0.25`)
	assert.Contains(t, out, `"l2":0.5`)
	assert.Contains(t, out, `"linf":1`)

	buf.Reset()
	ReportErrors([]float64{1, 2}) // wrong arity is dropped, not logged
	assert.Empty(t, buf.String())
}

type stubAssembly struct {
	mass   []float64
	coords []fem.Point
}

func (s stubAssembly) NumDofs() int                 { return len(s.mass) }
func (s stubAssembly) LumpedMass() []float64        { return s.mass }
func (s stubAssembly) Pairs() []fem.Pair            { return nil }
func (s stubAssembly) Boundary() []fem.BoundaryFace { return nil }
func (s stubAssembly) NodeCoord(i int) fem.Point    { return s.coords[i] }
func (s stubAssembly) DomainSize() float64          { return 1 }
