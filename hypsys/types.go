// Package hypsys: configuration surface, sentinel errors and the System
// capability interface.
package hypsys

import (
	"errors"

	"github.com/katalvlaran/hypflow/fem"
)

// Sentinel errors for physics construction. All of them are fatal
// configuration errors: they abort the run before the time loop starts.
var (
	// ErrUnknownProblem indicates an unrecognized hyperbolic system id.
	ErrUnknownProblem = errors.New("hypsys: unknown hyperbolic system")
	// ErrUnknownSetup indicates an unrecognized problem setup id.
	ErrUnknownSetup = errors.New("hypsys: unknown problem setup")
	// ErrBadOrder indicates a non-positive polynomial order.
	ErrBadOrder = errors.New("hypsys: polynomial order must be at least 1")
	// ErrBadTimeStep indicates a non-positive time step or final time.
	ErrBadTimeStep = errors.New("hypsys: time step and final time must be positive")
)

// Problem identifiers recognized by New.
const (
	// ProblemAdvection selects linear transport u_t + div(v·u) = 0.
	ProblemAdvection = 0
	// ProblemBurgers selects the inviscid Burgers equation u_t + div(u²/2) = 0.
	ProblemBurgers = 1
)

// Evolution scheme identifiers (the -e option of the driver).
const (
	// SchemeStandard is the unlimited high-order approximation.
	SchemeStandard = 0
	// SchemeMCL is monolithic convex limiting.
	SchemeMCL = 1
)

// Config is the recognized option surface of a run, passed in as a plain
// structure. The numeric identifiers mirror the driver flags: Problem (-p),
// Setup (-c), Order (-o), Solver (-s: 1 Euler, 2 SSP RK2, 3 SSP RK3),
// Scheme (-e: 0 Standard, 1 MCL).
type Config struct {
	Problem   int
	Setup     int
	Order     int
	FinalTime float64
	TimeStep  float64
	Solver    int
	VisSteps  int
	Scheme    int
	Precision int
}

// System is the physics contract: everything the evolution operator and the
// run orchestrator need to know about one conservation law. Implementations
// are pure — no mutable state beyond construction-time configuration.
type System interface {
	// Name returns a short human-readable identifier for diagnostics.
	Name() string

	// Dim returns the spatial dimension (1 or 2) of this setup.
	Dim() int

	// InitialValue returns the deterministic initial state at node x.
	InitialValue(x fem.Point) float64

	// FluxMean returns n·(f(uL)+f(uR))/2, the central flux through a pair
	// with unit normal n at midpoint x.
	FluxMean(uL, uR float64, n, x fem.Point) float64

	// FluxJump returns n·(f(uR)−f(uL)).
	FluxJump(uL, uR float64, n, x fem.Point) float64

	// WaveSpeed returns an upper bound on the signal speed across the pair:
	// |FluxJump(uL,uR,n,x)| ≤ WaveSpeed(uL,uR,n,x)·|uR−uL| must hold for
	// all admissible states, and the bound must vanish only where the
	// normal flux is state-independent.
	WaveSpeed(uL, uR float64, n, x fem.Point) float64

	// Periodic reports whether this setup lives on a periodic domain. The
	// driver meshes periodic setups without boundary faces.
	Periodic() bool

	// ExteriorState returns the state just outside a domain-boundary face
	// with outward normal n: the prescribed inflow value where the flow
	// enters, and the interior value u (transmissive) where it leaves.
	// Periodic setups are never asked.
	ExteriorState(u float64, x, n fem.Point, t float64) float64

	// Exact returns the known exact solution at (x, t). Only meaningful
	// when SolutionKnown reports true.
	Exact(x fem.Point, t float64) float64

	// SteadyState reports whether the physically meaningful answer is the
	// fixed point of pseudo-time marching.
	SteadyState() bool

	// SolutionKnown reports whether Exact is available for error norms.
	SolutionKnown() bool

	// FileOutput reports whether the driver should persist snapshots.
	FileOutput() bool
}

// New dispatches the (Problem, Setup) pair of cfg to a concrete System.
// Unknown identifiers return ErrUnknownProblem or ErrUnknownSetup.
func New(cfg Config) (System, error) {
	switch cfg.Problem {
	case ProblemAdvection:
		return newAdvection(cfg)
	case ProblemBurgers:
		return newBurgers(cfg)
	default:
		return nil, ErrUnknownProblem
	}
}
