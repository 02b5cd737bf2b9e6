package run

import (
	"errors"
	"math"

	"github.com/katalvlaran/hypflow/evolve"
	"github.com/katalvlaran/hypflow/fem"
	"github.com/katalvlaran/hypflow/hypsys"
	"github.com/katalvlaran/hypflow/logger"
	"github.com/katalvlaran/hypflow/ode"
)

// DefaultSteadyTolerance stops a steady-state march once the
// mass-weighted residual falls below it.
const DefaultSteadyTolerance = 1e-12

// Sentinel errors for runner construction.
var (
	// ErrNilOperator indicates a nil evolution operator.
	ErrNilOperator = errors.New("run: operator must not be nil")
	// ErrNilSolver indicates a nil time integrator.
	ErrNilSolver = errors.New("run: solver must not be nil")
)

// SnapshotFunc receives periodic state snapshots during the march. The
// state slice is live; implementations must copy what they keep.
type SnapshotFunc func(step int, t float64, u []float64) error

// Result summarizes one completed march.
type Result struct {
	Steps     int
	Time      float64
	Converged bool    // steady-state runs only
	Residual  float64 // last steady-state residual, 0 otherwise
	MassDrift float64 // |final - initial| total mass per unit of domain, globally reduced
	Errors    []float64
}

// Option configures a Runner.
type Option func(*Runner)

// WithSnapshot installs the periodic snapshot sink.
func WithSnapshot(fn SnapshotFunc) Option {
	return func(r *Runner) { r.snap = fn }
}

// WithSteadyTolerance overrides the steady-state stopping tolerance.
func WithSteadyTolerance(tol float64) Option {
	return func(r *Runner) { r.steadyTol = tol }
}

// WithReducer attaches the collective reducer of a partitioned run
// (default fem.SerialReducer).
func WithReducer(red fem.Reducer) Option {
	return func(r *Runner) { r.red = red }
}

// Runner marches one state vector through time.
type Runner struct {
	sys hypsys.System
	asm fem.Assembly
	op  *evolve.Operator
	sol *ode.Solver
	red fem.Reducer

	finalTime float64
	timeStep  float64
	visSteps  int
	steadyTol float64
	snap      SnapshotFunc
}

// New builds a Runner. finalTime and timeStep must already be validated
// by the configuration layer.
func New(sys hypsys.System, asm fem.Assembly, op *evolve.Operator, sol *ode.Solver,
	finalTime, timeStep float64, visSteps int, opts ...Option) (*Runner, error) {
	if sys == nil {
		return nil, evolve.ErrNilSystem
	}
	if asm == nil {
		return nil, fem.ErrNilAssembly
	}
	if op == nil {
		return nil, ErrNilOperator
	}
	if sol == nil {
		return nil, ErrNilSolver
	}
	if finalTime <= 0 || timeStep <= 0 {
		return nil, hypsys.ErrBadTimeStep
	}
	r := &Runner{
		sys:       sys,
		asm:       asm,
		op:        op,
		sol:       sol,
		red:       fem.SerialReducer{},
		finalTime: finalTime,
		timeStep:  timeStep,
		visSteps:  visSteps,
		steadyTol: DefaultSteadyTolerance,
	}
	for _, opt := range opts {
		opt(r)
	}
	if sys.SteadyState() && sol.Kind() != ode.ForwardEuler {
		log := logger.Logger()
		log.Warn().
			Int("solver", sol.Kind()).
			Msg("steady-state run with a multi-stage integrator; residual measures the whole step, not a stage")
	}
	return r, nil
}

// totalMass returns the globally reduced lumped-mass weighted sum of u.
func (r *Runner) totalMass(u []float64) (float64, error) {
	var sum float64
	for i, m := range r.asm.LumpedMass() {
		sum += m * u[i]
	}
	return r.red.SumAll(sum)
}

// March advances u in place from t = 0 until the final time, or until the
// steady-state residual drops below the tolerance. The last step is
// clipped so the march lands on the final time exactly.
func (r *Runner) March(u []float64) (Result, error) {
	log := logger.Logger()
	res := Result{}
	mass0, err := r.totalMass(u)
	if err != nil {
		return res, err
	}
	if r.snap != nil {
		if err := r.snap(0, 0, u); err != nil {
			return res, err
		}
	}

	steady := r.sys.SteadyState()
	t := 0.0
	for t < r.finalTime {
		dt := r.timeStep
		if t+dt > r.finalTime {
			dt = r.finalTime - t
		}
		if t, err = r.sol.Step(u, t, dt); err != nil {
			return res, err
		}
		res.Steps++

		if steady {
			res.Residual, err = r.op.ConvergenceCheck(dt, u)
			if err != nil {
				return res, err
			}
			if res.Residual < r.steadyTol {
				res.Converged = true
				copy(u, r.op.UOld())
				log.Info().
					Int("steps", res.Steps).
					Float64("residual", res.Residual).
					Msg("steady state reached")
			}
		}
		if r.snap != nil && r.visSteps > 0 && res.Steps%r.visSteps == 0 {
			if err := r.snap(res.Steps, t, u); err != nil {
				return res, err
			}
			if steady {
				log.Debug().
					Int("steps", res.Steps).
					Float64("residual", res.Residual).
					Msg("steady-state residual")
			}
		}
		if res.Converged {
			break
		}
	}
	res.Time = t

	mass1, err := r.totalMass(u)
	if err != nil {
		return res, err
	}
	res.MassDrift = math.Abs(mass1-mass0) / r.asm.DomainSize()
	log.Info().
		Int("steps", res.Steps).
		Float64("time", res.Time).
		Float64("mass_drift", res.MassDrift).
		Msg("march finished")

	if r.sys.SolutionKnown() {
		if res.Errors, err = r.errorNorms(u, res.Time); err != nil {
			return res, err
		}
		log.Info().
			Float64("l1", res.Errors[0]).
			Float64("l2", res.Errors[1]).
			Float64("linf", res.Errors[2]).
			Msg("error norms")
	}
	return res, nil
}

// errorNorms reduces the local error sums across ranks and finalizes the
// L1, L2 and Linf norms against the known solution at time t.
func (r *Runner) errorNorms(u []float64, t float64) ([]float64, error) {
	sumAbs, sumSq, maxAbs := hypsys.ErrorSums(r.sys, r.asm, u, t)
	var err error
	if sumAbs, err = r.red.SumAll(sumAbs); err != nil {
		return nil, err
	}
	if sumSq, err = r.red.SumAll(sumSq); err != nil {
		return nil, err
	}
	if maxAbs, err = r.red.MaxAll(maxAbs); err != nil {
		return nil, err
	}
	return hypsys.FinalizeErrors(sumAbs, sumSq, maxAbs, r.asm.DomainSize()), nil
}
