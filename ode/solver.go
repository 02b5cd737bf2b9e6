package ode

import (
	"errors"
	"math"
)

// Sentinel errors for solver construction and stepping.
var (
	// ErrUnknownSolver indicates an unrecognized integrator id.
	ErrUnknownSolver = errors.New("ode: unknown solver id")
	// ErrNilRHS indicates a nil right-hand side.
	ErrNilRHS = errors.New("ode: right-hand side must not be nil")
	// ErrBadTimeStep indicates a non-positive or non-finite time step.
	ErrBadTimeStep = errors.New("ode: time step must be positive and finite")
)

// RightHandSide produces the time derivative of a state snapshot. The
// evolution operator satisfies this contract directly.
type RightHandSide interface {
	ComputeDerivative(dst, u []float64, t float64) error
}

// Integrator ids, matching the solver selector of the runtime configuration.
const (
	// ForwardEuler is the single-stage first-order method.
	ForwardEuler = 1
	// SSPRK2 is Heun's two-stage second-order SSP method.
	SSPRK2 = 2
	// SSPRK3 is the three-stage third-order Shu-Osher SSP method.
	SSPRK3 = 3
)

// Solver advances a state vector with a fixed SSP integrator. Stage
// scratch is owned by the solver and reused across steps.
type Solver struct {
	rhs  RightHandSide
	kind int

	du []float64
	u1 []float64
	u2 []float64
}

// New builds a Solver of the given integrator id over a right-hand side.
func New(kind int, rhs RightHandSide) (*Solver, error) {
	if rhs == nil {
		return nil, ErrNilRHS
	}
	switch kind {
	case ForwardEuler, SSPRK2, SSPRK3:
		return &Solver{rhs: rhs, kind: kind}, nil
	default:
		return nil, ErrUnknownSolver
	}
}

// Kind returns the integrator id.
func (s *Solver) Kind() int { return s.kind }

// Stages returns the number of derivative evaluations per step.
func (s *Solver) Stages() int { return s.kind }

func (s *Solver) grow(n int) {
	if len(s.du) == n {
		return
	}
	s.du = make([]float64, n)
	if s.kind >= SSPRK2 {
		s.u1 = make([]float64, n)
	}
	if s.kind >= SSPRK3 {
		s.u2 = make([]float64, n)
	}
}

// Step advances u in place from t to t+dt and returns the new time. Each
// stage is the forward-Euler update of the previous stage, recombined with
// the SSP convex coefficients of the method.
func (s *Solver) Step(u []float64, t, dt float64) (float64, error) {
	if dt <= 0 || math.IsInf(dt, 0) || math.IsNaN(dt) {
		return t, ErrBadTimeStep
	}
	s.grow(len(u))
	switch s.kind {
	case SSPRK2:
		if err := s.rhs.ComputeDerivative(s.du, u, t); err != nil {
			return t, err
		}
		for i := range u {
			s.u1[i] = u[i] + dt*s.du[i]
		}
		if err := s.rhs.ComputeDerivative(s.du, s.u1, t+dt); err != nil {
			return t, err
		}
		for i := range u {
			u[i] = 0.5*u[i] + 0.5*(s.u1[i]+dt*s.du[i])
		}
	case SSPRK3:
		if err := s.rhs.ComputeDerivative(s.du, u, t); err != nil {
			return t, err
		}
		for i := range u {
			s.u1[i] = u[i] + dt*s.du[i]
		}
		if err := s.rhs.ComputeDerivative(s.du, s.u1, t+dt); err != nil {
			return t, err
		}
		for i := range u {
			s.u2[i] = 0.75*u[i] + 0.25*(s.u1[i]+dt*s.du[i])
		}
		if err := s.rhs.ComputeDerivative(s.du, s.u2, t+0.5*dt); err != nil {
			return t, err
		}
		for i := range u {
			u[i] = u[i]/3 + 2*(s.u2[i]+dt*s.du[i])/3
		}
	default: // ForwardEuler
		if err := s.rhs.ComputeDerivative(s.du, u, t); err != nil {
			return t, err
		}
		for i := range u {
			u[i] += dt * s.du[i]
		}
	}
	return t + dt, nil
}
