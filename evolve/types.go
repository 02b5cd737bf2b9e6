// Package evolve: scheme identifiers, sentinel errors and operator options.
package evolve

import (
	"errors"

	"github.com/katalvlaran/hypflow/bounds"
	"github.com/katalvlaran/hypflow/fem"
)

// Sentinel errors for operator construction and use.
var (
	// ErrNilSystem indicates a nil physics contract.
	ErrNilSystem = errors.New("evolve: system must not be nil")
	// ErrUnknownScheme indicates an unrecognized evolution scheme id.
	ErrUnknownScheme = errors.New("evolve: unknown evolution scheme")
	// ErrStencilRequired indicates the MCL scheme was selected without a
	// neighbor-bounds stencil.
	ErrStencilRequired = errors.New("evolve: MCL scheme requires a bounds stencil")
	// ErrExchangerRequired indicates a distributed assembly (half pairs or
	// ghost references) used with the Standard scheme but no exchanger.
	ErrExchangerRequired = errors.New("evolve: distributed assembly requires an exchanger")
	// ErrStateSize indicates a state or derivative vector of the wrong length.
	ErrStateSize = errors.New("evolve: vector length does not match dof count")
	// ErrNotSteadyState indicates ConvergenceCheck on a system that is not
	// steady-state-seeking.
	ErrNotSteadyState = errors.New("evolve: system is not steady-state-seeking")
	// ErrBadMass indicates a non-positive lumped mass entry.
	ErrBadMass = errors.New("evolve: lumped mass must be strictly positive")
	// ErrBadTimeStep indicates a non-positive time step.
	ErrBadTimeStep = errors.New("evolve: time step must be positive")
)

// Scheme selects how the time derivative is assembled.
type Scheme int

const (
	// Standard is the unlimited high-order finite element approximation.
	Standard Scheme = iota
	// MCL is monolithic convex limiting: low-order scheme plus the limited
	// antidiffusive correction.
	MCL
)

// String returns the scheme name for diagnostics.
func (s Scheme) String() string {
	switch s {
	case Standard:
		return "standard"
	case MCL:
		return "mcl"
	default:
		return "unknown"
	}
}

// Option configures an Operator.
type Option func(*Operator)

// WithScheme selects the evolution scheme (default Standard).
func WithScheme(s Scheme) Option {
	return func(o *Operator) { o.scheme = s }
}

// WithStencil attaches the neighbor-bounds stencil; required for MCL.
func WithStencil(st *bounds.Stencil) Option {
	return func(o *Operator) { o.sten = st }
}

// WithExchanger attaches the halo exchanger a distributed Standard-scheme
// operator needs. The MCL scheme exchanges through its stencil instead.
func WithExchanger(x fem.Exchanger) Option {
	return func(o *Operator) { o.exch = x }
}

// WithReducer attaches the collective reducer used by ConvergenceCheck and
// MaxStableStep in distributed runs (default fem.SerialReducer).
func WithReducer(r fem.Reducer) Option {
	return func(o *Operator) { o.red = r }
}
