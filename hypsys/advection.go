package hypsys

import (
	"math"

	"github.com/katalvlaran/hypflow/fem"
)

// Advection setups recognized by Problem 0.
const (
	// AdvectionSmooth is 1-D translation of a smooth periodic profile at
	// unit speed; the exact solution is the shifted initial data.
	AdvectionSmooth = 0
	// AdvectionRotation is 2-D solid body rotation of a cosine hump about
	// the domain center; the profile returns to its initial position at
	// every integer time.
	AdvectionRotation = 1
	// AdvectionRelaxation is 1-D transport with a constant inflow value on
	// a non-periodic domain; marching in pseudo-time relaxes the solution
	// to the constant inflow state.
	AdvectionRelaxation = 2
)

const (
	rotationHumpRadius = 0.15
	relaxInflowValue   = 1.0
)

// advection is linear transport u_t + div(v(x)·u) = 0 with a setup-dependent
// velocity field. The velocity is evaluated at the pair midpoint, so the
// wave-speed bound is exact: |FluxJump| = WaveSpeed·|uR−uL|.
type advection struct {
	setup int
}

func newAdvection(cfg Config) (System, error) {
	switch cfg.Setup {
	case AdvectionSmooth, AdvectionRotation, AdvectionRelaxation:
		return &advection{setup: cfg.Setup}, nil
	default:
		return nil, ErrUnknownSetup
	}
}

func (a *advection) Name() string { return "advection" }

func (a *advection) Dim() int {
	if a.setup == AdvectionRotation {
		return 2
	}
	return 1
}

// velocity returns the transport field at x.
func (a *advection) velocity(x fem.Point) fem.Point {
	if a.setup == AdvectionRotation {
		// Solid body rotation about (1/2, 1/2), one revolution per unit time.
		return fem.Point{2 * math.Pi * (0.5 - x[1]), 2 * math.Pi * (x[0] - 0.5)}
	}
	return fem.Point{1, 0}
}

func (a *advection) InitialValue(x fem.Point) float64 {
	switch a.setup {
	case AdvectionRotation:
		return rotationHump(x[0], x[1])
	case AdvectionRelaxation:
		// Inflow value plus a smooth transient bump.
		return relaxInflowValue + smoothBump(x[0])
	default:
		return smoothBump(x[0])
	}
}

func (a *advection) FluxMean(uL, uR float64, n, x fem.Point) float64 {
	v := a.velocity(x)
	return (v[0]*n[0] + v[1]*n[1]) * (uL + uR) / 2
}

func (a *advection) FluxJump(uL, uR float64, n, x fem.Point) float64 {
	v := a.velocity(x)
	return (v[0]*n[0] + v[1]*n[1]) * (uR - uL)
}

func (a *advection) WaveSpeed(uL, uR float64, n, x fem.Point) float64 {
	v := a.velocity(x)
	return math.Abs(v[0]*n[0] + v[1]*n[1])
}

func (a *advection) ExteriorState(u float64, x, n fem.Point, t float64) float64 {
	v := a.velocity(x)
	if v[0]*n[0]+v[1]*n[1] < 0 {
		// Inflow face.
		return relaxInflowValue
	}
	return u
}

func (a *advection) Exact(x fem.Point, t float64) float64 {
	switch a.setup {
	case AdvectionSmooth:
		return smoothBump(x[0] - t)
	case AdvectionRotation:
		// Rotate the evaluation point backwards by the elapsed angle.
		ang := 2 * math.Pi * t
		dx, dy := x[0]-0.5, x[1]-0.5
		c, s := math.Cos(-ang), math.Sin(-ang)
		return rotationHump(0.5+c*dx-s*dy, 0.5+s*dx+c*dy)
	default:
		return 0
	}
}

func (a *advection) Periodic() bool      { return a.setup != AdvectionRelaxation }
func (a *advection) SteadyState() bool   { return a.setup == AdvectionRelaxation }
func (a *advection) SolutionKnown() bool { return a.setup != AdvectionRelaxation }
func (a *advection) FileOutput() bool    { return a.setup == AdvectionRotation }

// smoothBump is the 1-periodic profile (1−cos(2πx))/2, ranging over [0,1].
func smoothBump(x float64) float64 {
	return 0.5 * (1 - math.Cos(2*math.Pi*(x-math.Floor(x))))
}

// rotationHump is a cosine hump of radius rotationHumpRadius centered at
// (1/2, 3/4), ranging over [0,1] and identically zero outside the support.
func rotationHump(x, y float64) float64 {
	dx, dy := x-0.5, y-0.75
	r := math.Sqrt(dx*dx+dy*dy) / rotationHumpRadius
	if r >= 1 {
		return 0
	}
	return 0.5 * (1 + math.Cos(math.Pi*r))
}
