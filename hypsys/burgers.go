package hypsys

import (
	"math"

	"github.com/katalvlaran/hypflow/fem"
)

// Burgers setups recognized by Problem 1.
const (
	// BurgersSquare is a 1-D periodic square wave between 0 and 1: the
	// discontinuous reference case for bound-preservation experiments.
	BurgersSquare = 0
)

// burgers is the inviscid Burgers equation u_t + (u²/2)_x = 0. The nonlinear
// flux steepens the leading edge of the square wave into a shock and spreads
// the trailing edge into a rarefaction; the exact solution is not tracked.
type burgers struct {
	setup int
}

func newBurgers(cfg Config) (System, error) {
	if cfg.Setup != BurgersSquare {
		return nil, ErrUnknownSetup
	}
	return &burgers{setup: cfg.Setup}, nil
}

func (b *burgers) Name() string { return "burgers" }

func (b *burgers) Dim() int { return 1 }

func (b *burgers) InitialValue(x fem.Point) float64 {
	xf := x[0] - math.Floor(x[0])
	if xf >= 0.25 && xf < 0.5 {
		return 1
	}
	return 0
}

func (b *burgers) FluxMean(uL, uR float64, n, x fem.Point) float64 {
	return n[0] * (uL*uL + uR*uR) / 4
}

func (b *burgers) FluxJump(uL, uR float64, n, x fem.Point) float64 {
	return n[0] * (uR*uR - uL*uL) / 2
}

// WaveSpeed bounds |f(uR)−f(uL)| / |uR−uL| = |uL+uR|/2 by the Rankine-
// Hugoniot speed max(|uL|, |uR|).
func (b *burgers) WaveSpeed(uL, uR float64, n, x fem.Point) float64 {
	return math.Abs(n[0]) * math.Max(math.Abs(uL), math.Abs(uR))
}

func (b *burgers) ExteriorState(u float64, x, n fem.Point, t float64) float64 {
	// All Burgers setups are periodic; transmissive fallback.
	return u
}

func (b *burgers) Exact(x fem.Point, t float64) float64 { return 0 }

func (b *burgers) Periodic() bool      { return true }
func (b *burgers) SteadyState() bool   { return false }
func (b *burgers) SolutionKnown() bool { return false }
func (b *burgers) FileOutput() bool    { return false }
