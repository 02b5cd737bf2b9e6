// Package config loads and validates the runtime settings of a hypflow
// run. Settings come from defaults, an optional YAML file, and flag
// overrides applied by the caller, in that order. Validation is strict:
// a bad combination is reported before any time stepping starts.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hypflow/hypsys"
)

// Sentinel errors for settings validation.
var (
	// ErrBadElements indicates a non-positive element count.
	ErrBadElements = errors.New("config: elements must be positive")
	// ErrBadFinalTime indicates a non-positive final time.
	ErrBadFinalTime = errors.New("config: final time must be positive")
	// ErrBadSolver indicates a solver id outside {1, 2, 3}.
	ErrBadSolver = errors.New("config: solver must be 1 (Euler), 2 (RK2) or 3 (RK3)")
	// ErrBadScheme indicates a scheme id outside {0, 1}.
	ErrBadScheme = errors.New("config: scheme must be 0 (standard) or 1 (mcl)")
	// ErrBadPrecision indicates an output precision outside [1, 17].
	ErrBadPrecision = errors.New("config: precision must be in [1, 17]")
	// ErrBadRanks indicates a non-positive rank count.
	ErrBadRanks = errors.New("config: ranks must be positive")
	// ErrBadVisSteps indicates a negative snapshot cadence.
	ErrBadVisSteps = errors.New("config: vis_steps must not be negative")
)

// Settings is the full runtime configuration of one run.
type Settings struct {
	Problem   int     `yaml:"problem"`  // 0 advection, 1 Burgers
	Setup     int     `yaml:"setup"`    // problem-specific scenario id
	Order     int     `yaml:"order"`    // polynomial order of the basis
	Elements  int     `yaml:"elements"` // elements per direction
	FinalTime float64 `yaml:"final_time"`
	TimeStep  float64 `yaml:"time_step"`
	Solver    int     `yaml:"solver"`    // 1 Euler, 2 SSP RK2, 3 SSP RK3
	VisSteps  int     `yaml:"vis_steps"` // snapshot cadence; 0 disables
	Scheme    int     `yaml:"scheme"`    // 0 standard, 1 mcl
	Precision int     `yaml:"precision"` // digits in file output
	Ranks     int     `yaml:"ranks"`     // 1 runs serial
	Output    string  `yaml:"output"`    // snapshot file prefix
}

// Default returns the settings of an unconfigured run: the smooth
// advection scenario on a modest mesh, third-order in space and time.
func Default() Settings {
	return Settings{
		Problem:   0,
		Setup:     1,
		Order:     3,
		Elements:  16,
		FinalTime: 1,
		TimeStep:  0.001,
		Solver:    3,
		VisSteps:  100,
		Scheme:    0,
		Precision: 8,
		Ranks:     1,
		Output:    "hypflow",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file
// keep their default values; unknown keys are rejected.
func Load(path string) (Settings, error) {
	s := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

// Validate checks every field range. Physics-level checks (unknown
// problem or setup ids) are left to hypsys.New.
func (s Settings) Validate() error {
	if s.Elements < 1 {
		return ErrBadElements
	}
	if s.Order < 1 {
		return hypsys.ErrBadOrder
	}
	if s.FinalTime <= 0 {
		return ErrBadFinalTime
	}
	if s.TimeStep <= 0 {
		return hypsys.ErrBadTimeStep
	}
	if s.Solver < 1 || s.Solver > 3 {
		return ErrBadSolver
	}
	if s.Scheme != 0 && s.Scheme != 1 {
		return ErrBadScheme
	}
	if s.Precision < 1 || s.Precision > 17 {
		return ErrBadPrecision
	}
	if s.Ranks < 1 {
		return ErrBadRanks
	}
	if s.VisSteps < 0 {
		return ErrBadVisSteps
	}
	return nil
}

// Hypsys maps the settings onto the physics-layer configuration.
func (s Settings) Hypsys() hypsys.Config {
	return hypsys.Config{
		Problem:   s.Problem,
		Setup:     s.Setup,
		Order:     s.Order,
		FinalTime: s.FinalTime,
		TimeStep:  s.TimeStep,
		Solver:    s.Solver,
		VisSteps:  s.VisSteps,
		Scheme:    s.Scheme,
		Precision: s.Precision,
	}
}
