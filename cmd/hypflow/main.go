// Command hypflow integrates a scalar hyperbolic conservation law with the
// standard or the bounds-preserving MCL evolution scheme, serially or
// partitioned across in-process ranks.
//
// Usage:
//
//	hypflow [-config run.yaml] [-p problem] [-c setup] [-o order]
//	        [-e elements] [-tf final] [-dt step] [-s solver]
//	        [-vs steps] [-es scheme] [-prec digits] [-ranks n] [-out prefix]
//
// Flags override the YAML file, which overrides the built-in defaults.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/katalvlaran/hypflow/bounds"
	"github.com/katalvlaran/hypflow/config"
	"github.com/katalvlaran/hypflow/evolve"
	"github.com/katalvlaran/hypflow/fem"
	"github.com/katalvlaran/hypflow/grid"
	"github.com/katalvlaran/hypflow/hypsys"
	"github.com/katalvlaran/hypflow/logger"
	"github.com/katalvlaran/hypflow/ode"
	"github.com/katalvlaran/hypflow/partition"
	"github.com/katalvlaran/hypflow/run"
)

func main() {
	if err := realMain(); err != nil {
		log := logger.Logger()
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func realMain() error {
	var (
		cfgPath = flag.String("config", "", "YAML settings file")
		prob    = flag.Int("p", 0, "problem: 0 advection, 1 Burgers")
		setup   = flag.Int("c", 1, "problem setup id")
		order   = flag.Int("o", 3, "polynomial order")
		elems   = flag.Int("e", 16, "elements per direction")
		tf      = flag.Float64("tf", 1, "final time")
		dt      = flag.Float64("dt", 0.001, "time step")
		solver  = flag.Int("s", 3, "solver: 1 Euler, 2 SSP RK2, 3 SSP RK3")
		vs      = flag.Int("vs", 100, "steps between snapshots; 0 disables")
		scheme  = flag.Int("es", 0, "evolution scheme: 0 standard, 1 mcl")
		prec    = flag.Int("prec", 8, "digits in file output")
		ranks   = flag.Int("ranks", 1, "in-process ranks; 1 runs serial")
		out     = flag.String("out", "hypflow", "snapshot file prefix")
	)
	flag.Parse()

	s := config.Default()
	if *cfgPath != "" {
		var err error
		if s, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			s.Problem = *prob
		case "c":
			s.Setup = *setup
		case "o":
			s.Order = *order
		case "e":
			s.Elements = *elems
		case "tf":
			s.FinalTime = *tf
		case "dt":
			s.TimeStep = *dt
		case "s":
			s.Solver = *solver
		case "vs":
			s.VisSteps = *vs
		case "es":
			s.Scheme = *scheme
		case "prec":
			s.Precision = *prec
		case "ranks":
			s.Ranks = *ranks
		case "out":
			s.Output = *out
		}
	})
	if err := s.Validate(); err != nil {
		return err
	}

	sys, err := hypsys.New(s.Hypsys())
	if err != nil {
		return err
	}
	var g *grid.Grid
	if sys.Dim() == 2 {
		g, err = grid.New2D(s.Elements, s.Elements, s.Order)
	} else {
		g, err = grid.New1D(s.Elements, s.Order, sys.Periodic())
	}
	if err != nil {
		return err
	}
	log := logger.Logger()
	log.Info().
		Str("system", sys.Name()).
		Int("setup", s.Setup).
		Int("dofs", g.NumDofs()).
		Int("order", s.Order).
		Str("scheme", evolve.Scheme(s.Scheme).String()).
		Int("ranks", s.Ranks).
		Msg("starting")

	u := make([]float64, g.NumDofs())
	for i := range u {
		u[i] = sys.InitialValue(g.NodeCoord(i))
	}

	var res run.Result
	if s.Ranks > 1 {
		res, err = marchPartitioned(sys, g, s, u)
	} else {
		res, err = marchSerial(sys, g, s, u)
	}
	if err != nil {
		return err
	}

	if sys.FileOutput() {
		path := fmt.Sprintf("%s_final.dat", s.Output)
		if err := writeSnapshot(path, g, u, s.Precision); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("final state written")
	}
	log.Info().
		Int("steps", res.Steps).
		Float64("time", res.Time).
		Float64("mass_drift", res.MassDrift).
		Bool("converged", res.Converged).
		Msg("done")
	return nil
}

// newOperator assembles the evolution operator of one execution context;
// asm must also satisfy fem.Topology when the MCL scheme is selected.
func newOperator(sys hypsys.System, asm fem.Assembly, sch evolve.Scheme,
	ex fem.Exchanger, red fem.Reducer) (*evolve.Operator, error) {
	opts := []evolve.Option{evolve.WithScheme(sch)}
	if red != nil {
		opts = append(opts, evolve.WithReducer(red))
	}
	if sch == evolve.MCL {
		top := asm.(fem.Topology)
		var bopts []bounds.Option
		if ex != nil {
			bopts = append(bopts, bounds.WithExchanger(ex))
		}
		st, err := bounds.New(top, bopts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, evolve.WithStencil(st))
	} else if ex != nil {
		opts = append(opts, evolve.WithExchanger(ex))
	}
	return evolve.New(sys, asm, opts...)
}

func marchSerial(sys hypsys.System, g *grid.Grid, s config.Settings, u []float64) (run.Result, error) {
	op, err := newOperator(sys, g, evolve.Scheme(s.Scheme), nil, nil)
	if err != nil {
		return run.Result{}, err
	}
	sol, err := ode.New(s.Solver, op)
	if err != nil {
		return run.Result{}, err
	}
	var opts []run.Option
	if sys.FileOutput() && s.VisSteps > 0 {
		opts = append(opts, run.WithSnapshot(func(step int, t float64, u []float64) error {
			return writeSnapshot(fmt.Sprintf("%s_%06d.dat", s.Output, step), g, u, s.Precision)
		}))
	}
	r, err := run.New(sys, g, op, sol, s.FinalTime, s.TimeStep, s.VisSteps, opts...)
	if err != nil {
		return run.Result{}, err
	}
	return r.March(u)
}

// marchPartitioned scatters the state over an in-process rank group, runs
// one Runner per rank and gathers the owned blocks back into u. Snapshot
// writing stays serial: only the gathered final state is persisted.
func marchPartitioned(sys hypsys.System, g *grid.Grid, s config.Settings, u []float64) (run.Result, error) {
	grp, err := partition.NewGroup(g, s.Ranks)
	if err != nil {
		return run.Result{}, err
	}
	parts, err := grp.Scatter(u)
	if err != nil {
		return run.Result{}, err
	}
	results := make([]run.Result, grp.Ranks())
	err = grp.Run(func(rank int, p *partition.Piece, ex fem.Exchanger, red fem.Reducer) error {
		op, err := newOperator(sys, p, evolve.Scheme(s.Scheme), ex, red)
		if err != nil {
			return err
		}
		sol, err := ode.New(s.Solver, op)
		if err != nil {
			return err
		}
		r, err := run.New(sys, p, op, sol, s.FinalTime, s.TimeStep, s.VisSteps,
			run.WithReducer(red))
		if err != nil {
			return err
		}
		results[rank], err = r.March(parts[rank])
		return err
	})
	if err != nil {
		return run.Result{}, err
	}
	if err := grp.Gather(u, parts); err != nil {
		return run.Result{}, err
	}
	return results[0], nil
}

// writeSnapshot persists one state snapshot as whitespace-separated
// "coords value" lines, one node per line.
func writeSnapshot(path string, asm fem.Assembly, u []float64, prec int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	defer f.Close()
	buf := make([]byte, 0, 64)
	for i, ui := range u {
		x := asm.NodeCoord(i)
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, x[0], 'g', prec, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, x[1], 'g', prec, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, ui, 'g', prec, 64)
		buf = append(buf, '\n')
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("snapshot %s: %w", path, err)
		}
	}
	return nil
}
