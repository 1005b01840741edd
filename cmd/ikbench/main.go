// Package main is a command that benchmarks the FABRIK and CCD solvers
// against each other on randomized targets and reports timing statistics.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rigtools/chainik/ik"
	"github.com/rigtools/chainik/kinematics"
)

var logger = golog.NewDevelopmentLogger("ikbench")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Trials    int     `flag:"trials,default=100,usage=number of benchmark trials per solver"`
	Seed      int64   `flag:"seed,default=1,usage=seed for random target generation"`
	PlotFile  string  `flag:"plot,usage=write a convergence curve PNG to this path"`
	Tolerance float64 `flag:"tolerance,default=0.01,usage=solver convergence tolerance"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Trials < 1 {
		argsParsed.Trials = 100
	}

	fabrikMillis, err := runTrials(ctx, argsParsed, fabrikFactory)
	if err != nil {
		return err
	}
	ccdMillis, err := runTrials(ctx, argsParsed, ccdFactory)
	if err != nil {
		return err
	}

	report("FABRIK", fabrikMillis)
	report("CCD", ccdMillis)
	fmt.Printf("FABRIK is %.2fx faster\n", stat.Mean(ccdMillis, nil)/stat.Mean(fabrikMillis, nil))

	if argsParsed.PlotFile != "" {
		if err := writeConvergencePlot(ctx, argsParsed, logger); err != nil {
			return err
		}
		logger.Infof("wrote convergence plot to %s", argsParsed.PlotFile)
	}
	return nil
}

func fabrikFactory(logger golog.Logger, tolerance float64) ik.InverseKinematics {
	return ik.CreateFABRIKSolver(logger, tolerance, 10)
}

func ccdFactory(logger golog.Logger, tolerance float64) ik.InverseKinematics {
	return ik.CreateCCDSolver(logger, tolerance, 15)
}

// benchChain is the canonical 3-joint test arm: bone lengths 1 and 1,
// total reach 2 from the origin.
func benchChain() (*kinematics.KinematicChain, error) {
	return kinematics.NewKinematicChain([]*kinematics.Joint{
		kinematics.NewJoint(r3.Vector{X: 0, Y: 0}, "shoulder"),
		kinematics.NewJoint(r3.Vector{X: 1, Y: 0}, "elbow"),
		kinematics.NewJoint(r3.Vector{X: 2, Y: 0}, "wrist"),
	})
}

// runTrials solves the canonical arm toward random planar targets, split
// across workers. Each worker gets its own solver instance; the last-solve
// duration field is per-solver scratch state.
func runTrials(
	ctx context.Context,
	args Arguments,
	factory func(golog.Logger, float64) ik.InverseKinematics,
) ([]float64, error) {
	targets := make([]r3.Vector, args.Trials)
	rnd := rand.New(rand.NewSource(args.Seed))
	for i := range targets {
		targets[i] = r3.Vector{X: rnd.Float64() * 2, Y: rnd.Float64() * 2}
	}

	millis := make([]float64, args.Trials)
	errs := make([]error, args.Trials)

	nWorkers := runtime.NumCPU()
	if nWorkers > args.Trials {
		nWorkers = args.Trials
	}
	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		workerID := w
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			solver := factory(logger, args.Tolerance)
			for i := workerID; i < args.Trials; i += nWorkers {
				chain, err := benchChain()
				if err != nil {
					errs[i] = err
					return
				}
				if err := solver.Solve(ctx, chain, targets[i], nil); err != nil {
					errs[i] = err
					return
				}
				millis[i] = float64(solver.LastSolveDuration().Nanoseconds()) / 1e6
			}
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return millis, nil
}

func report(name string, millis []float64) {
	fmt.Printf("%s average: %.4fms\n", name, stat.Mean(millis, nil))
	fmt.Printf("%s std dev: %.4fms\n", name, stat.StdDev(millis, nil))
	fmt.Printf("%s min/max: %.4fms / %.4fms\n\n", name, floats.Min(millis), floats.Max(millis))
}
