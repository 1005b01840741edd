package main

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/rigtools/chainik/ik"
)

const plotIterations = 15

// convergenceCurve returns the end-effector-to-target distance after each of
// 1..plotIterations iterations of a solver on the canonical arm. Solving is
// deterministic, so a fresh k-iteration solve reproduces the state after the
// k-th iteration.
func convergenceCurve(
	ctx context.Context,
	create func(maxIterations int) ik.InverseKinematics,
	target r3.Vector,
) (plotter.XYs, error) {
	curve := make(plotter.XYs, 0, plotIterations)
	for k := 1; k <= plotIterations; k++ {
		chain, err := benchChain()
		if err != nil {
			return nil, err
		}
		if err := create(k).Solve(ctx, chain, target, nil); err != nil {
			return nil, err
		}
		dist := chain.EndEffector().Position.Sub(target).Norm()
		curve = append(curve, plotter.XY{X: float64(k), Y: dist})
	}
	return curve, nil
}

// writeConvergencePlot renders per-iteration convergence of both solvers
// toward a fixed reachable target. Tolerance is set near zero so every solve
// runs its full iteration budget.
func writeConvergencePlot(ctx context.Context, args Arguments, logger golog.Logger) error {
	target := r3.Vector{X: 1.5, Y: 0.5}

	fabrikCurve, err := convergenceCurve(ctx, func(maxIterations int) ik.InverseKinematics {
		return ik.CreateFABRIKSolver(logger, 1e-12, maxIterations)
	}, target)
	if err != nil {
		return err
	}
	ccdCurve, err := convergenceCurve(ctx, func(maxIterations int) ik.InverseKinematics {
		return ik.CreateCCDSolver(logger, 1e-12, maxIterations)
	}, target)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "IK solver convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "distance to target"
	if err := plotutil.AddLinePoints(p, "FABRIK", fabrikCurve, "CCD", ccdCurve); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, args.PlotFile)
}
