package ik

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/rigtools/chainik/kinematics"
)

// FABRIKSolver solves inverse kinematics with the FABRIK algorithm, which
// alternates a forward reaching pass (end effector snapped to the target,
// corrections propagated toward the root) with a backward reaching pass
// (root snapped back to its anchor, corrections propagated toward the end
// effector). Every reposition re-imposes the fixed bone length between the
// joint pair it touches, so bone lengths are preserved by construction on
// every pass; only the end-effector-to-target distance converges iteratively.
//
// Reference: Aristidou, A., & Lasenby, J. (2011),
// "FABRIK: A fast, iterative solver for the Inverse Kinematics problem".
type FABRIKSolver struct {
	tolerance     float64
	maxIterations int
	logger        golog.Logger

	lastSolveDuration   time.Duration
	lastSolveIterations int
}

// CreateFABRIKSolver creates a FABRIK solver with the given convergence
// tolerance and iteration cap. Non-positive values select the defaults
// (0.01 length units, 10 iterations).
func CreateFABRIKSolver(logger golog.Logger, tolerance float64, maxIterations int) *FABRIKSolver {
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	if maxIterations < 1 {
		maxIterations = defaultFABRIKIterations
	}
	return &FABRIKSolver{tolerance: tolerance, maxIterations: maxIterations, logger: logger}
}

// Solve mutates the chain's joint positions toward the target. An unreachable
// target is not an error: the end effector is first placed on the straight
// line from the root at full reach, and iteration then straightens the rest
// of the chain along that line. The context is checked between iterations, so
// a cancellation or deadline takes effect at an iteration boundary with the
// chain left in a valid, bone-length-preserving pose.
func (s *FABRIKSolver) Solve(
	ctx context.Context,
	chain *kinematics.KinematicChain,
	target r3.Vector,
	limits []Limit,
) error {
	start := time.Now()
	if err := validateSolve(chain, target); err != nil {
		return err
	}

	root := chain.Root()
	end := chain.EndEffector()

	if !chain.IsReachable(target) {
		// Target out of reach: stretch the end effector toward it at full
		// reach before iterating. A target coincident with the root leaves
		// the end effector where it is (degenerate direction).
		toTarget := target.Sub(root.Position)
		if dist := toTarget.Norm(); dist > defaultEpsilon {
			end.Position = root.Position.Add(toTarget.Mul(chain.TotalLength() / dist))
		}
	}

	anchor := root.Position
	iterations := 0
	for i := 0; i < s.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			s.finish(start, iterations)
			return err
		}
		iterations++

		// Forward reaching pass: effector to root.
		end.Position = target
		for j := chain.Len() - 2; j >= 0; j-- {
			joint := chain.Joint(j)
			next := chain.Joint(j + 1)
			toJoint := joint.Position.Sub(next.Position)
			if dist := toJoint.Norm(); dist > defaultEpsilon {
				joint.Position = next.Position.Add(toJoint.Mul(chain.BoneLength(j) / dist))
			}
		}

		// Backward reaching pass: root to effector.
		root.Position = anchor
		for j := 0; j < chain.Len()-1; j++ {
			joint := chain.Joint(j)
			next := chain.Joint(j + 1)
			toNext := next.Position.Sub(joint.Position)
			if dist := toNext.Norm(); dist > defaultEpsilon {
				next.Position = joint.Position.Add(toNext.Mul(chain.BoneLength(j) / dist))
			}
		}

		if end.Position.Sub(target).Norm() < s.tolerance {
			break
		}
	}
	s.finish(start, iterations)
	return nil
}

// LastSolveDuration returns the wall-clock duration of the most recent Solve call.
func (s *FABRIKSolver) LastSolveDuration() time.Duration {
	return s.lastSolveDuration
}

// LastSolveIterations returns the number of iterations the most recent Solve call ran.
func (s *FABRIKSolver) LastSolveIterations() int {
	return s.lastSolveIterations
}

func (s *FABRIKSolver) finish(start time.Time, iterations int) {
	s.lastSolveDuration = time.Since(start)
	s.lastSolveIterations = iterations
	if s.logger != nil {
		s.logger.Debugf("fabrik solve ran %d iterations in %s", iterations, s.lastSolveDuration)
	}
}
