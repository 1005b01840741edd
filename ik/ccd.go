package ik

import (
	"context"
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/rigtools/chainik/kinematics"
	"github.com/rigtools/chainik/spatialmath"
)

// CCDSolver solves inverse kinematics with cyclic coordinate descent. Each
// iteration sweeps pivot joints from the second-to-last joint down to the
// root; at each pivot the sub-chain beyond it is rigidly rotated about the
// pivot so the end effector swings toward the target. Rigid rotation about
// the pivot preserves every inter-joint distance in the rotated sub-chain.
//
// Rotation is fully three dimensional: the axis is the cross product of the
// pivot-to-effector and pivot-to-target directions. Planar chains kept at
// Z=0 stay planar, since that cross product lies along Z.
//
// CCD has no special case for unreachable targets; rigid rotation cannot
// extend total reach, so the solver settles at the closest achievable pose
// within its iteration cap.
type CCDSolver struct {
	tolerance     float64
	maxIterations int
	logger        golog.Logger

	lastSolveDuration   time.Duration
	lastSolveIterations int
}

// CreateCCDSolver creates a CCD solver with the given convergence tolerance
// and iteration cap. Non-positive values select the defaults (0.01 length
// units, 15 iterations).
func CreateCCDSolver(logger golog.Logger, tolerance float64, maxIterations int) *CCDSolver {
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	if maxIterations < 1 {
		maxIterations = defaultCCDIterations
	}
	return &CCDSolver{tolerance: tolerance, maxIterations: maxIterations, logger: logger}
}

// Solve mutates the chain's joint positions toward the target. The context is
// checked between iterations; see FABRIKSolver.Solve for the cancellation
// contract, which is identical.
func (s *CCDSolver) Solve(
	ctx context.Context,
	chain *kinematics.KinematicChain,
	target r3.Vector,
	limits []Limit,
) error {
	start := time.Now()
	if err := validateSolve(chain, target); err != nil {
		return err
	}

	end := chain.EndEffector()
	iterations := 0
	for i := 0; i < s.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			s.finish(start, iterations)
			return err
		}
		iterations++

		for pivot := chain.Len() - 2; pivot >= 0; pivot-- {
			s.rotatePivot(chain, pivot, target)
		}

		if end.Position.Sub(target).Norm() < s.tolerance {
			break
		}
	}
	s.finish(start, iterations)
	return nil
}

// rotatePivot rotates the sub-chain beyond the pivot so the end effector
// swings toward the target, skipping degenerate configurations.
func (s *CCDSolver) rotatePivot(chain *kinematics.KinematicChain, pivot int, target r3.Vector) {
	pivotPos := chain.Joint(pivot).Position
	toEnd := chain.EndEffector().Position.Sub(pivotPos)
	toTarget := target.Sub(pivotPos)

	// Pivot coincident with effector or target: no defined rotation.
	if toEnd.Norm() <= defaultEpsilon || toTarget.Norm() <= defaultEpsilon {
		return
	}
	toEnd = toEnd.Normalize()
	toTarget = toTarget.Normalize()

	// Clamp to guard floating-point overshoot before the inverse cosine.
	cosAngle := toEnd.Dot(toTarget)
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	angle := math.Acos(cosAngle)
	if angle <= defaultEpsilon {
		return
	}

	axis := toEnd.Cross(toTarget)
	if axis.Norm() <= defaultEpsilon {
		if cosAngle > 0 {
			// Directions already aligned.
			return
		}
		// Anti-parallel: any axis perpendicular to the effector direction
		// gives a well-defined half-turn.
		axis = toEnd.Ortho()
	}

	rotateJoints(chain, pivot, axis, angle)
}

// rotateJoints rigidly rotates every joint beyond the pivot about the pivot
// by angle radians around the given axis.
func rotateJoints(chain *kinematics.KinematicChain, pivot int, axis r3.Vector, angle float64) {
	pivotPos := chain.Joint(pivot).Position
	q := spatialmath.R4AAFromAxisAngle(axis, angle).ToQuat()
	for i := pivot + 1; i < chain.Len(); i++ {
		joint := chain.Joint(i)
		joint.Position = pivotPos.Add(spatialmath.RotateVector(q, joint.Position.Sub(pivotPos)))
	}
}

// LastSolveDuration returns the wall-clock duration of the most recent Solve call.
func (s *CCDSolver) LastSolveDuration() time.Duration {
	return s.lastSolveDuration
}

// LastSolveIterations returns the number of iterations the most recent Solve call ran.
func (s *CCDSolver) LastSolveIterations() int {
	return s.lastSolveIterations
}

func (s *CCDSolver) finish(start time.Time, iterations int) {
	s.lastSolveDuration = time.Since(start)
	s.lastSolveIterations = iterations
	if s.logger != nil {
		s.logger.Debugf("ccd solve ran %d iterations in %s", iterations, s.lastSolveDuration)
	}
}
