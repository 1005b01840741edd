// Package ik implements iterative inverse kinematics solvers for open
// kinematic chains. Two solvers are provided: FABRIK, a position-based solver
// alternating forward and backward reaching passes, and CCD, a rotation-based
// solver sweeping pivots from the end effector toward the root. Both mutate a
// chain's joint positions in place to drive the end effector toward a target
// while preserving the chain's bone lengths.
package ik

import (
	"context"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/rigtools/chainik/kinematics"
	"github.com/rigtools/chainik/spatialmath"
)

const (
	// defaultEpsilon guards normalization of near-zero direction vectors.
	// Distances at or below this are treated as degenerate and the
	// corresponding sub-step is skipped for that pass rather than dividing
	// by a vanishing norm.
	defaultEpsilon = 1e-6

	// defaultTolerance is the end-effector-to-target distance below which a
	// solve is considered converged.
	defaultTolerance = 0.01

	defaultFABRIKIterations = 10
	defaultCCDIterations    = 15
)

var errNonFiniteTarget = errors.New("target position has a non-finite component")

// Limit represents angular limits of motion for a joint. Both solvers accept
// limits for API compatibility with constrained rigs, but neither currently
// enforces them.
type Limit struct {
	Min float64
	Max float64
}

// InverseKinematics is implemented by solvers which, given a chain and a goal
// position for its end effector, move the chain's joints in place to reach
// toward the goal. Solvers are stateless with respect to chains: one solver
// may solve many chains sequentially, but a single chain must not be handed
// to two concurrent Solve calls.
type InverseKinematics interface {
	// Solve mutates the chain's joint positions toward the target, stopping
	// early once the end effector is within the solver's tolerance of it.
	// Non-convergence within the iteration cap is not an error; the chain is
	// left in the best pose reached, and callers needing to know may compare
	// the final end effector position against the target themselves.
	Solve(ctx context.Context, chain *kinematics.KinematicChain, target r3.Vector, limits []Limit) error

	// LastSolveDuration returns the wall-clock duration of the most recent
	// Solve call, for benchmarking and telemetry. Scratch state: not safe to
	// read while another Solve is in flight on the same solver.
	LastSolveDuration() time.Duration
}

// validateSolve checks solver entry preconditions shared by FABRIK and CCD.
func validateSolve(chain *kinematics.KinematicChain, target r3.Vector) error {
	if chain == nil || chain.Len() < 2 {
		return kinematics.ErrShortChain
	}
	if !spatialmath.VectorIsFinite(target) {
		return errNonFiniteTarget
	}
	return nil
}
