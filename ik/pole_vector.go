package ik

import (
	"github.com/golang/geo/r3"

	"github.com/rigtools/chainik/kinematics"
)

// PoleVectorConstraint re-orients a single interior joint of a solved chain
// toward a pole position, the standard control for elbow and knee bend
// direction. It preserves the joint's distance from the midpoint of its two
// neighbors while swinging it onto the midpoint-to-pole direction. Apply it
// only after a solver has converged; it is a post-solve adjustment, not part
// of the iterative loop.
type PoleVectorConstraint struct {
	polePosition r3.Vector
}

// NewPoleVectorConstraint creates a constraint pulling toward the given pole position.
func NewPoleVectorConstraint(polePosition r3.Vector) *PoleVectorConstraint {
	return &PoleVectorConstraint{polePosition: polePosition}
}

// Apply moves the joint at jointIndex onto the midpoint-to-pole direction at
// its current distance from the midpoint of its neighbors. It is a no-op when
// jointIndex is the root or the end effector, or when the pole coincides with
// the midpoint (degenerate direction).
func (pv *PoleVectorConstraint) Apply(chain *kinematics.KinematicChain, jointIndex int) {
	if jointIndex <= 0 || jointIndex >= chain.Len()-1 {
		return
	}

	prev := chain.Joint(jointIndex - 1).Position
	next := chain.Joint(jointIndex + 1).Position
	joint := chain.Joint(jointIndex)

	mid := prev.Add(next).Mul(0.5)
	radius := joint.Position.Sub(mid).Norm()

	toPole := pv.polePosition.Sub(mid)
	if dist := toPole.Norm(); dist > defaultEpsilon {
		joint.Position = mid.Add(toPole.Mul(radius / dist))
	}
}
