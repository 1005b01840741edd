// Package kinematics defines the joint chain data model consumed by the ik solvers.
// A chain is an ordered sequence of rigid joints connected by fixed-length bones,
// root first and end effector last.
package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/rigtools/chainik/spatialmath"
)

// ErrShortChain is returned when a chain is constructed with fewer than two joints.
var ErrShortChain = errors.New("kinematic chain requires at least two joints")

// Joint is a named point in a kinematic chain. The name is a label for the
// caller's benefit (e.g. "elbow") and plays no part in solving.
type Joint struct {
	Name     string
	Position r3.Vector
}

// NewJoint creates a named joint at the given position.
func NewJoint(position r3.Vector, name string) *Joint {
	return &Joint{Name: name, Position: position}
}

// DistanceTo returns the Euclidean distance to another joint.
func (j *Joint) DistanceTo(other *Joint) float64 {
	return j.Position.Sub(other.Position).Norm()
}

// KinematicChain is an ordered sequence of joints plus the bone lengths
// measured from the initial pose. Bone lengths are computed once at
// construction and never recomputed; bones are rigid, and solvers re-impose
// these lengths on every pass even as joint positions move.
type KinematicChain struct {
	joints      []*Joint
	boneLengths []float64
	totalLength float64
}

// NewKinematicChain builds a chain from the given joints. The joints are
// deep-copied so that the chain owns its own state; solving one chain never
// moves another chain built from the same inputs. Fails if fewer than two
// joints are supplied or if any position has a non-finite component.
func NewKinematicChain(joints []*Joint) (*KinematicChain, error) {
	if len(joints) < 2 {
		return nil, ErrShortChain
	}
	var err error
	for i, joint := range joints {
		if !spatialmath.VectorIsFinite(joint.Position) {
			err = multierr.Combine(err, errors.Errorf("joint %d (%q) has a non-finite position", i, joint.Name))
		}
	}
	if err != nil {
		return nil, err
	}

	chain := &KinematicChain{joints: make([]*Joint, 0, len(joints))}
	for _, joint := range joints {
		chain.joints = append(chain.joints, NewJoint(joint.Position, joint.Name))
	}
	chain.boneLengths = make([]float64, 0, len(joints)-1)
	for i := 0; i < len(chain.joints)-1; i++ {
		length := chain.joints[i].DistanceTo(chain.joints[i+1])
		chain.boneLengths = append(chain.boneLengths, length)
		chain.totalLength += length
	}
	return chain, nil
}

// Len returns the number of joints in the chain.
func (kc *KinematicChain) Len() int {
	return len(kc.joints)
}

// Joint returns the joint at the given index. The returned pointer refers to
// the chain's own joint; solvers mutate positions through it.
func (kc *KinematicChain) Joint(i int) *Joint {
	return kc.joints[i]
}

// Root returns the first joint in the chain.
func (kc *KinematicChain) Root() *Joint {
	return kc.joints[0]
}

// EndEffector returns the last joint in the chain.
func (kc *KinematicChain) EndEffector() *Joint {
	return kc.joints[len(kc.joints)-1]
}

// BoneLength returns the fixed length of the bone between joints i and i+1.
func (kc *KinematicChain) BoneLength(i int) float64 {
	return kc.boneLengths[i]
}

// TotalLength returns the sum of all bone lengths, i.e. the chain's maximum reach.
func (kc *KinematicChain) TotalLength() float64 {
	return kc.totalLength
}

// IsReachable returns true iff target is within the chain's total length of the root.
func (kc *KinematicChain) IsReachable(target r3.Vector) bool {
	return target.Sub(kc.joints[0].Position).Norm() <= kc.totalLength
}

// Positions returns a copy of the current joint positions in chain order.
func (kc *KinematicChain) Positions() []r3.Vector {
	positions := make([]r3.Vector, 0, len(kc.joints))
	for _, joint := range kc.joints {
		positions = append(positions, joint.Position)
	}
	return positions
}
