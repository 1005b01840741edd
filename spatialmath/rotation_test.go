package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestR4AAToQuat(t *testing.T) {
	// No rotation yields the identity quaternion.
	q := NewR4AA().ToQuat()
	test.That(t, q.Real, test.ShouldAlmostEqual, 1)
	test.That(t, q.Imag, test.ShouldAlmostEqual, 0)
	test.That(t, q.Jmag, test.ShouldAlmostEqual, 0)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, 0)

	// Axis is normalized on conversion.
	q = R4AAFromAxisAngle(r3.Vector{Z: 10}, math.Pi).ToQuat()
	test.That(t, q.Real, test.ShouldAlmostEqual, 0)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, 1)
}

func TestRotateVector(t *testing.T) {
	q := R4AAFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2).ToQuat()
	got := RotateVector(q, r3.Vector{X: 1})
	test.That(t, got.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, got.Y, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, got.Z, test.ShouldAlmostEqual, 0, 1e-12)

	// Rotation preserves length.
	v := r3.Vector{X: 0.3, Y: -1.2, Z: 2.5}
	q = R4AAFromAxisAngle(r3.Vector{X: 1, Y: 1, Z: -0.5}, 1.234).ToQuat()
	test.That(t, RotateVector(q, v).Norm(), test.ShouldAlmostEqual, v.Norm(), 1e-12)
}

func TestRotateAboutPivot(t *testing.T) {
	pivot := r3.Vector{X: 1, Y: 0, Z: 0}
	got := RotateAboutPivot(r3.Vector{X: 2}, pivot, r3.Vector{Z: 1}, math.Pi/2)
	test.That(t, got.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, got.Y, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, got.Z, test.ShouldAlmostEqual, 0, 1e-12)

	// Rotating the pivot itself is a fixed point.
	got = RotateAboutPivot(pivot, pivot, r3.Vector{Z: 1}, 2.5)
	test.That(t, got.Sub(pivot).Norm(), test.ShouldAlmostEqual, 0, 1e-12)
}

func TestVectorIsFinite(t *testing.T) {
	test.That(t, VectorIsFinite(r3.Vector{}), test.ShouldBeTrue)
	test.That(t, VectorIsFinite(r3.Vector{X: 1, Y: -2, Z: 3e300}), test.ShouldBeTrue)
	test.That(t, VectorIsFinite(r3.Vector{X: math.NaN()}), test.ShouldBeFalse)
	test.That(t, VectorIsFinite(r3.Vector{Y: math.Inf(1)}), test.ShouldBeFalse)
	test.That(t, VectorIsFinite(r3.Vector{Z: math.Inf(-1)}), test.ShouldBeFalse)
}
