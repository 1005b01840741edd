package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotateVector rotates v by the given unit quaternion using the sandwich product q * v * q'.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// RotateAboutPivot rotates point rigidly about pivot by theta radians around the given axis.
func RotateAboutPivot(point, pivot, axis r3.Vector, theta float64) r3.Vector {
	q := R4AAFromAxisAngle(axis, theta).ToQuat()
	return pivot.Add(RotateVector(q, point.Sub(pivot)))
}

// VectorIsFinite returns true iff no component of v is NaN or infinite.
func VectorIsFinite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
