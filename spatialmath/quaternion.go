// Package spatialmath defines the spatial mathematical operations used by the arm model.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Forward is the pointing axis of a tracked device in its own frame.
var Forward = r3.Vector{X: 0, Y: 0, Z: -1}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() quat.Number {
	return quat.Number{Real: 1}
}

// Normalize scales a quaternion to unit norm. A zero quaternion normalizes
// to the zero orientation rather than dividing by zero.
func Normalize(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return NewZeroOrientation()
	}
	return quat.Scale(1/norm, q)
}

// RotateVector rotates a vector by a unit quaternion, computing q v q*.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(q, quat.Number{Real: 0, Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// Slerp spherically interpolates from q1 to q2 along the shorter arc. The
// result is renormalized so repeated interpolation does not drift off the
// unit sphere. Nearly parallel quaternions fall back to linear
// interpolation where the slerp denominator loses precision.
func Slerp(q1, q2 quat.Number, t float64) quat.Number {
	dot := q1.Real*q2.Real + q1.Imag*q2.Imag + q1.Jmag*q2.Jmag + q1.Kmag*q2.Kmag
	if dot < 0 {
		q2 = quat.Scale(-1, q2)
		dot = -dot
	}
	if dot > 0.9995 {
		return Normalize(quat.Add(q1, quat.Scale(t, quat.Sub(q2, q1))))
	}
	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	s1 := math.Cos(theta) - dot*math.Sin(theta)/sinTheta0
	s2 := math.Sin(theta) / sinTheta0
	return Normalize(quat.Add(quat.Scale(s1, q1), quat.Scale(s2, q2)))
}

// PointingAngle returns the angle in radians between the images of Forward
// under each rotation. Unlike the quaternion geodesic distance, this
// measures only the change in pointing direction and ignores roll about
// the pointing axis.
func PointingAngle(q1, q2 quat.Number) float64 {
	v1 := RotateVector(q1, Forward)
	v2 := RotateVector(q2, Forward)
	cos := v1.Dot(v2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// QuaternionAlmostEqual will return a bool describing whether 2 quaternions
// represent approximately the same orientation, treating q and -q as equal.
func QuaternionAlmostEqual(q1, q2 quat.Number, tol float64) bool {
	return math.Min(quat.Abs(quat.Sub(q1, q2)), quat.Abs(quat.Add(q1, q2))) < tol
}
