package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is the position and orientation of an object in world coordinates.
type Pose struct {
	Orientation quat.Number
	Point       r3.Vector
}

// NewZeroPose returns a pose at the origin with no rotation.
func NewZeroPose() Pose {
	return Pose{Orientation: NewZeroOrientation()}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are
// approximately the same in both position and orientation.
func PoseAlmostEqual(p1, p2 Pose, tol float64) bool {
	return QuaternionAlmostEqual(p1.Orientation, p2.Orientation, tol) &&
		p1.Point.Sub(p2.Point).Norm() < tol
}
