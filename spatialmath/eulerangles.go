package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// If the pitch is within this amount of a pole, yaw and roll are no longer
// independent and the decomposition collapses roll into yaw.
const gimbalLockEpsilon = 1e-7

// YawPitchRoll represents a rotation as intrinsic Tait-Bryan angles applied
// in the order yaw (about +Y), then pitch (about +X), then roll (about +Z),
// all in radians in a right-handed frame where forward is -Z and up is +Y.
// Positive pitch raises the forward vector.
//
// This is the one place quaternions are decomposed into angles; everything
// that needs a yaw or pitch scalar goes through this type.
type YawPitchRoll struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// NewYawPitchRoll creates an empty YawPitchRoll struct.
func NewYawPitchRoll() *YawPitchRoll {
	return &YawPitchRoll{}
}

// ToQuat converts the angles to a unit quaternion.
func (ypr *YawPitchRoll) ToQuat() quat.Number {
	mq := mgl64.AnglesToQuat(ypr.Yaw, ypr.Pitch, ypr.Roll, mgl64.YXZ)
	return quat.Number{Real: mq.W, Imag: mq.X(), Jmag: mq.Y(), Kmag: mq.Z()}
}

// QuatToYawPitchRoll decomposes a unit quaternion into yaw, pitch and roll.
// At the poles (pitch of ±90 degrees) roll is reported as 0 and the
// remaining rotation about the vertical axis is absorbed into yaw.
func QuatToYawPitchRoll(q quat.Number) *YawPitchRoll {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	m11 := 1 - 2*(y*y+z*z)
	m13 := 2 * (x*z + w*y)
	m21 := 2 * (x*y + w*z)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - w*x)
	m31 := 2 * (x*z - w*y)
	m33 := 1 - 2*(x*x+y*y)

	sinPitch := -m23
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}

	ypr := &YawPitchRoll{Pitch: math.Asin(sinPitch)}
	if math.Abs(sinPitch) < 1-gimbalLockEpsilon {
		ypr.Yaw = math.Atan2(m13, m33)
		ypr.Roll = math.Atan2(m21, m22)
	} else {
		ypr.Yaw = math.Atan2(-m31, m11)
	}
	return ypr
}

// QuatYawOnly projects an orientation onto its yaw component alone,
// discarding pitch and roll. This isolates which way a head-mounted frame
// faces from how far it tilts or nods.
func QuatYawOnly(q quat.Number) quat.Number {
	ypr := YawPitchRoll{Yaw: QuatToYawPitchRoll(q).Yaw}
	return ypr.ToQuat()
}
