package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestYawPitchRollRoundTrip(t *testing.T) {
	for _, ypr := range []*YawPitchRoll{
		{},
		{Yaw: 0.7},
		{Pitch: 0.3},
		{Roll: -0.2},
		{Yaw: 0.7, Pitch: 0.3, Roll: -0.2},
		{Yaw: -2.5, Pitch: -1.1, Roll: 1.4},
		{Yaw: 3.0, Pitch: 1.2, Roll: -3.0},
	} {
		q := ypr.ToQuat()
		test.That(t, quat.Abs(q), test.ShouldAlmostEqual, 1, 1e-9)
		back := QuatToYawPitchRoll(q)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ypr.Yaw, 1e-8)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ypr.Pitch, 1e-8)
		test.That(t, back.Roll, test.ShouldAlmostEqual, ypr.Roll, 1e-8)
	}
}

func TestPitchRaisesForward(t *testing.T) {
	q := (&YawPitchRoll{Pitch: math.Pi / 6}).ToQuat()
	v := RotateVector(q, Forward)
	test.That(t, v.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, v.Y, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, v.Z, test.ShouldAlmostEqual, -math.Sqrt(3)/2, 1e-9)
}

func TestQuatYawOnly(t *testing.T) {
	q := (&YawPitchRoll{Yaw: 0.7, Pitch: 0.3, Roll: -0.2}).ToQuat()
	got := QuatToYawPitchRoll(QuatYawOnly(q))
	test.That(t, got.Yaw, test.ShouldAlmostEqual, 0.7, 1e-8)
	test.That(t, got.Pitch, test.ShouldAlmostEqual, 0, 1e-8)
	test.That(t, got.Roll, test.ShouldAlmostEqual, 0, 1e-8)

	id := NewZeroOrientation()
	test.That(t, QuaternionAlmostEqual(QuatYawOnly(id), id, 1e-9), test.ShouldBeTrue)
}

func TestGimbalLock(t *testing.T) {
	// straight up: yaw and roll collapse onto the same axis; the
	// decomposition reports roll as 0 but must still represent the same
	// rotation when recomposed
	q := (&YawPitchRoll{Yaw: 0.4, Pitch: math.Pi / 2, Roll: 0.3}).ToQuat()
	ypr := QuatToYawPitchRoll(q)
	test.That(t, ypr.Pitch, test.ShouldAlmostEqual, math.Pi/2, 1e-6)
	test.That(t, ypr.Roll, test.ShouldEqual, 0)
	test.That(t, QuaternionAlmostEqual(ypr.ToQuat(), q, 1e-6), test.ShouldBeTrue)

	down := (&YawPitchRoll{Yaw: -0.9, Pitch: -math.Pi / 2, Roll: 0.2}).ToQuat()
	yprDown := QuatToYawPitchRoll(down)
	test.That(t, yprDown.Pitch, test.ShouldAlmostEqual, -math.Pi/2, 1e-6)
	test.That(t, yprDown.Roll, test.ShouldEqual, 0)
	test.That(t, QuaternionAlmostEqual(yprDown.ToQuat(), down, 1e-6), test.ShouldBeTrue)
}
