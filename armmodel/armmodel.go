// Package armmodel estimates the pose of a hand controller at the end of a
// procedural human arm, given only a tracked head pose and a tracked
// controller orientation. No arm sensors are involved: shoulder, elbow and
// wrist are virtual joints placed from fixed anatomical offsets, with the
// controller's rotation split between elbow and wrist.
package armmodel

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechspace/armature/spatialmath"
)

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180
)

// Anatomical offsets in meters, for a right-handed user with the arm in a
// neutral pose. Fixed for the process lifetime.
var (
	// HeadElbowOffset is the offset from the head to the elbow.
	HeadElbowOffset = r3.Vector{X: 0.155, Y: -0.465, Z: -0.15}
	// ElbowWristOffset is the offset from the elbow to the wrist.
	ElbowWristOffset = r3.Vector{X: 0, Y: 0, Z: -0.25}
	// WristControllerOffset is the offset from the wrist to the held controller.
	WristControllerOffset = r3.Vector{X: 0, Y: 0, Z: 0.05}
	// ArmExtensionOffset shifts the elbow up and inward as the arm raises.
	ArmExtensionOffset = r3.Vector{X: -0.08, Y: 0.14, Z: 0.08}
)

const (
	// ElbowBendRatio is the baseline fraction of controller rotation
	// assigned to the wrist joint rather than the elbow.
	ElbowBendRatio = 0.4
	// ExtensionRatioWeight scales how much arm extension shifts rotation
	// further toward the wrist.
	ExtensionRatioWeight = 0.4
	// MinAngularSpeed is the pointing speed in rad/s above which controller
	// motion is attributed to the torso turning.
	MinAngularSpeed = 0.61

	// Controller pitch in degrees below which the arm is considered
	// unextended and above which it is fully extended.
	minExtensionAngleDeg = 11.0
	maxExtensionAngleDeg = 50.0
)

// Frame is one tracking sample: everything the model consumes in a single
// update. Inputs are assumed to be unit quaternions and finite vectors; the
// model performs no validation and malformed input propagates into the pose.
type Frame struct {
	// Controller is the tracked controller orientation in the world frame.
	Controller quat.Number
	// Head is the tracked head orientation in the world frame.
	Head quat.Number
	// HeadPosition is the tracked head position in the world frame.
	HeadPosition r3.Vector
}

// ArmModel estimates a controller pose once per rendering frame. One
// instance serves one tracked user; methods must not be called
// concurrently, as Update reads then writes instance state without
// synchronization.
type ArmModel struct {
	logger golog.Logger
	clock  clock.Clock

	headElbowOffset    r3.Vector
	armExtensionOffset r3.Vector

	controllerQ     quat.Number
	lastControllerQ quat.Number
	headQ           quat.Number
	headPos         r3.Vector

	// rootQ is the smoothed torso facing estimate; it carries hysteresis
	// across frames.
	rootQ    quat.Number
	elbowPos r3.Vector
	wristPos r3.Vector

	lastTime time.Time
	started  bool

	pose spatialmath.Pose
}

// Option configures an ArmModel.
type Option func(*ArmModel)

// WithClock sets the clock used to measure time between updates.
func WithClock(c clock.Clock) Option {
	return func(am *ArmModel) {
		am.clock = c
	}
}

// WithLeftHanded mirrors the lateral arm offsets for a left-handed user.
func WithLeftHanded() Option {
	return func(am *ArmModel) {
		am.headElbowOffset.X = -HeadElbowOffset.X
		am.armExtensionOffset.X = -ArmExtensionOffset.X
	}
}

// New returns an arm model in the neutral pose, facing forward.
func New(logger golog.Logger, opts ...Option) *ArmModel {
	am := &ArmModel{
		logger:             logger,
		clock:              clock.New(),
		headElbowOffset:    HeadElbowOffset,
		armExtensionOffset: ArmExtensionOffset,
		controllerQ:        spatialmath.NewZeroOrientation(),
		lastControllerQ:    spatialmath.NewZeroOrientation(),
		headQ:              spatialmath.NewZeroOrientation(),
		rootQ:              spatialmath.NewZeroOrientation(),
		pose:               spatialmath.NewZeroPose(),
	}
	for _, opt := range opts {
		opt(am)
	}
	am.logger.Debugw("arm model ready", "left_handed", am.headElbowOffset.X < 0)
	return am
}

// Update consumes one tracking sample and recomputes the controller pose.
// The returned pose is also readable afterward via Pose.
func (am *ArmModel) Update(frame Frame) spatialmath.Pose {
	am.lastControllerQ = am.controllerQ
	am.controllerQ = frame.Controller
	am.headQ = frame.Head
	am.headPos = frame.HeadPosition

	now := am.clock.Now()

	headYawQ := spatialmath.QuatYawOnly(am.headQ)

	// How far the controller's pointing direction moved since last frame.
	// Until the first update completes there is no usable time delta, so
	// the speed stays 0 and the snap branch below is taken.
	angleDelta := spatialmath.PointingAngle(am.lastControllerQ, am.controllerQ)
	var angularSpeed float64
	if am.started {
		if dt := now.Sub(am.lastTime).Seconds(); dt > 0 {
			angularSpeed = angleDelta / dt
		}
	}

	if angularSpeed > MinAngularSpeed {
		// Fast controller motion reads as the torso turning: step the root
		// partway toward the head yaw. The step fraction is the angle delta
		// in radians over ten, so larger swings take larger steps.
		am.rootQ = spatialmath.Slerp(am.rootQ, headYawQ, angleDelta/10)
	} else {
		am.rootQ = headYawQ
	}

	controllerPitchDeg := spatialmath.QuatToYawPitchRoll(am.controllerQ).Pitch * radToDeg
	extension := extensionRatio(controllerPitchDeg)

	// Controller orientation relative to the smoothed torso frame.
	controllerCameraQ := quat.Mul(quat.Conj(am.rootQ), am.controllerQ)

	am.elbowPos = am.headPos.Add(am.headElbowOffset).Add(am.armExtensionOffset.Mul(extension))

	totalAngleDeg := spatialmath.PointingAngle(controllerCameraQ, spatialmath.NewZeroOrientation()) * radToDeg
	lerpValue := wristBlend(totalAngleDeg, extension)

	wristQ := spatialmath.Slerp(spatialmath.NewZeroOrientation(), controllerCameraQ, lerpValue)
	elbowQ := quat.Mul(controllerCameraQ, quat.Conj(wristQ))

	// Forward kinematics along elbow -> wrist -> controller.
	wristPos := spatialmath.RotateVector(wristQ, WristControllerOffset)
	wristPos = wristPos.Add(ElbowWristOffset)
	wristPos = spatialmath.RotateVector(elbowQ, wristPos)
	am.wristPos = wristPos.Add(am.elbowPos)

	position := am.wristPos.Add(am.armExtensionOffset.Mul(extension))
	position = spatialmath.RotateVector(am.rootQ, position)

	// The controller's own tracked rotation passes through unchanged; only
	// its position is derived.
	am.pose = spatialmath.Pose{Orientation: am.controllerQ, Point: position}
	am.lastTime = now
	am.started = true
	return am.pose
}

// Pose returns the pose computed by the most recent Update.
func (am *ArmModel) Pose() spatialmath.Pose {
	return am.pose
}

// ElbowPosition returns the estimated elbow position in the world frame.
func (am *ArmModel) ElbowPosition() r3.Vector {
	return spatialmath.RotateVector(am.rootQ, am.elbowPos)
}

// WristPosition returns the estimated wrist position in the world frame.
func (am *ArmModel) WristPosition() r3.Vector {
	return spatialmath.RotateVector(am.rootQ, am.wristPos)
}

// ForearmLength returns the fixed elbow-to-wrist distance in meters.
func (am *ArmModel) ForearmLength() float64 {
	return ElbowWristOffset.Norm()
}

// extensionRatio maps controller pitch in degrees onto [0,1]: below 11
// degrees the arm reads as unextended, above 50 fully extended, linear in
// between.
func extensionRatio(pitchDeg float64) float64 {
	return clamp((pitchDeg-minExtensionAngleDeg)/(maxExtensionAngleDeg-minExtensionAngleDeg), 0, 1)
}

// wristBlend is the fraction of the camera-relative rotation assigned to
// the wrist joint: the elbow-bend baseline shifted toward the wrist with
// extension, suppressed smoothly toward 0 as the total rotation approaches
// 180 degrees.
func wristBlend(totalAngleDeg, extension float64) float64 {
	suppression := 1 - math.Pow(totalAngleDeg/180, 4)
	return suppression * (ElbowBendRatio + (1-ElbowBendRatio)*extension*ExtensionRatioWeight)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
