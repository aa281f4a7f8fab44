package tracker

import (
	"context"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechspace/armature/armmodel"
	"github.com/mechspace/armature/spatialmath"
)

const degToRad = math.Pi / 180

// SweepConfig parameterizes a synthetic motion sweep.
type SweepConfig struct {
	// Step is the simulated time advanced per frame.
	Step time.Duration
	// Controller pitch oscillates between these bounds, in degrees.
	PitchMinDeg float64
	PitchMaxDeg float64
	PitchPeriod time.Duration
	// Controller yaw oscillates across this range, centered on forward.
	YawRangeDeg float64
	YawPeriod   time.Duration
	// HeadFollow is the fraction of controller yaw the head follows.
	HeadFollow float64
	// HeadHeight is the head's height above the origin in meters, with an
	// optional vertical bob of HeadBob meters at the pitch period.
	HeadHeight float64
	HeadBob    float64
}

// DefaultSweepConfig returns a sweep resembling a user raising and lowering
// the controller while scanning side to side.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Step:        time.Second / 90,
		PitchMinDeg: -20,
		PitchMaxDeg: 60,
		PitchPeriod: 4 * time.Second,
		YawRangeDeg: 120,
		YawPeriod:   7 * time.Second,
		HeadFollow:  0.25,
		HeadHeight:  1.6,
		HeadBob:     0.02,
	}
}

// Sweep deterministically generates frames of smooth synthetic motion. It is
// driven by its own simulated time, not the wall clock, so runs reproduce
// exactly.
type Sweep struct {
	cfg SweepConfig
	t   time.Duration
}

// NewSweep returns a sweep source. Zero durations in the config fall back
// to the defaults.
func NewSweep(cfg SweepConfig) *Sweep {
	def := DefaultSweepConfig()
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.PitchPeriod <= 0 {
		cfg.PitchPeriod = def.PitchPeriod
	}
	if cfg.YawPeriod <= 0 {
		cfg.YawPeriod = def.YawPeriod
	}
	return &Sweep{cfg: cfg}
}

// NextFrame advances simulated time one step and returns the sample.
func (s *Sweep) NextFrame(ctx context.Context) (armmodel.Frame, error) {
	tSec := s.t.Seconds()

	pitchMid := (s.cfg.PitchMaxDeg + s.cfg.PitchMinDeg) / 2
	pitchAmp := (s.cfg.PitchMaxDeg - s.cfg.PitchMinDeg) / 2
	pitchDeg := pitchMid + pitchAmp*math.Sin(2*math.Pi*tSec/s.cfg.PitchPeriod.Seconds())
	yawDeg := (s.cfg.YawRangeDeg / 2) * math.Sin(2*math.Pi*tSec/s.cfg.YawPeriod.Seconds())

	controller := YawPitchFrame(yawDeg, pitchDeg)
	head := YawPitchFrame(yawDeg*s.cfg.HeadFollow, 0)

	bob := s.cfg.HeadBob * math.Sin(2*math.Pi*tSec/s.cfg.PitchPeriod.Seconds())
	headPos := r3.Vector{X: 0, Y: s.cfg.HeadHeight + bob, Z: 0}

	s.t += s.cfg.Step
	return armmodel.Frame{
		Controller:   controller,
		Head:         head,
		HeadPosition: headPos,
	}, nil
}

// Close does nothing.
func (s *Sweep) Close() error {
	return nil
}

// YawPitchFrame builds a world-frame orientation from yaw and pitch in
// degrees, with no roll.
func YawPitchFrame(yawDeg, pitchDeg float64) quat.Number {
	ypr := spatialmath.YawPitchRoll{Yaw: yawDeg * degToRad, Pitch: pitchDeg * degToRad}
	return ypr.ToQuat()
}
