// Package config describes simulation profiles for the armsim command.
// Profiles are JSON5 files with environment variable substitution, read
// once at startup and validated before use.
package config

import (
	"bytes"
	"time"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/mechspace/armature/armmodel"
	"github.com/mechspace/armature/spatialmath"
	"github.com/mechspace/armature/tracker"
)

// Tracker kinds selectable in a profile.
const (
	KindStatic = "static"
	KindSweep  = "sweep"
	KindReplay = "replay"
)

// Profile configures one simulation run.
type Profile struct {
	// FrameRate is the simulated tick rate in Hz.
	FrameRate int `json:"frame_rate"`
	// Frames is how many ticks to simulate.
	Frames int `json:"frames"`
	// LogEvery logs the pose every N frames; 0 disables periodic logging.
	LogEvery   int           `json:"log_every"`
	LeftHanded bool          `json:"left_handed"`
	Tracker    TrackerConfig `json:"tracker"`
}

// TrackerConfig selects and parameterizes the tracking source.
type TrackerConfig struct {
	Kind       string        `json:"kind"`
	ReplayPath string        `json:"replay_path,omitempty"`
	Sweep      SweepSettings `json:"sweep"`
}

// SweepSettings mirror tracker.SweepConfig with profile-friendly units
// (seconds and degrees).
type SweepSettings struct {
	PitchMinDeg    float64 `json:"pitch_min_deg"`
	PitchMaxDeg    float64 `json:"pitch_max_deg"`
	PitchPeriodSec float64 `json:"pitch_period_sec"`
	YawRangeDeg    float64 `json:"yaw_range_deg"`
	YawPeriodSec   float64 `json:"yaw_period_sec"`
	HeadFollow     float64 `json:"head_follow"`
	HeadHeightM    float64 `json:"head_height_m"`
	HeadBobM       float64 `json:"head_bob_m"`
}

// DefaultProfile returns a ten second sweep at 90Hz.
func DefaultProfile() *Profile {
	def := tracker.DefaultSweepConfig()
	return &Profile{
		FrameRate: 90,
		Frames:    900,
		LogEvery:  90,
		Tracker: TrackerConfig{
			Kind: KindSweep,
			Sweep: SweepSettings{
				PitchMinDeg:    def.PitchMinDeg,
				PitchMaxDeg:    def.PitchMaxDeg,
				PitchPeriodSec: def.PitchPeriod.Seconds(),
				YawRangeDeg:    def.YawRangeDeg,
				YawPeriodSec:   def.YawPeriod.Seconds(),
				HeadFollow:     def.HeadFollow,
				HeadHeightM:    def.HeadHeight,
				HeadBobM:       def.HeadBob,
			},
		},
	}
}

// Read reads a profile from the given file, expanding environment
// variables, and validates it. Fields absent from the file keep their
// default values.
func Read(path string, logger golog.Logger) (*Profile, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile")
	}
	p := DefaultProfile()
	if err := json5.NewDecoder(bytes.NewReader(buf)).Decode(p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse profile %q", path)
	}
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	logger.Debugw("profile loaded", "path", path, "tracker", p.Tracker.Kind)
	return p, nil
}

// Ensure ensures all parts of the profile are valid.
func (p *Profile) Ensure() error {
	if p.FrameRate <= 0 {
		return errors.New("frame_rate must be positive")
	}
	if p.Frames <= 0 {
		return errors.New("frames must be positive")
	}
	if p.LogEvery < 0 {
		return errors.New("log_every may not be negative")
	}
	return p.Tracker.Validate("tracker")
}

// Validate ensures the tracker selection is complete.
func (tc *TrackerConfig) Validate(path string) error {
	if tc.Kind == "" {
		tc.Kind = KindSweep
	}
	switch tc.Kind {
	case KindStatic:
	case KindSweep:
		return tc.Sweep.Validate(path + ".sweep")
	case KindReplay:
		if tc.ReplayPath == "" {
			return errors.Errorf("%s.replay_path required for replay tracker", path)
		}
	default:
		return errors.Errorf("%s.kind must be one of %q, %q, %q", path, KindStatic, KindSweep, KindReplay)
	}
	return nil
}

// Validate ensures the sweep parameters describe a usable motion.
func (ss *SweepSettings) Validate(path string) error {
	if ss.PitchMinDeg >= ss.PitchMaxDeg {
		return errors.Errorf("%s.pitch_min_deg must be below pitch_max_deg", path)
	}
	if ss.PitchPeriodSec <= 0 || ss.YawPeriodSec <= 0 {
		return errors.Errorf("%s periods must be positive", path)
	}
	if ss.YawRangeDeg < 0 {
		return errors.Errorf("%s.yaw_range_deg may not be negative", path)
	}
	return nil
}

// Source builds the tracking source the profile describes. step is the
// simulated time per frame.
func (p *Profile) Source(step time.Duration) (tracker.Source, error) {
	switch p.Tracker.Kind {
	case KindStatic:
		return &tracker.Static{Frame: armmodel.Frame{
			Controller:   spatialmath.NewZeroOrientation(),
			Head:         spatialmath.NewZeroOrientation(),
			HeadPosition: r3.Vector{X: 0, Y: p.Tracker.Sweep.HeadHeightM, Z: 0},
		}}, nil
	case KindSweep:
		ss := p.Tracker.Sweep
		return tracker.NewSweep(tracker.SweepConfig{
			Step:        step,
			PitchMinDeg: ss.PitchMinDeg,
			PitchMaxDeg: ss.PitchMaxDeg,
			PitchPeriod: time.Duration(ss.PitchPeriodSec * float64(time.Second)),
			YawRangeDeg: ss.YawRangeDeg,
			YawPeriod:   time.Duration(ss.YawPeriodSec * float64(time.Second)),
			HeadFollow:  ss.HeadFollow,
			HeadHeight:  ss.HeadHeightM,
			HeadBob:     ss.HeadBobM,
		}), nil
	case KindReplay:
		return tracker.OpenReplay(p.Tracker.ReplayPath)
	}
	return nil, errors.Errorf("unknown tracker kind %q", p.Tracker.Kind)
}
