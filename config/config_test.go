package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/mechspace/armature/tracker"
)

func writeProfile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json5")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	test.That(t, p.Ensure(), test.ShouldBeNil)
	test.That(t, p.FrameRate, test.ShouldEqual, 90)
	test.That(t, p.Tracker.Kind, test.ShouldEqual, KindSweep)
}

func TestReadJSON5(t *testing.T) {
	logger := golog.NewTestLogger(t)
	// comments and trailing commas are allowed
	path := writeProfile(t, `{
		// a quick low-rate run
		frame_rate: 30,
		frames: 60,
		left_handed: true,
		tracker: {
			kind: "sweep",
			sweep: {
				pitch_min_deg: -10,
				pitch_max_deg: 45,
			},
		},
	}`)

	p, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.FrameRate, test.ShouldEqual, 30)
	test.That(t, p.Frames, test.ShouldEqual, 60)
	test.That(t, p.LeftHanded, test.ShouldBeTrue)
	test.That(t, p.Tracker.Sweep.PitchMaxDeg, test.ShouldEqual, 45)
	// unspecified fields keep their defaults
	test.That(t, p.LogEvery, test.ShouldEqual, 90)
	test.That(t, p.Tracker.Sweep.PitchPeriodSec, test.ShouldEqual, 4)
}

func TestReadEnvSubstitution(t *testing.T) {
	logger := golog.NewTestLogger(t)
	t.Setenv("ARMSIM_FRAMES", "120")
	path := writeProfile(t, `{frame_rate: 60, frames: ${ARMSIM_FRAMES}}`)

	p, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Frames, test.ShouldEqual, 120)
}

func TestEnsureRejectsBadProfiles(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"zero frame rate", func(p *Profile) { p.FrameRate = 0 }},
		{"zero frames", func(p *Profile) { p.Frames = 0 }},
		{"negative log every", func(p *Profile) { p.LogEvery = -1 }},
		{"unknown tracker", func(p *Profile) { p.Tracker.Kind = "webcam" }},
		{"replay without path", func(p *Profile) { p.Tracker.Kind = KindReplay }},
		{"inverted pitch bounds", func(p *Profile) { p.Tracker.Sweep.PitchMinDeg = 90 }},
		{"zero pitch period", func(p *Profile) { p.Tracker.Sweep.PitchPeriodSec = 0 }},
		{"negative yaw range", func(p *Profile) { p.Tracker.Sweep.YawRangeDeg = -1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultProfile()
			tc.mutate(p)
			test.That(t, p.Ensure(), test.ShouldNotBeNil)
		})
	}
}

func TestEmptyKindDefaultsToSweep(t *testing.T) {
	p := DefaultProfile()
	p.Tracker.Kind = ""
	test.That(t, p.Ensure(), test.ShouldBeNil)
	test.That(t, p.Tracker.Kind, test.ShouldEqual, KindSweep)
}

func TestSource(t *testing.T) {
	step := time.Second / 90

	p := DefaultProfile()
	src, err := p.Source(step)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, src, test.ShouldHaveSameTypeAs, &tracker.Sweep{})
	test.That(t, src.Close(), test.ShouldBeNil)

	p.Tracker.Kind = KindStatic
	src, err = p.Source(step)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, src, test.ShouldHaveSameTypeAs, &tracker.Static{})
	test.That(t, src.Close(), test.ShouldBeNil)

	p.Tracker.Kind = "webcam"
	_, err = p.Source(step)
	test.That(t, err, test.ShouldNotBeNil)
}
