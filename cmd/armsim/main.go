// Package main contains an offline simulator for the orientation arm model.
// It drives the model with a synthetic or replayed tracking source at a
// fixed frame rate, reports pointing-speed statistics, and can plot the
// resulting arm trajectory.
package main

import (
	"context"
	"io"
	"math"
	"os"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/edaniels/golog"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/mechspace/armature/armmodel"
	"github.com/mechspace/armature/config"
	"github.com/mechspace/armature/spatialmath"
)

const radToDeg = 180 / math.Pi

var logger = golog.NewDevelopmentLogger("armsim")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,usage=simulation profile (json5)"`
	Frames     int    `flag:"frames,usage=frame count override"`
	PlotFile   string `flag:"plot,usage=write side-view trajectory plot (png)"`
	Debug      bool   `flag:"debug,usage=log every simulated pose"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	profile := config.DefaultProfile()
	if argsParsed.ConfigFile != "" {
		var err error
		profile, err = config.Read(argsParsed.ConfigFile, logger)
		if err != nil {
			return err
		}
	}
	if argsParsed.Frames > 0 {
		profile.Frames = argsParsed.Frames
	}

	return runSim(ctx, profile, argsParsed, logger)
}

func runSim(ctx context.Context, profile *config.Profile, args Arguments, logger golog.Logger) (err error) {
	frameStep := time.Second / time.Duration(profile.FrameRate)
	src, err := profile.Source(frameStep)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, src.Close())
	}()

	var opts []armmodel.Option
	if profile.LeftHanded {
		opts = append(opts, armmodel.WithLeftHanded())
	}
	model := armmodel.New(logger, opts...)

	ticker := time.NewTicker(frameStep)
	defer ticker.Stop()

	speeds := make([]float64, 0, profile.Frames)
	wristXYs := make(plotter.XYs, 0, profile.Frames)
	elbowXYs := make(plotter.XYs, 0, profile.Frames)
	lastController := spatialmath.NewZeroOrientation()

	logger.Infow("simulating", "frames", profile.Frames, "frame_rate", profile.FrameRate, "tracker", profile.Tracker.Kind)
	for i := 0; i < profile.Frames; i++ {
		if !utils.SelectContextOrWaitChan(ctx, ticker.C) {
			return ctx.Err()
		}

		frame, err := src.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Infow("trace exhausted", "frames", i)
				break
			}
			return err
		}

		if i > 0 {
			speeds = append(speeds, speedDegPerSec(lastController, frame.Controller, frameStep))
		}
		lastController = frame.Controller

		pose := model.Update(frame)
		wrist := model.WristPosition()
		elbow := model.ElbowPosition()
		wristXYs = append(wristXYs, plotter.XY{X: wrist.Z, Y: wrist.Y})
		elbowXYs = append(elbowXYs, plotter.XY{X: elbow.Z, Y: elbow.Y})

		switch {
		case args.Debug:
			logger.Debugw("pose", "frame", i,
				"x", pose.Point.X, "y", pose.Point.Y, "z", pose.Point.Z)
		case profile.LogEvery > 0 && i%profile.LogEvery == 0:
			logger.Infow("pose", "frame", i,
				"x", pose.Point.X, "y", pose.Point.Y, "z", pose.Point.Z,
				"forearm", model.ForearmLength())
		}
	}

	reportSpeeds(logger, speeds)
	if args.PlotFile != "" {
		if err := savePlot(args.PlotFile, wristXYs, elbowXYs); err != nil {
			return errors.Wrap(err, "failed to write plot")
		}
		logger.Infow("trajectory plot written", "path", args.PlotFile)
	}
	return nil
}

// speedDegPerSec measures how fast the controller's pointing direction
// moved between two frames, in degrees per second.
func speedDegPerSec(prev, cur quat.Number, step time.Duration) float64 {
	return spatialmath.PointingAngle(prev, cur) / step.Seconds() * radToDeg
}

func reportSpeeds(logger golog.Logger, speeds []float64) {
	if len(speeds) == 0 {
		return
	}
	mean, err := stats.Mean(speeds)
	median, merr := stats.Median(speeds)
	p95, perr := stats.Percentile(speeds, 95)
	if err = multierr.Combine(err, merr, perr); err != nil {
		logger.Errorw("failed to summarize speeds", "error", err)
		return
	}
	logger.Infow("controller pointing speed (deg/s)",
		"mean", mean, "median", median, "p95", p95,
		"torso_turn_threshold", armmodel.MinAngularSpeed*radToDeg)

	hist := histogram.Hist(10, speeds)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
		logger.Errorw("failed to print histogram", "error", err)
	}
}

func savePlot(path string, wrist, elbow plotter.XYs) error {
	p := plot.New()
	p.Title.Text = "arm trajectory (side view)"
	p.X.Label.Text = "z (m)"
	p.Y.Label.Text = "y (m)"
	if err := plotutil.AddLinePoints(p, "wrist", wrist, "elbow", elbow); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
