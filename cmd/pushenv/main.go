// Command pushenv runs pushing episodes against the scripted driver:
// a dry-run harness for the environment core without arm, camera or
// GAN hardware attached. Each run records trajectories and (when
// fusion is enabled) the marker fusion log into a session database.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/pushenv/internal/config"
	"github.com/banshee-data/pushenv/internal/fusion"
	"github.com/banshee-data/pushenv/internal/monitoring"
	"github.com/banshee-data/pushenv/internal/push"
	"github.com/banshee-data/pushenv/internal/version"
)

const (
	imageSize       = 64
	borderThickness = 4
	tickSeconds     = 0.1 // 10 Hz control loop
)

var (
	configPath = flag.String("config", "", "Path to env config JSON (defaults used when empty)")
	episodes   = flag.Int("episodes", 2, "Number of episodes to run")
	recordDir  = flag.String("record", "", "Record observation frames into this directory")
	verbose    = flag.Bool("verbose", false, "Log per-episode detail")
	seed       = flag.Int64("seed", 1, "Random action seed")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Printf("pushenv %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	monitoring.SetVerbose(*verbose)

	if err := run(); err != nil {
		log.Fatalf("pushenv: %v", err)
	}
}

func run() error {
	cfg := push.DefaultConfig()
	paths := config.Paths{SessionDB: "push_sessions.db"}
	flags := config.Flags{}
	if *configPath != "" {
		var err error
		cfg, paths, flags, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	mask, gray, err := loadBorderAssets(paths)
	if err != nil {
		return err
	}
	builder, err := push.NewObservationBuilder(push.PassthroughTranslator{}, mask, gray, cfg.SensorOffsetDeg)
	if err != nil {
		return err
	}

	store, err := fusion.OpenSessionStore(paths.SessionDB)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionID, err := store.BeginSession(string(cfg.MovementMode), string(cfg.ControlMode), string(cfg.TrajShape))
	if err != nil {
		return err
	}
	monitoring.Logf("session %s -> %s", sessionID, paths.SessionDB)

	opts := push.EnvOptions{Sink: store}
	if flags.EnableFusion {
		calib, err := fusion.LoadCalibration(paths.Calibration)
		if err != nil {
			return fmt.Errorf("fusion enabled but calibration unusable: %w", err)
		}
		fuser, err := fusion.NewFuser(staticTracker{}, calib)
		if err != nil {
			return err
		}
		opts.Fuser = fuser
	}
	dir := *recordDir
	if dir == "" && flags.RecordFrames {
		dir = "frames"
	}
	if dir != "" {
		rec, err := push.NewFrameRecorder(dir)
		if err != nil {
			return err
		}
		opts.Observers = append(opts.Observers, rec)
	}

	driver := push.NewScriptedDriver(cfg, imageSize, imageSize, tickSeconds)
	env, err := push.NewEnv(cfg, driver, builder, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	rng := rand.New(rand.NewSource(*seed))
	actionDim := env.ActionDim()

	for ep := 0; ep < *episodes; ep++ {
		if _, err := env.Reset(); err != nil {
			return fmt.Errorf("episode %d reset: %w", ep, err)
		}

		for {
			action := make([]float64, actionDim)
			for i := range action {
				action[i] = (rng.Float64()*2 - 1) * cfg.MaxAction
			}

			_, _, terminated, info, err := env.Step(action)
			if err != nil {
				return fmt.Errorf("episode %d step %d: %w", ep, env.StepCount(), err)
			}
			if terminated {
				monitoring.Logf("episode %d finished after %d steps (goal index %d)",
					ep, info.Step, info.GoalIndex)
				break
			}
		}
	}

	return env.Close()
}

func loadBorderAssets(paths config.Paths) (mask, gray *push.Image, err error) {
	if paths.BorderMask == "" || paths.BorderGray == "" {
		mask, gray = push.DefaultBorderAssets(imageSize, imageSize, borderThickness)
		return mask, gray, nil
	}
	mask, err = push.LoadGrayPNG(paths.BorderMask)
	if err != nil {
		return nil, nil, err
	}
	gray, err = push.LoadGrayPNG(paths.BorderGray)
	if err != nil {
		return nil, nil, err
	}
	return mask, gray, nil
}

// staticTracker reports a marker fixed in front of the camera. Stands
// in for the real fiducial tracker during dry runs.
type staticTracker struct{}

func (staticTracker) Track() (fusion.Marker, error) {
	centroid := [3]float64{0, 0, 500}
	return fusion.Marker{
		Corners:       [][2]float64{{300, 220}, {340, 220}, {340, 260}, {300, 260}},
		IDs:           []int{1},
		PixelCentroid: &[2]float64{320, 240},
		CamCentroid:   &centroid,
	}, nil
}
