package push

import (
	"fmt"

	"github.com/banshee-data/pushenv/internal/geom"
)

// Config holds the resolved environment parameters. Values mirror the
// rig this environment was built around: driver poses in millimetres
// and degrees, trajectories in metres and radians.
type Config struct {
	MovementMode MovementMode
	ControlMode  ControlMode
	TrajShape    TrajShape
	Traj         TrajConfig

	GoalUpdateRate int // steps between goal advances
	MaxSteps       int // episode length

	// WorkFrame is the tool-center-point origin in base coordinates
	// (mm/deg). SensorOffsetDeg aligns the camera without changing the
	// workframe.
	WorkFrame       geom.Pose6
	SensorOffsetDeg float64

	// Policy action bounds (symmetric normalized range).
	MinAction, MaxAction float64

	// Physical command limits per control mode.
	MaxYawChangeDeg float64 // position control: deg per step
	MaxLinVelMMs    float64 // velocity control: mm/s
	MaxYawVelDegs   float64 // velocity control: deg/s

	// TCPLimits bounds the tool-center-point relative to the workframe,
	// [axis][min max] in mm/deg. Enforced by the driver.
	TCPLimits [6][2]float64
}

// DefaultConfig returns the production rig parameters.
func DefaultConfig() Config {
	cfg := Config{
		MovementMode: MoveTYRz,
		ControlMode:  VelocityControl,
		TrajShape:    TrajSinusoid,
		Traj:         TrajConfig{Points: 10, Spacing: 0.025},

		GoalUpdateRate: 50,
		MaxSteps:       1000,

		WorkFrame:       geom.Pose6{X: -200.0, Y: -420.0, Z: 55, Roll: -180},
		SensorOffsetDeg: 45,

		MinAction: -0.25,
		MaxAction: 0.25,

		MaxYawChangeDeg: 1,
		MaxLinVelMMs:    5,
		MaxYawVelDegs:   2.5,
	}
	cfg.TCPLimits = [6][2]float64{
		{0, 300},     // x (mm)
		{-100, 100},  // y (mm)
		{0, 0},       // z
		{0, 0},       // roll
		{0, 0},       // pitch
		{cfg.SensorOffsetDeg - 45, cfg.SensorOffsetDeg + 45}, // yaw (deg)
	}
	return cfg
}

// Validate fails fast on configuration errors; none of these are
// recoverable at runtime.
func (c Config) Validate() error {
	if _, err := c.MovementMode.ActionDim(); err != nil {
		return err
	}
	if _, err := ParseControlMode(string(c.ControlMode)); err != nil {
		return err
	}
	if _, err := ParseTrajShape(string(c.TrajShape)); err != nil {
		return err
	}
	if c.Traj.Points < 2 {
		return fmt.Errorf("traj points must be >= 2, got %d", c.Traj.Points)
	}
	if c.Traj.Spacing <= 0 {
		return fmt.Errorf("traj spacing must be positive, got %v", c.Traj.Spacing)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	if c.GoalUpdateRate <= 0 {
		return fmt.Errorf("goal update rate must be positive, got %d", c.GoalUpdateRate)
	}
	if c.MaxAction <= c.MinAction {
		return fmt.Errorf("action range [%v, %v] is empty", c.MinAction, c.MaxAction)
	}
	return nil
}
