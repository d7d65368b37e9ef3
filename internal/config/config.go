// Package config loads environment configuration from JSON. Fields
// omitted from the file keep their defaults, so partial configs are
// safe; unknown enum values fail at load, not mid-episode.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/pushenv/internal/geom"
	"github.com/banshee-data/pushenv/internal/push"
)

// EnvConfig is the on-disk schema. Pointer fields distinguish "not
// set" from zero values.
type EnvConfig struct {
	MovementMode *string  `json:"movement_mode,omitempty"`
	ControlMode  *string  `json:"control_mode,omitempty"`
	TrajShape    *string  `json:"traj_shape,omitempty"`
	TrajPoints   *int     `json:"traj_points,omitempty"`
	TrajSpacing  *float64 `json:"traj_spacing,omitempty"`

	GoalUpdateRate *int `json:"goal_update_rate,omitempty"`
	MaxSteps       *int `json:"max_steps,omitempty"`

	WorkFrame       *[6]float64 `json:"work_frame,omitempty"`
	SensorOffsetDeg *float64    `json:"sensor_offset_deg,omitempty"`

	MinAction *float64 `json:"min_action,omitempty"`
	MaxAction *float64 `json:"max_action,omitempty"`

	MaxYawChangeDeg *float64 `json:"max_yaw_change_deg,omitempty"`
	MaxLinVelMMs    *float64 `json:"max_lin_vel_mms,omitempty"`
	MaxYawVelDegs   *float64 `json:"max_yaw_vel_degs,omitempty"`

	CalibrationPath *string `json:"calibration_path,omitempty"`
	BorderMaskPath  *string `json:"border_mask_path,omitempty"`
	BorderGrayPath  *string `json:"border_gray_path,omitempty"`

	SessionDBPath *string `json:"session_db_path,omitempty"`
	RecordFrames  *bool   `json:"record_frames,omitempty"`
	EnableFusion  *bool   `json:"enable_fusion,omitempty"`
}

// Paths groups the file locations a run needs beyond the core config.
type Paths struct {
	Calibration string
	BorderMask  string
	BorderGray  string
	SessionDB   string
}

// Flags groups the optional side channels.
type Flags struct {
	RecordFrames bool
	EnableFusion bool
}

// Load reads and validates a config file, returning the resolved core
// config plus paths and flags. Any unknown mode or shape aborts here.
func Load(path string) (push.Config, Paths, Flags, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return push.Config{}, Paths{}, Flags{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return push.Config{}, Paths{}, Flags{}, fmt.Errorf("read config file: %w", err)
	}

	var ec EnvConfig
	if err := json.Unmarshal(data, &ec); err != nil {
		return push.Config{}, Paths{}, Flags{}, fmt.Errorf("parse config JSON: %w", err)
	}
	return ec.Resolve()
}

// Resolve applies the file's overrides on top of the defaults and
// validates the result.
func (ec *EnvConfig) Resolve() (push.Config, Paths, Flags, error) {
	cfg := push.DefaultConfig()

	if ec.MovementMode != nil {
		m, err := push.ParseMovementMode(*ec.MovementMode)
		if err != nil {
			return push.Config{}, Paths{}, Flags{}, err
		}
		cfg.MovementMode = m
	}
	if ec.ControlMode != nil {
		m, err := push.ParseControlMode(*ec.ControlMode)
		if err != nil {
			return push.Config{}, Paths{}, Flags{}, err
		}
		cfg.ControlMode = m
	}
	if ec.TrajShape != nil {
		s, err := push.ParseTrajShape(*ec.TrajShape)
		if err != nil {
			return push.Config{}, Paths{}, Flags{}, err
		}
		cfg.TrajShape = s
	}
	if ec.TrajPoints != nil {
		cfg.Traj.Points = *ec.TrajPoints
	}
	if ec.TrajSpacing != nil {
		cfg.Traj.Spacing = *ec.TrajSpacing
	}
	if ec.GoalUpdateRate != nil {
		cfg.GoalUpdateRate = *ec.GoalUpdateRate
	}
	if ec.MaxSteps != nil {
		cfg.MaxSteps = *ec.MaxSteps
	}
	if ec.WorkFrame != nil {
		cfg.WorkFrame = geom.PoseFromArray(*ec.WorkFrame)
	}
	if ec.SensorOffsetDeg != nil {
		cfg.SensorOffsetDeg = *ec.SensorOffsetDeg
	}
	if ec.MinAction != nil {
		cfg.MinAction = *ec.MinAction
	}
	if ec.MaxAction != nil {
		cfg.MaxAction = *ec.MaxAction
	}
	if ec.MaxYawChangeDeg != nil {
		cfg.MaxYawChangeDeg = *ec.MaxYawChangeDeg
	}
	if ec.MaxLinVelMMs != nil {
		cfg.MaxLinVelMMs = *ec.MaxLinVelMMs
	}
	if ec.MaxYawVelDegs != nil {
		cfg.MaxYawVelDegs = *ec.MaxYawVelDegs
	}

	if err := cfg.Validate(); err != nil {
		return push.Config{}, Paths{}, Flags{}, fmt.Errorf("invalid configuration: %w", err)
	}

	paths := Paths{SessionDB: "push_sessions.db"}
	if ec.CalibrationPath != nil {
		paths.Calibration = *ec.CalibrationPath
	}
	if ec.BorderMaskPath != nil {
		paths.BorderMask = *ec.BorderMaskPath
	}
	if ec.BorderGrayPath != nil {
		paths.BorderGray = *ec.BorderGrayPath
	}
	if ec.SessionDBPath != nil {
		paths.SessionDB = *ec.SessionDBPath
	}

	flags := Flags{}
	if ec.RecordFrames != nil {
		flags.RecordFrames = *ec.RecordFrames
	}
	if ec.EnableFusion != nil {
		flags.EnableFusion = *ec.EnableFusion
	}
	return cfg, paths, flags, nil
}
