package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pushenv/internal/push"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "env.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesPartialOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"movement_mode": "xyRz",
		"control_mode": "TCP_position_control",
		"traj_shape": "curve",
		"max_steps": 200,
		"enable_fusion": true,
		"session_db_path": "runs/test.db"
	}`)

	cfg, paths, flags, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, push.MoveXYRz, cfg.MovementMode)
	assert.Equal(t, push.PositionControl, cfg.ControlMode)
	assert.Equal(t, push.TrajCurve, cfg.TrajShape)
	assert.Equal(t, 200, cfg.MaxSteps)

	// Untouched fields keep their defaults.
	def := push.DefaultConfig()
	assert.Equal(t, def.GoalUpdateRate, cfg.GoalUpdateRate)
	assert.Equal(t, def.Traj, cfg.Traj)
	assert.Equal(t, def.SensorOffsetDeg, cfg.SensorOffsetDeg)

	assert.True(t, flags.EnableFusion)
	assert.False(t, flags.RecordFrames)
	assert.Equal(t, "runs/test.db", paths.SessionDB)
}

func TestLoadFailsFastOnBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"unknown movement mode", `{"movement_mode": "teleport"}`},
		{"unknown control mode", `{"control_mode": "TCP_warp_control"}`},
		{"unknown traj shape", `{"traj_shape": "spiral"}`},
		{"invalid max steps", `{"max_steps": 0}`},
		{"empty action range", `{"min_action": 0.5, "max_action": 0.5}`},
		{"malformed JSON", `{"movement_mode":`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, _, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsNonJSONPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	_, _, _, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultsValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, push.DefaultConfig().Validate())
}
