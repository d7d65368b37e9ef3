package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pushenv/internal/fusion"
)

// memorySink records persisted trajectories and fusion logs in memory.
type memorySink struct {
	trajectories map[int][][3]float64
	logWrites    int
	lastLog      []fusion.Entry
}

func newMemorySink() *memorySink {
	return &memorySink{trajectories: make(map[int][][3]float64)}
}

func (s *memorySink) SaveTrajectory(variant int, pos, rpy [][3]float64) error {
	s.trajectories[variant] = pos
	return nil
}

func (s *memorySink) WriteLog(entries []fusion.Entry) error {
	s.logWrites++
	s.lastLog = entries
	return nil
}

// blindTracker never sees a marker.
type blindTracker struct{}

func (blindTracker) Track() (fusion.Marker, error) {
	return fusion.Marker{}, fusion.ErrNoMarkerDetected
}

func testEnvConfig() Config {
	cfg := DefaultConfig()
	cfg.MovementMode = MoveYRz
	cfg.ControlMode = VelocityControl
	cfg.TrajShape = TrajStraight
	cfg.MaxSteps = 5
	cfg.GoalUpdateRate = 2
	return cfg
}

func newTestEnv(t *testing.T, cfg Config, opts EnvOptions) *Env {
	t.Helper()
	mask, gray := borderFixtures()
	builder, err := NewObservationBuilder(PassthroughTranslator{}, mask, gray, cfg.SensorOffsetDeg)
	require.NoError(t, err)

	driver := NewScriptedDriver(cfg, 4, 4, 0.1)
	env, err := NewEnv(cfg, driver, builder, opts)
	require.NoError(t, err)
	return env
}

func TestEnvStepRequiresActiveState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testEnvConfig(), EnvOptions{})
	assert.Equal(t, StateUninitialized, env.State())

	_, _, _, _, err := env.Step([]float64{0, 0})
	assert.Error(t, err, "step before reset must fail")
}

func TestEnvTerminatesOnExactTick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testEnvConfig(), EnvOptions{})
	obs, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, StateActive, env.State())
	require.NotNil(t, obs.Image)

	for step := 1; step <= 5; step++ {
		obs, reward, terminated, info, err := env.Step([]float64{0.1, 0})
		require.NoError(t, err, "step %d", step)
		assert.Zero(t, reward)
		assert.Equal(t, step, info.Step)
		require.NotNil(t, obs.Image)

		if step < 5 {
			assert.False(t, terminated, "step %d must not terminate", step)
		} else {
			assert.True(t, terminated, "episode must terminate exactly at max steps")
		}
	}
	assert.Equal(t, StateTerminated, env.State())

	_, _, _, _, err = env.Step([]float64{0, 0})
	assert.Error(t, err, "step after termination must fail")
}

func TestEnvGoalAdvanceCadence(t *testing.T) {
	t.Parallel()

	cfg := testEnvConfig()
	cfg.MaxSteps = 6
	env := newTestEnv(t, cfg, EnvOptions{})
	_, err := env.Reset()
	require.NoError(t, err)

	wantIndex := []int{1, 2, 2, 3, 3, 4} // setup advance + every 2nd step
	for step := 1; step <= 6; step++ {
		_, _, _, info, err := env.Step([]float64{0, 0})
		require.NoError(t, err)
		assert.Equal(t, wantIndex[step-1], info.GoalIndex, "step %d", step)
	}
}

func TestEnvResetSelectsVariantAndPersistsTrajectory(t *testing.T) {
	t.Parallel()

	sink := newMemorySink()
	env := newTestEnv(t, testEnvConfig(), EnvOptions{Sink: sink})

	_, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, env.EpisodeIndex())
	require.Contains(t, sink.trajectories, 0)
	assert.Len(t, sink.trajectories[0], 10)

	// Second episode shares the variant; third starts variant 1.
	_, err = env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 1, env.EpisodeIndex())

	_, err = env.Reset()
	require.NoError(t, err)
	require.Contains(t, sink.trajectories, 1)
}

func TestEnvFusionAbsentTicks(t *testing.T) {
	t.Parallel()

	calib := &fusion.Calibration{}
	fuser, err := fusion.NewFuser(blindTracker{}, calib)
	require.NoError(t, err)

	sink := newMemorySink()
	env := newTestEnv(t, testEnvConfig(), EnvOptions{Fuser: fuser, Sink: sink})
	_, err = env.Reset()
	require.NoError(t, err)

	// Five consecutive no-marker ticks: no error, loop continues.
	for step := 1; step <= 5; step++ {
		_, _, _, info, err := env.Step([]float64{0, 0})
		require.NoError(t, err, "absent marker must not abort step %d", step)
		assert.False(t, info.Fused.Present())
	}
	assert.Equal(t, 5, env.StepCount())

	log := fuser.Log()
	require.Len(t, log, 5)
	for i, entry := range log {
		assert.Equal(t, i, entry.Tick)
		assert.True(t, entry.Absent, "entry %d must be absent", i)
	}

	// Close flushes the aligned log to the sink.
	require.NoError(t, env.Close())
	assert.Equal(t, 1, sink.logWrites)
	assert.Len(t, sink.lastLog, 5)
}

func TestEnvCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	sink := newMemorySink()
	calib := &fusion.Calibration{}
	fuser, err := fusion.NewFuser(blindTracker{}, calib)
	require.NoError(t, err)

	env := newTestEnv(t, testEnvConfig(), EnvOptions{Fuser: fuser, Sink: sink})
	_, err = env.Reset()
	require.NoError(t, err)

	require.NoError(t, env.Close())
	require.NoError(t, env.Close())
	assert.Equal(t, 1, sink.logWrites, "log must flush once")

	_, err = env.Reset()
	assert.Error(t, err, "reset after close must fail")
}

func TestScriptedDriverIntegratesCommands(t *testing.T) {
	t.Parallel()

	cfg := testEnvConfig()
	d := NewScriptedDriver(cfg, 4, 4, 0.1)
	require.NoError(t, d.Reset())

	require.NoError(t, d.ApplyPositionCommand([6]float64{10, -5, 0, 0, 0, 2}))
	pose, err := d.CurrentTCPPose()
	require.NoError(t, err)
	assert.Equal(t, 10.0, pose.X)
	assert.Equal(t, -5.0, pose.Y)
	assert.Equal(t, cfg.SensorOffsetDeg+2, pose.Yaw)

	// Velocity integrates over the tick duration.
	require.NoError(t, d.Reset())
	require.NoError(t, d.ApplyVelocityCommand([6]float64{5, 0, 0, 0, 0, 0}))
	pose, err = d.CurrentTCPPose()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pose.X, 1e-12)

	// Limits clamp: x range is [0, 300] mm.
	require.NoError(t, d.Reset())
	require.NoError(t, d.ApplyPositionCommand([6]float64{-50, 0, 0, 0, 0, 0}))
	pose, err = d.CurrentTCPPose()
	require.NoError(t, err)
	assert.Equal(t, 0.0, pose.X)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, err = d.CurrentTCPPose()
	assert.Error(t, err)
}
