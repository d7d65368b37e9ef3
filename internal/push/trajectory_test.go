package push

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTrajConfig() TrajConfig {
	return TrajConfig{Points: 10, Spacing: 0.025}
}

func TestGenerateTrajectoryStraightScenario(t *testing.T) {
	t.Parallel()

	// Episode 0 -> variant 0 -> direction angle -pi/8, offset 0.065.
	traj, err := GenerateTrajectory(TrajStraight, 0, defaultTrajConfig())
	require.NoError(t, err)
	require.Equal(t, 10, traj.Len())

	ang := -math.Pi / 8

	pos0, rpy0 := traj.Waypoint(0)
	assert.InDelta(t, 0.065, pos0[0], 1e-12)
	assert.InDelta(t, 0.0, pos0[1], 1e-12)
	assert.Equal(t, 0.0, pos0[2])
	assert.Equal(t, 0.0, rpy0[0])
	assert.Equal(t, 0.0, rpy0[1])

	pos9, _ := traj.Waypoint(9)
	dist := 9 * 0.025
	assert.InDelta(t, 0.065+dist*math.Cos(ang), pos9[0], 1e-12)
	assert.InDelta(t, dist*math.Sin(ang), pos9[1], 1e-12)

	// Tangent heading of a straight line is constant: the gradient of
	// lateral position with respect to spacing is sin(angle).
	for i := 0; i < traj.Len(); i++ {
		_, rpy := traj.Waypoint(i)
		assert.InDelta(t, math.Sin(ang), rpy[2], 1e-9, "waypoint %d yaw", i)
	}
}

func TestGenerateTrajectoryDeterministic(t *testing.T) {
	t.Parallel()

	for _, shape := range []TrajShape{TrajStraight, TrajCurve, TrajSinusoid} {
		for _, episode := range []int{0, 1, 5, 12} {
			a, err := GenerateTrajectory(shape, episode, defaultTrajConfig())
			require.NoError(t, err)
			b, err := GenerateTrajectory(shape, episode, defaultTrajConfig())
			require.NoError(t, err)

			if diff := cmp.Diff(a.Positions(), b.Positions()); diff != "" {
				t.Errorf("%s episode %d positions differ (-a +b):\n%s", shape, episode, diff)
			}
			if diff := cmp.Diff(a.Orientations(), b.Orientations()); diff != "" {
				t.Errorf("%s episode %d orientations differ (-a +b):\n%s", shape, episode, diff)
			}
		}
	}
}

func TestGenerateTrajectoryEpisodePairsShareVariant(t *testing.T) {
	t.Parallel()

	a, err := GenerateTrajectory(TrajSinusoid, 2, defaultTrajConfig())
	require.NoError(t, err)
	b, err := GenerateTrajectory(TrajSinusoid, 3, defaultTrajConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Positions(), b.Positions())

	c, err := GenerateTrajectory(TrajSinusoid, 4, defaultTrajConfig())
	require.NoError(t, err)
	assert.NotEqual(t, a.Positions(), c.Positions())
}

func TestGenerateTrajectoryCurveSignAlternates(t *testing.T) {
	t.Parallel()

	// Even variant curves negative, odd positive.
	even, err := GenerateTrajectory(TrajCurve, 0, defaultTrajConfig())
	require.NoError(t, err)
	odd, err := GenerateTrajectory(TrajCurve, 2, defaultTrajConfig())
	require.NoError(t, err)

	posEven, _ := even.Waypoint(5)
	posOdd, _ := odd.Waypoint(5)
	assert.Negative(t, posEven[1])
	assert.Positive(t, posOdd[1])
	assert.InDelta(t, -posEven[1], posOdd[1], 1e-12)

	// Parabola: lateral = sign * forward^2.
	assert.InDelta(t, -posEven[0]*posEven[0], posEven[1], 1e-12)
}

func TestGenerateTrajectorySinusoid(t *testing.T) {
	t.Parallel()

	traj, err := GenerateTrajectory(TrajSinusoid, 0, defaultTrajConfig())
	require.NoError(t, err)

	// Waypoint 0 sits at the offset where the sinusoid crosses zero.
	pos0, _ := traj.Waypoint(0)
	assert.InDelta(t, 0.065, pos0[0], 1e-12)
	assert.InDelta(t, 0.0, pos0[1], 1e-12)

	pos3, _ := traj.Waypoint(3)
	want := -0.025 * math.Sin(20*(pos3[0]-0.065))
	assert.InDelta(t, want, pos3[1], 1e-12)
}

func TestGenerateTrajectoryStraightAngleCycle(t *testing.T) {
	t.Parallel()

	// Variants 0..3 map to [-pi/8, 0, pi/8, 0]; variant 4 wraps.
	lateralSign := func(episode int) float64 {
		traj, err := GenerateTrajectory(TrajStraight, episode, defaultTrajConfig())
		require.NoError(t, err)
		pos, _ := traj.Waypoint(9)
		return pos[1]
	}

	assert.Negative(t, lateralSign(0)) // variant 0: -pi/8
	assert.Zero(t, lateralSign(2))     // variant 1: 0
	assert.Positive(t, lateralSign(4)) // variant 2: +pi/8
	assert.Zero(t, lateralSign(6))     // variant 3: 0
	assert.Negative(t, lateralSign(8)) // variant 4 wraps to -pi/8
}

func TestGenerateTrajectoryRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := GenerateTrajectory(TrajShape("spiral"), 0, defaultTrajConfig())
	assert.Error(t, err)

	_, err = GenerateTrajectory(TrajStraight, 0, TrajConfig{Points: 1, Spacing: 0.025})
	assert.Error(t, err)

	_, err = GenerateTrajectory(TrajStraight, 0, TrajConfig{Points: 10, Spacing: 0})
	assert.Error(t, err)
}

func TestParseTrajShape(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"straight", "curve", "sin"} {
		_, err := ParseTrajShape(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseTrajShape("zigzag")
	assert.Error(t, err)
}
