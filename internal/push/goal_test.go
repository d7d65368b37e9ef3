package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalTrackerStartsAtSecondWaypoint(t *testing.T) {
	t.Parallel()

	traj, err := GenerateTrajectory(TrajStraight, 0, defaultTrajConfig())
	require.NoError(t, err)

	g := NewGoalTracker(traj)
	assert.Equal(t, 1, g.Index())

	pos, rpy := g.Current()
	wantPos, wantRPY := traj.Waypoint(1)
	assert.Equal(t, wantPos, pos)
	assert.Equal(t, wantRPY, rpy)
}

func TestGoalTrackerClampsAtFinalWaypoint(t *testing.T) {
	t.Parallel()

	traj, err := GenerateTrajectory(TrajStraight, 0, defaultTrajConfig())
	require.NoError(t, err)

	g := NewGoalTracker(traj)
	prev := g.Index()
	for i := 0; i < traj.Len()*3; i++ {
		g.Advance()
		assert.GreaterOrEqual(t, g.Index(), prev, "index must be non-decreasing")
		assert.LessOrEqual(t, g.Index(), traj.Len()-1, "index must never pass the last waypoint")
		prev = g.Index()
	}
	assert.Equal(t, traj.Len()-1, g.Index())

	// Current never indexes out of bounds even after over-advancing.
	pos, _ := g.Current()
	wantPos, _ := traj.Waypoint(traj.Len() - 1)
	assert.Equal(t, wantPos, pos)
}

func TestGoalTrackerAdvanceEvery(t *testing.T) {
	t.Parallel()

	traj, err := GenerateTrajectory(TrajStraight, 0, defaultTrajConfig())
	require.NoError(t, err)

	g := NewGoalTracker(traj)
	for step := 1; step <= 150; step++ {
		g.AdvanceEvery(50, step)
	}
	// Setup advance plus steps 50, 100, 150.
	assert.Equal(t, 4, g.Index())

	// Zero rate never advances.
	before := g.Index()
	g.AdvanceEvery(0, 100)
	assert.Equal(t, before, g.Index())
}
