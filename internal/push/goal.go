package push

// GoalTracker walks through a trajectory's waypoints at a fixed
// cadence, clamping at the final waypoint. The constructor performs one
// setup advance, so the initial goal is the second waypoint rather than
// the trajectory's start point; the object begins at the start point
// and the first goal must lie ahead of it.
type GoalTracker struct {
	traj  *Trajectory
	index int
}

// NewGoalTracker creates a tracker positioned at the initial goal
// (waypoint 1).
func NewGoalTracker(traj *Trajectory) *GoalTracker {
	g := &GoalTracker{traj: traj}
	g.Advance()
	return g
}

// Advance moves to the next waypoint, clamped to the last index. The
// index is monotonic non-decreasing for the trajectory's lifetime.
func (g *GoalTracker) Advance() {
	if g.index < g.traj.Len()-1 {
		g.index++
	}
}

// AdvanceEvery advances once when stepCounter is an exact multiple of
// rate. A rate of zero or less never advances.
func (g *GoalTracker) AdvanceEvery(rate, stepCounter int) {
	if rate > 0 && stepCounter%rate == 0 {
		g.Advance()
	}
}

// Index returns the current waypoint index.
func (g *GoalTracker) Index() int { return g.index }

// Current returns the goal position and orientation at the current
// index. The index is clamped on advance, so this never reads out of
// bounds.
func (g *GoalTracker) Current() (pos, rpy [3]float64) {
	return g.traj.Waypoint(g.index)
}
