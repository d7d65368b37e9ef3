package push

import (
	"fmt"
	"math"

	"github.com/banshee-data/pushenv/internal/geom"
)

// Trajectory generation constants. The margin keeps the first waypoint
// clear of the object's starting position; amplitude and frequency fix
// the sinusoid's lateral swing in workframe metres.
const (
	trajFixedMargin = 0.04
	sinAmplitude    = 0.025
	sinFrequency    = 20.0
)

// straightAngles is the direction cycle for straight trajectories,
// indexed by variant (one variant per episode pair).
var straightAngles = [4]float64{-math.Pi / 8, 0, math.Pi / 8, 0}

// TrajConfig controls trajectory generation.
type TrajConfig struct {
	Points  int     // number of waypoints
	Spacing float64 // forward distance between waypoints (m)
}

// Trajectory is a fixed-length waypoint sequence in workframe
// coordinates, immutable once generated. Positions are metres,
// orientations radians.
type Trajectory struct {
	pos [][3]float64
	rpy [][3]float64
}

// Len returns the number of waypoints.
func (t *Trajectory) Len() int { return len(t.pos) }

// Waypoint returns the position and orientation at index i.
func (t *Trajectory) Waypoint(i int) (pos, rpy [3]float64) {
	return t.pos[i], t.rpy[i]
}

// Positions returns a copy of all waypoint positions.
func (t *Trajectory) Positions() [][3]float64 {
	out := make([][3]float64, len(t.pos))
	copy(out, t.pos)
	return out
}

// Orientations returns a copy of all waypoint orientations.
func (t *Trajectory) Orientations() [][3]float64 {
	out := make([][3]float64, len(t.rpy))
	copy(out, t.rpy)
	return out
}

// VariantIndex derives the trajectory variant from the episode index.
// Direction and curvature alternate per episode pair, so consecutive
// episodes replay the same path.
func VariantIndex(episodeIndex int) int { return episodeIndex / 2 }

// GenerateTrajectory builds the waypoint sequence for one episode.
// Generation is deterministic: identical (shape, episodeIndex, cfg)
// inputs produce bit-identical output.
func GenerateTrajectory(shape TrajShape, episodeIndex int, cfg TrajConfig) (*Trajectory, error) {
	if cfg.Points < 2 {
		return nil, fmt.Errorf("trajectory needs at least 2 points, got %d", cfg.Points)
	}
	if cfg.Spacing <= 0 {
		return nil, fmt.Errorf("trajectory spacing must be positive, got %v", cfg.Spacing)
	}

	variant := VariantIndex(episodeIndex)
	offset := trajFixedMargin + cfg.Spacing

	lateral, err := lateralFunc(shape, variant, offset)
	if err != nil {
		return nil, err
	}

	t := &Trajectory{
		pos: make([][3]float64, cfg.Points),
		rpy: make([][3]float64, cfg.Points),
	}

	ys := make([]float64, cfg.Points)
	for i := 0; i < cfg.Points; i++ {
		dist := float64(i) * cfg.Spacing
		x, y := lateral(dist)
		t.pos[i] = [3]float64{x, y, 0}
		ys[i] = y
	}

	// Yaw follows the tangent heading: the finite-difference slope of
	// lateral position with respect to spacing. Roll and pitch stay 0.
	for i, g := range geom.Gradient(ys, cfg.Spacing) {
		t.rpy[i] = [3]float64{0, 0, g}
	}

	return t, nil
}

// lateralFunc returns the (forward, lateral) position function for the
// shape. dist is the cumulative forward distance i*spacing.
func lateralFunc(shape TrajShape, variant int, offset float64) (func(dist float64) (x, y float64), error) {
	sign := -1.0
	if variant%2 != 0 {
		sign = 1.0
	}

	switch shape {
	case TrajStraight:
		ang := straightAngles[((variant%len(straightAngles))+len(straightAngles))%len(straightAngles)]
		sinA, cosA := math.Sincos(ang)
		return func(dist float64) (float64, float64) {
			return offset + dist*cosA, dist * sinA
		}, nil
	case TrajCurve:
		return func(dist float64) (float64, float64) {
			x := offset + dist
			return x, sign * x * x
		}, nil
	case TrajSinusoid:
		return func(dist float64) (float64, float64) {
			x := offset + dist
			return x, sign * sinAmplitude * math.Sin(sinFrequency*(x-offset))
		}, nil
	}
	return nil, fmt.Errorf("unknown trajectory shape %q", string(shape))
}
