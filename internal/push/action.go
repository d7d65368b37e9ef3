package push

import (
	"fmt"
	"math"

	"github.com/banshee-data/pushenv/internal/geom"
	"github.com/banshee-data/pushenv/internal/units"
)

// Command axis indices for the 6-length command vector.
const (
	axisX = iota
	axisY
	axisZ
	axisRoll
	axisPitch
	axisYaw
)

// tipDirections computes unit vectors in workframe coordinates for the
// direction the sensor tip points (parallel) and the direction 90
// degrees clockwise of it (perpendicular), from the current TCP yaw in
// degrees plus the fixed sensor mounting offset.
func tipDirections(tcpYawDeg, sensorOffsetDeg float64) (par, perp [3]float64) {
	parAng := units.DegToRad(tcpYawDeg + sensorOffsetDeg)
	perpAng := units.DegToRad(tcpYawDeg + sensorOffsetDeg - 90)

	par = [3]float64{math.Cos(parAng), math.Sin(parAng), 0}
	perp = [3]float64{math.Cos(perpAng), math.Sin(perpAng), 0}
	return par, perp
}

// EncodeAction maps a policy action onto a full 6-length command vector
// in normalized units. Workframe modes address fixed axes directly;
// tool modes resolve the action along the tip's current parallel and
// perpendicular directions so the arm crawls relative to where the
// sensor points. Unused axes are exactly zero.
func EncodeAction(mode MovementMode, action []float64, tcpPose geom.Pose6, cfg Config) ([6]float64, error) {
	var out [6]float64

	dim, err := mode.ActionDim()
	if err != nil {
		return out, err
	}
	if len(action) != dim {
		return out, fmt.Errorf("movement mode %q expects %d action values, got %d", string(mode), dim, len(action))
	}

	switch mode {
	case MoveY:
		out[axisX] = cfg.MaxAction
		out[axisY] = action[0]
	case MoveYRz:
		out[axisX] = cfg.MaxAction
		out[axisY] = action[0]
		out[axisYaw] = action[1]
	case MoveXYRz:
		out[axisX] = action[0]
		out[axisY] = action[1]
		out[axisYaw] = action[2]
	case MoveTYRz:
		par, perp := tipDirections(tcpPose.Yaw, cfg.SensorOffsetDeg)
		// Perpendicular slide under policy control; forward crawl along
		// the tip direction pinned at the max action magnitude.
		out[axisX] = perp[0]*action[0] + par[0]*cfg.MaxAction
		out[axisY] = perp[1]*action[0] + par[1]*cfg.MaxAction
		out[axisYaw] = action[1]
	case MoveTXTYRz:
		par, perp := tipDirections(tcpPose.Yaw, cfg.SensorOffsetDeg)
		out[axisX] = par[0]*action[0] + perp[0]*action[1]
		out[axisY] = par[1]*action[0] + perp[1]*action[1]
		out[axisYaw] = action[2]
	default:
		return out, fmt.Errorf("unknown movement mode %q", string(mode))
	}

	return out, nil
}

// axisRanges returns the physical output range per axis for the
// control mode. Degenerate [0, 0] ranges pin an axis: the affine
// rescale maps everything to exactly zero.
func axisRanges(mode ControlMode, cfg Config) ([6][2]float64, error) {
	var r [6][2]float64
	switch mode {
	case PositionControl:
		maxYaw := units.DegToRad(cfg.MaxYawChangeDeg)
		r[axisYaw] = [2]float64{-maxYaw, maxYaw}
	case VelocityControl:
		maxYaw := units.DegToRad(cfg.MaxYawVelDegs)
		r[axisX] = [2]float64{-cfg.MaxLinVelMMs, cfg.MaxLinVelMMs}
		r[axisY] = [2]float64{-cfg.MaxLinVelMMs, cfg.MaxLinVelMMs}
		r[axisYaw] = [2]float64{-maxYaw, maxYaw}
	default:
		return r, fmt.Errorf("unknown control mode %q", string(mode))
	}
	return r, nil
}

// ScaleAction clips each component of the encoded action to the
// normalized range and affinely rescales it into the physical command
// range for the control mode. Scaling an already-in-range action twice
// yields the same result.
func ScaleAction(raw [6]float64, mode ControlMode, cfg Config) ([6]float64, error) {
	ranges, err := axisRanges(mode, cfg)
	if err != nil {
		return [6]float64{}, err
	}

	inputRange := cfg.MaxAction - cfg.MinAction
	var out [6]float64
	for i, v := range raw {
		clipped := math.Min(math.Max(v, cfg.MinAction), cfg.MaxAction)
		lo, hi := ranges[i][0], ranges[i][1]
		// Only the input range divides; a zero-width output range
		// resolves to lo (0 for pinned axes), never a divide-by-zero.
		out[i] = (clipped-cfg.MinAction)*(hi-lo)/inputRange + lo
	}
	return out, nil
}
