package push

import (
	"fmt"

	"github.com/banshee-data/pushenv/internal/geom"
)

// ScriptedDriver is an in-process RobotDriver that integrates commands
// into a pose instead of moving hardware. It backs the demo binary and
// tests; the physical driver lives outside this module.
type ScriptedDriver struct {
	home   geom.Pose6
	pose   geom.Pose6
	limits [6][2]float64
	dt     float64 // seconds per velocity tick
	imgW   int
	imgH   int
	closed bool
}

// NewScriptedDriver homes the simulated TCP at the workframe origin
// with the sensor mounting yaw, and enforces the configured TCP
// limits.
func NewScriptedDriver(cfg Config, imgW, imgH int, tickSeconds float64) *ScriptedDriver {
	home := geom.Pose6{Yaw: cfg.SensorOffsetDeg}
	return &ScriptedDriver{
		home:   home,
		pose:   home,
		limits: cfg.TCPLimits,
		dt:     tickSeconds,
		imgW:   imgW,
		imgH:   imgH,
	}
}

// Reset returns the TCP to the home pose.
func (d *ScriptedDriver) Reset() error {
	if d.closed {
		return fmt.Errorf("reset on closed driver")
	}
	d.pose = d.home
	return nil
}

// Close marks the driver released. Safe to call more than once.
func (d *ScriptedDriver) Close() error {
	d.closed = true
	return nil
}

// ApplyPositionCommand adds a position delta to the pose, clamped to
// the TCP limits.
func (d *ScriptedDriver) ApplyPositionCommand(cmd [6]float64) error {
	if d.closed {
		return fmt.Errorf("command on closed driver")
	}
	d.integrate(cmd, 1)
	return nil
}

// ApplyVelocityCommand integrates a velocity setpoint over one tick.
func (d *ScriptedDriver) ApplyVelocityCommand(cmd [6]float64) error {
	if d.closed {
		return fmt.Errorf("command on closed driver")
	}
	d.integrate(cmd, d.dt)
	return nil
}

func (d *ScriptedDriver) integrate(cmd [6]float64, scale float64) {
	p := d.pose.Array()
	for i := range p {
		p[i] += cmd[i] * scale
		lo, hi := d.limits[i][0], d.limits[i][1]
		if lo != hi {
			if p[i] < lo {
				p[i] = lo
			}
			if p[i] > hi {
				p[i] = hi
			}
		}
	}
	d.pose = geom.PoseFromArray(p)
}

// CurrentTCPPose reports the integrated pose (mm/deg, workframe).
func (d *ScriptedDriver) CurrentTCPPose() (geom.Pose6, error) {
	if d.closed {
		return geom.Pose6{}, fmt.Errorf("pose read on closed driver")
	}
	return d.pose, nil
}

// CaptureSensorImage returns a deterministic synthetic frame: a
// horizontal ramp shifted by the TCP position so recorded frames vary
// across a run.
func (d *ScriptedDriver) CaptureSensorImage() (*Image, error) {
	if d.closed {
		return nil, fmt.Errorf("capture on closed driver")
	}
	im := NewImage(d.imgW, d.imgH)
	shift := int(d.pose.X) + int(d.pose.Y)
	for y := 0; y < d.imgH; y++ {
		for x := 0; x < d.imgW; x++ {
			im.Set(x, y, uint8((x+y+shift)&0xff))
		}
	}
	return im, nil
}
