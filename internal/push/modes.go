package push

import "fmt"

// TrajShape selects the path family the goal trajectory follows.
type TrajShape string

const (
	TrajStraight TrajShape = "straight"
	TrajCurve    TrajShape = "curve"
	TrajSinusoid TrajShape = "sin"
)

// ParseTrajShape maps a config string onto a TrajShape. Unknown values
// are a configuration error and abort startup.
func ParseTrajShape(s string) (TrajShape, error) {
	switch TrajShape(s) {
	case TrajStraight, TrajCurve, TrajSinusoid:
		return TrajShape(s), nil
	}
	return "", fmt.Errorf("unknown trajectory shape %q", s)
}

// MovementMode selects how a low-dimensional policy action maps onto
// the 6-DOF command. Workframe modes address fixed axes; tool modes
// move relative to the direction the sensor tip currently points.
type MovementMode string

const (
	// Workframe-relative: lateral only, forward axis pinned at max.
	MoveY MovementMode = "y"
	// Workframe-relative: lateral plus yaw.
	MoveYRz MovementMode = "yRz"
	// Workframe-relative: forward, lateral and yaw.
	MoveXYRz MovementMode = "xyRz"
	// Tool-relative: perpendicular slide plus yaw, constant forward crawl.
	MoveTYRz MovementMode = "TyRz"
	// Tool-relative: parallel and perpendicular components plus yaw.
	MoveTXTYRz MovementMode = "TxTyRz"
)

// ParseMovementMode maps a config string onto a MovementMode.
func ParseMovementMode(s string) (MovementMode, error) {
	switch MovementMode(s) {
	case MoveY, MoveYRz, MoveXYRz, MoveTYRz, MoveTXTYRz:
		return MovementMode(s), nil
	}
	return "", fmt.Errorf("unknown movement mode %q", s)
}

// ActionDim returns the policy action length the mode expects.
func (m MovementMode) ActionDim() (int, error) {
	switch m {
	case MoveY:
		return 1, nil
	case MoveYRz, MoveTYRz:
		return 2, nil
	case MoveXYRz, MoveTXTYRz:
		return 3, nil
	}
	return 0, fmt.Errorf("unknown movement mode %q", string(m))
}

// ToolRelative reports whether actions are encoded relative to the
// current tool pointing direction rather than fixed workframe axes.
func (m MovementMode) ToolRelative() bool {
	return m == MoveTYRz || m == MoveTXTYRz
}

// ControlMode selects whether scaled commands are position deltas or
// velocities when dispatched to the robot driver.
type ControlMode string

const (
	PositionControl ControlMode = "TCP_position_control"
	VelocityControl ControlMode = "TCP_velocity_control"
)

// ParseControlMode maps a config string onto a ControlMode.
func ParseControlMode(s string) (ControlMode, error) {
	switch ControlMode(s) {
	case PositionControl, VelocityControl:
		return ControlMode(s), nil
	}
	return "", fmt.Errorf("unknown control mode %q", s)
}
