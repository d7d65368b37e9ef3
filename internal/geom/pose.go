package geom

import "fmt"

// Pose6 is a 6-DOF pose: position plus roll/pitch/yaw orientation.
// Units are whatever the owning frame uses (the robot driver speaks
// millimetres and degrees, the workframe metres and radians); callers
// convert at the boundary, never inside this package. Pose6 values are
// immutable: derived poses are new values, the original is never
// mutated in place.
type Pose6 struct {
	X, Y, Z          float64
	Roll, Pitch, Yaw float64
}

// Position returns the translation components as a 3-array.
func (p Pose6) Position() [3]float64 { return [3]float64{p.X, p.Y, p.Z} }

// Orientation returns the roll/pitch/yaw components as a 3-array.
func (p Pose6) Orientation() [3]float64 { return [3]float64{p.Roll, p.Pitch, p.Yaw} }

// Array returns the pose as a flat [x y z roll pitch yaw] array, the
// layout used for driver commands.
func (p Pose6) Array() [6]float64 {
	return [6]float64{p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw}
}

// PoseFromArray builds a Pose6 from the flat driver layout.
func PoseFromArray(a [6]float64) Pose6 {
	return Pose6{X: a[0], Y: a[1], Z: a[2], Roll: a[3], Pitch: a[4], Yaw: a[5]}
}

func (p Pose6) String() string {
	return fmt.Sprintf("pos=(%.3f, %.3f, %.3f) rpy=(%.3f, %.3f, %.3f)",
		p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw)
}
