package fusion

import (
	"errors"

	"github.com/banshee-data/pushenv/internal/geom"
)

// Marker tracker failure modes. ErrNoMarkerDetected is an expected
// transient: the marker can leave the camera's view mid-episode. The
// rest are hardware/sensing faults and abort the run.
var (
	ErrCapture          = errors.New("camera capture failed")
	ErrDistance         = errors.New("marker distance out of range")
	ErrNoMarkerDetected = errors.New("no marker detected")
	ErrMultipleMarkers  = errors.New("multiple markers detected")
)

// Marker is one tick's detection from the external fiducial tracker.
// Corner and id arrays are raw detector output; centroid and pose are
// camera-frame estimates and may individually be absent.
type Marker struct {
	Corners [][2]float64
	IDs     []int

	// PixelCentroid is the marker centroid in image coordinates.
	PixelCentroid *[2]float64
	// CamCentroid is the 3D centroid in camera-frame coordinates.
	CamCentroid *[3]float64
	// CamPose is the full marker pose in the camera frame.
	CamPose *geom.Transform
}

// MarkerTracker is the external marker detection/tracking collaborator.
type MarkerTracker interface {
	// Track acquires a frame and detects the marker. Returns one of the
	// sentinel errors above on failure.
	Track() (Marker, error)
}
