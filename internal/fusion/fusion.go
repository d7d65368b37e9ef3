package fusion

import (
	"errors"
	"fmt"

	"github.com/banshee-data/pushenv/internal/geom"
)

// TrackedPose is the fused base-frame estimate for one tick. Absent is
// an explicit state, not a nil pointer: the marker leaving the camera's
// view is an expected transient, and callers must handle both branches.
type TrackedPose struct {
	present  bool
	centroid [3]float64
	pose     *geom.Transform
}

// Absent returns the explicit no-marker value.
func Absent() TrackedPose { return TrackedPose{} }

// Present reports whether a marker was fused this tick.
func (p TrackedPose) Present() bool { return p.present }

// Centroid returns the base-frame centroid; ok is false when absent.
func (p TrackedPose) Centroid() (c [3]float64, ok bool) {
	return p.centroid, p.present
}

// Pose returns the full base-frame pose when the detector produced
// one; ok is false when absent or when only the centroid was available.
func (p TrackedPose) Pose() (geom.Transform, bool) {
	if p.pose == nil {
		return geom.Transform{}, false
	}
	return *p.pose, true
}

// Entry is one tick's fusion log record. Entries align 1:1 with ticks
// where fusion was attempted, including absent ticks, preserving
// temporal alignment with the control loop.
type Entry struct {
	Tick   int
	Absent bool

	Corners       [][2]float64
	IDs           []int
	PixelCentroid *[2]float64

	CamCentroid  *[3]float64
	BaseCentroid *[3]float64
	CamPose      *[16]float64
	BasePose     *[16]float64
}

// Fuser converts tracked marker estimates from camera frame to robot
// base frame and accumulates the tick-ordered session log. The
// calibration transforms are fixed for the process lifetime; the log is
// appended only by the owning episode loop.
type Fuser struct {
	tracker  MarkerTracker
	tCamBase geom.Transform
	tBaseCam geom.Transform

	log  []Entry
	tick int
}

// NewFuser builds a fuser from the tracker collaborator and loaded
// calibration.
func NewFuser(tracker MarkerTracker, calib *Calibration) (*Fuser, error) {
	if tracker == nil {
		return nil, fmt.Errorf("fuser needs a marker tracker")
	}
	tCamBase, tBaseCam, err := calib.Transforms()
	if err != nil {
		return nil, err
	}
	return &Fuser{tracker: tracker, tCamBase: tCamBase, tBaseCam: tBaseCam}, nil
}

// TBaseCam exposes the base-from-camera transform (for reports).
func (f *Fuser) TBaseCam() geom.Transform { return f.tBaseCam }

// FuseTick runs one tracker acquisition and fuses the result into the
// base frame. A no-marker tick logs an absent entry and returns the
// absent value with no error. Capture, distance and multi-marker
// faults propagate: they abort the run at this layer.
func (f *Fuser) FuseTick() (TrackedPose, error) {
	tick := f.tick
	f.tick++

	marker, err := f.tracker.Track()
	if err != nil {
		if errors.Is(err, ErrNoMarkerDetected) {
			f.log = append(f.log, Entry{Tick: tick, Absent: true})
			return Absent(), nil
		}
		return Absent(), fmt.Errorf("marker tracking: %w", err)
	}

	entry := Entry{
		Tick:          tick,
		Corners:       marker.Corners,
		IDs:           marker.IDs,
		PixelCentroid: marker.PixelCentroid,
	}

	fused := TrackedPose{}
	if marker.CamCentroid != nil {
		c := *marker.CamCentroid
		bx, by, bz := f.tBaseCam.TransformPoint(c[0], c[1], c[2])
		base := [3]float64{bx, by, bz}

		entry.CamCentroid = &c
		entry.BaseCentroid = &base
		fused.present = true
		fused.centroid = base
	}
	if marker.CamPose != nil {
		basePose := f.tBaseCam.Mul(*marker.CamPose)
		cam := marker.CamPose.Matrix()
		base := basePose.Matrix()

		entry.CamPose = &cam
		entry.BasePose = &base
		fused.present = true
		fused.pose = &basePose
	}

	f.log = append(f.log, entry)
	return fused, nil
}

// Log returns the accumulated session log in tick order.
func (f *Fuser) Log() []Entry { return f.log }

// ResetLog clears the log for a new session without touching the
// calibration.
func (f *Fuser) ResetLog() {
	f.log = nil
	f.tick = 0
}
