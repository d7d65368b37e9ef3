package push

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/pushenv/internal/monitoring"
)

// FrameRecorder is a tick observer that writes observation frames as
// numbered PNGs under a session directory, with a JSON header
// describing the run. Recording failures are logged and never abort
// control.
type FrameRecorder struct {
	dir    string
	frames int
	start  time.Time
	closed bool
}

// recorderHeader is the session metadata written at Close.
type recorderHeader struct {
	Version     string `json:"version"`
	CreatedNs   int64  `json:"created_ns"`
	TotalFrames int    `json:"total_frames"`
	StartNs     int64  `json:"start_ns"`
	EndNs       int64  `json:"end_ns"`
}

// NewFrameRecorder creates the session directory.
func NewFrameRecorder(dir string) (*FrameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	return &FrameRecorder{dir: dir, start: time.Now()}, nil
}

// OnTick writes the tick's observation image.
func (r *FrameRecorder) OnTick(ev TickEvent) {
	if r.closed || ev.Observation.Image == nil {
		return
	}
	name := fmt.Sprintf("ep%03d_frame%06d.png", ev.EpisodeIndex, ev.Step)
	if err := SaveGrayPNG(filepath.Join(r.dir, name), ev.Observation.Image); err != nil {
		monitoring.Logf("frame recorder: %v", err)
		return
	}
	r.frames++
}

// Close writes the session header. Idempotent.
func (r *FrameRecorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	hdr := recorderHeader{
		Version:     "1",
		CreatedNs:   r.start.UnixNano(),
		TotalFrames: r.frames,
		StartNs:     r.start.UnixNano(),
		EndNs:       time.Now().UnixNano(),
	}
	data, err := json.MarshalIndent(hdr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recorder header: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, "header.json"), data, 0644); err != nil {
		return fmt.Errorf("write recorder header: %w", err)
	}
	return nil
}
