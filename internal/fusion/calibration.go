package fusion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/pushenv/internal/geom"
)

// Calibration is the extrinsic camera calibration: an axis-angle
// rotation vector and translation vector relating the robot base frame
// to the camera frame. Loaded once at startup; read-only afterwards.
type Calibration struct {
	Rvec [3]float64 `json:"rvec"`
	Tvec [3]float64 `json:"tvec"`
}

// LoadCalibration reads an extrinsics JSON file. Failure here is fatal
// at startup: there is no way to express fused poses in the base frame
// without it.
func LoadCalibration(path string) (*Calibration, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("calibration file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var c Calibration
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}
	return &c, nil
}

// Transforms builds the camera->base transform pair. TCamBase comes
// straight from the calibration; TBaseCam is its inverse, and both must
// be valid rigid transforms.
func (c *Calibration) Transforms() (tCamBase, tBaseCam geom.Transform, err error) {
	tCamBase = geom.FromRodrigues(c.Rvec, c.Tvec)
	if !tCamBase.Valid() {
		return geom.Transform{}, geom.Transform{}, fmt.Errorf("calibration does not form a rigid transform")
	}

	tBaseCam, err = tCamBase.Inverse()
	if err != nil {
		return geom.Transform{}, geom.Transform{}, fmt.Errorf("invert calibration transform: %w", err)
	}
	return tCamBase, tBaseCam, nil
}
