package push

import "github.com/banshee-data/pushenv/internal/geom"

// RobotDriver is the external robot arm collaborator. Commands and
// reported poses are workframe-relative, in millimetres and degrees
// (the driver convention). The core issues calls sequentially and
// blocks on each; the driver owns any retries.
type RobotDriver interface {
	// Reset moves the arm to its home workframe pose.
	Reset() error
	// Close releases the arm; must be safe to call more than once.
	Close() error
	// ApplyPositionCommand applies a 6-axis position delta.
	ApplyPositionCommand(cmd [6]float64) error
	// ApplyVelocityCommand applies a 6-axis velocity setpoint.
	ApplyVelocityCommand(cmd [6]float64) error
	// CurrentTCPPose reports the tool-center-point pose.
	CurrentTCPPose() (geom.Pose6, error)
	// CaptureSensorImage grabs one frame from the tip sensor.
	CaptureSensorImage() (*Image, error)
}

// DomainTranslator is the external domain-translation (GAN) model: it
// maps a real sensor image into the simulated image domain the policy
// was trained on. It also returns the preprocessed real image for
// side-by-side rendering.
type DomainTranslator interface {
	Translate(real *Image) (translated, processedReal *Image, err error)
}

// PassthroughTranslator returns the input image unchanged. Used when
// no trained model is wired in (demo runs, tests).
type PassthroughTranslator struct{}

func (PassthroughTranslator) Translate(real *Image) (*Image, *Image, error) {
	return real.Clone(), real.Clone(), nil
}
