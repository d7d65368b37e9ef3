package push

import (
	"fmt"

	"github.com/banshee-data/pushenv/internal/geom"
	"github.com/banshee-data/pushenv/internal/units"
)

// FeatureDim is the length of the observation feature vector:
// [tcp_pos(3), tcp_rpy(3), goal_pos(3), goal_rpy(3)].
const FeatureDim = 12

// Observation is what the environment hands upward each tick: the
// domain-translated sensor image and the derived feature vector.
type Observation struct {
	Image    *Image
	Features [FeatureDim]float64
}

// ObservationBuilder assembles observations from the raw sensor image
// and robot/goal state. The border mask and reference border image are
// loaded once; they standardize the sensor's fixed-geometry edge
// artifact across simulated and real imagery.
type ObservationBuilder struct {
	translator      DomainTranslator
	borderMask      *Image
	borderGray      *Image
	sensorOffsetDeg float64
}

// NewObservationBuilder wires the domain-translation collaborator with
// the border assets. Mismatched mask/reference dimensions are a
// configuration error.
func NewObservationBuilder(translator DomainTranslator, borderMask, borderGray *Image, sensorOffsetDeg float64) (*ObservationBuilder, error) {
	if translator == nil {
		return nil, fmt.Errorf("observation builder needs a domain translator")
	}
	if borderMask == nil || borderGray == nil {
		return nil, fmt.Errorf("observation builder needs border mask and reference images")
	}
	if !borderMask.SameSize(borderGray) {
		return nil, fmt.Errorf("border mask %dx%d does not match reference image %dx%d",
			borderMask.W, borderMask.H, borderGray.W, borderGray.H)
	}
	return &ObservationBuilder{
		translator:      translator,
		borderMask:      borderMask,
		borderGray:      borderGray,
		sensorOffsetDeg: sensorOffsetDeg,
	}, nil
}

// BuildImage runs the raw sensor image through the domain translator
// and overwrites the fixed border region with the reference border.
// The processed real image is returned for observers (rendering,
// recording).
func (b *ObservationBuilder) BuildImage(raw *Image) (translated, processedReal *Image, err error) {
	translated, processedReal, err = b.translator.Translate(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("domain translation: %w", err)
	}
	if !translated.SameSize(b.borderMask) {
		return nil, nil, fmt.Errorf("translated image %dx%d does not match border mask %dx%d",
			translated.W, translated.H, b.borderMask.W, b.borderMask.H)
	}

	for i, m := range b.borderMask.Pix {
		if m != 0 {
			translated.Pix[i] = b.borderGray.Pix[i]
		}
	}
	return translated, processedReal, nil
}

// BuildFeatures derives the 12-element feature vector from the
// driver-reported TCP pose (mm/deg) and the current goal (m/rad). The
// sensor mounting offset is subtracted from yaw so features line up
// with the policy's training frame.
func (b *ObservationBuilder) BuildFeatures(tcpPose geom.Pose6, goalPos, goalRPY [3]float64) [FeatureDim]float64 {
	yaw := tcpPose.Yaw - b.sensorOffsetDeg

	return [FeatureDim]float64{
		units.MMToM(tcpPose.X), units.MMToM(tcpPose.Y), units.MMToM(tcpPose.Z),
		units.DegToRad(tcpPose.Roll), units.DegToRad(tcpPose.Pitch), units.DegToRad(yaw),
		goalPos[0], goalPos[1], goalPos[2],
		goalRPY[0], goalRPY[1], goalRPY[2],
	}
}

// Build produces the full observation for one tick.
func (b *ObservationBuilder) Build(raw *Image, tcpPose geom.Pose6, goalPos, goalRPY [3]float64) (Observation, *Image, error) {
	img, processedReal, err := b.BuildImage(raw)
	if err != nil {
		return Observation{}, nil, err
	}
	return Observation{
		Image:    img,
		Features: b.BuildFeatures(tcpPose, goalPos, goalRPY),
	}, processedReal, nil
}
