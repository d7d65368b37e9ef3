package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rigid transform validation tolerances. The determinant check catches
// reflections and badly conditioned rotation blocks; the last-row check
// catches matrices that are not homogeneous transforms at all.
const (
	rotationDetTolerance = 0.01
	lastRowTolerance     = 0.001
)

// Transform is a 4x4 homogeneous transform between two named frames
// (camera->base, base->workframe). The zero value is not usable; build
// one with Identity, FromPose or FromRodrigues.
type Transform struct {
	m *mat.Dense
}

// Identity returns the identity transform.
func Identity() Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return Transform{m: m}
}

// FromRodrigues builds a transform from an axis-angle rotation vector
// and a translation vector, the representation the extrinsic
// calibration file stores. A near-zero rotation vector yields a pure
// translation.
func FromRodrigues(rvec, tvec [3]float64) Transform {
	theta := math.Sqrt(rvec[0]*rvec[0] + rvec[1]*rvec[1] + rvec[2]*rvec[2])

	t := Identity()
	if theta > 1e-12 {
		kx, ky, kz := rvec[0]/theta, rvec[1]/theta, rvec[2]/theta
		s, c := math.Sin(theta), math.Cos(theta)
		ic := 1 - c

		// R = I + sin(theta)*K + (1-cos(theta))*K^2 for unit axis k.
		t.m.Set(0, 0, c+kx*kx*ic)
		t.m.Set(0, 1, kx*ky*ic-kz*s)
		t.m.Set(0, 2, kx*kz*ic+ky*s)
		t.m.Set(1, 0, ky*kx*ic+kz*s)
		t.m.Set(1, 1, c+ky*ky*ic)
		t.m.Set(1, 2, ky*kz*ic-kx*s)
		t.m.Set(2, 0, kz*kx*ic-ky*s)
		t.m.Set(2, 1, kz*ky*ic+kx*s)
		t.m.Set(2, 2, c+kz*kz*ic)
	}
	t.m.Set(0, 3, tvec[0])
	t.m.Set(1, 3, tvec[1])
	t.m.Set(2, 3, tvec[2])
	return t
}

// FromPose builds a transform from a pose with angles in radians,
// using the Z*Y*X (yaw, pitch, roll) rotation convention.
func FromPose(p Pose6) Transform {
	sr, cr := math.Sincos(p.Roll)
	sp, cp := math.Sincos(p.Pitch)
	sy, cy := math.Sincos(p.Yaw)

	t := Identity()
	t.m.Set(0, 0, cy*cp)
	t.m.Set(0, 1, cy*sp*sr-sy*cr)
	t.m.Set(0, 2, cy*sp*cr+sy*sr)
	t.m.Set(1, 0, sy*cp)
	t.m.Set(1, 1, sy*sp*sr+cy*cr)
	t.m.Set(1, 2, sy*sp*cr-cy*sr)
	t.m.Set(2, 0, -sp)
	t.m.Set(2, 1, cp*sr)
	t.m.Set(2, 2, cp*cr)
	t.m.Set(0, 3, p.X)
	t.m.Set(1, 3, p.Y)
	t.m.Set(2, 3, p.Z)
	return t
}

// ToPose extracts the pose (angles in radians, Z*Y*X convention) from
// the transform.
func (t Transform) ToPose() Pose6 {
	r20 := t.m.At(2, 0)
	pitch := math.Asin(-clamp(r20, -1, 1))

	var roll, yaw float64
	if math.Abs(r20) < 1-1e-9 {
		roll = math.Atan2(t.m.At(2, 1), t.m.At(2, 2))
		yaw = math.Atan2(t.m.At(1, 0), t.m.At(0, 0))
	} else {
		// Gimbal lock: fold roll into yaw.
		roll = 0
		yaw = math.Atan2(-t.m.At(0, 1), t.m.At(1, 1))
	}

	return Pose6{
		X: t.m.At(0, 3), Y: t.m.At(1, 3), Z: t.m.At(2, 3),
		Roll: roll, Pitch: pitch, Yaw: yaw,
	}
}

// Mul composes two transforms: (t.Mul(u)).Apply(x) == t.Apply(u.Apply(x)).
func (t Transform) Mul(u Transform) Transform {
	out := mat.NewDense(4, 4, nil)
	out.Mul(t.m, u.m)
	return Transform{m: out}
}

// Inverse returns the inverse transform. For a valid rigid transform
// this equals the pseudo-inverse the calibration pipeline historically
// used.
func (t Transform) Inverse() (Transform, error) {
	out := mat.NewDense(4, 4, nil)
	if err := out.Inverse(t.m); err != nil {
		return Transform{}, fmt.Errorf("invert transform: %w", err)
	}
	return Transform{m: out}, nil
}

// TransformPoint applies the transform to a 3D point (homogeneous
// multiply, first three components of the result).
func (t Transform) TransformPoint(x, y, z float64) (wx, wy, wz float64) {
	wx = t.m.At(0, 0)*x + t.m.At(0, 1)*y + t.m.At(0, 2)*z + t.m.At(0, 3)
	wy = t.m.At(1, 0)*x + t.m.At(1, 1)*y + t.m.At(1, 2)*z + t.m.At(1, 3)
	wz = t.m.At(2, 0)*x + t.m.At(2, 1)*y + t.m.At(2, 2)*z + t.m.At(2, 3)
	return wx, wy, wz
}

// TransformPose applies the transform to a pose expressed in the
// source frame (angles in radians), returning the pose in the target
// frame.
func (t Transform) TransformPose(p Pose6) Pose6 {
	return t.Mul(FromPose(p)).ToPose()
}

// Valid reports whether the matrix is a proper rigid transform:
// orthonormal rotation block (det within tolerance of 1, so no
// reflections) and an exact homogeneous last row.
func (t Transform) Valid() bool {
	if t.m == nil {
		return false
	}
	r00, r01, r02 := t.m.At(0, 0), t.m.At(0, 1), t.m.At(0, 2)
	r10, r11, r12 := t.m.At(1, 0), t.m.At(1, 1), t.m.At(1, 2)
	r20, r21, r22 := t.m.At(2, 0), t.m.At(2, 1), t.m.At(2, 2)

	det := r00*(r11*r22-r12*r21) - r01*(r10*r22-r12*r20) + r02*(r10*r21-r11*r20)
	if math.Abs(det-1) > rotationDetTolerance {
		return false
	}
	if t.m.At(3, 0) != 0 || t.m.At(3, 1) != 0 || t.m.At(3, 2) != 0 {
		return false
	}
	return math.Abs(t.m.At(3, 3)-1) <= lastRowTolerance
}

// At returns the matrix element at (i, j).
func (t Transform) At(i, j int) float64 { return t.m.At(i, j) }

// Matrix returns a copy of the underlying 4x4 matrix in row-major
// order, for persistence.
func (t Transform) Matrix() [16]float64 {
	var out [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = t.m.At(i, j)
		}
	}
	return out
}

// TransformFromMatrix rebuilds a Transform from the row-major layout
// produced by Matrix.
func TransformFromMatrix(m [16]float64) Transform {
	out := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.Set(i, j, m[i*4+j])
		}
	}
	return Transform{m: out}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
