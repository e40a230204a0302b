package geometry

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid transform locating a plane or frame in volume space: a
// unit rotation quaternion plus a translation in the volume's center-origin
// coordinate frame.
type Pose struct {
	Rotation    quat.Number
	Translation r3.Vec
}

// IdentityPose returns the pose with no rotation and no translation.
func IdentityPose() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

// Matrix returns the 4x4 homogeneous matrix for the pose: the quaternion's
// rotation in the upper-left block and the translation in the last column.
func (p Pose) Matrix() (*mat.Dense, error) {
	m, err := QuaternionMatrix(p.Rotation)
	if err != nil {
		return nil, err
	}
	m.Set(0, 3, p.Translation.X)
	m.Set(1, 3, p.Translation.Y)
	m.Set(2, 3, p.Translation.Z)
	return m, nil
}

// PoseFromMatrix extracts the quaternion and translation from a rigid
// homogeneous transform. The robust flag selects the quaternion extraction
// mode, see QuaternionFromMatrix.
func PoseFromMatrix(m *mat.Dense, robust bool) (Pose, error) {
	q, err := QuaternionFromMatrix(m, robust)
	if err != nil {
		return Pose{}, err
	}
	return Pose{
		Rotation:    q,
		Translation: r3.Vec{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)},
	}, nil
}

// InvRigid inverts a rigid homogeneous transform analytically: the rotation
// block is transposed and the translation becomes -R^T * t. Exploiting
// orthonormality this way is both cheaper and numerically better behaved
// than a general 4x4 inverse.
func InvRigid(m *mat.Dense) *mat.Dense {
	inv := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.Set(i, j, m.At(j, i))
		}
	}
	tx, ty, tz := m.At(0, 3), m.At(1, 3), m.At(2, 3)
	for i := 0; i < 3; i++ {
		inv.Set(i, 3, -(m.At(0, i)*tx + m.At(1, i)*ty + m.At(2, i)*tz))
	}
	inv.Set(3, 3, 1)
	return inv
}
