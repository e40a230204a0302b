package sampler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"scanplane3d/pkg/geometry"
)

// rotationRowAxis maps a row of the six-convention Euler table to the axis
// of its first elemental rotation: rows 0-1 (sxyz, sxzy) start about x,
// rows 2-3 (syxz, syzx) about y, rows 4-5 (szxy, szyx) about z. Kept as an
// explicit table so the classification rule is auditable.
var rotationRowAxis = [6]int{0, 0, 1, 1, 2, 2}

// PoseDifference is the relative transform from a sampled plane's frame to
// the ground-truth plane's frame, with the continuous regression targets
// and the discrete classification targets derived from it.
type PoseDifference struct {
	// Translation is the translation component of the relative transform
	// (regression target, length 3).
	Translation r3.Vec

	// Rotation is the rotation component as a sign-canonicalized unit
	// quaternion (regression target, length 4).
	Rotation quat.Number

	// EulerTable holds the rotation decomposed under the six static
	// conventions, one row per convention in StaticConventions order.
	EulerTable [6][3]float64

	// ActionTranslation is the one-hot translation action over
	// {+x, -x, +y, -y, +z, -z}.
	ActionTranslation [6]float64

	// ActionRotation is the one-hot rotation-axis action over
	// {+x, -x, +y, -y, +z, -z}.
	ActionRotation [6]float64
}

// ComputePoseDifference derives all training targets for one sampled pose
// against the ground truth.
//
// The relative transform is D = inv(sampled) * groundTruth. The rotation
// action picks the convention row whose first Euler angle has the largest
// magnitude; ties resolve to the lowest row. Within the selected axis a
// strictly positive angle takes the even slot (2*axis) and any other value
// the odd slot (2*axis+1). The translation action applies the same rule to
// the translation components.
func ComputePoseDifference(sampled, groundTruth geometry.Pose) (*PoseDifference, error) {
	ms, err := sampled.Matrix()
	if err != nil {
		return nil, fmt.Errorf("sampled pose: %w", err)
	}
	mg, err := groundTruth.Matrix()
	if err != nil {
		return nil, fmt.Errorf("ground-truth pose: %w", err)
	}

	var d mat.Dense
	d.Mul(geometry.InvRigid(ms), mg)

	pd := &PoseDifference{
		Translation: r3.Vec{X: d.At(0, 3), Y: d.At(1, 3), Z: d.At(2, 3)},
	}

	comps := [3]float64{pd.Translation.X, pd.Translation.Y, pd.Translation.Z}
	for _, c := range comps {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("non-finite translation difference %v: %w", comps, geometry.ErrComputation)
		}
	}

	pd.Rotation, err = geometry.QuaternionFromMatrix(&d, true)
	if err != nil {
		return nil, err
	}

	for i, conv := range geometry.StaticConventions {
		a1, a2, a3 := geometry.EulerFromMatrix(&d, conv)
		pd.EulerTable[i] = [3]float64{a1, a2, a3}
	}

	// Rotation action: row with the largest |first angle|, first
	// occurrence winning ties.
	best := 0
	for i := 1; i < 6; i++ {
		if math.Abs(pd.EulerTable[i][0]) > math.Abs(pd.EulerTable[best][0]) {
			best = i
		}
	}
	pd.ActionRotation[actionSlot(rotationRowAxis[best], pd.EulerTable[best][0])] = 1

	// Translation action: axis with the largest |component|.
	bestAxis := 0
	for axis := 1; axis < 3; axis++ {
		if math.Abs(comps[axis]) > math.Abs(comps[bestAxis]) {
			bestAxis = axis
		}
	}
	pd.ActionTranslation[actionSlot(bestAxis, comps[bestAxis])] = 1

	return pd, nil
}

// actionSlot maps a signed axis to its one-hot slot: positive values take
// the even slot, everything else (including exact zero) the odd slot.
func actionSlot(axis int, value float64) int {
	if value > 0 {
		return 2 * axis
	}
	return 2*axis + 1
}
