package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Convention names an ordered sequence of elemental axis rotations used to
// decompose a rotation into three scalar angles. The S-prefixed conventions
// apply the rotations about static (world-frame) axes; RXYZ applies them
// about the rotating (body-frame) axes x, then y, then z.
type Convention int

const (
	SXYZ Convention = iota
	SXZY
	SYXZ
	SYZX
	SZXY
	SZYX
	RXYZ
)

// StaticConventions lists the six static axis orders in the fixed row order
// used by the pose-difference labeler. The row positions matter: rows 0-1
// start with an x rotation, 2-3 with y, 4-5 with z.
var StaticConventions = [6]Convention{SXYZ, SXZY, SYXZ, SYZX, SZXY, SZYX}

func (c Convention) String() string {
	switch c {
	case SXYZ:
		return "sxyz"
	case SXZY:
		return "sxzy"
	case SYXZ:
		return "syxz"
	case SYZX:
		return "syzx"
	case SZXY:
		return "szxy"
	case SZYX:
		return "szyx"
	case RXYZ:
		return "rxyz"
	}
	return "unknown"
}

// Each convention is encoded as (first axis, parity, repetition, frame).
// Repetition is always zero for the supported set; frame distinguishes
// static from rotating axes. The encoding and the nextAxis walk follow the
// standard Euler-angle factorization (Shoemake).
var axesTuple = map[Convention][4]int{
	SXYZ: {0, 0, 0, 0},
	SXZY: {0, 1, 0, 0},
	SYZX: {1, 0, 0, 0},
	SYXZ: {1, 1, 0, 0},
	SZXY: {2, 0, 0, 0},
	SZYX: {2, 1, 0, 0},
	RXYZ: {2, 1, 0, 1},
}

var nextAxis = [4]int{1, 2, 0, 1}

// eulerEps is the gimbal-lock threshold on the cosine of the middle angle.
const eulerEps = 1e-12

// EulerFromMatrix decomposes the rotation block of a homogeneous transform
// into three angles under the given convention.
//
// At the gimbal-lock boundary (middle angle within eulerEps of +/-90
// degrees) the decomposition is not unique; the third angle is set to zero
// and the first angle absorbs the remaining rotation, so recomposing the
// angles under the same convention still reproduces the input rotation.
func EulerFromMatrix(m *mat.Dense, conv Convention) (a1, a2, a3 float64) {
	t := axesTuple[conv]
	first, parity, frame := t[0], t[1], t[3]

	i := first
	j := nextAxis[i+parity]
	k := nextAxis[i-parity+1]

	cy := math.Hypot(m.At(i, i), m.At(j, i))
	var ax, ay, az float64
	if cy > eulerEps {
		ax = math.Atan2(m.At(k, j), m.At(k, k))
		ay = math.Atan2(-m.At(k, i), cy)
		az = math.Atan2(m.At(j, i), m.At(i, i))
	} else {
		ax = math.Atan2(-m.At(j, k), m.At(j, j))
		ay = math.Atan2(-m.At(k, i), cy)
		az = 0.0
	}

	if parity == 1 {
		ax, ay, az = -ax, -ay, -az
	}
	if frame == 1 {
		ax, az = az, ax
	}
	return ax, ay, az
}

// QuaternionFromEuler composes three elemental rotations under the given
// convention into a quaternion.
func QuaternionFromEuler(a1, a2, a3 float64, conv Convention) quat.Number {
	t := axesTuple[conv]
	first, parity, frame := t[0], t[1], t[3]

	i := first + 1
	j := nextAxis[first+parity] + 1
	k := nextAxis[first-parity+1] + 1

	ai, aj, ak := a1, a2, a3
	if frame == 1 {
		ai, ak = ak, ai
	}
	if parity == 1 {
		aj = -aj
	}

	ai /= 2.0
	aj /= 2.0
	ak /= 2.0
	ci, si := math.Cos(ai), math.Sin(ai)
	cj, sj := math.Cos(aj), math.Sin(aj)
	ck, sk := math.Cos(ak), math.Sin(ak)
	cc := ci * ck
	cs := ci * sk
	sc := si * ck
	ss := si * sk

	var q [4]float64
	q[0] = cj*cc + sj*ss
	q[i] = cj*sc - sj*cs
	q[j] = cj*ss + sj*cc
	q[k] = cj*cs - sj*sc
	if parity == 1 {
		q[j] = -q[j]
	}

	return quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
}
