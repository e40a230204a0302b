// Package geometry implements the rigid-body algebra used by the plane
// sampling engine: quaternion/rotation-matrix conversion, analytic rigid
// inverses, and Euler-angle decomposition under multiple axis-order
// conventions.
//
// Quaternions are gonum quat.Number values with the scalar part in Real,
// i.e. (w, x, y, z) = (Real, Imag, Jmag, Kmag). Homogeneous transforms are
// 4x4 gonum mat.Dense matrices with the rotation in the upper-left 3x3
// block and the translation in the last column.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// quatEps is the squared-norm threshold below which a quaternion is
// considered degenerate and cannot be normalized.
const quatEps = 1e-12

// QuaternionMatrix builds the 4x4 homogeneous rotation matrix from a
// quaternion. The quaternion does not need to be normalized; it is
// normalized internally. A quaternion with squared norm below quatEps
// yields ErrInvalidRotation.
func QuaternionMatrix(q quat.Number) (*mat.Dense, error) {
	n := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
	if n < quatEps {
		return nil, fmt.Errorf("quaternion norm^2 %g below %g: %w", n, quatEps, ErrInvalidRotation)
	}

	// Scale so that outer products of the components directly give the
	// off-diagonal matrix terms (w,x,y,z each multiplied by sqrt(2/n)).
	s := math.Sqrt(2.0 / n)
	w := q.Real * s
	x := q.Imag * s
	y := q.Jmag * s
	z := q.Kmag * s

	return mat.NewDense(4, 4, []float64{
		1.0 - y*y - z*z, x*y - z*w, x*z + y*w, 0.0,
		x*y + z*w, 1.0 - x*x - z*z, y*z - x*w, 0.0,
		x*z - y*w, y*z + x*w, 1.0 - x*x - y*y, 0.0,
		0.0, 0.0, 0.0, 1.0,
	}), nil
}

// QuaternionFromMatrix extracts the unit quaternion from the rotation block
// of a homogeneous transform.
//
// With robust set, the quaternion is recovered as the eigenvector of the
// symmetric 4x4 matrix K belonging to its largest eigenvalue. This method
// stays numerically stable near 180-degree rotations where the trace-based
// shortcut loses precision. Without robust, the faster Shepperd trace/branch
// method is used; it is adequate away from those singularities.
//
// The sign of the result is canonicalized so the scalar component is
// non-negative, which keeps downstream regression targets stable.
func QuaternionFromMatrix(m *mat.Dense, robust bool) (quat.Number, error) {
	var q quat.Number
	if robust {
		var err error
		q, err = quaternionFromMatrixEigen(m)
		if err != nil {
			return quat.Number{}, err
		}
	} else {
		q = quaternionFromMatrixTrace(m)
	}

	if hasNonFinite(q) {
		return quat.Number{}, fmt.Errorf("quaternion extraction produced non-finite components: %w", ErrComputation)
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q, nil
}

// quaternionFromMatrixTrace implements Shepperd's method: pick the branch
// with the largest diagonal contribution to avoid cancellation.
func quaternionFromMatrixTrace(m *mat.Dense) quat.Number {
	m33 := m.At(3, 3)
	t := m.At(0, 0) + m.At(1, 1) + m.At(2, 2) + m33

	var q [4]float64
	if t > m33 {
		q[0] = t
		q[3] = m.At(1, 0) - m.At(0, 1)
		q[2] = m.At(0, 2) - m.At(2, 0)
		q[1] = m.At(2, 1) - m.At(1, 2)
	} else {
		i, j, k := 0, 1, 2
		if m.At(1, 1) > m.At(0, 0) {
			i, j, k = 1, 2, 0
		}
		if m.At(2, 2) > m.At(i, i) {
			i, j, k = 2, 0, 1
		}
		t = m.At(i, i) - (m.At(j, j) + m.At(k, k)) + m33
		q[i+1] = t
		q[j+1] = m.At(i, j) + m.At(j, i)
		q[k+1] = m.At(k, i) + m.At(i, k)
		q[0] = m.At(k, j) - m.At(j, k)
	}

	s := 0.5 / math.Sqrt(t*m33)
	return quat.Number{Real: q[0] * s, Imag: q[1] * s, Jmag: q[2] * s, Kmag: q[3] * s}
}

// quaternionFromMatrixEigen recovers the quaternion as the dominant
// eigenvector of the symmetric matrix K built from the rotation block.
func quaternionFromMatrixEigen(m *mat.Dense) (quat.Number, error) {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	k := mat.NewSymDense(4, []float64{
		m00 - m11 - m22, m01 + m10, m02 + m20, m21 - m12,
		m01 + m10, m11 - m00 - m22, m12 + m21, m02 - m20,
		m02 + m20, m12 + m21, m22 - m00 - m11, m10 - m01,
		m21 - m12, m02 - m20, m10 - m01, m00 + m11 + m22,
	})
	k.ScaleSym(1.0/3.0, k)

	var eig mat.EigenSym
	if ok := eig.Factorize(k, true); !ok {
		return quat.Number{}, fmt.Errorf("eigen decomposition of rotation matrix failed: %w", ErrComputation)
	}

	vals := eig.Values(nil)
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvector component order is (x, y, z, w).
	return quat.Number{
		Real: vecs.At(3, best),
		Imag: vecs.At(0, best),
		Jmag: vecs.At(1, best),
		Kmag: vecs.At(2, best),
	}, nil
}

func hasNonFinite(q quat.Number) bool {
	for _, c := range [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return true
		}
	}
	return false
}
