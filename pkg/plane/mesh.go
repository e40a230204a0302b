// Package plane builds the 2D sample grids that define oriented slices
// through a 3D volume.
//
// A mesh is stored as a 4xN block of homogeneous column vectors so that
// applying a rigid pose is a single matrix multiply. Columns are ordered
// plane-major, then row-major over the two in-plane axes; downstream
// consumers rely on this ordering when reshaping resampled intensities
// into images.
package plane

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"scanplane3d/pkg/geometry"
)

// Axis names the local plane orientation by its normal: the z plane is the
// xy grid, the y plane the xz grid, and the x plane the yz grid.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

// Mesh is a set of plane sample grids as homogeneous coordinates.
type Mesh struct {
	// Coords holds one homogeneous (x, y, z, 1) column per sample point,
	// 4 x (Planes*Rows*Cols), ordered plane-major then row-major.
	Coords *mat.Dense

	// Rows and Cols are the in-plane grid dimensions (box size).
	Rows, Cols int

	// Planes is 1 for a single plane or 3 for the orthogonal set.
	Planes int
}

// NewMesh builds the sample grid for a single plane perpendicular to the
// given axis, centred at the origin and spaced at unit voxel steps. Both
// box dimensions must be odd so the grid has a well-defined centre sample.
func NewMesh(rows, cols int, axis Axis) (*Mesh, error) {
	if err := checkBoxSize(rows, cols); err != nil {
		return nil, err
	}

	m := &Mesh{
		Coords: mat.NewDense(4, rows*cols, nil),
		Rows:   rows,
		Cols:   cols,
		Planes: 1,
	}
	m.fillPlane(0, axis)
	return m, nil
}

// NewOrthoMesh builds three mutually orthogonal sample grids (the local
// xy, xz and yz planes) stacked into a single coordinate block so one pose
// transform maps all three consistently.
func NewOrthoMesh(rows, cols int) (*Mesh, error) {
	if err := checkBoxSize(rows, cols); err != nil {
		return nil, err
	}

	m := &Mesh{
		Coords: mat.NewDense(4, 3*rows*cols, nil),
		Rows:   rows,
		Cols:   cols,
		Planes: 3,
	}
	for p, axis := range []Axis{AxisZ, AxisY, AxisX} {
		m.fillPlane(p, axis)
	}
	return m, nil
}

// fillPlane writes the grid for one plane into the coordinate block.
func (m *Mesh) fillPlane(p int, axis Axis) {
	uOff := float64(m.Rows-1) / 2.0
	vOff := float64(m.Cols-1) / 2.0
	base := p * m.Rows * m.Cols

	for r := 0; r < m.Rows; r++ {
		u := float64(r) - uOff
		for c := 0; c < m.Cols; c++ {
			v := float64(c) - vOff
			n := base + r*m.Cols + c

			var x, y, z float64
			switch axis {
			case AxisZ:
				x, y = u, v
			case AxisY:
				x, z = u, v
			case AxisX:
				y, z = u, v
			}
			m.Coords.Set(0, n, x)
			m.Coords.Set(1, n, y)
			m.Coords.Set(2, n, z)
			m.Coords.Set(3, n, 1)
		}
	}
}

// Transform maps the mesh through a rigid pose into volume space,
// returning a new mesh. Column ordering is preserved.
func (m *Mesh) Transform(pose geometry.Pose) (*Mesh, error) {
	pm, err := pose.Matrix()
	if err != nil {
		return nil, err
	}
	return m.TransformMatrix(pm), nil
}

// TransformMatrix applies a 4x4 homogeneous transform to all sample points
// in one multiply.
func (m *Mesh) TransformMatrix(t *mat.Dense) *Mesh {
	out := &Mesh{
		Coords: mat.NewDense(4, m.Planes*m.Rows*m.Cols, nil),
		Rows:   m.Rows,
		Cols:   m.Cols,
		Planes: m.Planes,
	}
	out.Coords.Mul(t, m.Coords)
	return out
}

// Point returns the (x, y, z) coordinates of one sample.
func (m *Mesh) Point(plane, row, col int) (x, y, z float64) {
	n := plane*m.Rows*m.Cols + row*m.Cols + col
	return m.Coords.At(0, n), m.Coords.At(1, n), m.Coords.At(2, n)
}

func checkBoxSize(rows, cols int) error {
	if rows < 1 || cols < 1 || rows%2 == 0 || cols%2 == 0 {
		return fmt.Errorf("box size must be positive and odd, got %dx%d", rows, cols)
	}
	return nil
}
