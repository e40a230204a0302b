// Package interpolation resamples 3D intensity volumes at the continuous
// coordinates of transformed plane meshes using trilinear interpolation.
package interpolation

import (
	"fmt"
	"math"

	"scanplane3d/internal/models"
	"scanplane3d/pkg/geometry"
	"scanplane3d/pkg/plane"
)

// FillPolicy defines how sample coordinates outside the volume contribute
// to the interpolated value. The choice materially affects the training
// signal near volume boundaries, so it is configured once and applied
// deterministically.
type FillPolicy int

const (
	// FillZero treats every voxel outside the volume as intensity zero.
	// Partially out-of-bounds samples blend the inside corners with zero.
	FillZero FillPolicy = iota

	// FillClamp clamps coordinates to the nearest edge voxel, extending
	// the boundary intensities outward.
	FillClamp
)

func (p FillPolicy) String() string {
	switch p {
	case FillZero:
		return "zero"
	case FillClamp:
		return "clamp"
	}
	return "unknown"
}

// Resampler extracts 2D image slices from a volume at mesh sample
// coordinates. The volume is read-only and may be shared across
// goroutines; a Resampler itself holds no mutable state.
type Resampler struct {
	vol  *models.Volume
	fill FillPolicy
}

// NewResampler creates a resampler over the given volume.
func NewResampler(vol *models.Volume, fill FillPolicy) *Resampler {
	return &Resampler{vol: vol, fill: fill}
}

// Slice resamples a single-plane mesh into one image. The mask reports,
// per sample, whether the coordinate was fully inside the volume.
func (r *Resampler) Slice(m *plane.Mesh) (*models.SliceImage, []bool, error) {
	if m.Planes != 1 {
		return nil, nil, fmt.Errorf("expected single-plane mesh, got %d planes", m.Planes)
	}
	slices, mask, err := r.Slices(m)
	if err != nil {
		return nil, nil, err
	}
	return slices[0], mask, nil
}

// Slices resamples every plane of a mesh against the volume, returning one
// image per plane and an in-bounds mask over all sample points in mesh
// column order. This is the batched variant used for the orthogonal
// three-plane mode.
func (r *Resampler) Slices(m *plane.Mesh) ([]*models.SliceImage, []bool, error) {
	perPlane := m.Rows * m.Cols
	out := make([]*models.SliceImage, m.Planes)
	mask := make([]bool, m.Planes*perPlane)

	// Offsets mapping centre-origin coordinates back to array indices.
	offX := float64(r.vol.X-1) / 2.0
	offY := float64(r.vol.Y-1) / 2.0
	offZ := float64(r.vol.Z-1) / 2.0

	for p := 0; p < m.Planes; p++ {
		img := models.NewSliceImage(m.Rows, m.Cols)
		for n := 0; n < perPlane; n++ {
			col := p*perPlane + n
			xi := m.Coords.At(0, col) + offX
			yi := m.Coords.At(1, col) + offY
			zi := m.Coords.At(2, col) + offZ

			if math.IsNaN(xi) || math.IsNaN(yi) || math.IsNaN(zi) ||
				math.IsInf(xi, 0) || math.IsInf(yi, 0) || math.IsInf(zi, 0) {
				return nil, nil, fmt.Errorf("non-finite sample coordinate at plane %d index %d: %w",
					p, n, geometry.ErrComputation)
			}

			mask[col] = xi >= 0 && xi <= float64(r.vol.X-1) &&
				yi >= 0 && yi <= float64(r.vol.Y-1) &&
				zi >= 0 && zi <= float64(r.vol.Z-1)

			img.Data[n] = r.sample(xi, yi, zi)
		}
		out[p] = img
	}
	return out, mask, nil
}

// sample computes the trilinearly interpolated intensity at continuous
// array indices, applying the fill policy for the 8 surrounding voxels.
func (r *Resampler) sample(xi, yi, zi float64) float64 {
	if r.fill == FillClamp {
		xi = clamp(xi, 0, float64(r.vol.X-1))
		yi = clamp(yi, 0, float64(r.vol.Y-1))
		zi = clamp(zi, 0, float64(r.vol.Z-1))
	}

	x0 := math.Floor(xi)
	y0 := math.Floor(yi)
	z0 := math.Floor(zi)
	fx := xi - x0
	fy := yi - y0
	fz := zi - z0
	ix, iy, iz := int(x0), int(y0), int(z0)

	var value float64
	for dz := 0; dz < 2; dz++ {
		wz := fz
		if dz == 0 {
			wz = 1 - fz
		}
		if wz == 0 {
			continue
		}
		for dy := 0; dy < 2; dy++ {
			wy := fy
			if dy == 0 {
				wy = 1 - fy
			}
			if wy == 0 {
				continue
			}
			for dx := 0; dx < 2; dx++ {
				wx := fx
				if dx == 0 {
					wx = 1 - fx
				}
				if wx == 0 {
					continue
				}

				cx, cy, cz := ix+dx, iy+dy, iz+dz
				if r.fill == FillClamp {
					cx = clampInt(cx, 0, r.vol.X-1)
					cy = clampInt(cy, 0, r.vol.Y-1)
					cz = clampInt(cz, 0, r.vol.Z-1)
				} else if cx < 0 || cx >= r.vol.X || cy < 0 || cy >= r.vol.Y || cz < 0 || cz >= r.vol.Z {
					// Out-of-bounds corner contributes the zero fill value.
					continue
				}
				value += wx * wy * wz * r.vol.At(cx, cy, cz)
			}
		}
	}
	return value
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

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
