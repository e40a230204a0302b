// Package sampler draws randomized plane poses through 3D volumes,
// resamples the corresponding image slices, and derives the regression and
// classification targets used to train a plane-detection network.
package sampler

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"scanplane3d/pkg/geometry"
)

// PoseSampler draws random rigid poses relative to a volume's
// centre-origin frame. Translation components are uniform over the centred
// interval covering fraction transFrac of each axis; Euler angles are
// uniform within +/- the per-axis bound and composed with the intrinsic
// x-y-z convention.
//
// Randomness comes from the explicit source passed at construction, never
// from the process-global generator, so sampling stays reproducible and
// safe to parallelize with one source per worker.
type PoseSampler struct {
	trans [3]distuv.Uniform
	angle [3]distuv.Uniform
}

// NewPoseSampler builds a sampler for a volume shape. The fraction must be
// in (0,1) and every Euler bound (radians) non-negative.
func NewPoseSampler(shape [3]int, transFrac float64, maxEuler [3]float64, src rand.Source) (*PoseSampler, error) {
	if !(transFrac > 0 && transFrac < 1) {
		return nil, fmt.Errorf("translation fraction must be in (0,1), got %g", transFrac)
	}
	for axis, s := range shape {
		if s < 1 {
			return nil, fmt.Errorf("volume shape must be positive, got %v", shape)
		}
		if maxEuler[axis] < 0 {
			return nil, fmt.Errorf("euler bounds must be non-negative, got %v", maxEuler)
		}
	}

	s := &PoseSampler{}
	for axis := 0; axis < 3; axis++ {
		half := float64(shape[axis]) * transFrac / 2.0
		s.trans[axis] = distuv.Uniform{Min: -half, Max: half, Src: src}
		s.angle[axis] = distuv.Uniform{Min: -maxEuler[axis], Max: maxEuler[axis], Src: src}
	}
	return s, nil
}

// Sample draws one pose. Draws are independent across calls; the draw
// order (three translations, then three angles) is fixed so a seeded
// source reproduces identical poses.
func (s *PoseSampler) Sample() geometry.Pose {
	t := r3.Vec{
		X: s.trans[0].Rand(),
		Y: s.trans[1].Rand(),
		Z: s.trans[2].Rand(),
	}
	ax := s.angle[0].Rand()
	ay := s.angle[1].Rand()
	az := s.angle[2].Rand()

	return geometry.Pose{
		Rotation:    geometry.QuaternionFromEuler(ax, ay, az, geometry.RXYZ),
		Translation: t,
	}
}
