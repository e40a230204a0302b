package sampler

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"scanplane3d/pkg/geometry"
)

// TestSamplerTranslationBounds verifies the sampled translation stays
// inside the centred interval for every axis.
func TestSamplerTranslationBounds(t *testing.T) {
	s, err := NewPoseSampler([3]int{64, 64, 64}, 0.6, [3]float64{0, 0, 0}, rand.NewSource(42))
	if err != nil {
		t.Fatalf("NewPoseSampler failed: %v", err)
	}

	// 64 * 0.6 / 2 = 19.2 per axis.
	const half = 19.2
	for n := 0; n < 1000; n++ {
		p := s.Sample()
		for axis, v := range []float64{p.Translation.X, p.Translation.Y, p.Translation.Z} {
			if v < -half || v > half {
				t.Fatalf("draw %d axis %d translation %g outside [%g, %g]", n, axis, v, -half, half)
			}
		}
	}
}

// TestSamplerZeroEulerIdentityRotation verifies that zero angle bounds
// always produce the identity rotation.
func TestSamplerZeroEulerIdentityRotation(t *testing.T) {
	s, err := NewPoseSampler([3]int{64, 64, 64}, 0.6, [3]float64{0, 0, 0}, rand.NewSource(42))
	if err != nil {
		t.Fatalf("NewPoseSampler failed: %v", err)
	}

	for n := 0; n < 100; n++ {
		q := s.Sample().Rotation
		if q.Real != 1 || q.Imag != 0 || q.Jmag != 0 || q.Kmag != 0 {
			t.Fatalf("draw %d rotation %+v, want identity", n, q)
		}
	}
}

// TestSamplerDeterminism verifies two samplers built on equal seeds emit
// identical pose sequences.
func TestSamplerDeterminism(t *testing.T) {
	bounds := [3]float64{math.Pi / 4, math.Pi / 6, math.Pi / 8}
	a, err := NewPoseSampler([3]int{32, 48, 64}, 0.5, bounds, rand.NewSource(7))
	if err != nil {
		t.Fatalf("NewPoseSampler failed: %v", err)
	}
	b, err := NewPoseSampler([3]int{32, 48, 64}, 0.5, bounds, rand.NewSource(7))
	if err != nil {
		t.Fatalf("NewPoseSampler failed: %v", err)
	}

	for n := 0; n < 200; n++ {
		pa, pb := a.Sample(), b.Sample()
		if pa != pb {
			t.Fatalf("draw %d diverged: %+v vs %+v", n, pa, pb)
		}
	}
}

// TestSamplerAngleBounds verifies the recovered intrinsic angles stay
// inside the configured bounds.
func TestSamplerAngleBounds(t *testing.T) {
	bounds := [3]float64{0.3, 0.2, 0.1}
	s, err := NewPoseSampler([3]int{64, 64, 64}, 0.6, bounds, rand.NewSource(11))
	if err != nil {
		t.Fatalf("NewPoseSampler failed: %v", err)
	}

	const eps = 1e-9
	for n := 0; n < 500; n++ {
		p := s.Sample()
		m, err := p.Matrix()
		if err != nil {
			t.Fatalf("draw %d Matrix failed: %v", n, err)
		}
		a1, a2, a3 := geometry.EulerFromMatrix(m, geometry.RXYZ)
		for axis, a := range []float64{a1, a2, a3} {
			if math.Abs(a) > bounds[axis]+eps {
				t.Fatalf("draw %d axis %d angle %g exceeds bound %g", n, axis, a, bounds[axis])
			}
		}
	}
}

// TestSamplerRejectsBadArguments covers the fail-fast construction checks.
func TestSamplerRejectsBadArguments(t *testing.T) {
	src := rand.NewSource(1)
	if _, err := NewPoseSampler([3]int{64, 64, 64}, 0, [3]float64{}, src); err == nil {
		t.Error("expected error for zero translation fraction")
	}
	if _, err := NewPoseSampler([3]int{64, 64, 64}, 1, [3]float64{}, src); err == nil {
		t.Error("expected error for translation fraction of 1")
	}
	if _, err := NewPoseSampler([3]int{0, 64, 64}, 0.5, [3]float64{}, src); err == nil {
		t.Error("expected error for zero-sized shape axis")
	}
	if _, err := NewPoseSampler([3]int{64, 64, 64}, 0.5, [3]float64{-0.1, 0, 0}, src); err == nil {
		t.Error("expected error for negative angle bound")
	}
}
