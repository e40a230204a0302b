package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"scanplane3d/pkg/interpolation"
)

// TestDefaultConfigValid verifies the defaults pass validation.
func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

// TestValidateFailures covers every fail-fast validation branch.
func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"wrong box size length", func(c *Config) { c.Sampling.BoxSize = []int{225} }},
		{"even box size", func(c *Config) { c.Sampling.BoxSize = []int{224, 225} }},
		{"non-positive box size", func(c *Config) { c.Sampling.BoxSize = []int{-3, 225} }},
		{"bad plane count", func(c *Config) { c.Sampling.InputPlanes = 2 }},
		{"zero translation fraction", func(c *Config) { c.Sampling.TransFrac = 0 }},
		{"translation fraction of 1", func(c *Config) { c.Sampling.TransFrac = 1 }},
		{"wrong euler bound length", func(c *Config) { c.Sampling.MaxEulerDeg = []float64{45} }},
		{"negative euler bound", func(c *Config) { c.Sampling.MaxEulerDeg = []float64{45, -1, 45} }},
		{"nan euler bound", func(c *Config) { c.Sampling.MaxEulerDeg = []float64{45, math.NaN(), 45} }},
		{"unknown fill policy", func(c *Config) { c.Resampling.FillPolicy = "wrap" }},
		{"zero workers", func(c *Config) { c.Processing.NumWorkers = 0 }},
		{"zero batch size", func(c *Config) { c.Processing.BatchSize = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error %v does not wrap ErrInvalidConfig", tc.name, err)
		}
	}
}

// TestFillPolicyMapping verifies the string-to-policy resolution.
func TestFillPolicyMapping(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Resampling.FillPolicy = "zero"
	if p, err := cfg.FillPolicy(); err != nil || p != interpolation.FillZero {
		t.Errorf("zero policy resolved to (%v, %v)", p, err)
	}

	cfg.Resampling.FillPolicy = "clamp"
	if p, err := cfg.FillPolicy(); err != nil || p != interpolation.FillClamp {
		t.Errorf("clamp policy resolved to (%v, %v)", p, err)
	}

	cfg.Resampling.FillPolicy = "nearest"
	if _, err := cfg.FillPolicy(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown policy error = %v, want ErrInvalidConfig", err)
	}
}

// TestMaxEulerRad verifies the degree-to-radian conversion.
func TestMaxEulerRad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sampling.MaxEulerDeg = []float64{180, 90, 45}

	got := cfg.MaxEulerRad()
	want := [3]float64{math.Pi, math.Pi / 2, math.Pi / 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("bound %d = %g rad, want %g", i, got[i], want[i])
		}
	}
}

// TestSaveLoadRoundTrip verifies a saved configuration loads back intact.
func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Sampling.BoxSize = []int{101, 101}
	cfg.Sampling.Seed = 42
	cfg.Resampling.FillPolicy = "clamp"
	cfg.Processing.BatchSize = 16

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Sampling.BoxSize[0] != 101 || loaded.Sampling.BoxSize[1] != 101 {
		t.Errorf("boxSize = %v, want [101 101]", loaded.Sampling.BoxSize)
	}
	if loaded.Sampling.Seed != 42 {
		t.Errorf("seed = %d, want 42", loaded.Sampling.Seed)
	}
	if loaded.Resampling.FillPolicy != "clamp" {
		t.Errorf("fillPolicy = %q, want clamp", loaded.Resampling.FillPolicy)
	}
	if loaded.Processing.BatchSize != 16 {
		t.Errorf("batchSize = %d, want 16", loaded.Processing.BatchSize)
	}
}

// TestLoadMissingFileReturnsDefaults verifies a missing path falls back
// to the default configuration.
func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Sampling.TransFrac != def.Sampling.TransFrac {
		t.Errorf("transFrac = %g, want default %g", cfg.Sampling.TransFrac, def.Sampling.TransFrac)
	}
}

// TestLoadMalformedYAML verifies parse errors surface.
func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sampling: [not a map"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
