// Package config provides configuration loading and validation for
// scanplane3d. It handles loading configuration from YAML files, provides
// default values, and performs the fail-fast checks required before any
// sampling begins.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"scanplane3d/pkg/interpolation"
)

// ErrInvalidConfig reports a malformed configuration value. Validation
// happens once at setup; no sampler is constructed from an invalid config.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the engine configuration loaded from YAML.
type Config struct {
	// Sampling parameters for random plane poses
	Sampling struct {
		// BoxSize is the 2D sample grid size; both entries must be odd
		// so the grid has a centre sample
		BoxSize []int `yaml:"boxSize"`

		// InputPlanes is 1 for a single plane image or 3 for three
		// orthogonal plane images
		InputPlanes int `yaml:"inputPlanes"`

		// TransFrac is the fraction (0-1) of each volume axis the plane
		// centre is sampled from
		TransFrac float64 `yaml:"transFrac"`

		// MaxEulerDeg bounds the three sampled Euler angles in degrees
		// (each angle is drawn from +/- the bound)
		MaxEulerDeg []float64 `yaml:"maxEulerDeg"`

		// Seed is the base seed for the explicit random generator
		Seed uint64 `yaml:"seed"`
	} `yaml:"sampling"`

	// Resampling parameters
	Resampling struct {
		// FillPolicy is "zero" or "clamp" for out-of-bounds coordinates
		FillPolicy string `yaml:"fillPolicy"`
	} `yaml:"resampling"`

	// Processing parameters
	Processing struct {
		// NumWorkers is the number of goroutines used for batch assembly
		NumWorkers int `yaml:"numWorkers"`

		// BatchSize is the number of training examples per batch
		BatchSize int `yaml:"batchSize"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// SaveSlices enables JPEG export of sampled slices
		SaveSlices bool `yaml:"saveSlices"`

		// SlicesDir is the directory slice images are written to
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values matching the
// reference training setup.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Sampling.BoxSize = []int{225, 225}
	cfg.Sampling.InputPlanes = 3
	cfg.Sampling.TransFrac = 0.6
	cfg.Sampling.MaxEulerDeg = []float64{45, 45, 45}
	cfg.Sampling.Seed = 1

	cfg.Resampling.FillPolicy = "zero"

	cfg.Processing.NumWorkers = runtime.NumCPU()
	cfg.Processing.BatchSize = 64

	cfg.Output.SaveSlices = false
	cfg.Output.SlicesDir = "sampled_slices"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate performs all configuration checks up front. Any failure here is
// fatal for the caller; no partial sampling state is created.
func (c *Config) Validate() error {
	if len(c.Sampling.BoxSize) != 2 {
		return fmt.Errorf("boxSize must have exactly 2 entries, got %d: %w",
			len(c.Sampling.BoxSize), ErrInvalidConfig)
	}
	for _, s := range c.Sampling.BoxSize {
		if s < 1 || s%2 == 0 {
			return fmt.Errorf("boxSize entries must be positive and odd, got %v: %w",
				c.Sampling.BoxSize, ErrInvalidConfig)
		}
	}
	if c.Sampling.InputPlanes != 1 && c.Sampling.InputPlanes != 3 {
		return fmt.Errorf("inputPlanes must be 1 or 3, got %d: %w",
			c.Sampling.InputPlanes, ErrInvalidConfig)
	}
	if !(c.Sampling.TransFrac > 0 && c.Sampling.TransFrac < 1) {
		return fmt.Errorf("transFrac must be in (0,1), got %g: %w",
			c.Sampling.TransFrac, ErrInvalidConfig)
	}
	if len(c.Sampling.MaxEulerDeg) != 3 {
		return fmt.Errorf("maxEulerDeg must have exactly 3 entries, got %d: %w",
			len(c.Sampling.MaxEulerDeg), ErrInvalidConfig)
	}
	for _, b := range c.Sampling.MaxEulerDeg {
		if b < 0 || math.IsNaN(b) {
			return fmt.Errorf("maxEulerDeg bounds must be non-negative, got %v: %w",
				c.Sampling.MaxEulerDeg, ErrInvalidConfig)
		}
	}
	if _, err := c.FillPolicy(); err != nil {
		return err
	}
	if c.Processing.NumWorkers < 1 {
		return fmt.Errorf("numWorkers must be at least 1, got %d: %w",
			c.Processing.NumWorkers, ErrInvalidConfig)
	}
	if c.Processing.BatchSize < 1 {
		return fmt.Errorf("batchSize must be at least 1, got %d: %w",
			c.Processing.BatchSize, ErrInvalidConfig)
	}
	return nil
}

// FillPolicy resolves the configured out-of-bounds policy.
func (c *Config) FillPolicy() (interpolation.FillPolicy, error) {
	switch c.Resampling.FillPolicy {
	case "zero":
		return interpolation.FillZero, nil
	case "clamp":
		return interpolation.FillClamp, nil
	}
	return 0, fmt.Errorf("fillPolicy must be \"zero\" or \"clamp\", got %q: %w",
		c.Resampling.FillPolicy, ErrInvalidConfig)
}

// MaxEulerRad returns the Euler sampling bounds converted to radians.
func (c *Config) MaxEulerRad() [3]float64 {
	var out [3]float64
	for i, d := range c.Sampling.MaxEulerDeg {
		out[i] = d / 180.0 * math.Pi
	}
	return out
}
