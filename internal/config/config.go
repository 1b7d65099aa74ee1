// Package config handles meshgauss configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshgauss/pkg/mesh"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all pipeline settings.
type Config struct {
	Sampling  SamplingConfig  `yaml:"sampling"`
	Mixture   MixtureConfig   `yaml:"mixture"`
	Packing   PackingConfig   `yaml:"packing"`
	Ellipsoid EllipsoidConfig `yaml:"ellipsoid"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SamplingConfig holds surface sampling settings.
type SamplingConfig struct {
	Samples       int     `yaml:"samples"`
	Seed          uint64  `yaml:"seed"`
	WithColor     bool    `yaml:"with_color"`
	TextureFilter string  `yaml:"texture_filter"` // nearest, bilinear, or empty to keep the mesh's own
	Noise         float64 `yaml:"noise"`          // Std dev of jitter added to seed means
}

// MixtureConfig holds mixture fitting settings.
type MixtureConfig struct {
	Components int `yaml:"components"`
}

// PackingConfig holds transform packing settings.
type PackingConfig struct {
	Scale   float64 `yaml:"scale"`
	Workers int     `yaml:"workers"` // 0 uses GOMAXPROCS
}

// EllipsoidConfig holds debug ellipsoid mesh settings.
type EllipsoidConfig struct {
	NumPoints int     `yaml:"num_points"`
	Scale     float64 `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			Samples:       20000,
			Seed:          0,
			WithColor:     true,
		},
		Mixture: MixtureConfig{
			Components: 150,
		},
		Packing: PackingConfig{
			Scale: 2.0,
		},
		Ellipsoid: EllipsoidConfig{
			NumPoints: 10,
			Scale:     0.02,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Sampling.Samples < 0:
		return fmt.Errorf("%w: sampling.samples = %d", ErrInvalid, c.Sampling.Samples)
	case c.Sampling.Noise < 0:
		return fmt.Errorf("%w: sampling.noise = %g", ErrInvalid, c.Sampling.Noise)
	case c.Mixture.Components < 0:
		return fmt.Errorf("%w: mixture.components = %d", ErrInvalid, c.Mixture.Components)
	case c.Packing.Workers < 0:
		return fmt.Errorf("%w: packing.workers = %d", ErrInvalid, c.Packing.Workers)
	case c.Ellipsoid.NumPoints < 2:
		return fmt.Errorf("%w: ellipsoid.num_points = %d", ErrInvalid, c.Ellipsoid.NumPoints)
	}
	if _, _, err := c.Filter(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Filter returns the configured texture filter. ok is false when the
// config leaves the filter to the mesh.
func (c *Config) Filter() (f mesh.Filter, ok bool, err error) {
	if c.Sampling.TextureFilter == "" {
		return mesh.FilterNearest, false, nil
	}
	f, err = mesh.ParseFilter(c.Sampling.TextureFilter)
	return f, err == nil, err
}
