// Package config loads the server settings from a yaml file layered over
// defaults.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all server settings.
type Config struct {
	Addr         string             `yaml:"addr"`
	Logging      LoggingConfig      `yaml:"logging"`
	Solver       SolverConfig       `yaml:"solver"`
	Tessellation TessellationConfig `yaml:"tessellation"`
}

// LoggingConfig holds log level and optional rotating file output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// SolverConfig caps the constraint solver.
type SolverConfig struct {
	MaxIterations     int     `yaml:"max_iterations"`
	DistanceTolerance float32 `yaml:"distance_tolerance"`
	AngleToleranceDeg float32 `yaml:"angle_tolerance_deg"`
}

// TessellationConfig caps tessellation requests coming over HTTP.
type TessellationConfig struct {
	MaxSegments int `yaml:"max_segments"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		Addr: ":8000",
		Logging: LoggingConfig{
			Level: "info",
		},
		Solver: SolverConfig{
			MaxIterations:     10,
			DistanceTolerance: 1e-3,
			AngleToleranceDeg: 0.5,
		},
		Tessellation: TessellationConfig{
			MaxSegments: 512,
		},
	}
}

// Load reads the yaml file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %q", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.Errorf("addr is empty")
	}
	if c.Solver.MaxIterations < 1 {
		return errors.Errorf("solver max_iterations %d is not positive", c.Solver.MaxIterations)
	}
	if c.Tessellation.MaxSegments < 1 {
		return errors.Errorf("tessellation max_segments %d is not positive", c.Tessellation.MaxSegments)
	}
	return nil
}
