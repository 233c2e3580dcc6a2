// Package config holds the viper-backed defaults for the solver
// hyperparameters and ambient toggles, following the teacher's
// internal/config.Config + Default() + Validate() shape.
package config

import (
	"fmt"

	"github.com/arnegilmore/microplace/internal/errs"
)

// Config is the top-level configuration for microplace.
type Config struct {
	PSO       PSOConfig       `yaml:"pso"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
}

type PSOConfig struct {
	Particles          int     `yaml:"particles"`
	Iterations         int     `yaml:"iterations"`
	Inertia            float64 `yaml:"inertia"`
	Cognitive          float64 `yaml:"cognitive"`
	Social             float64 `yaml:"social"`
	RandomInitPosition bool    `yaml:"random_init_position" mapstructure:"random_init_position"`
	ZeroInitVelocity   bool    `yaml:"zero_init_velocity" mapstructure:"zero_init_velocity"`
	VelocityHandling   string  `yaml:"velocity_handling" mapstructure:"velocity_handling"`
	PositionHandling   string  `yaml:"position_handling" mapstructure:"position_handling"`
	Parallelism        int     `yaml:"parallelism"`
}

type PricingConfig struct {
	Refresh  bool   `yaml:"refresh"`
	CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Default returns a Config with the hyperparameter defaults from spec §6.2.
func Default() Config {
	return Config{
		PSO: PSOConfig{
			Particles:        20,
			Iterations:       100,
			Inertia:          0.75,
			Cognitive:        0.125,
			Social:           0.125,
			VelocityHandling: "boundary",
			PositionHandling: "boundary",
			Parallelism:      1,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks the config for consistency, mirroring the teacher's
// field-by-field Validate.
func (c *Config) Validate() error {
	if c.PSO.Particles <= 0 {
		return errs.NewConfigError("pso.particles", "must be positive")
	}
	if c.PSO.Iterations <= 0 {
		return errs.NewConfigError("pso.iterations", "must be positive")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return errs.NewConfigError("logging.level", fmt.Sprintf("must be debug, info, warn, or error, got %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Output.Format] {
		return errs.NewConfigError("output.format", fmt.Sprintf("must be text or json, got %q", c.Output.Format))
	}
	return nil
}
