package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a viper config (explicit path, or the conventional
// "microplace.yaml" in "." / "$HOME/.microplace"), overlays it onto
// Default(), applies MICROPLACE_-prefixed environment overrides, and
// validates the result — the teacher's cmd/root.go loadConfig sequence,
// relocated here since this repo's CLI layer is a thin cobra wrapper
// rather than the teacher's multi-command surface.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("microplace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.microplace")
	}

	v.SetEnvPrefix("MICROPLACE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
