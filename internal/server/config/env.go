package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// applyEnv overlays configuration values from environment variables onto
// cfg. Variables that are not set leave the current values untouched.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}
