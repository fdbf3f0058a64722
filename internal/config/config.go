// Package config loads optional per-project settings from
// <project>/.goalkit/config.yaml. Everything has a default; a missing
// file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Health tunes the health-score heuristics.
type Health struct {
	// BlockedPenalty is the score deduction applied per blocked fraction
	// of the task set (blocking/total * BlockedPenalty).
	BlockedPenalty float64 `yaml:"blocked_penalty"`
	// VelocityBonus is the score bonus per completed task/day of velocity.
	VelocityBonus float64 `yaml:"velocity_bonus"`
	// VelocityWindowDays bounds how far back velocity looks.
	VelocityWindowDays int `yaml:"velocity_window_days"`
}

// Config is the full per-project configuration.
type Config struct {
	Health Health `yaml:"health"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Health: Health{
			BlockedPenalty:     30,
			VelocityBonus:      5,
			VelocityWindowDays: 14,
		},
	}
}

// Load reads <project>/.goalkit/config.yaml, filling unset fields with
// defaults. A missing file yields the defaults with no error.
func Load(projectDir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(projectDir, ".goalkit", "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Health.BlockedPenalty < 0 {
		cfg.Health.BlockedPenalty = 0
	}
	if cfg.Health.VelocityBonus < 0 {
		cfg.Health.VelocityBonus = 0
	}
	if cfg.Health.VelocityWindowDays <= 0 {
		cfg.Health.VelocityWindowDays = Default().Health.VelocityWindowDays
	}
	return cfg, nil
}
