// Package config loads deid-eval settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds deid-eval configuration. Command-line flags override it.
type Config struct {
	Verbose     bool     `yaml:"verbose"`
	Parallelism int      `yaml:"parallelism"`  // runs scored at once
	IgnoreTypes []string `yaml:"ignore_types"` // entity types dropped before scoring
	JSONReport  string   `yaml:"json_report"`  // path; empty disables
	LogLevel    string   `yaml:"log_level"`    // debug | info | warn | error
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Parallelism: 1,
		LogLevel:    "warn",
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Parallelism == 0 {
		cfg.Parallelism = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}
