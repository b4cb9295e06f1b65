package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks the loaded config for usable values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if cfg.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", cfg.Parallelism)
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	for _, t := range cfg.IgnoreTypes {
		if strings.TrimSpace(t) == "" {
			return errors.New("ignore_types must not contain empty names")
		}
	}

	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
}
