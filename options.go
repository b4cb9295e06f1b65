package deideval

import (
	"log/slog"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	parallelism int
	ignore      map[string]bool
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		parallelism: 1,
		ignore:      map[string]bool{},
		logger:      slog.Default(),
	}
}

// WithParallelism sets how many system runs are scored concurrently
// (default: 1). Documents within one run are always scored in order.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithIgnoredTypes drops entities of the given types from both gold and
// system documents before matching.
func WithIgnoredTypes(types ...string) Option {
	return func(c *config) {
		for _, t := range types {
			if t != "" {
				c.ignore[t] = true
			}
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
