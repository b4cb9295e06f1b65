package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deid-eval.yaml")
	data := `verbose: true
parallelism: 4
ignore_types:
  - OTROS_SUJETO_ASISTENCIA
json_report: out/report.json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, []string{"OTROS_SUJETO_ASISTENCIA"}, cfg.IgnoreTypes)
	assert.Equal(t, "out/report.json", cfg.JSONReport)
	assert.Equal(t, "warn", cfg.LogLevel, "unset fields take defaults")
	assert.NoError(t, Validate(cfg))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: [1"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
		want string
	}{
		{name: "nil", cfg: nil, want: "nil"},
		{name: "negative parallelism", cfg: &Config{Parallelism: -1, LogLevel: "info"}, want: "parallelism"},
		{name: "unknown level", cfg: &Config{Parallelism: 1, LogLevel: "loud"}, want: "log_level"},
		{name: "empty ignored type", cfg: &Config{Parallelism: 1, LogLevel: "info", IgnoreTypes: []string{" "}}, want: "ignore_types"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		lvl, err := (&Config{LogLevel: tt.in}).Level()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl, tt.in)
	}
}
