package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deideval "github.com/jamesainslie/go-deideval"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunDirectories(t *testing.T) {
	out, err := execute(t, "brat", "ner", "-v",
		"../../testdata/brat/gold", "../../testdata/brat/system/runA", "../../testdata/brat/system/runB")
	require.NoError(t, err)

	assert.Contains(t, out, "Report (SYSTEM: runA):")
	assert.Contains(t, out, "Report (SYSTEM: runB):")
	assert.Contains(t, out, "d02 (missing)")
	assert.Contains(t, out, "Diagnostics (3):")
}

func TestRunSingleFile(t *testing.T) {
	out, err := execute(t, "i2b2", "spans",
		"../../testdata/i2b2/gold/d01.xml", "../../testdata/i2b2/system/run1/d01.xml")
	require.NoError(t, err)

	assert.Contains(t, out, "Report (d01):")
	assert.Contains(t, out, "SubTrack 2 [strict]")
	assert.Contains(t, out, "SubTrack 2 [merged]")
}

func TestRunJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	_, err := execute(t, "brat", "spans", "--json", path,
		"../../testdata/brat/gold", "../../testdata/brat/system/runA")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded["runs"], 1)
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deid-eval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\nignore_types: [NOMBRE_SUJETO_ASISTENCIA]\n"), 0644))

	out, err := execute(t, "brat", "ner", "--config", path,
		"../../testdata/brat/gold", "../../testdata/brat/system/runA")
	require.NoError(t, err)
	assert.Contains(t, out, "d01", "verbose comes from the config file")
	assert.Contains(t, out, "1.0000")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "usage", args: []string{"brat", "ner", "../../testdata/brat/gold", "../../testdata/brat/system/runA/d01.ann"}, want: deideval.ErrUsage},
		{name: "subtrack", args: []string{"brat", "tokens", "../../testdata/brat/gold", "../../testdata/brat/system/runA"}, want: deideval.ErrUnknownSubtrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := execute(t, "brat", "ner", "../../testdata/brat/gold")
	assert.Error(t, err, "too few arguments")

	_, err = execute(t, "brat", "ner", "--log-level", "loud", "../../testdata/brat/gold", "../../testdata/brat/system/runA")
	assert.Error(t, err)
}
