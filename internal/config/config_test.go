package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, uint32(defaultTimeSliceMs), cfg.TimeSliceMs)
	require.Equal(t, defaultTickInterval, cfg.TickInterval)
	require.Equal(t, defaultMetricsListen, cfg.MetricsListen)
}

func TestLoadParsesTaskManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	yaml := `
timeSliceMs: 20
words:
  - name: blink
    file: blink.bytecode
tasks:
  - name: blinker
    word: blink
    priority: 5
    dsSize: 8
    rsSize: 8
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(20), cfg.TimeSliceMs)
	require.Len(t, cfg.Words, 1)
	require.Equal(t, "blink", cfg.Words[0].Name)
	require.Len(t, cfg.Tasks, 1)
	require.Equal(t, uint8(5), cfg.Tasks[0].Priority)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
