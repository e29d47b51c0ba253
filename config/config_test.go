package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, 10, cfg.Solver.MaxIterations)
	assert.Equal(t, 512, cfg.Tessellation.MaxSegments)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":9001\"\nsolver:\n  max_iterations: 25\nlogging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9001", cfg.Addr)
	assert.Equal(t, 25, cfg.Solver.MaxIterations)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.InDelta(t, 1e-3, cfg.Solver.DistanceTolerance, 1e-9)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  max_iterations: 0\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
