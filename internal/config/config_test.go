package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUBITLAB_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, 30, cfg.SessionTTLMinutes)
	assert.Equal(t, 7, cfg.HistoryRetentionDays)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUBITLAB_DATA_DIR", t.TempDir())
	t.Setenv("QUBITLAB_PORT", "9999")
	t.Setenv("QUBITLAB_LOG_LEVEL", "debug")
	t.Setenv("QUBITLAB_HISTORY_ENABLED", "false")
	t.Setenv("QUBITLAB_SESSION_TTL", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, 5, cfg.SessionTTLMinutes)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("QUBITLAB_DATA_DIR", t.TempDir())
	t.Setenv("QUBITLAB_PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestCacheDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUBITLAB_DATA_DIR", dir)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache.db"), cfg.CacheDBPath())
}
