package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.HTTPTimeoutSecs)
	assert.Equal(t, 3, cfg.HTTPMaxRetries)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_CustomAPIBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://api.kommercio.app")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.kommercio.app", cfg.APIBaseURL)
}

func TestLoad_InvalidAPIBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "not-a-url")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API base URL")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECS", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP timeout")
}

func TestLoad_InvalidFailureRatio(t *testing.T) {
	t.Setenv("CB_FAILURE_RATIO", "1.5")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failure ratio")
}

func TestResolveStateDir_Explicit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	cfg := &Config{StateDir: dir}

	got, err := cfg.ResolveStateDir()

	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, got)
}
