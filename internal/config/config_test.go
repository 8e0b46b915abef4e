package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
// testing.T.Chdir exists only in Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err, "missing config file falls back to defaults")
	assert.Equal(t, "http://127.0.0.1:3333", cfg.APIBaseURL)
	assert.Equal(t, "envelope", cfg.WireProtocol)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 30*24*time.Hour, cfg.InactivityThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.NameLockCooldown)
	assert.Equal(t, 24*time.Hour, cfg.InviteMarkerTTL)
	assert.Equal(t, []string{"general"}, cfg.ProtectedChannels)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte(`
api_base_url: https://chat.example.com
ws_url: wss://chat.example.com/adonis-ws
wire_protocol: wildcard
sweep_interval: 30m
protected_channels:
  - general
  - announcements
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o600))
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", cfg.APIBaseURL)
	assert.Equal(t, "wildcard", cfg.WireProtocol)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
	assert.Equal(t, []string{"general", "announcements"}, cfg.ProtectedChannels)
	// unset keys keep their defaults
	assert.Equal(t, int64(32768), cfg.ReadLimit)
}
