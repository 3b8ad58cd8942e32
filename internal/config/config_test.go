package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"article-desk/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, api.DefaultBaseURL, cfg.APIURL)
}

func TestLoad_MergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://api.test/api\ntimeout: 3s\nlog_level: debug\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "badger", cfg.Session, "unset fields keep defaults")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{APIURL: "http://x/api", Timeout: 5 * time.Second, Session: "memory", LogLevel: "warn"}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:  "http://env/api",
		EnvSession: "redis://localhost:6379",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "http://env/api", cfg.APIURL)
	assert.Equal(t, "redis://localhost:6379", cfg.Session)
	assert.Empty(t, cfg.LogLevel)
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	require.NoError(t, cfg.ResolveDataDir())
	assert.Equal(t, "session", filepath.Base(cfg.DataDir))

	cfg.DataDir = "/custom"
	require.NoError(t, cfg.ResolveDataDir())
	assert.Equal(t, "/custom", cfg.DataDir)
}
