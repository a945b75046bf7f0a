package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsOffline(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Online())
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advisor.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
data_dir: /var/lib/boutik
supabase:
  url: https://example.supabase.co
  anon_key: key-123
advisor:
  api_key: gm-456
log:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Online())
	assert.Equal(t, "/var/lib/boutik", cfg.DataDir)
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "gm-456", cfg.Advisor.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("supabase: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("supabase:\n  url: https://file.example\n"), 0o600))

	t.Setenv("BOUTIK_SUPABASE_URL", "https://env.example")
	t.Setenv("BOUTIK_SUPABASE_ANON_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "env-gm")
	t.Setenv("BOUTIK_DATA_DIR", "/tmp/boutik-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.Supabase.URL)
	assert.Equal(t, "env-key", cfg.Supabase.AnonKey)
	assert.Equal(t, "env-gm", cfg.Advisor.APIKey)
	assert.Equal(t, "/tmp/boutik-test", cfg.DataDir)
	assert.True(t, cfg.Online())
}
