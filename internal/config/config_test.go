package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_MODE", "FEATURE_WORKERS", "POSTGRES_DSN"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{Port: "8080", LogMode: "development", Workers: 4}, cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
log:
  mode: production
engine:
  workers: 16
sink:
  postgres_dsn: postgres://features@localhost/features
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "postgres://features@localhost/features", cfg.PostgresDSN)

	t.Setenv("PORT", "7000")
	t.Setenv("FEATURE_WORKERS", "2")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("FEATURE_WORKERS", "zero")
	_, err = Load("")
	assert.Error(t, err)
}
