package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage_path: "./blog.db"
secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "./blog.db", cfg.StoragePath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:5000", cfg.Address)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_ReadsHTTPServerSection(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_driver: "postgres"
storage_path: "postgres://blog@localhost/blog"
secret: "s3cret"
token_ttl: 1h
http_server:
  address: "0.0.0.0:8080"
  timeout: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
