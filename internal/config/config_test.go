package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
auth:
  secret: super-secret
  token_ttl_hours: 12
database:
  host: localhost
  port: 5432
  user: restaurant
  database: restaurant
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "super-secret", cfg.Auth.Secret)
	assert.Equal(t, 12, cfg.Auth.TokenTTLHours)
	assert.True(t, cfg.Database.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad-port.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-db.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: localhost\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_SECRET", "from-env")

	cfg := FromEnv()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}
