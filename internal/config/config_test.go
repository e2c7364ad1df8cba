package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 9000
database:
  host: db.local
  port: 5432
  user: pomo
  password: pw
  dbname: pomo
  sslmode: disable
auth:
  jwt_secret: test-secret
cors:
  allowed_origins:
    - http://localhost:3000
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	// The userinfo endpoint falls back to the real provider.
	assert.Equal(t, defaultGoogleUserinfoURL, cfg.Auth.GoogleUserinfoURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POMO_JWT_SECRET", "env-secret")
	t.Setenv("POMO_DB_PASSWORD", "env-pw")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-pw", cfg.Database.Password)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  port: 1\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t,
		"host=db.local port=5432 user=pomo password=pw dbname=pomo sslmode=disable",
		cfg.Database.DSN())
}
