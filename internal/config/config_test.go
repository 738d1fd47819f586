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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  dsn: ":memory:"
jwt:
  secret: dev-secret
  expire_hours: 2
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 30, cfg.Quiz.QuestionSeconds)
	assert.Equal(t, 3, cfg.Quiz.CountdownSeconds)
	assert.InDelta(t, 0.7, cfg.Quiz.DefaultPassRatio, 1e-9)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigRejectsWeakReleaseSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: sqlite
jwt:
  secret: short
`)
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:   ServerConfig{Mode: "debug"},
		Database: DatabaseConfig{Driver: "mysql"},
		JWT:      JWTConfig{Secret: "s"},
		Quiz:     QuizConfig{QuestionSeconds: 30, CountdownSeconds: 3, DefaultPassRatio: 0.5},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Database.Driver = "postgres"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Quiz.DefaultPassRatio = 1.5
	assert.Error(t, bad.Validate())

	bad = base
	bad.JWT.Secret = ""
	assert.Error(t, bad.Validate())
}
