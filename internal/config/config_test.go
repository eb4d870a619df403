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

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: minio
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "Asia/Kolkata", cfg.Streak.Timezone)
	assert.Equal(t, 30, cfg.Streak.RecentWindow)
	assert.Equal(t, 60, cfg.Streak.LeaderboardCacheTTL)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Equal(t, "mindleap-backend", cfg.Tracing.ServiceName)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9000"
storage:
  type: minio
streak:
  timezone: UTC
  recent_window: 10
cors:
  allowed_origins:
    - https://mindleap.example
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-dotenv", cfg.JWT.Secret)
	assert.Equal(t, 10, cfg.Streak.RecentWindow)
	assert.Equal(t, time.UTC, cfg.Streak.Location())
	assert.Equal(t, []string{"https://mindleap.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_Rejects(t *testing.T) {
	badZone := writeConfig(t, `
storage:
  type: minio
streak:
  timezone: Mars/Olympus
`)
	_, err := LoadConfig(badZone)
	assert.Error(t, err)

	shortSecret := writeConfig(t, `
server:
  mode: release
storage:
  type: minio
jwt:
  secret: short
`)
	_, err = LoadConfig(shortSecret)
	assert.Error(t, err)
}

func TestStreakConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, StreakConfig{}.Location())
	assert.Equal(t, time.UTC, StreakConfig{Timezone: "nowhere"}.Location())
	assert.Equal(t, "Asia/Kolkata", StreakConfig{Timezone: "Asia/Kolkata"}.Location().String())
}
