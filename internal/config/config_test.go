package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("WORKCAL_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "observability.new_relic.license_key", envKey("WORKCAL_OBSERVABILITY__NEW_RELIC__LICENSE_KEY"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "workcal_token", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.SecureCookies)
	assert.Equal(t, "workcal", cfg.Observability.ServiceName)
	assert.Equal(t, zerolog.InfoLevel, cfg.Observability.LogLevel())
	assert.False(t, cfg.Observability.NewRelicEnabled())
	assert.False(t, cfg.Archive.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKCAL_PRIMARY__ENV", "production")
	t.Setenv("WORKCAL_SERVER__PORT", "8080")
	t.Setenv("WORKCAL_SERVER__READ_TIMEOUT", "3s")
	t.Setenv("WORKCAL_DATABASE__PORT", "6543")
	t.Setenv("WORKCAL_AUTH__SESSION_TTL", "24h")
	t.Setenv("WORKCAL_OBSERVABILITY__LOGGING__LEVEL", "debug")
	t.Setenv("WORKCAL_ARCHIVE__ENDPOINT", "https://o3.example.com")
	t.Setenv("WORKCAL_ARCHIVE__BUCKET", "workcal-exports")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.Observability.LogLevel())
	assert.True(t, cfg.Archive.Enabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKCAL_PRIMARY__ENV", "moon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "wc", Password: "p@ss", Name: "workcal", SSLMode: "disable"}
	assert.Equal(t, "postgres://wc:p%40ss@db:5432/workcal?sslmode=disable", d.URL())
}
