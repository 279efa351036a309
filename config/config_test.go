package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes a variable for the duration of the test. t.Setenv is called
// first so the original value is restored by its cleanup.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// setRequired sets the minimal set of required variables.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "fb")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "feedbackboard")
	t.Setenv("DB_POOL_SIZE", "10")
	t.Setenv("SESSION_SECRET", "super-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)
	unsetenv(t, "DB_HOST")
	unsetenv(t, "DB_PORT")
	unsetenv(t, "SESSION_DURATION")
	unsetenv(t, "SESSION_COOKIE")
	unsetenv(t, "PORT")
	unsetenv(t, "MIGRATIONS_PATH")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, "super-secret", cfg.Session.Secret)
	assert.Equal(t, 12*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "fb_session", cfg.Session.CookieName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./migrations", cfg.Server.MigrationsPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SESSION_DURATION", "30m")
	t.Setenv("SESSION_COOKIE", "sid")
	t.Setenv("PORT", "9090")
	t.Setenv("MIGRATIONS_PATH", "/srv/migrations")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.Duration)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/migrations", cfg.Server.MigrationsPath)
}

func TestLoadConfig_MissingRequiredCollectsAllErrors(t *testing.T) {
	unsetenv(t, "DB_USER")
	unsetenv(t, "DB_PASSWORD")
	unsetenv(t, "DB_NAME")
	unsetenv(t, "DB_POOL_SIZE")
	unsetenv(t, "SESSION_SECRET")

	_, err := LoadConfig()
	require.Error(t, err)

	// Every missing variable is named in the one aggregated error.
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadConfig_PoolSizeOutOfRangeIsAnError(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_POOL_SIZE", "3")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
}

func TestLoadConfig_InvalidDurationIsAnError(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_DURATION", "tomorrow")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_DURATION")
}
