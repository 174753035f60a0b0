package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ENV, ENV_DEVELOPMENT)
	t.Setenv(PORT, "8080")
	t.Setenv(MYSQL_URI, "crm:crm@tcp(localhost:3306)/crm")
	t.Setenv(MONGODB_URI, "mongodb://localhost:27017")
	t.Setenv(REDIS_URI, "redis://localhost:6379/0")
	t.Setenv(JWT_SECRET, "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(ALLOWED_ORIGINS, " https://app.example.com, ,https://admin.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DEFAULT_JWT_EXPIRATION, cfg.JWTExpiration)
	assert.Equal(t, DEFAULT_WEBHOOK_TIMEOUT, cfg.WebhookTimeout)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing keys", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(JWT_SECRET, "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, JWT_SECRET)
	})

	t.Run("unknown env", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(ENV, "staging")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "staging")
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(WEBHOOK_TIMEOUT, "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, WEBHOOK_TIMEOUT)
	})

	t.Run("explicit duration", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv(WEBHOOK_TIMEOUT, "5s")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	})
}

func TestLoadEnvVariablesRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SOMETHING_ELSE=1\n"), 0o600))
	assert.ErrorContains(t, LoadEnvVariables(), "SOMETHING_ELSE")
}

func TestLoadEnvVariablesKeepsProcessValues(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(PORT, "9000")
	t.Setenv(LOG_LEVEL, "")
	os.Unsetenv(LOG_LEVEL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=8080\nLOG_LEVEL=debug\n"), 0o600))
	require.NoError(t, LoadEnvVariables())
	assert.Equal(t, "9000", os.Getenv(PORT))
	assert.Equal(t, "debug", os.Getenv(LOG_LEVEL))
}

func TestLoadEnvVariablesWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvVariables())
}
