package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DATABASE_URL", "DB_HOST", "JWT_EXPIRY_HOURS", "SYNC_INTERVAL", "SYNC_MAX_ATTEMPTS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, int64(24), cfg.JWTExpiryHours)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, 10, cfg.SyncMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Nil(t, cfg.CorsAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_NAME", "sales")
	t.Setenv("SYNC_INTERVAL", "5m")
	t.Setenv("SYNC_MAX_ATTEMPTS", "-3")
	t.Setenv("JWT_EXPIRY_HOURS", "abc")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Contains(t, cfg.DatabaseURL, "host=db.local")
	assert.Contains(t, cfg.DatabaseURL, "dbname=sales")
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 10, cfg.SyncMaxAttempts)
	assert.Equal(t, int64(24), cfg.JWTExpiryHours)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsAllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Config{Env: "production", Timezone: "Asia/Ho_Chi_Minh"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
	assert.NotNil(t, cfg.Location())
}
