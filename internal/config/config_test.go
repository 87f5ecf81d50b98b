package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PORT", "DB_SSLMODE", "ATTACHMENT_URL_TTL", "LOG_LEVEL"} {
		// t.Setenv restores the original value after the test
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 15*time.Minute, cfg.MinIO.URLExpiry)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
