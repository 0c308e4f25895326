package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "SERVER_PORT", "REDIS_ADDR", "CODE_MAX_ATTEMPTS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	// An empty value is still "set" for LookupEnv; only the parsed keys fall back.
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.CodeMaxAttempts)
	assert.Equal(t, []string{}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CODE_MAX_ATTEMPTS", "25")
	t.Setenv("SUBMIT_RATE_LIMIT", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200, http://127.0.0.1:4200 ,")
	t.Setenv("LOG_COLORS", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DBDSN)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 25, cfg.CodeMaxAttempts)
	assert.Equal(t, 30, cfg.SubmitRateLimit)
	assert.Equal(t, []string{"http://localhost:4200", "http://127.0.0.1:4200"}, cfg.CORSOrigins)
	assert.True(t, cfg.LogColors)
}

func TestLoadConfigJSONLogsDisableColors(t *testing.T) {
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_COLORS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.LogColors)
}
