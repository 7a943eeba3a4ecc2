package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "LOG_LEVEL", "MONGO_URI", "MONGO_DB", "REDIS_ADDR", "RABBIT_URL",
		"RABBIT_QUEUE", "OTEL_EXPORTER_OTLP_ENDPOINT", "OUTBOX_BUFFER", "IDEMPOTENCY_TTL", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "campus", cfg.MongoDB)
	assert.Equal(t, "campus.notifications", cfg.RabbitQueue)
	assert.Equal(t, 256, cfg.OutboxBuffer)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("OUTBOX_BUFFER", "16")
	t.Setenv("IDEMPOTENCY_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 16, cfg.OutboxBuffer)
	assert.Equal(t, 90*time.Second, cfg.IdempotencyTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("OUTBOX_BUFFER", "lots")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("OUTBOX_BUFFER", "")
	t.Setenv("IDEMPOTENCY_TTL", "forever")
	_, err = Load()
	assert.Error(t, err)
}
