package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "betting-service")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.KVDriver)
	assert.Equal(t, "local", cfg.RemoteBackend)
	assert.Equal(t, "memory", cfg.OutboxDriver)
	assert.Equal(t, "lenient", cfg.AuthMode)
	assert.True(t, cfg.DefaultBalance.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "9095", cfg.MetricsPort)
	assert.True(t, cfg.TransfersDemo)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "mirror-worker")
	t.Setenv("KV_DRIVER", "Redis")
	t.Setenv("REMOTE_BACKEND", "postgres")
	t.Setenv("OUTBOX_BACKOFF", "2s")
	t.Setenv("DEFAULT_BALANCE", "123.45")
	t.Setenv("TRANSFERS_DEMO_MODE", "false")

	cfg := Load()
	assert.Equal(t, "redis", cfg.KVDriver)
	assert.Equal(t, "postgres", cfg.RemoteBackend)
	assert.Equal(t, 2*time.Second, cfg.OutboxBackoff)
	assert.True(t, cfg.DefaultBalance.Equal(decimal.RequireFromString("123.45")))
	assert.False(t, cfg.TransfersDemo)
	assert.Equal(t, "9097", cfg.MetricsPort)
	assert.Empty(t, cfg.HTTPPort)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "-1")
	t.Setenv("OUTBOX_BACKOFF", "soon")
	t.Setenv("DEFAULT_BALANCE", "-10")

	cfg := Load()
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.Equal(t, 300*time.Millisecond, cfg.OutboxBackoff)
	assert.True(t, cfg.DefaultBalance.Equal(decimal.NewFromInt(5000)))
}
