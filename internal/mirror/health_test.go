package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/betting-companion/internal/shared/metrics"
)

func TestHealthMonitor_Check(t *testing.T) {
	store := newFakeStore()
	h := NewHealthMonitor(store, zaptest.NewLogger(t), metrics.NewCollectors(prometheus.NewRegistry()), time.Second)

	assert.True(t, h.Check(context.Background()))
	assert.True(t, h.Up())

	store.mu.Lock()
	store.down = true
	store.mu.Unlock()
	assert.False(t, h.Check(context.Background()))
	assert.False(t, h.Up())
}

func TestHealthMonitor_InvalidSchedule(t *testing.T) {
	h := NewHealthMonitor(newFakeStore(), zaptest.NewLogger(t), nil, 0)
	require.Error(t, h.Start("every now and then"))
	h.Stop()
}
