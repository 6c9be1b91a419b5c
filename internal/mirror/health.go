package mirror

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/shared/metrics"
)

// HealthMonitor pinga o backend remoto num agendamento cron e publica betapp_remote_up
type HealthMonitor struct {
	store   remote.Store
	log     *zap.Logger
	metrics *metrics.Collectors
	timeout time.Duration

	up   atomic.Bool
	cron *cron.Cron
}

func NewHealthMonitor(store remote.Store, log *zap.Logger, m *metrics.Collectors, timeout time.Duration) *HealthMonitor {
	return &HealthMonitor{store: store, log: log, metrics: m, timeout: timeout}
}

// Check faz um ping agora e atualiza o estado
func (h *HealthMonitor) Check(ctx context.Context) bool {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	err := h.store.Ping(ctx)
	up := err == nil
	if prev := h.up.Swap(up); prev != up {
		if up {
			h.log.Info("remote backend up", zap.String("backend", h.store.Name()))
		} else {
			h.log.Warn("remote backend down", zap.String("backend", h.store.Name()), zap.Error(err))
		}
	}
	h.metrics.SetRemoteUp(up)
	return up
}

func (h *HealthMonitor) Up() bool { return h.up.Load() }

// Start agenda o Check, ex.: "@every 1m"
func (h *HealthMonitor) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { h.Check(context.Background()) }); err != nil {
		return err
	}
	h.cron = c
	c.Start()
	go h.Check(context.Background())
	return nil
}

func (h *HealthMonitor) Stop() {
	if h.cron != nil {
		<-h.cron.Stop().Done()
	}
}
