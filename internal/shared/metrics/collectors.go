package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors agrupa as métricas de domínio do betting-service e do mirror-worker.
// Todos os métodos aceitam receiver nil para que testes não precisem registrar nada.
type Collectors struct {
	betsCreated    prometheus.Counter
	betsSettled    *prometheus.CounterVec
	walletOps      *prometheus.CounterVec
	mirrorAttempts *prometheus.CounterVec
	mirrorDropped  *prometheus.CounterVec
	remoteUp       prometheus.Gauge
	workerEvents   *prometheus.CounterVec
	workerErrors   *prometheus.CounterVec
}

func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		betsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "betapp_bets_created_total",
			Help: "Apostas criadas no ledger local",
		}),
		betsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_bets_settled_total",
			Help: "Apostas liquidadas por status final",
		}, []string{"status"}),
		walletOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_wallet_ops_total",
			Help: "Operações de carteira por tipo e resultado",
		}, []string{"op", "result"}),
		mirrorAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_mirror_attempts_total",
			Help: "Tentativas de espelhamento remoto",
		}, []string{"collection", "op", "result"}),
		mirrorDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_mirror_dropped_total",
			Help: "Tarefas de espelhamento descartadas após esgotar tentativas",
		}, []string{"collection"}),
		remoteUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "betapp_remote_up",
			Help: "1 se o backend remoto respondeu ao último health check",
		}),
		workerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_mirror_worker_events_total",
			Help: "Mensagens do mirror-worker por etapa (consumed, applied, dlq)",
		}, []string{"event"}),
		workerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betapp_mirror_worker_errors_total",
			Help: "Erros do mirror-worker por fase (read, decode, apply, dlq, commit)",
		}, []string{"phase"}),
	}
	reg.MustRegister(c.betsCreated, c.betsSettled, c.walletOps, c.mirrorAttempts, c.mirrorDropped, c.remoteUp, c.workerEvents, c.workerErrors)
	return c
}

func (c *Collectors) BetCreated() {
	if c == nil {
		return
	}
	c.betsCreated.Inc()
}

func (c *Collectors) BetSettled(status string) {
	if c == nil {
		return
	}
	c.betsSettled.WithLabelValues(status).Inc()
}

func (c *Collectors) WalletOp(op, result string) {
	if c == nil {
		return
	}
	c.walletOps.WithLabelValues(op, result).Inc()
}

func (c *Collectors) MirrorAttempt(collection, op, result string) {
	if c == nil {
		return
	}
	c.mirrorAttempts.WithLabelValues(collection, op, result).Inc()
}

func (c *Collectors) MirrorDropped(collection string) {
	if c == nil {
		return
	}
	c.mirrorDropped.WithLabelValues(collection).Inc()
}

func (c *Collectors) SetRemoteUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.remoteUp.Set(1)
		return
	}
	c.remoteUp.Set(0)
}

func (c *Collectors) WorkerEvent(event string) {
	if c == nil {
		return
	}
	c.workerEvents.WithLabelValues(event).Inc()
}

func (c *Collectors) WorkerError(phase string) {
	if c == nil {
		return
	}
	c.workerErrors.WithLabelValues(phase).Inc()
}
