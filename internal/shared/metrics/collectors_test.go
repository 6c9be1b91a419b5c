package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectors_CountAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg)

	c.BetCreated()
	c.BetCreated()
	c.BetSettled("won")
	c.WalletOp("debit", "insufficient")
	c.MirrorAttempt("bets", "upsert", "error")
	c.MirrorDropped("bets")
	c.SetRemoteUp(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.betsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.betsSettled.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.walletOps.WithLabelValues("debit", "insufficient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mirrorDropped.WithLabelValues("bets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.remoteUp))

	c.SetRemoteUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.remoteUp))

	c.WorkerEvent("consumed")
	c.WorkerEvent("consumed")
	c.WorkerError("dlq")
	assert.Equal(t, 2.0, testutil.ToFloat64(c.workerEvents.WithLabelValues("consumed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.workerErrors.WithLabelValues("dlq")))
}

func TestCollectors_NilReceiver(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.BetCreated()
		c.BetSettled("lost")
		c.WalletOp("credit", "ok")
		c.MirrorAttempt("users", "delete", "ok")
		c.MirrorDropped("users")
		c.SetRemoteUp(true)
		c.WorkerEvent("applied")
		c.WorkerError("read")
	})
}
