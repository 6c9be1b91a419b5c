package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/betting-companion/internal/shared/kafka"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

type recordingDLQ struct {
	tasks []events.MirrorTask
	err   error
}

func (d *recordingDLQ) DeadLetter(_ context.Context, t events.MirrorTask) error {
	if d.err != nil {
		return d.err
	}
	d.tasks = append(d.tasks, t)
	return nil
}

func encodeTask(t *testing.T, task events.MirrorTask) []byte {
	t.Helper()
	b, err := json.Marshal(task)
	require.NoError(t, err)
	return b
}

func TestProcessor_AppliesTask(t *testing.T) {
	store := newFakeStore()
	a, _ := newTestApplier(t, store, 3)
	applied := 0
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a, OnApplied: func() { applied++ }}

	err := p.Handle(context.Background(), encodeTask(t, upsertTask(collections.Notifications, "n1", `{"id":"n1","userId":"u1","type":"bet"}`)))
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	_, ok := store.doc(collections.Notifications, "n1")
	assert.True(t, ok)
}

func TestProcessor_ExhaustedTaskGoesToDLQ(t *testing.T) {
	store := newFakeStore()
	store.down = true
	a, _ := newTestApplier(t, store, 2)
	dlq := &recordingDLQ{}
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a, DLQ: dlq}

	require.NoError(t, p.Handle(context.Background(), encodeTask(t, upsertTask(collections.Bets, "bet-1", `{"id":"bet-1"}`))))
	require.Len(t, dlq.tasks, 1)
	assert.Equal(t, "bet-1", dlq.tasks[0].DocID)
	assert.Equal(t, 2, dlq.tasks[0].Attempt)
	assert.Contains(t, dlq.tasks[0].LastError, "remote unavailable")
}

func TestProcessor_DLQFailureNacks(t *testing.T) {
	store := newFakeStore()
	store.down = true
	a, _ := newTestApplier(t, store, 1)
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a, DLQ: &recordingDLQ{err: errors.New("broker down")}}

	handler := p.AMQPHandler(context.Background())
	assert.False(t, handler(encodeTask(t, upsertTask(collections.Bets, "bet-1", `{}`))))
}

func TestProcessor_InvalidMessageIsSkipped(t *testing.T) {
	a, _ := newTestApplier(t, newFakeStore(), 1)
	var phases []string
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a, OnError: func(s string) { phases = append(phases, s) }}

	assert.True(t, p.AMQPHandler(context.Background())([]byte("not json")))
	assert.Equal(t, []string{"decode"}, phases)
}

// flakyDLQ recusa as primeiras failN publicações
type flakyDLQ struct {
	failN int
	calls int
	tasks []events.MirrorTask
}

func (d *flakyDLQ) DeadLetter(_ context.Context, t events.MirrorTask) error {
	d.calls++
	if d.calls <= d.failN {
		return errors.New("broker down")
	}
	d.tasks = append(d.tasks, t)
	return nil
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestRunKafka_CommitsOnlyAfterDLQAccepts(t *testing.T) {
	store := newFakeStore()
	store.down = true
	a, _ := newTestApplier(t, store, 1)
	dlq := &flakyDLQ{failN: 2}
	var waits []time.Duration
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a, DLQ: dlq}
	p.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		{Offset: 7, Value: encodeTask(t, upsertTask(collections.Bets, "bet-1", `{"id":"bet-1"}`))},
	}}

	err := p.RunKafka(ctx, r)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, dlq.calls)
	require.Len(t, dlq.tasks, 1)
	assert.Equal(t, "bet-1", dlq.tasks[0].DocID)
	assert.Equal(t, []int64{7}, r.committed)
	assert.Equal(t, []time.Duration{kafkaRetryDelay, 2 * kafkaRetryDelay}, waits)
}

func TestRunKafka_AppliesAndCommitsInOrder(t *testing.T) {
	store := newFakeStore()
	a, _ := newTestApplier(t, store, 1)
	p := &Processor{Log: zaptest.NewLogger(t), Applier: a}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		{Offset: 1, Value: encodeTask(t, upsertTask(collections.Notifications, "n1", `{"id":"n1","userId":"u1","type":"bet"}`))},
		{Offset: 2, Value: []byte("not json")},
	}}

	assert.ErrorIs(t, p.RunKafka(ctx, r), context.Canceled)
	assert.Equal(t, []int64{1, 2}, r.committed)
	_, ok := store.doc(collections.Notifications, "n1")
	assert.True(t, ok)
}

func TestNewProcessor_CountsWorkerEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := newFakeStore()
	a, _ := newTestApplier(t, store, 1)
	p := NewProcessor(zaptest.NewLogger(t), a, metrics.NewCollectors(reg))
	p.DLQ = &recordingDLQ{}
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, encodeTask(t, upsertTask(collections.Notifications, "n1", `{"id":"n1","userId":"u1","type":"bet"}`))))
	require.NoError(t, p.Handle(ctx, []byte("not json")))
	store.down = true
	require.NoError(t, p.Handle(ctx, encodeTask(t, upsertTask(collections.Bets, "bet-1", `{"id":"bet-1"}`))))

	expected := `
# HELP betapp_mirror_worker_errors_total Erros do mirror-worker por fase (read, decode, apply, dlq, commit)
# TYPE betapp_mirror_worker_errors_total counter
betapp_mirror_worker_errors_total{phase="apply"} 1
betapp_mirror_worker_errors_total{phase="decode"} 1
# HELP betapp_mirror_worker_events_total Mensagens do mirror-worker por etapa (consumed, applied, dlq)
# TYPE betapp_mirror_worker_events_total counter
betapp_mirror_worker_events_total{event="applied"} 1
betapp_mirror_worker_events_total{event="consumed"} 3
betapp_mirror_worker_events_total{event="dlq"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"betapp_mirror_worker_events_total", "betapp_mirror_worker_errors_total"))
}
