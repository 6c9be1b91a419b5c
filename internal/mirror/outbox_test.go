package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/betting-companion/internal/shared/kafka"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

func TestMemoryOutbox_AppliesInOrder(t *testing.T) {
	store := newFakeStore()
	a, _ := newTestApplier(t, store, 1)
	o := NewMemoryOutbox(a, zaptest.NewLogger(t), nil, 16)
	o.Start(context.Background())

	ctx := context.Background()
	require.NoError(t, o.Enqueue(ctx, upsertTask(collections.Teams, "team-1", `{"id":"team-1","name":"v1"}`)))
	require.NoError(t, o.Enqueue(ctx, upsertTask(collections.Teams, "team-1", `{"id":"team-1","name":"v2"}`)))
	require.NoError(t, o.Enqueue(ctx, events.MirrorTask{Collection: collections.Teams, Op: events.OpDelete, DocID: "team-1"}))
	require.NoError(t, o.Close())

	assert.Equal(t, []string{"get", "create", "get", "update", "delete"}, store.ops())
	_, ok := store.doc(collections.Teams, "team-1")
	assert.False(t, ok)
}

func TestMemoryOutbox_FullAndClosed(t *testing.T) {
	a, _ := newTestApplier(t, newFakeStore(), 1)
	o := NewMemoryOutbox(a, zaptest.NewLogger(t), nil, 1)

	ctx := context.Background()
	require.NoError(t, o.Enqueue(ctx, upsertTask(collections.Bets, "b1", `{}`)))
	assert.ErrorIs(t, o.Enqueue(ctx, upsertTask(collections.Bets, "b2", `{}`)), ErrOutboxFull)

	require.NoError(t, o.Close())
	assert.ErrorIs(t, o.Enqueue(ctx, upsertTask(collections.Bets, "b3", `{}`)), ErrOutboxClosed)
	require.NoError(t, o.Close())
}

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaOutbox_KeysByDocID(t *testing.T) {
	w := &fakeWriter{}
	o := &KafkaOutbox{w: w}

	task := upsertTask(collections.Bets, "bet-7", `{"id":"bet-7"}`)
	require.NoError(t, o.Enqueue(context.Background(), task))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "bet-7", string(w.msgs[0].Key))

	var got events.MirrorTask
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, task.DocID, got.DocID)
	assert.Equal(t, events.OpUpsert, got.Op)

	require.NoError(t, o.Close())
	assert.True(t, w.closed)
	assert.ErrorIs(t, o.Enqueue(context.Background(), task), ErrOutboxClosed)
}

type fakePublisher struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, key string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, body)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestAMQPOutbox_RoutingKeys(t *testing.T) {
	p := &fakePublisher{}
	o := NewAMQPOutbox(p)
	ctx := context.Background()

	require.NoError(t, o.Enqueue(ctx, upsertTask(collections.Users, "user-1", `{}`)))
	require.NoError(t, o.Enqueue(ctx, events.MirrorTask{Collection: collections.Bets, Op: events.OpDelete, DocID: "bet-1"}))
	assert.Equal(t, []string{"mirror.users.upsert", "mirror.bets.delete"}, p.keys)

	d := &AMQPDeadLetter{P: p}
	require.NoError(t, d.DeadLetter(ctx, events.MirrorTask{Collection: collections.Bets, DocID: "bet-1"}))
	assert.Equal(t, fmt.Sprintf("%s.%s", "remote_mirror_dlq", "bets"), p.keys[2])
}
