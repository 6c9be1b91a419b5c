package notifications

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
)

type countingMirror struct{ upserts, deletes int }

func (m *countingMirror) Upsert(context.Context, string, string, any) { m.upserts++ }
func (m *countingMirror) Delete(context.Context, string, string)      { m.deletes++ }

func newLedger(t *testing.T) (*Ledger, *countingMirror) {
	t.Helper()
	mir := &countingMirror{}
	l := New(zap.NewNop(), kvstore.NewMemory(), mir)
	seq := 0
	l.newID = func() string {
		seq++
		return fmt.Sprintf("n-%d", seq)
	}
	return l, mir
}

func TestAdd_NewestFirstAndDefaultIcon(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	_, err := l.Add(ctx, "u1", NewNotification{Title: "a", Type: models.NotifySystem})
	require.NoError(t, err)
	second, err := l.Add(ctx, "u1", NewNotification{Title: "b", Type: models.NotifyBet})
	require.NoError(t, err)
	assert.Equal(t, "trophy", second.Icon)
	assert.False(t, second.Read)

	list, err := l.ForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)

	_, err = l.Add(ctx, "u1", NewNotification{Title: "x", Type: "push"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestReadStateAndUnreadCount(t *testing.T) {
	ctx := context.Background()
	l, mir := newLedger(t)
	ch, cancel := l.SubscribeUnread()
	defer cancel()

	created, err := l.GenerateSamples(ctx, "u1")
	require.NoError(t, err)
	_, err = l.Add(ctx, "u2", NewNotification{Title: "other", Type: models.NotifyMatch})
	require.NoError(t, err)

	count, err := l.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	require.NoError(t, l.MarkAsRead(ctx, "u1", created[0].ID))
	count, err = l.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.ErrorIs(t, l.MarkAsRead(ctx, "u2", created[1].ID), ErrNotFound, "cannot touch another user's notification")

	n, err := l.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var last Unread
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Equal(t, Unread{UserID: "u1", Count: 0}, last)

	other, err := l.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, other)
	assert.Equal(t, 6+1+4, mir.upserts)
}

func TestDeleteAndClearAll(t *testing.T) {
	ctx := context.Background()
	l, mir := newLedger(t)
	created, err := l.GenerateSamples(ctx, "u1")
	require.NoError(t, err)
	_, err = l.Add(ctx, "u2", NewNotification{Title: "keep", Type: models.NotifySystem})
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, "u1", created[2].ID))
	assert.ErrorIs(t, l.Delete(ctx, "u1", created[2].ID), ErrNotFound)

	removed, err := l.ClearAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
	assert.Equal(t, 5, mir.deletes)

	list, err := l.ForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = l.ForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
