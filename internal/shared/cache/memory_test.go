package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []string{"a", "b"}, time.Minute))

	var got []string
	ok, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	now = now.Add(time.Minute)
	ok, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Miss(t *testing.T) {
	var v int
	ok, err := NewMemory().Get(context.Background(), "nope", &v)
	assert.NoError(t, err)
	assert.False(t, ok)
}
