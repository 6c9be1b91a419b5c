package transfers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/betting-companion/internal/shared/cache"
)

const apiBody = `{"response":[{"player":{"name":"Joao Felix","position":"Attacker","age":24,"nationality":"Portugal"},
"teams":{"in":{"name":"Chelsea"},"out":{"name":"Atletico Madrid"}},
"transfer":{"date":"2024-08-21","type":"€ 52000000","fee":"€ 52000000"}},
{"player":{"name":"Someone","position":"Goalkeeper"},"teams":{"in":{},"out":{}},"transfer":{"type":"Loan"}}]}`

func newServer(t *testing.T, status int, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/transfers", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestList_DemoModeSkipsAPI(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, &hits)
	c := New(zaptest.NewLogger(t), cache.NewMemory(), Options{BaseURL: srv.URL, APIKey: "secret", Demo: true})

	list, err := c.List(context.Background(), 2024, 0, false)
	require.NoError(t, err)
	assert.Len(t, list, len(demo))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestList_TransformsAndCaches(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, &hits)
	c := New(zaptest.NewLogger(t), cache.NewMemory(), Options{BaseURL: srv.URL, APIKey: "secret", CacheTTL: time.Minute, Limit: time.Millisecond})
	ctx := context.Background()

	list, err := c.List(ctx, 2024, 0, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Joao Felix", list[0].PlayerName)
	assert.Equal(t, "Atacante", list[0].Position)
	assert.Equal(t, "€52.0M", list[0].Fee)
	assert.Equal(t, "21 Agosto 2024", list[0].Date)
	assert.Equal(t, "Empréstimo", list[1].Fee)
	assert.Equal(t, "Goleiro", list[1].Position)
	assert.Equal(t, "Clube de destino", list[1].ToClub)

	_, err = c.List(ctx, 2024, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestList_FallsBackToDemoOnError(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusTooManyRequests, &hits)
	c := New(zaptest.NewLogger(t), cache.NewMemory(), Options{BaseURL: srv.URL, APIKey: "secret"})

	list, err := c.List(context.Background(), 2024, 0, true)
	require.NoError(t, err)
	assert.Equal(t, DemoTransfers(), list)
}

func TestFormatFee(t *testing.T) {
	cases := []struct{ kind, fee, want string }{
		{"Free", "", "Grátis"},
		{"loan", "", "Empréstimo"},
		{"", "€ 4000", "€4K"},
		{"", "750", "€750"},
		{"", "N/A", "Não revelado"},
		{"", "", "Não revelado"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatFee(tc.kind, tc.fee), tc.kind+tc.fee)
	}
}
