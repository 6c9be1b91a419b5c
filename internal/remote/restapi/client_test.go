package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/betting-companion/internal/remote"
)

type recorded struct {
	method, path, auth, body string
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(b)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", "tok", time.Second, time.Second), &calls
}

func TestClient_CRUDPaths(t *testing.T) {
	ctx := context.Background()
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/bets/b1":
			_, _ = w.Write([]byte(`{"id":"b1"}`))
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	doc, err := c.Get(ctx, "bets", "b1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b1"}`, string(doc))

	_, err = c.Get(ctx, "bets", "nope")
	assert.ErrorIs(t, err, remote.ErrNotFound)

	require.NoError(t, c.Create(ctx, "users", "u1", remote.Document(`{"id":"u1"}`)))
	require.NoError(t, c.Create(ctx, "bets", "b2", remote.Document(`{"id":"b2"}`)))
	require.NoError(t, c.Update(ctx, "bets", "b2", remote.Document(`{"id":"b2"}`)))
	require.NoError(t, c.Delete(ctx, "bets", "b2"))

	got := *calls
	require.Len(t, got, 6)
	assert.Equal(t, recorded{"POST", "/api/test/users/register", "Bearer tok", `{"id":"u1"}`}, got[2])
	assert.Equal(t, "/api/bets", got[3].path)
	assert.Equal(t, "PUT", got[4].method)
	assert.Equal(t, "/api/bets/b2", got[5].path)
}

func TestClient_ErrorMapping(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "email inválido"})
	})

	err := c.Create(context.Background(), "users", "u1", remote.Document(`{}`))
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "email inválido", he.Message)
}

func TestClient_PingAndStatus(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health/status":
			_, _ = w.Write([]byte(`{"status":"UP"}`))
		case "/api/health/database":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"users":3}`))
		}
	})

	require.NoError(t, c.Ping(context.Background()))

	st := c.Status(context.Background())
	assert.JSONEq(t, `{"status":"UP"}`, string(st["status"].(json.RawMessage)))
	assert.Contains(t, st["database"].(map[string]string)["error"], "503")
	assert.JSONEq(t, `{"users":3}`, string(st["stats"].(json.RawMessage)))
}

func TestClient_PingTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, "", time.Second, 50*time.Millisecond)
	assert.Error(t, c.Ping(context.Background()))
}
