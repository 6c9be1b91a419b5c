package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	ok := Check{Name: "kv", Fn: func(context.Context) error { return nil }}
	down := Check{Name: "remote", Fn: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name   string
		checks []Check
		status int
		want   healthReport
	}{
		{"no checks", nil, http.StatusOK, healthReport{Status: "ok", Checks: map[string]string{}}},
		{"all ok", []Check{ok}, http.StatusOK, healthReport{Status: "ok", Checks: map[string]string{"kv": "ok"}}},
		{"one down", []Check{ok, down}, http.StatusServiceUnavailable, healthReport{
			Status: "unhealthy",
			Checks: map[string]string{"kv": "ok", "remote": "connection refused"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(time.Second, tt.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.status, rec.Code)
			var got healthReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
