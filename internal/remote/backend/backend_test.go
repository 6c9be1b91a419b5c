package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/betting-companion/internal/shared/config"
)

func TestOpen(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	cases := []struct {
		backend string
		name    string
	}{
		{"", "local"},
		{"local", "local"},
		{"rest", "rest"},
	}
	for _, tc := range cases {
		cfg := config.Config{RemoteBackend: tc.backend, RESTAPIURL: "http://localhost:1/api", RESTTimeout: time.Second}
		store, cleanup, err := Open(ctx, cfg, log)
		require.NoError(t, err, tc.backend)
		assert.Equal(t, tc.name, store.Name())
		cleanup()
	}

	store, _, err := Open(ctx, config.Config{RemoteBackend: "docstore", DocstoreURL: "https://db.example.test"}, log)
	require.NoError(t, err)
	assert.Equal(t, "docstore", store.Name())
}

func TestOpen_Errors(t *testing.T) {
	log := zaptest.NewLogger(t)

	_, cleanup, err := Open(context.Background(), config.Config{RemoteBackend: "docstore"}, log)
	assert.Error(t, err)
	assert.NotNil(t, cleanup)

	_, _, err = Open(context.Background(), config.Config{RemoteBackend: "mongo"}, log)
	assert.ErrorContains(t, err, "unknown remote backend")
}
