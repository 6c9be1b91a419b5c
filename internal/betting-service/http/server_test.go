package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/radieske/betting-companion/internal/betting"
	"github.com/radieske/betting-companion/internal/catalog"
	"github.com/radieske/betting-companion/internal/directory"
	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/ledger"
	"github.com/radieske/betting-companion/internal/mirror"
	"github.com/radieske/betting-companion/internal/notifications"
	"github.com/radieske/betting-companion/internal/remote/localonly"
	"github.com/radieske/betting-companion/internal/session"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/internal/wallet"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	store := kvstore.NewMemory()
	sess, err := session.New(ctx, store)
	require.NoError(t, err)

	remoteStore := localonly.New()
	outbox := mirror.NewMemoryOutbox(mirror.NewApplier(remoteStore, log, nil, 1, 0), log, nil, 64)
	outbox.Start(ctx)
	t.Cleanup(func() { _ = outbox.Close() })
	gw := mirror.NewGateway(outbox, remoteStore, log, nil)

	dir := directory.New(log, store, sess, gw, directory.Options{
		DefaultBalance: decimal.NewFromInt(100),
		HashCost:       bcrypt.MinCost,
	})
	bets := ledger.New(log, store, gw, nil)
	notifs := notifications.New(log, store, gw)
	w := wallet.New(log, dir, nil)

	api := &API{
		Log:           log,
		Directory:     dir,
		Wallet:        w,
		Bets:          bets,
		Betting:       betting.New(log, w, bets, notifs, decimal.NewFromInt(10)),
		Catalog:       catalog.New(log, store, gw),
		Notifications: notifs,
		Remote:        gw,
	}
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func placeBetBody(stake string) map[string]any {
	return map[string]any{
		"matchName":  "Real Madrid vs Barcelona",
		"league":     "La Liga",
		"betType":    "winner",
		"prediction": "Real Madrid",
		"odds":       "2.5",
		"stake":      stake,
		"matchDate":  "2024-10-26T19:00:00Z",
	}
}

func TestBetFlow(t *testing.T) {
	srv := newTestServer(t)

	var u models.User
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/users/register",
		map[string]string{"name": "Ana", "email": "ana@example.com", "password": "x"}, &u))
	assert.True(t, u.Balance.Equal(decimal.NewFromInt(100)))

	var bet models.Bet
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/bets", placeBetBody("40"), &bet))
	assert.Equal(t, u.ID, bet.UserID)
	assert.True(t, bet.PotentialWin.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/v1/bets", placeBetBody("80"), nil))

	var won models.Bet
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/v1/bets/"+bet.ID+"/won", nil, &won))
	assert.Equal(t, models.BetWon, won.Status)
	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/v1/bets/"+bet.ID+"/cancel", nil, nil))

	var bal struct {
		Balance decimal.Decimal `json:"balance"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/wallet", nil, &bal))
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(160)))

	var st ledger.Stats
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/stats", nil, &st))
	assert.Equal(t, 1, st.Won)

	var unread struct {
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/notifications/unread", nil, &unread))
	assert.Equal(t, 1, unread.Count)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/v1/session", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/v1/wallet", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/v1/bets/bet-missing", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/v1/leagues/league-missing", nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/v1/users/register",
		map[string]string{"name": "Ana", "email": "not-an-email"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/v1/leagues", map[string]string{"name": ""}, nil))
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	var leagues []models.League
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/leagues/samples", nil, &leagues))
	require.NotEmpty(t, leagues)

	var found []models.League
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/leagues?q=premier", nil, &found))
	require.Len(t, found, 1)

	var team models.Team
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/teams",
		map[string]string{"name": "Santos", "league": found[0].ID}, &team))

	var byLeague []models.Team
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, fmt.Sprintf("/v1/teams?league=%s", found[0].ID), nil, &byLeague))
	assert.Len(t, byLeague, 1)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/v1/teams/"+team.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/v1/teams/"+team.ID, nil, nil))
}

func TestRemoteStatus_LocalBackend(t *testing.T) {
	srv := newTestServer(t)
	var st struct {
		Backend string `json:"backend"`
		Up      bool   `json:"up"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/remote/status", nil, &st))
	assert.Equal(t, "local", st.Backend)
	assert.True(t, st.Up)

	assert.Equal(t, http.StatusNotImplemented, do(t, srv, http.MethodPost, "/v1/profile/avatar", nil, nil))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrap: %w", wallet.ErrInsufficientFunds)))
	assert.Equal(t, http.StatusBadRequest, statusFor(betting.ErrStakeBelowMinimum))
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/bets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8100")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "http://localhost:8100", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestUpdateBet_MoneyFieldsRejected(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/users/register",
		map[string]string{"name": "Ana", "email": "ana@example.com", "password": "x"}, nil))

	var bet models.Bet
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/v1/bets", placeBetBody("10"), &bet))

	for _, body := range []map[string]any{
		{"stake": "1000"},
		{"odds": "50"},
		{"status": "won"},
		{"notes": "ok", "status": "cancelled"},
	} {
		assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPatch, "/v1/bets/"+bet.ID, body, nil), "%v", body)
	}

	var got models.Bet
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/bets/"+bet.ID, nil, &got))
	assert.Equal(t, models.BetPending, got.Status)
	assert.True(t, got.Stake.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.PotentialWin.Equal(bet.PotentialWin))

	var edited models.Bet
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPatch, "/v1/bets/"+bet.ID,
		map[string]string{"notes": "clássico"}, &edited))
	assert.Equal(t, "clássico", edited.Notes)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/v1/bets/"+bet.ID+"/won", nil, nil))
	var bal struct {
		Balance decimal.Decimal `json:"balance"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/wallet", nil, &bal))
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(90).Add(bet.PotentialWin)))
}
