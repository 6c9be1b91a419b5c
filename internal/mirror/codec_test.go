package mirror

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

func TestEncode_StripsPasswordHash(t *testing.T) {
	ru := models.RegisteredUser{
		User:         models.User{ID: "user-1", Name: "Ana", Email: "ana@example.com", Balance: decimal.NewFromInt(10)},
		PasswordHash: "$2a$secret",
	}
	b, err := Encode(ru)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "passwordHash")
	assert.Contains(t, string(b), `"email":"ana@example.com"`)
}

func TestCanonicalize_RoundTripsDates(t *testing.T) {
	match := time.Date(2024, 10, 26, 19, 0, 0, 0, time.UTC)
	raw, err := Encode(models.Bet{ID: "bet-1", Status: models.BetPending, MatchDate: match, Odds: decimal.RequireFromString("2.5")})
	require.NoError(t, err)

	out, unknown, err := Canonicalize(collections.Bets, raw)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	var bet models.Bet
	require.NoError(t, json.Unmarshal(out, &bet))
	assert.True(t, bet.MatchDate.Equal(match))
	assert.True(t, bet.Odds.Equal(decimal.RequireFromString("2.5")))
}

func TestCanonicalize_ReportsUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{"id":"team-1","name":"Flamengo","legacyCode":"FLA","extra":null}`)
	out, unknown, err := Canonicalize(collections.Teams, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacyCode"}, unknown)
	assert.NotContains(t, string(out), "legacyCode")
}

func TestCanonicalize_EmbeddedFieldsAreKnown(t *testing.T) {
	_, unknown, err := Canonicalize(collections.Users, json.RawMessage(`{"id":"u","name":"A","email":"a@b.c","balance":"1"}`))
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestCanonicalize_Errors(t *testing.T) {
	_, _, err := Canonicalize("matches", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownCollection)

	_, _, err = Canonicalize(collections.Bets, json.RawMessage(`{"matchDate":"yesterday"}`))
	assert.ErrorIs(t, err, ErrUnmappable)
	assert.True(t, Permanent(err))
}
