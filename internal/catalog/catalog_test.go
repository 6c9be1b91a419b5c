package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
)

type nopMirror struct{}

func (nopMirror) Upsert(context.Context, string, string, any) {}
func (nopMirror) Delete(context.Context, string, string)      {}

func seeded(t *testing.T) *Catalog {
	t.Helper()
	c := New(zap.NewNop(), kvstore.NewMemory(), nopMirror{})
	_, err := c.GenerateSampleLeagues(context.Background())
	require.NoError(t, err)
	_, err = c.GenerateSampleTeams(context.Background())
	require.NoError(t, err)
	return c
}

func TestLeagues_SearchAndFilters(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	tests := []struct {
		query string
		want  int
	}{
		{"liga", 2}, // La Liga e Bundesliga
		{"EPL", 1},
		{"españa", 2},
		{"europa", 1},
		{"nada disso", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.SearchLeagues(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	cups, err := c.LeaguesByType(ctx, models.LeagueCup)
	require.NoError(t, err)
	assert.Len(t, cups, 1)

	spain, err := c.LeaguesByCountry(ctx, "ESPAÑA")
	require.NoError(t, err)
	assert.Len(t, spain, 2)

	upcoming, err := c.LeaguesByStatus(ctx, models.LeagueUpcoming)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
}

func TestLeagues_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)
	all, err := c.ListLeagues(ctx)
	require.NoError(t, err)
	orig := all[0]

	edited := orig
	edited.ID = "other"
	edited.CurrentMatchday = 16
	got, err := c.UpdateLeague(ctx, orig.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, 16, got.CurrentMatchday)
	assert.True(t, got.CreatedAt.Equal(orig.CreatedAt))

	_, err = c.UpdateLeague(ctx, "missing", edited)
	assert.ErrorIs(t, err, ErrNotFound)

	edited.Name = ""
	_, err = c.UpdateLeague(ctx, orig.ID, edited)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestTeams_ByLeagueAndStats(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	laLiga, err := c.SearchLeagues(ctx, "LALIGA")
	require.NoError(t, err)
	require.Len(t, laLiga, 1)

	teams, err := c.TeamsByLeague(ctx, laLiga[0].ID)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	hits, err := c.SearchTeams(ctx, "manchester")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	stats := models.TeamStats{Wins: 1, Draws: 2, Losses: 3, GoalsFor: 4, GoalsAgainst: 5}
	updated, err := c.UpdateTeamStats(ctx, hits[0].ID, stats)
	require.NoError(t, err)
	assert.Equal(t, stats, updated.Stats)
	assert.Equal(t, "Old Trafford", updated.Stadium)

	got, err := c.GetTeam(ctx, hits[0].ID)
	require.NoError(t, err)
	assert.Equal(t, stats, got.Stats)
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)
	teams, err := c.ListTeams(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteTeam(ctx, teams[0].ID))
	assert.ErrorIs(t, c.DeleteTeam(ctx, teams[0].ID), ErrNotFound)
	_, err = c.GetTeam(ctx, teams[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.ClearTeams(ctx))
	require.NoError(t, c.ClearLeagues(ctx))
	leagues, err := c.ListLeagues(ctx)
	require.NoError(t, err)
	assert.Empty(t, leagues)

	_, err = c.CreateLeague(ctx, models.League{})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}
