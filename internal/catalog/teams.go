package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

func (c *Catalog) teams() collection[models.Team] {
	return collection[models.Team]{
		key:   kvstore.KeyTeams,
		mu:    &c.teamsMu,
		store: c.store,
		id:    func(t models.Team) string { return t.ID },
	}
}

func (c *Catalog) CreateTeam(ctx context.Context, in models.Team) (models.Team, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidEntry)
	}
	now := c.now()
	in.ID = c.newID("team")
	in.CreatedAt, in.UpdatedAt = now, now

	err := c.teams().mutate(ctx, func(items []models.Team) ([]models.Team, error) {
		return append(items, in), nil
	})
	if err != nil {
		return models.Team{}, err
	}
	c.mirror.Upsert(ctx, collections.Teams, in.ID, in)
	return in, nil
}

func (c *Catalog) GetTeam(ctx context.Context, id string) (models.Team, error) {
	return c.teams().get(ctx, id)
}

func (c *Catalog) ListTeams(ctx context.Context) ([]models.Team, error) {
	return c.teams().load(ctx)
}

// SearchTeams procura em name, shortName, city e country
func (c *Catalog) SearchTeams(ctx context.Context, q string) ([]models.Team, error) {
	return c.teams().filter(ctx, func(t models.Team) bool {
		return containsFold(q, t.Name, t.ShortName, t.City, t.Country)
	})
}

func (c *Catalog) TeamsByLeague(ctx context.Context, leagueID string) ([]models.Team, error) {
	return c.teams().filter(ctx, func(t models.Team) bool { return t.League == leagueID })
}

func (c *Catalog) UpdateTeam(ctx context.Context, id string, in models.Team) (models.Team, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidEntry)
	}
	return c.updateTeam(ctx, id, func(t *models.Team) {
		createdAt := t.CreatedAt
		*t = in
		t.CreatedAt = createdAt
	})
}

// UpdateTeamStats troca só as estatísticas da temporada
func (c *Catalog) UpdateTeamStats(ctx context.Context, id string, stats models.TeamStats) (models.Team, error) {
	return c.updateTeam(ctx, id, func(t *models.Team) { t.Stats = stats })
}

func (c *Catalog) DeleteTeam(ctx context.Context, id string) error {
	col := c.teams()
	err := col.mutate(ctx, func(items []models.Team) ([]models.Team, error) {
		i := col.index(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	c.mirror.Delete(ctx, collections.Teams, id)
	return nil
}

func (c *Catalog) ClearTeams(ctx context.Context) error {
	var removed []models.Team
	err := c.teams().mutate(ctx, func(items []models.Team) ([]models.Team, error) {
		removed = items
		return []models.Team{}, nil
	})
	if err != nil {
		return err
	}
	for _, t := range removed {
		c.mirror.Delete(ctx, collections.Teams, t.ID)
	}
	return nil
}

func (c *Catalog) updateTeam(ctx context.Context, id string, fn func(t *models.Team)) (models.Team, error) {
	col := c.teams()
	var out models.Team
	err := col.mutate(ctx, func(items []models.Team) ([]models.Team, error) {
		i := col.index(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		fn(&items[i])
		items[i].ID = id
		items[i].UpdatedAt = c.now()
		out = items[i]
		return items, nil
	})
	if err != nil {
		return models.Team{}, err
	}
	c.mirror.Upsert(ctx, collections.Teams, out.ID, out)
	return out, nil
}
