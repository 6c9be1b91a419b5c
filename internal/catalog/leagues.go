package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

func (c *Catalog) leagues() collection[models.League] {
	return collection[models.League]{
		key:   kvstore.KeyLeagues,
		mu:    &c.leaguesMu,
		store: c.store,
		id:    func(l models.League) string { return l.ID },
	}
}

// CreateLeague ignora ID e datas informados e gera os próprios
func (c *Catalog) CreateLeague(ctx context.Context, in models.League) (models.League, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.League{}, fmt.Errorf("%w: league name is required", ErrInvalidEntry)
	}
	now := c.now()
	in.ID = c.newID("league")
	in.CreatedAt, in.UpdatedAt = now, now
	if in.Status == "" {
		in.Status = models.LeagueActive
	}
	if in.Type == "" {
		in.Type = models.LeagueDomestic
	}

	err := c.leagues().mutate(ctx, func(items []models.League) ([]models.League, error) {
		return append(items, in), nil
	})
	if err != nil {
		return models.League{}, err
	}
	c.mirror.Upsert(ctx, collections.Leagues, in.ID, in)
	return in, nil
}

func (c *Catalog) GetLeague(ctx context.Context, id string) (models.League, error) {
	return c.leagues().get(ctx, id)
}

func (c *Catalog) ListLeagues(ctx context.Context) ([]models.League, error) {
	return c.leagues().load(ctx)
}

// SearchLeagues procura em name, shortName, country e description
func (c *Catalog) SearchLeagues(ctx context.Context, q string) ([]models.League, error) {
	return c.leagues().filter(ctx, func(l models.League) bool {
		return containsFold(q, l.Name, l.ShortName, l.Country, l.Description)
	})
}

func (c *Catalog) LeaguesByCountry(ctx context.Context, country string) ([]models.League, error) {
	return c.leagues().filter(ctx, func(l models.League) bool { return strings.EqualFold(l.Country, country) })
}

func (c *Catalog) LeaguesByType(ctx context.Context, t models.LeagueType) ([]models.League, error) {
	return c.leagues().filter(ctx, func(l models.League) bool { return l.Type == t })
}

func (c *Catalog) LeaguesByStatus(ctx context.Context, s models.LeagueStatus) ([]models.League, error) {
	return c.leagues().filter(ctx, func(l models.League) bool { return l.Status == s })
}

// UpdateLeague substitui o registro mantendo ID e CreatedAt
func (c *Catalog) UpdateLeague(ctx context.Context, id string, in models.League) (models.League, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.League{}, fmt.Errorf("%w: league name is required", ErrInvalidEntry)
	}
	col := c.leagues()
	err := col.mutate(ctx, func(items []models.League) ([]models.League, error) {
		i := col.index(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		in.ID = id
		in.CreatedAt = items[i].CreatedAt
		in.UpdatedAt = c.now()
		items[i] = in
		return items, nil
	})
	if err != nil {
		return models.League{}, err
	}
	c.mirror.Upsert(ctx, collections.Leagues, in.ID, in)
	return in, nil
}

func (c *Catalog) DeleteLeague(ctx context.Context, id string) error {
	col := c.leagues()
	err := col.mutate(ctx, func(items []models.League) ([]models.League, error) {
		i := col.index(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	c.mirror.Delete(ctx, collections.Leagues, id)
	return nil
}

func (c *Catalog) ClearLeagues(ctx context.Context) error {
	var removed []models.League
	err := c.leagues().mutate(ctx, func(items []models.League) ([]models.League, error) {
		removed = items
		return []models.League{}, nil
	})
	if err != nil {
		return err
	}
	for _, l := range removed {
		c.mirror.Delete(ctx, collections.Leagues, l.ID)
	}
	return nil
}
