// Package catalog guarda ligas e times usados para descrever as partidas.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/kvstore"
)

var (
	ErrNotFound     = errors.New("catalog entry not found")
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

type Mirror interface {
	Upsert(ctx context.Context, collection, id string, doc any)
	Delete(ctx context.Context, collection, id string)
}

type Catalog struct {
	log    *zap.Logger
	store  kvstore.Store
	mirror Mirror

	leaguesMu sync.Mutex
	teamsMu   sync.Mutex
	now       func() time.Time
	newID     func(prefix string) string
}

func New(log *zap.Logger, store kvstore.Store, mirror Mirror) *Catalog {
	return &Catalog{
		log:    log,
		store:  store,
		mirror: mirror,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
}

// collection é o read-modify-write genérico de uma lista do catálogo
type collection[T any] struct {
	key   string
	mu    *sync.Mutex
	store kvstore.Store
	id    func(T) string
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	items, err := kvstore.LoadList[T](ctx, c.store, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	return items, nil
}

func (c collection[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	if err := kvstore.SaveList(ctx, c.store, c.key, next); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

func (c collection[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	if i := c.index(items, id); i >= 0 {
		return items[i], nil
	}
	return zero, ErrNotFound
}

func (c collection[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c collection[T]) index(items []T, id string) int {
	for i, it := range items {
		if c.id(it) == id {
			return i
		}
	}
	return -1
}

func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
