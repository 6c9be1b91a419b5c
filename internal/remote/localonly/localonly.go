// Package localonly é o backend remoto nulo: o app roda só com o armazenamento local.
package localonly

import (
	"context"

	"github.com/radieske/betting-companion/internal/remote"
)

type Store struct{}

func New() Store { return Store{} }

func (Store) Name() string { return "local" }

func (Store) Get(context.Context, string, string) (remote.Document, error) {
	return nil, remote.ErrNotFound
}

func (Store) Create(context.Context, string, string, remote.Document) error { return nil }
func (Store) Update(context.Context, string, string, remote.Document) error { return nil }
func (Store) Delete(context.Context, string, string) error                  { return nil }
func (Store) Ping(context.Context) error                                    { return nil }
