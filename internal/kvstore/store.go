// Package kvstore persiste o estado local da sessão como chave → JSON.
// É a fonte da verdade do app; o backend remoto é só espelho.
package kvstore

import (
	"context"
	"errors"
)

// Chaves reconhecidas
const (
	KeyCurrentUser     = "currentUser"
	KeyRegisteredUsers = "registered_users"
	KeyBets            = "user_bets"
	KeyLeagues         = "football_leagues"
	KeyTeams           = "football_teams"
	KeyNotifications   = "user_notifications"
)

var ErrClosed = errors.New("kvstore: closed")

type Store interface {
	// Get decodifica o valor em dst; false quando a chave não existe
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadList lê uma coleção inteira; chave ausente vira lista vazia
func LoadList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	var out []T
	if _, err := s.Get(ctx, key, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func SaveList[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return s.Set(ctx, key, items)
}
