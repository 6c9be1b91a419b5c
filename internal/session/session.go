// Package session mantém o ponteiro do usuário ativo, persistido em "currentUser".
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/internal/shared/pubsub"
)

type Session struct {
	mu      sync.RWMutex
	store   kvstore.Store
	current *models.User
	topic   *pubsub.Topic[*models.User]
}

// New carrega o usuário ativo salvo, se houver
func New(ctx context.Context, store kvstore.Store) (*Session, error) {
	s := &Session{store: store, topic: pubsub.NewTopic[*models.User](8)}

	var u models.User
	ok, err := store.Get(ctx, kvstore.KeyCurrentUser, &u)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	if ok {
		s.current = &u
	}
	s.topic.Publish(s.Current())
	return s, nil
}

// Current retorna uma cópia do usuário ativo ou nil
func (s *Session) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *Session) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Set persiste e só então publica o novo usuário ativo
func (s *Session) Set(ctx context.Context, u models.User) error {
	s.mu.Lock()
	if err := s.store.Set(ctx, kvstore.KeyCurrentUser, u); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save current user: %w", err)
	}
	s.current = &u
	s.mu.Unlock()

	cp := u
	s.topic.Publish(&cp)
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.store.Delete(ctx, kvstore.KeyCurrentUser); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear current user: %w", err)
	}
	s.current = nil
	s.mu.Unlock()

	s.topic.Publish(nil)
	return nil
}

// Subscribe entrega o usuário ativo atual e cada troca seguinte (nil = logout)
func (s *Session) Subscribe() (<-chan *models.User, func()) {
	return s.topic.Subscribe()
}
