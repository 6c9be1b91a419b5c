// Package notifications mantém a lista de avisos por usuário, a mais recente primeiro.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/internal/shared/pubsub"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

var (
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidType = errors.New("invalid notification type")
)

type Mirror interface {
	Upsert(ctx context.Context, collection, id string, doc any)
	Delete(ctx context.Context, collection, id string)
}

type NewNotification struct {
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    models.NotificationType `json:"type"`
	Icon    string                  `json:"icon,omitempty"`
	Data    json.RawMessage         `json:"data,omitempty"`
}

// Unread é o contador derivado publicado após cada escrita
type Unread struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

var defaultIcons = map[models.NotificationType]string{
	models.NotifyBet:       "trophy",
	models.NotifyMatch:     "football",
	models.NotifyTransfer:  "swap-horizontal",
	models.NotifyCommunity: "people",
	models.NotifySystem:    "information-circle",
}

type Ledger struct {
	log    *zap.Logger
	store  kvstore.Store
	mirror Mirror

	mu     sync.Mutex
	unread *pubsub.Topic[Unread]
	now    func() time.Time
	newID  func() string
}

func New(log *zap.Logger, store kvstore.Store, mirror Mirror) *Ledger {
	return &Ledger{
		log:    log,
		store:  store,
		mirror: mirror,
		unread: pubsub.NewTopic[Unread](16),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return "notif-" + uuid.NewString() },
	}
}

func (l *Ledger) Add(ctx context.Context, userID string, nn NewNotification) (models.Notification, error) {
	if !nn.Type.Valid() {
		return models.Notification{}, fmt.Errorf("%w: %q", ErrInvalidType, nn.Type)
	}
	icon := nn.Icon
	if icon == "" {
		icon = defaultIcons[nn.Type]
	}
	n := models.Notification{
		ID:        l.newID(),
		UserID:    userID,
		Title:     nn.Title,
		Message:   nn.Message,
		Type:      nn.Type,
		Timestamp: l.now(),
		Icon:      icon,
		Data:      nn.Data,
	}

	err := l.mutate(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		return append([]models.Notification{n}, list...), nil
	})
	if err != nil {
		return models.Notification{}, err
	}
	l.mirror.Upsert(ctx, collections.Notifications, n.ID, n)
	return n, nil
}

// ForUser devolve as notificações do usuário, a mais recente primeiro
func (l *Ledger) ForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	list, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0)
	for _, n := range list {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (l *Ledger) MarkAsRead(ctx context.Context, userID, id string) error {
	var changed models.Notification
	err := l.mutate(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		i := indexOf(list, userID, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		list[i].Read = true
		changed = list[i]
		return list, nil
	})
	if err != nil {
		return err
	}
	l.mirror.Upsert(ctx, collections.Notifications, changed.ID, changed)
	return nil
}

// MarkAllAsRead devolve quantas notificações mudaram
func (l *Ledger) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	var changed []models.Notification
	err := l.mutate(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		for i := range list {
			if list[i].UserID == userID && !list[i].Read {
				list[i].Read = true
				changed = append(changed, list[i])
			}
		}
		return list, nil
	})
	if err != nil {
		return 0, err
	}
	for _, n := range changed {
		l.mirror.Upsert(ctx, collections.Notifications, n.ID, n)
	}
	return len(changed), nil
}

func (l *Ledger) Delete(ctx context.Context, userID, id string) error {
	err := l.mutate(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		i := indexOf(list, userID, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(list[:i], list[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	l.mirror.Delete(ctx, collections.Notifications, id)
	return nil
}

// ClearAll remove todas as notificações do usuário
func (l *Ledger) ClearAll(ctx context.Context, userID string) (int, error) {
	var removed []string
	err := l.mutate(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		kept := list[:0]
		for _, n := range list {
			if n.UserID == userID {
				removed = append(removed, n.ID)
				continue
			}
			kept = append(kept, n)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	for _, id := range removed {
		l.mirror.Delete(ctx, collections.Notifications, id)
	}
	return len(removed), nil
}

func (l *Ledger) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	return countUnread(list, userID), nil
}

// SubscribeUnread entrega o contador de não lidas recalculado a cada escrita
func (l *Ledger) SubscribeUnread() (<-chan Unread, func()) {
	return l.unread.Subscribe()
}

func (l *Ledger) mutate(ctx context.Context, userID string, fn func([]models.Notification) ([]models.Notification, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list, err := l.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(list)
	if err != nil {
		return err
	}
	if err := kvstore.SaveList(ctx, l.store, kvstore.KeyNotifications, next); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	l.unread.Publish(Unread{UserID: userID, Count: countUnread(next, userID)})
	return nil
}

func (l *Ledger) load(ctx context.Context) ([]models.Notification, error) {
	list, err := kvstore.LoadList[models.Notification](ctx, l.store, kvstore.KeyNotifications)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	return list, nil
}

func countUnread(list []models.Notification, userID string) int {
	n := 0
	for _, x := range list {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n
}

func indexOf(list []models.Notification, userID, id string) int {
	for i, n := range list {
		if n.ID == id && n.UserID == userID {
			return i
		}
	}
	return -1
}
