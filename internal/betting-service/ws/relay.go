package ws

import (
	"context"
	"time"

	"github.com/radieske/betting-companion/internal/notifications"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// Broadcaster é o destino das mudanças: o Hub local ou o fan-out via Redis
type Broadcaster interface {
	Broadcast(ev events.StateChanged)
}

// Sources são os tópicos em processo que alimentam o stream
type Sources struct {
	User          func() (<-chan *models.User, func())
	Bets          func() (<-chan []models.Bet, func())
	Notifications func() (<-chan notifications.Unread, func())
}

// StartRelay assina as fontes e repassa cada valor como StateChanged até ctx acabar
func StartRelay(ctx context.Context, src Sources, out Broadcaster) {
	if src.User != nil {
		go relay(ctx, src.User, func(u *models.User) events.StateChanged {
			ev := events.StateChanged{Kind: events.KindUser, Payload: u}
			if u != nil {
				ev.UserID = u.ID
			}
			return ev
		}, out)
	}
	if src.Bets != nil {
		go relay(ctx, src.Bets, func(b []models.Bet) events.StateChanged {
			return events.StateChanged{Kind: events.KindBets, Payload: b}
		}, out)
	}
	if src.Notifications != nil {
		go relay(ctx, src.Notifications, func(u notifications.Unread) events.StateChanged {
			return events.StateChanged{Kind: events.KindNotifications, UserID: u.UserID, Payload: u}
		}, out)
	}
}

func relay[T any](ctx context.Context, subscribe func() (<-chan T, func()), conv func(T) events.StateChanged, out Broadcaster) {
	ch, cancel := subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			ev := conv(v)
			ev.Ts = time.Now().UTC()
			out.Broadcast(ev)
		}
	}
}
