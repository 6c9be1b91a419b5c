package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// PubSubChannel define o canal Redis Pub/Sub usado quando há mais de uma instância do serviço
const PubSubChannel = "betapp_state_broadcast"

// RedisFanout publica as mudanças no canal; cada instância entrega aos seus clientes
type RedisFanout struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisFanout(rdb *redis.Client, log *zap.Logger) *RedisFanout {
	return &RedisFanout{rdb: rdb, log: log}
}

func (f *RedisFanout) Broadcast(ev events.StateChanged) {
	b, err := json.Marshal(ev)
	if err != nil {
		f.log.Warn("ws fanout marshal", zap.Error(err))
		return
	}
	if err := f.rdb.Publish(context.Background(), PubSubChannel, b).Err(); err != nil {
		f.log.Warn("ws fanout publish", zap.Error(err))
	}
}

// StartRedisSubscriber escuta o canal Redis Pub/Sub e repassa as mudanças
// para os clientes WebSocket conectados nesta instância
func StartRedisSubscriber(ctx context.Context, r *redis.Client, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, PubSubChannel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var ev events.StateChanged
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn("ws subscriber unmarshal", zap.Error(err))
					continue
				}
				hub.Broadcast(ev)
			}
		}
	}()
}
