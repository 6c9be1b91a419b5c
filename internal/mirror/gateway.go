// Package mirror replica as escritas locais num backend remoto sem bloquear quem escreveu.
// Cada mutação vira uma MirrorTask numa outbox; falhas remotas são logadas e contadas,
// nunca devolvidas ao chamador.
package mirror

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

var (
	ErrOutboxFull   = errors.New("mirror: outbox full")
	ErrOutboxClosed = errors.New("mirror: outbox closed")
)

// Outbox recebe tarefas de espelhamento; Enqueue não deve esperar pelo remoto
type Outbox interface {
	Enqueue(ctx context.Context, t events.MirrorTask) error
	Close() error
}

type Gateway struct {
	outbox  Outbox
	store   remote.Store
	log     *zap.Logger
	metrics *metrics.Collectors

	now   func() time.Time
	newID func() string
}

func NewGateway(outbox Outbox, store remote.Store, log *zap.Logger, m *metrics.Collectors) *Gateway {
	return &Gateway{
		outbox:  outbox,
		store:   store,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Backend devolve o nome do adaptador remoto ativo
func (g *Gateway) Backend() string { return g.store.Name() }

func (g *Gateway) Store() remote.Store { return g.store }

// Upsert enfileira a criação/atualização do documento no remoto
func (g *Gateway) Upsert(ctx context.Context, collection, id string, doc any) {
	payload, err := Encode(doc)
	if err != nil {
		g.log.Error("mirror encode failed",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		g.metrics.MirrorDropped(collection)
		return
	}
	g.enqueue(ctx, events.MirrorTask{Collection: collection, Op: events.OpUpsert, DocID: id, Payload: payload})
}

func (g *Gateway) Delete(ctx context.Context, collection, id string) {
	g.enqueue(ctx, events.MirrorTask{Collection: collection, Op: events.OpDelete, DocID: id})
}

func (g *Gateway) enqueue(ctx context.Context, t events.MirrorTask) {
	t.TaskID = g.newID()
	t.TsUnixMs = g.now().UnixMilli()
	// a tarefa sobrevive ao request que a originou
	if err := g.outbox.Enqueue(context.WithoutCancel(ctx), t); err != nil {
		g.log.Warn("mirror enqueue failed",
			zap.String("collection", t.Collection),
			zap.String("id", t.DocID),
			zap.String("op", t.Op),
			zap.Error(err),
		)
		g.metrics.MirrorDropped(t.Collection)
	}
}

// Fetch lê um documento do remoto já convertido no tipo canônico
func Fetch[T any](ctx context.Context, g *Gateway, collection, id string) (T, error) {
	var zero T
	raw, err := g.store.Get(ctx, collection, id)
	if err != nil {
		return zero, err
	}
	out, unknown, err := DecodeInto[T](raw)
	if err != nil {
		return zero, err
	}
	if len(unknown) > 0 {
		g.log.Debug("remote document has unknown fields",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Strings("fields", unknown),
		)
	}
	return out, nil
}
