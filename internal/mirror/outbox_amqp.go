package mirror

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/radieske/betting-companion/pkg/contracts/events"
	"github.com/radieske/betting-companion/pkg/contracts/topics"
)

// publisher é satisfeito por *rabbitmq.Producer
type publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// AMQPOutbox publica as tarefas na exchange topic com routing key mirror.<coleção>.<op>
type AMQPOutbox struct {
	p      publisher
	closed atomic.Bool
}

func NewAMQPOutbox(p publisher) *AMQPOutbox {
	return &AMQPOutbox{p: p}
}

func (o *AMQPOutbox) Enqueue(ctx context.Context, t events.MirrorTask) error {
	if o.closed.Load() {
		return ErrOutboxClosed
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return o.p.Publish(ctx, topics.RoutingKey(t.Collection, t.Op), b)
}

func (o *AMQPOutbox) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	return o.p.Close()
}

// AMQPDeadLetter republica tarefas esgotadas com routing key dlq.<coleção>
type AMQPDeadLetter struct {
	P publisher
}

func (d *AMQPDeadLetter) DeadLetter(ctx context.Context, t events.MirrorTask) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return d.P.Publish(ctx, topics.RemoteMirrorDLQ+"."+t.Collection, b)
}
