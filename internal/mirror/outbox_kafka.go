package mirror

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/shared/kafka"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// KafkaOutbox publica as tarefas no tópico remote_mirror; o mirror-worker aplica.
// A chave é o DocID, então escritas do mesmo documento caem na mesma partição.
type KafkaOutbox struct {
	w      kafka.MessageWriter
	closed atomic.Bool
}

// NewKafkaOutbox usa um writer assíncrono: erros de entrega chegam pelo Completion
func NewKafkaOutbox(brokers, topic string, log *zap.Logger, m *metrics.Collectors) *KafkaOutbox {
	w := kafka.NewWriter(brokers, topic)
	w.Async = true
	w.BatchTimeout = 50 * time.Millisecond
	w.Completion = func(msgs []kafkago.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range msgs {
			var t events.MirrorTask
			_ = json.Unmarshal(msg.Value, &t)
			log.Warn("kafka mirror publish failed",
				zap.String("collection", t.Collection),
				zap.String("id", t.DocID),
				zap.Error(err),
			)
			m.MirrorDropped(t.Collection)
		}
	}
	return &KafkaOutbox{w: w}
}

func (o *KafkaOutbox) Enqueue(ctx context.Context, t events.MirrorTask) error {
	if o.closed.Load() {
		return ErrOutboxClosed
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, o.w, t.DocID, b)
}

func (o *KafkaOutbox) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	return o.w.Close()
}

// KafkaDeadLetter grava tarefas esgotadas no tópico de DLQ
type KafkaDeadLetter struct {
	W kafka.MessageWriter
}

func NewKafkaDeadLetter(brokers, topic string) *KafkaDeadLetter {
	return &KafkaDeadLetter{W: kafka.NewWriter(brokers, topic)}
}

func (d *KafkaDeadLetter) DeadLetter(ctx context.Context, t events.MirrorTask) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, d.W, t.DocID, b)
}

func (d *KafkaDeadLetter) Close() error { return d.W.Close() }
