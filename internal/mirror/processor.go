package mirror

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/shared/kafka"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// DeadLetter recebe as tarefas que esgotaram as tentativas
type DeadLetter interface {
	DeadLetter(ctx context.Context, t events.MirrorTask) error
}

// Processor é o lado consumidor da outbox (mirror-worker).
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log     *zap.Logger
	Applier *Applier
	DLQ     DeadLetter // opcional

	OnConsumed func()       // métricas (counter++)
	OnApplied  func()       // métricas
	OnDLQ      func()       // métricas
	OnError    func(string) // métricas por fase

	sleep func(ctx context.Context, d time.Duration) error
}

// NewProcessor liga as callbacks aos contadores do mirror-worker
func NewProcessor(log *zap.Logger, applier *Applier, m *metrics.Collectors) *Processor {
	return &Processor{
		Log:        log,
		Applier:    applier,
		OnConsumed: func() { m.WorkerEvent("consumed") },
		OnApplied:  func() { m.WorkerEvent("applied") },
		OnDLQ:      func() { m.WorkerEvent("dlq") },
		OnError:    m.WorkerError,
	}
}

// Handle decodifica e aplica uma tarefa. Só devolve erro quando nem a DLQ aceitou a tarefa.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	if p.OnConsumed != nil {
		p.OnConsumed()
	}

	var t events.MirrorTask
	if err := json.Unmarshal(body, &t); err != nil {
		p.Log.Warn("invalid mirror task", zap.Error(err))
		p.onError("decode")
		return nil
	}

	err := p.Applier.ApplyWithRetry(ctx, &t)
	if err == nil {
		if p.OnApplied != nil {
			p.OnApplied()
		}
		return nil
	}
	p.onError("apply")
	p.Applier.Metrics.MirrorDropped(t.Collection)

	if p.DLQ == nil {
		p.Log.Error("mirror task dropped",
			zap.String("task_id", t.TaskID),
			zap.String("collection", t.Collection),
			zap.String("id", t.DocID),
			zap.Error(err),
		)
		return nil
	}
	t.LastError = err.Error()
	if derr := p.DLQ.DeadLetter(ctx, t); derr != nil {
		p.Log.Error("dlq publish failed", zap.String("task_id", t.TaskID), zap.Error(derr))
		p.onError("dlq")
		return derr
	}
	if p.OnDLQ != nil {
		p.OnDLQ()
	}
	p.Log.Warn("mirror task sent to dlq",
		zap.String("task_id", t.TaskID),
		zap.String("collection", t.Collection),
		zap.String("id", t.DocID),
		zap.Error(err),
	)
	return nil
}

// RunKafka inicia o loop de consumo do tópico remote_mirror.
// O commit só acontece depois que a tarefa foi aplicada ou foi para a DLQ;
// se nem a DLQ aceitar, a mesma mensagem é tratada de novo.
func (p *Processor) RunKafka(ctx context.Context, r kafka.MessageReader) error {
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka fetch failed", zap.Error(err))
			p.onError("read")
			if err := p.wait(ctx, kafkaRetryDelay); err != nil {
				return err
			}
			continue
		}

		for attempt := 1; ; attempt++ {
			herr := p.Handle(ctx, m.Value)
			if herr == nil {
				break
			}
			p.Log.Error("mirror task kept uncommitted",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Int("attempt", attempt),
				zap.Error(herr),
			)
			if err := p.wait(ctx, kafkaRetryDelay*time.Duration(attempt)); err != nil {
				return err
			}
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
			p.onError("commit")
		}
	}
}

// AMQPHandler adapta Handle para o Consumer do rabbitmq: false → nack com requeue
func (p *Processor) AMQPHandler(ctx context.Context) func([]byte) bool {
	return func(body []byte) bool {
		return p.Handle(ctx, body) == nil
	}
}

const kafkaRetryDelay = 500 * time.Millisecond

func (p *Processor) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	return sleepCtx(ctx, d)
}

func (p *Processor) onError(phase string) {
	if p.OnError != nil {
		p.OnError(phase)
	}
}
