package mirror

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// MemoryOutbox aplica as tarefas no próprio processo, um worker só, em ordem FIFO
type MemoryOutbox struct {
	applier *Applier
	log     *zap.Logger
	metrics *metrics.Collectors

	mu      sync.RWMutex
	closed  bool
	started bool
	tasks   chan events.MirrorTask
	done    chan struct{}
}

func NewMemoryOutbox(applier *Applier, log *zap.Logger, m *metrics.Collectors, buffer int) *MemoryOutbox {
	if buffer <= 0 {
		buffer = 1
	}
	return &MemoryOutbox{
		applier: applier,
		log:     log,
		metrics: m,
		tasks:   make(chan events.MirrorTask, buffer),
		done:    make(chan struct{}),
	}
}

// Start sobe o worker; ctx cancela as esperas de backoff
func (o *MemoryOutbox) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.mu.Unlock()

	go func() {
		defer close(o.done)
		for t := range o.tasks {
			if err := o.applier.ApplyWithRetry(ctx, &t); err != nil {
				o.log.Error("mirror task dropped",
					zap.String("task_id", t.TaskID),
					zap.String("collection", t.Collection),
					zap.String("id", t.DocID),
					zap.String("op", t.Op),
					zap.Error(err),
				)
				o.metrics.MirrorDropped(t.Collection)
			}
		}
	}()
}

// Enqueue nunca bloqueia: com a fila cheia devolve ErrOutboxFull
func (o *MemoryOutbox) Enqueue(_ context.Context, t events.MirrorTask) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.tasks <- t:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Close para de aceitar tarefas e espera o worker esvaziar a fila
func (o *MemoryOutbox) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	close(o.tasks)
	started := o.started
	o.mu.Unlock()

	if started {
		<-o.done
	}
	return nil
}
