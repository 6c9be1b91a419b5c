package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// Applier executa uma MirrorTask contra o remote.Store configurado
type Applier struct {
	Store       remote.Store
	Log         *zap.Logger
	Metrics     *metrics.Collectors
	MaxAttempts int
	Backoff     time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewApplier(store remote.Store, log *zap.Logger, m *metrics.Collectors, maxAttempts int, backoff time.Duration) *Applier {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Applier{Store: store, Log: log, Metrics: m, MaxAttempts: maxAttempts, Backoff: backoff, sleep: sleepCtx}
}

// Apply faz uma tentativa. Upsert consulta o remoto pelo id: existe → Update, não existe → Create.
func (a *Applier) Apply(ctx context.Context, t events.MirrorTask) error {
	err := a.apply(ctx, t)
	result := "ok"
	if err != nil {
		result = "error"
	}
	a.Metrics.MirrorAttempt(t.Collection, t.Op, result)
	return err
}

// ApplyWithRetry repete com backoff linear (Backoff × tentativa).
// Erros permanentes (coleção desconhecida, payload inválido) não são repetidos.
// t.Attempt fica com o número da última tentativa feita.
func (a *Applier) ApplyWithRetry(ctx context.Context, t *events.MirrorTask) error {
	var err error
	for attempt := 1; attempt <= a.MaxAttempts; attempt++ {
		t.Attempt = attempt
		if err = a.Apply(ctx, *t); err == nil {
			return nil
		}
		if Permanent(err) {
			break
		}
		a.Log.Warn("mirror attempt failed",
			zap.String("collection", t.Collection),
			zap.String("id", t.DocID),
			zap.String("op", t.Op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == a.MaxAttempts {
			break
		}
		if serr := a.sleep(ctx, time.Duration(attempt)*a.Backoff); serr != nil {
			return serr
		}
	}
	return err
}

// Permanent indica erro que nenhuma retentativa resolve
func Permanent(err error) bool {
	return errors.Is(err, ErrUnknownCollection) || errors.Is(err, ErrUnmappable)
}

func (a *Applier) apply(ctx context.Context, t events.MirrorTask) error {
	if !collections.Known(t.Collection) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, t.Collection)
	}

	switch t.Op {
	case events.OpDelete:
		err := a.Store.Delete(ctx, t.Collection, t.DocID)
		if errors.Is(err, remote.ErrNotFound) {
			return nil
		}
		return err

	case events.OpUpsert:
		doc, unknown, err := Canonicalize(t.Collection, t.Payload)
		if err != nil {
			return err
		}
		if len(unknown) > 0 {
			a.Log.Warn("mirror payload has unknown fields; dropped",
				zap.String("collection", t.Collection),
				zap.String("id", t.DocID),
				zap.Strings("fields", unknown),
			)
		}

		_, err = a.Store.Get(ctx, t.Collection, t.DocID)
		switch {
		case errors.Is(err, remote.ErrNotFound):
			return a.Store.Create(ctx, t.Collection, t.DocID, doc)
		case err != nil:
			return err
		}
		err = a.Store.Update(ctx, t.Collection, t.DocID, doc)
		if errors.Is(err, remote.ErrNotFound) {
			// apagado entre o Get e o Update
			return a.Store.Create(ctx, t.Collection, t.DocID, doc)
		}
		return err
	}
	return fmt.Errorf("%w: unknown op %q", ErrUnmappable, t.Op)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
