// Package ledger guarda as apostas do app e aplica a máquina de estados
// pending → won | lost | cancelled. Toda escrita relê a coleção inteira,
// altera um item e grava de volta sob o mesmo mutex.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/internal/shared/pubsub"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

var (
	ErrBetNotFound    = errors.New("bet not found")
	ErrAlreadySettled = errors.New("bet already settled")
	ErrInvalidBet     = errors.New("invalid bet")
)

type Mirror interface {
	Upsert(ctx context.Context, collection, id string, doc any)
	Delete(ctx context.Context, collection, id string)
}

// NewBet são os dados informados pelo usuário ao criar uma aposta
type NewBet struct {
	UserID     string          `json:"userId"`
	MatchID    string          `json:"matchId,omitempty"`
	MatchName  string          `json:"matchName"`
	League     string          `json:"league"`
	BetType    models.BetType  `json:"betType"`
	Prediction string          `json:"prediction"`
	Odds       decimal.Decimal `json:"odds"`
	Stake      decimal.Decimal `json:"stake"`
	MatchDate  time.Time       `json:"matchDate"`
	Notes      string          `json:"notes,omitempty"`
}

func (nb NewBet) Validate() error {
	switch {
	case nb.UserID == "":
		return fmt.Errorf("%w: userId is required", ErrInvalidBet)
	case nb.MatchName == "":
		return fmt.Errorf("%w: matchName is required", ErrInvalidBet)
	case nb.League == "":
		return fmt.Errorf("%w: league is required", ErrInvalidBet)
	case nb.Prediction == "":
		return fmt.Errorf("%w: prediction is required", ErrInvalidBet)
	case !nb.BetType.Valid():
		return fmt.Errorf("%w: unknown betType %q", ErrInvalidBet, nb.BetType)
	case !nb.Stake.IsPositive():
		return fmt.Errorf("%w: stake must be positive", ErrInvalidBet)
	case !nb.Odds.IsPositive():
		return fmt.Errorf("%w: odds must be positive", ErrInvalidBet)
	}
	return nil
}

// BetUpdate é uma edição parcial; ID, UserID e PlacedAt ficam de fora de propósito
type BetUpdate struct {
	MatchID    *string           `json:"matchId,omitempty"`
	MatchName  *string           `json:"matchName,omitempty"`
	League     *string           `json:"league,omitempty"`
	BetType    *models.BetType   `json:"betType,omitempty"`
	Prediction *string           `json:"prediction,omitempty"`
	Odds       *decimal.Decimal  `json:"odds,omitempty"`
	Stake      *decimal.Decimal  `json:"stake,omitempty"`
	MatchDate  *time.Time        `json:"matchDate,omitempty"`
	Status     *models.BetStatus `json:"status,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

type Ledger struct {
	log     *zap.Logger
	store   kvstore.Store
	mirror  Mirror
	metrics *metrics.Collectors

	mu    sync.Mutex
	topic *pubsub.Topic[[]models.Bet]
	now   func() time.Time
	newID func() string
}

func New(log *zap.Logger, store kvstore.Store, mirror Mirror, m *metrics.Collectors) *Ledger {
	return &Ledger{
		log:     log,
		store:   store,
		mirror:  mirror,
		metrics: m,
		topic:   pubsub.NewTopic[[]models.Bet](8),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return "bet-" + uuid.NewString() },
	}
}

// Create grava uma aposta pending com potentialWin = stake × odds
func (l *Ledger) Create(ctx context.Context, nb NewBet) (models.Bet, error) {
	if err := nb.Validate(); err != nil {
		return models.Bet{}, err
	}
	now := l.now()
	bet := models.Bet{
		ID:           l.newID(),
		UserID:       nb.UserID,
		MatchID:      nb.MatchID,
		MatchName:    nb.MatchName,
		League:       nb.League,
		BetType:      nb.BetType,
		Prediction:   nb.Prediction,
		Odds:         nb.Odds,
		Stake:        nb.Stake,
		PotentialWin: models.PotentialWin(nb.Stake, nb.Odds),
		Status:       models.BetPending,
		MatchDate:    nb.MatchDate.UTC(),
		PlacedAt:     now,
		Notes:        nb.Notes,
	}

	_, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		return append(bets, bet), nil
	})
	if err != nil {
		return models.Bet{}, err
	}

	l.metrics.BetCreated()
	l.mirror.Upsert(ctx, collections.Bets, bet.ID, bet)
	l.log.Info("bet created",
		zap.String("betId", bet.ID),
		zap.String("userId", bet.UserID),
		zap.String("stake", bet.Stake.String()),
		zap.String("odds", bet.Odds.String()),
	)
	return bet, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (models.Bet, error) {
	bets, err := l.load(ctx)
	if err != nil {
		return models.Bet{}, err
	}
	i := indexOf(bets, id)
	if i < 0 {
		return models.Bet{}, ErrBetNotFound
	}
	return bets[i], nil
}

// List devolve todas as apostas em ordem de inserção
func (l *Ledger) List(ctx context.Context) ([]models.Bet, error) {
	return l.load(ctx)
}

func (l *Ledger) ListByUser(ctx context.Context, userID string) ([]models.Bet, error) {
	return l.filter(ctx, userID, func(models.Bet) bool { return true })
}

// ByStatus filtra por status; userID vazio considera todos os usuários
func (l *Ledger) ByStatus(ctx context.Context, status models.BetStatus, userID string) ([]models.Bet, error) {
	return l.filter(ctx, userID, func(b models.Bet) bool { return b.Status == status })
}

func (l *Ledger) ByType(ctx context.Context, betType models.BetType, userID string) ([]models.Bet, error) {
	return l.filter(ctx, userID, func(b models.Bet) bool { return b.BetType == betType })
}

// Update aplica uma edição parcial. Stake/odds alterados recalculam potentialWin;
// mudanças de status seguem a mesma máquina de estados de Settle/Cancel.
func (l *Ledger) Update(ctx context.Context, id string, upd BetUpdate) (models.Bet, error) {
	var out models.Bet
	_, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		i := indexOf(bets, id)
		if i < 0 {
			return nil, ErrBetNotFound
		}
		b, err := l.apply(bets[i], upd)
		if err != nil {
			return nil, err
		}
		bets[i] = b
		out = b
		return bets, nil
	})
	if err != nil {
		return models.Bet{}, err
	}
	if upd.Status != nil && out.Status.Terminal() {
		l.metrics.BetSettled(string(out.Status))
	}
	l.mirror.Upsert(ctx, collections.Bets, out.ID, out)
	return out, nil
}

func (l *Ledger) SettleAsWon(ctx context.Context, id string) (models.Bet, error) {
	return l.transition(ctx, id, models.BetWon)
}

func (l *Ledger) SettleAsLost(ctx context.Context, id string) (models.Bet, error) {
	return l.transition(ctx, id, models.BetLost)
}

// Cancel não devolve o stake; quem chama credita a carteira
func (l *Ledger) Cancel(ctx context.Context, id string) (models.Bet, error) {
	return l.transition(ctx, id, models.BetCancelled)
}

// Delete remove a aposta em qualquer status
func (l *Ledger) Delete(ctx context.Context, id string) error {
	_, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		i := indexOf(bets, id)
		if i < 0 {
			return nil, ErrBetNotFound
		}
		return append(bets[:i], bets[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	l.mirror.Delete(ctx, collections.Bets, id)
	return nil
}

// ClearAll apaga a coleção inteira
func (l *Ledger) ClearAll(ctx context.Context) error {
	var removed []models.Bet
	_, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		removed = bets
		return []models.Bet{}, nil
	})
	if err != nil {
		return err
	}
	for _, b := range removed {
		l.mirror.Delete(ctx, collections.Bets, b.ID)
	}
	return nil
}

// ClearUser apaga só as apostas de um usuário e devolve quantas saíram
func (l *Ledger) ClearUser(ctx context.Context, userID string) (int, error) {
	var removed []string
	_, err := l.mutate(ctx, func(bets []models.Bet) ([]models.Bet, error) {
		kept := bets[:0]
		for _, b := range bets {
			if b.UserID == userID {
				removed = append(removed, b.ID)
				continue
			}
			kept = append(kept, b)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	for _, id := range removed {
		l.mirror.Delete(ctx, collections.Bets, id)
	}
	return len(removed), nil
}

// Subscribe entrega a coleção completa após cada escrita
func (l *Ledger) Subscribe() (<-chan []models.Bet, func()) {
	return l.topic.Subscribe()
}

func (l *Ledger) transition(ctx context.Context, id string, to models.BetStatus) (models.Bet, error) {
	return l.Update(ctx, id, BetUpdate{Status: &to})
}

func (l *Ledger) apply(b models.Bet, upd BetUpdate) (models.Bet, error) {
	if b.Status.Terminal() && (upd.Status != nil || upd.Stake != nil || upd.Odds != nil) {
		return models.Bet{}, fmt.Errorf("%w: %s is %s", ErrAlreadySettled, b.ID, b.Status)
	}

	if upd.MatchID != nil {
		b.MatchID = *upd.MatchID
	}
	if upd.MatchName != nil {
		if *upd.MatchName == "" {
			return models.Bet{}, fmt.Errorf("%w: matchName is required", ErrInvalidBet)
		}
		b.MatchName = *upd.MatchName
	}
	if upd.League != nil {
		if *upd.League == "" {
			return models.Bet{}, fmt.Errorf("%w: league is required", ErrInvalidBet)
		}
		b.League = *upd.League
	}
	if upd.BetType != nil {
		if !upd.BetType.Valid() {
			return models.Bet{}, fmt.Errorf("%w: unknown betType %q", ErrInvalidBet, *upd.BetType)
		}
		b.BetType = *upd.BetType
	}
	if upd.Prediction != nil {
		if *upd.Prediction == "" {
			return models.Bet{}, fmt.Errorf("%w: prediction is required", ErrInvalidBet)
		}
		b.Prediction = *upd.Prediction
	}
	if upd.Odds != nil {
		if !upd.Odds.IsPositive() {
			return models.Bet{}, fmt.Errorf("%w: odds must be positive", ErrInvalidBet)
		}
		b.Odds = *upd.Odds
	}
	if upd.Stake != nil {
		if !upd.Stake.IsPositive() {
			return models.Bet{}, fmt.Errorf("%w: stake must be positive", ErrInvalidBet)
		}
		b.Stake = *upd.Stake
	}
	if upd.MatchDate != nil {
		b.MatchDate = upd.MatchDate.UTC()
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}
	if upd.Status != nil {
		switch s := *upd.Status; {
		case !s.Valid():
			return models.Bet{}, fmt.Errorf("%w: unknown status %q", ErrInvalidBet, s)
		case s.Terminal():
			now := l.now()
			b.Status = s
			b.SettledAt = &now
		}
	}

	b.PotentialWin = models.PotentialWin(b.Stake, b.Odds)
	return b, nil
}

// mutate serializa o read-modify-write e só publica depois da gravação local
func (l *Ledger) mutate(ctx context.Context, fn func(bets []models.Bet) ([]models.Bet, error)) ([]models.Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bets, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(bets)
	if err != nil {
		return nil, err
	}
	if err := kvstore.SaveList(ctx, l.store, kvstore.KeyBets, next); err != nil {
		return nil, fmt.Errorf("save bets: %w", err)
	}

	snapshot := make([]models.Bet, len(next))
	copy(snapshot, next)
	l.topic.Publish(snapshot)
	return next, nil
}

func (l *Ledger) load(ctx context.Context) ([]models.Bet, error) {
	bets, err := kvstore.LoadList[models.Bet](ctx, l.store, kvstore.KeyBets)
	if err != nil {
		return nil, fmt.Errorf("load bets: %w", err)
	}
	return bets, nil
}

func (l *Ledger) filter(ctx context.Context, userID string, keep func(models.Bet) bool) ([]models.Bet, error) {
	bets, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Bet, 0, len(bets))
	for _, b := range bets {
		if userID != "" && b.UserID != userID {
			continue
		}
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func indexOf(bets []models.Bet, id string) int {
	for i, b := range bets {
		if b.ID == id {
			return i
		}
	}
	return -1
}
