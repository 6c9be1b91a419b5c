// Package betting junta carteira, ledger e notificações nos fluxos de aposta:
// fazer a aposta debita o stake, ganhar credita o potentialWin, cancelar devolve o stake.
package betting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/ledger"
	"github.com/radieske/betting-companion/internal/notifications"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/internal/wallet"
)

var (
	ErrStakeBelowMinimum = errors.New("stake below minimum")
	// ErrMoneyFieldUpdate: stake, odds e status só mudam por PlaceBet, SettleWon, SettleLost e Cancel
	ErrMoneyFieldUpdate = errors.New("stake, odds and status cannot be edited")
)

type Wallet interface {
	CreditUser(ctx context.Context, userID string, amount decimal.Decimal) (models.User, error)
	DebitUser(ctx context.Context, userID string, amount decimal.Decimal) (bool, error)
}

type Bets interface {
	Create(ctx context.Context, nb ledger.NewBet) (models.Bet, error)
	Get(ctx context.Context, id string) (models.Bet, error)
	SettleAsWon(ctx context.Context, id string) (models.Bet, error)
	SettleAsLost(ctx context.Context, id string) (models.Bet, error)
	Cancel(ctx context.Context, id string) (models.Bet, error)
	Update(ctx context.Context, id string, upd ledger.BetUpdate) (models.Bet, error)
}

type Notifier interface {
	Add(ctx context.Context, userID string, nn notifications.NewNotification) (models.Notification, error)
}

type Coordinator struct {
	log      *zap.Logger
	wallet   Wallet
	bets     Bets
	notifier Notifier
	minStake decimal.Decimal
}

// New cria o coordenador; minStake zero desliga o limite mínimo
func New(log *zap.Logger, w Wallet, bets Bets, n Notifier, minStake decimal.Decimal) *Coordinator {
	return &Coordinator{log: log, wallet: w, bets: bets, notifier: n, minStake: minStake}
}

// PlaceBet debita o stake e cria a aposta. Sem saldo, nada é criado.
// Se a gravação da aposta falhar, o stake volta para a carteira.
func (c *Coordinator) PlaceBet(ctx context.Context, nb ledger.NewBet) (models.Bet, error) {
	if err := nb.Validate(); err != nil {
		return models.Bet{}, err
	}
	if nb.Stake.LessThan(c.minStake) {
		return models.Bet{}, fmt.Errorf("%w: %s < %s", ErrStakeBelowMinimum, nb.Stake, c.minStake)
	}

	ok, err := c.wallet.DebitUser(ctx, nb.UserID, nb.Stake)
	if err != nil {
		return models.Bet{}, err
	}
	if !ok {
		return models.Bet{}, wallet.ErrInsufficientFunds
	}

	bet, err := c.bets.Create(ctx, nb)
	if err != nil {
		if _, rerr := c.wallet.CreditUser(ctx, nb.UserID, nb.Stake); rerr != nil {
			c.log.Error("stake refund failed after bet create error",
				zap.String("userId", nb.UserID),
				zap.String("stake", nb.Stake.String()),
				zap.Error(rerr),
			)
		}
		return models.Bet{}, err
	}

	c.log.Info("bet placed",
		zap.String("betId", bet.ID),
		zap.String("userId", bet.UserID),
		zap.String("stake", bet.Stake.String()),
		zap.String("odds", bet.Odds.String()),
	)
	return bet, nil
}

// SettleWon liquida como ganha e credita o potentialWin
func (c *Coordinator) SettleWon(ctx context.Context, betID string) (models.Bet, error) {
	bet, err := c.bets.SettleAsWon(ctx, betID)
	if err != nil {
		return models.Bet{}, err
	}
	if _, err := c.wallet.CreditUser(ctx, bet.UserID, bet.PotentialWin); err != nil {
		c.log.Error("winnings credit failed after settle",
			zap.String("betId", bet.ID),
			zap.String("userId", bet.UserID),
			zap.String("amount", bet.PotentialWin.String()),
			zap.Error(err),
		)
		return bet, fmt.Errorf("credit winnings: %w", err)
	}
	c.notify(ctx, bet, "Aposta ganha!", fmt.Sprintf("Sua aposta em %s foi vencedora. Prêmio: %s", bet.MatchName, bet.PotentialWin.StringFixed(2)))
	return bet, nil
}

func (c *Coordinator) SettleLost(ctx context.Context, betID string) (models.Bet, error) {
	bet, err := c.bets.SettleAsLost(ctx, betID)
	if err != nil {
		return models.Bet{}, err
	}
	c.notify(ctx, bet, "Aposta perdida", fmt.Sprintf("Sua aposta em %s não foi dessa vez.", bet.MatchName))
	return bet, nil
}

// Cancel cancela a aposta pendente e devolve o stake
func (c *Coordinator) Cancel(ctx context.Context, betID string) (models.Bet, error) {
	bet, err := c.bets.Cancel(ctx, betID)
	if err != nil {
		return models.Bet{}, err
	}
	if _, err := c.wallet.CreditUser(ctx, bet.UserID, bet.Stake); err != nil {
		c.log.Error("stake refund failed after cancel",
			zap.String("betId", bet.ID),
			zap.String("userId", bet.UserID),
			zap.String("amount", bet.Stake.String()),
			zap.Error(err),
		)
		return bet, fmt.Errorf("refund stake: %w", err)
	}
	c.notify(ctx, bet, "Aposta cancelada", fmt.Sprintf("Aposta em %s cancelada e saldo devolvido.", bet.MatchName))
	return bet, nil
}

// UpdateDetails edita só os campos descritivos da aposta (partida, liga, palpite, tipo, data, notas).
// O débito foi feito sobre o stake original, então stake, odds e status ficam fora.
func (c *Coordinator) UpdateDetails(ctx context.Context, betID string, upd ledger.BetUpdate) (models.Bet, error) {
	if upd.Stake != nil || upd.Odds != nil || upd.Status != nil {
		return models.Bet{}, ErrMoneyFieldUpdate
	}
	return c.bets.Update(ctx, betID, upd)
}

// notify não derruba a operação: a aposta e o saldo já foram gravados
func (c *Coordinator) notify(ctx context.Context, bet models.Bet, title, msg string) {
	data, _ := json.Marshal(map[string]string{"betId": bet.ID, "status": string(bet.Status)})
	_, err := c.notifier.Add(ctx, bet.UserID, notifications.NewNotification{
		Title:   title,
		Message: msg,
		Type:    models.NotifyBet,
		Data:    data,
	})
	if err != nil {
		c.log.Warn("bet notification failed", zap.String("betId", bet.ID), zap.Error(err))
	}
}
