// Package wallet aplica créditos e débitos no saldo do usuário.
// Débitos nunca deixam o saldo negativo; cada usuário tem seu próprio mutex.
package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/internal/shared/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNoActiveUser      = errors.New("no active user")
)

// Accounts é a fonte do registro do usuário (directory.Directory)
type Accounts interface {
	GetCurrentUser() *models.User
	Update(ctx context.Context, userID string, fn func(u *models.User) error) (models.User, error)
}

type Wallet struct {
	log      *zap.Logger
	accounts Accounts
	metrics  *metrics.Collectors

	locks sync.Map // userID -> *sync.Mutex
}

func New(log *zap.Logger, accounts Accounts, m *metrics.Collectors) *Wallet {
	return &Wallet{log: log, accounts: accounts, metrics: m}
}

func (w *Wallet) Balance() (decimal.Decimal, error) {
	u := w.accounts.GetCurrentUser()
	if u == nil {
		return decimal.Zero, ErrNoActiveUser
	}
	return u.Balance, nil
}

func (w *Wallet) Credit(ctx context.Context, amount decimal.Decimal) (models.User, error) {
	id, err := w.currentID()
	if err != nil {
		return models.User{}, err
	}
	return w.CreditUser(ctx, id, amount)
}

// Debit devolve false (sem erro) quando o saldo não cobre o valor
func (w *Wallet) Debit(ctx context.Context, amount decimal.Decimal) (bool, error) {
	id, err := w.currentID()
	if err != nil {
		return false, err
	}
	return w.DebitUser(ctx, id, amount)
}

func (w *Wallet) CreditUser(ctx context.Context, userID string, amount decimal.Decimal) (models.User, error) {
	if !amount.IsPositive() {
		w.metrics.WalletOp("credit", "invalid")
		return models.User{}, ErrInvalidAmount
	}

	mu := w.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	u, err := w.accounts.Update(ctx, userID, func(u *models.User) error {
		u.Balance = u.Balance.Add(amount)
		return nil
	})
	if err != nil {
		w.metrics.WalletOp("credit", "error")
		return models.User{}, err
	}
	w.metrics.WalletOp("credit", "ok")
	w.log.Debug("wallet credit", zap.String("userId", userID), zap.String("amount", amount.String()), zap.String("balance", u.Balance.String()))
	return u, nil
}

func (w *Wallet) DebitUser(ctx context.Context, userID string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		w.metrics.WalletOp("debit", "invalid")
		return false, ErrInvalidAmount
	}

	mu := w.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	u, err := w.accounts.Update(ctx, userID, func(u *models.User) error {
		if u.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		u.Balance = u.Balance.Sub(amount)
		return nil
	})
	if errors.Is(err, ErrInsufficientFunds) {
		w.metrics.WalletOp("debit", "insufficient")
		return false, nil
	}
	if err != nil {
		w.metrics.WalletOp("debit", "error")
		return false, err
	}
	w.metrics.WalletOp("debit", "ok")
	w.log.Debug("wallet debit", zap.String("userId", userID), zap.String("amount", amount.String()), zap.String("balance", u.Balance.String()))
	return true, nil
}

// SetBalance sobrescreve o saldo do usuário ativo (edição de perfil/admin)
func (w *Wallet) SetBalance(ctx context.Context, balance decimal.Decimal) (models.User, error) {
	if balance.IsNegative() {
		return models.User{}, ErrInvalidAmount
	}
	id, err := w.currentID()
	if err != nil {
		return models.User{}, err
	}

	mu := w.lock(id)
	mu.Lock()
	defer mu.Unlock()

	return w.accounts.Update(ctx, id, func(u *models.User) error {
		u.Balance = balance
		return nil
	})
}

func (w *Wallet) currentID() (string, error) {
	u := w.accounts.GetCurrentUser()
	if u == nil {
		return "", ErrNoActiveUser
	}
	return u.ID, nil
}

func (w *Wallet) lock(userID string) *sync.Mutex {
	mu, _ := w.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
