package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

func (s BetStatus) Valid() bool {
	switch s {
	case BetPending, BetWon, BetLost, BetCancelled:
		return true
	}
	return false
}

// Terminal indica won, lost ou cancelled: nenhuma transição sai daqui
func (s BetStatus) Terminal() bool {
	return s == BetWon || s == BetLost || s == BetCancelled
}

type BetType string

const (
	BetWinner  BetType = "winner"
	BetScore   BetType = "score"
	BetGoals   BetType = "goals"
	BetCorners BetType = "corners"
	BetCards   BetType = "cards"
)

func (t BetType) Valid() bool {
	switch t {
	case BetWinner, BetScore, BetGoals, BetCorners, BetCards:
		return true
	}
	return false
}

// Bet é o registro de uma aposta simulada.
// ID e PlacedAt nunca mudam depois da criação; PotentialWin = Stake × Odds.
type Bet struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	MatchID      string          `json:"matchId,omitempty"`
	MatchName    string          `json:"matchName"`
	League       string          `json:"league"`
	BetType      BetType         `json:"betType"`
	Prediction   string          `json:"prediction"`
	Odds         decimal.Decimal `json:"odds"`
	Stake        decimal.Decimal `json:"stake"`
	PotentialWin decimal.Decimal `json:"potentialWin"`
	Status       BetStatus       `json:"status"`
	MatchDate    time.Time       `json:"matchDate"`
	PlacedAt     time.Time       `json:"placedAt"`
	SettledAt    *time.Time      `json:"settledAt,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

func PotentialWin(stake, odds decimal.Decimal) decimal.Decimal {
	return stake.Mul(odds)
}
