package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/betting-companion/internal/shared/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AmountRequest serve para depósito e saque
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// PlaceBetRequest: UserID vazio usa o usuário ativo
type PlaceBetRequest struct {
	UserID     string          `json:"userId,omitempty"`
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

type NotificationRequest struct {
	UserID  string                  `json:"userId,omitempty"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    models.NotificationType `json:"type"`
	Icon    string                  `json:"icon,omitempty"`
}
