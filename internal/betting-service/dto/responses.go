package dto

import (
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type BalanceResponse struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}

type RemoteStatusResponse struct {
	Backend string         `json:"backend"`
	Up      bool           `json:"up"`
	Details map[string]any `json:"details,omitempty"`
}
