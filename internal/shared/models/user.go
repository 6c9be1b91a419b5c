package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Avatar   string          `json:"avatar,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Balance  decimal.Decimal `json:"balance"`
	JoinDate time.Time       `json:"joinDate"`
}

// RegisteredUser é a entrada do diretório local; o hash nunca sai daqui
type RegisteredUser struct {
	User
	PasswordHash string `json:"passwordHash,omitempty"`
}
