package events

import "time"

// Tipos de mudança de estado repassados aos clientes WebSocket
const (
	KindUser          = "user"
	KindBets          = "bets"
	KindNotifications = "notifications"
)

// StateChanged é emitido após cada escrita local bem sucedida
type StateChanged struct {
	Kind    string    `json:"kind"`
	UserID  string    `json:"userId,omitempty"`
	Payload any       `json:"payload"`
	Ts      time.Time `json:"ts"`
}
