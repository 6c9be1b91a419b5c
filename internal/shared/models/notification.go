package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifyBet       NotificationType = "bet"
	NotifyMatch     NotificationType = "match"
	NotifyTransfer  NotificationType = "transfer"
	NotifyCommunity NotificationType = "community"
	NotifySystem    NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyBet, NotifyMatch, NotifyTransfer, NotifyCommunity, NotifySystem:
		return true
	}
	return false
}

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	Icon      string           `json:"icon,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
}
