package events

import "encoding/json"

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// MirrorTask é a unidade de trabalho da outbox de espelhamento remoto.
// Publicada no tópico/exchange "remote_mirror"; DocID é usado como chave de partição.
type MirrorTask struct {
	TaskID     string          `json:"task_id"`
	Collection string          `json:"collection"` // users | bets | leagues | teams | notifications
	Op         string          `json:"op"`         // upsert | delete
	DocID      string          `json:"doc_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Attempt    int             `json:"attempt"`
	TsUnixMs   int64           `json:"ts_unix_ms"`
	LastError  string          `json:"last_error,omitempty"` // preenchido só na DLQ
}
