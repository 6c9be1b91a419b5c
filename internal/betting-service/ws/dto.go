package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Kind: user | bets | notifications (obrigatório em subscribe/unsubscribe)
type ClientMsg struct {
	Type string `json:"type"`
	Kind string `json:"kind"`
}
