package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/radieske/betting-companion/pkg/contracts/events"
)

// client serializa as escritas numa conexão; gorilla não aceita writers concorrentes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por tipo de mudança de estado
// subs: mapeia kind (user, bets, notifications) para o conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por kind e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.Kind]; !ok {
				h.subs[msg.Kind] = make(map[*client]struct{})
			}
			h.subs[msg.Kind][c] = struct{}{}
			h.mu.Unlock()
			_ = c.write(ack("subscribed", msg.Kind))
		case "unsubscribe":
			h.remove(c, msg.Kind)
		case "ping":
			_ = c.write([]byte(`{"type":"pong"}`))
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.remove(c, "")
}

// Broadcast envia a mudança para todos os clientes inscritos no kind correspondente
func (h *Hub) Broadcast(ev events.StateChanged) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[ev.Kind]))
	for c := range h.subs[ev.Kind] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	for _, c := range targets {
		_ = c.write(b)
	}
}

// Subscribers conta os clientes inscritos em um kind
func (h *Hub) Subscribers(kind string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[kind])
}

// remove tira o cliente de um kind; kind vazio remove de todos
func (h *Hub) remove(c *client, kind string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k, set := range h.subs {
		if kind != "" && k != kind {
			continue
		}
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, k)
		}
	}
}

func ack(typ, kind string) []byte {
	b, _ := json.Marshal(map[string]string{"type": typ, "kind": kind})
	return b
}
