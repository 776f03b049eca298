// Package websocket pushes change notifications to connected browsers.
// Every mutation on the API broadcasts which entity changed; clients
// use the event purely as a cache-invalidation signal and refetch over
// HTTP, so a dropped event only delays a refresh.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Entities carried in change events.
const (
	EntityExpense  = "expense"
	EntityCategory = "category"
	EntityVacation = "vacation"
	EntityShopping = "shopping"
	EntityChore    = "chore"
	EntityLedger   = "ledger"
	EntitySettings = "settings"
	EntityImport   = "import"
)

// Event is a change notification. Type is "<entity>_<action>" so
// clients can subscribe with a single string match.
type Event struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewEvent builds an Event with the composed Type field.
func NewEvent(entity, action string, id int64) Event {
	return Event{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Hub tracks connected clients and fans events out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes the client and closes its outbox. Safe to call
// more than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.outbox)
	}
	h.mu.Unlock()
}

// Broadcast fans the event out to every connected client. A client
// with a full outbox misses the event rather than blocking the
// mutation that triggered it; the next refetch catches it up.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.outbox <- data:
		default:
		}
	}
}

// Changed is the common mutation hook: broadcast that an entity was
// created, updated, or deleted.
func (h *Hub) Changed(entity, action string, id int64) {
	h.Broadcast(NewEvent(entity, action, id))
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
