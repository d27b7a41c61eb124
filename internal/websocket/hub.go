package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Role controls which projection of an item a client is allowed to see.
type Role int

const (
	// RoleOwner receives full item records including purchaser details.
	RoleOwner Role = iota
	// RolePublic receives the narrowed public projection only.
	RolePublic
)

// Message is a real-time sync notification sent to list viewers.
type Message struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	ID      int64  `json:"id,omitempty"`
	ListID  int64  `json:"list_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, listID, id int64, payload any) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		ID:      id,
		ListID:  listID,
		Payload: payload,
	}
}

// Hub maintains the active WebSocket clients grouped into per-list rooms.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[int64]map[*Client]struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds a client to its list's room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.listID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.listID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from its room and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.listID]; ok {
		if _, ok := room[c]; ok {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.listID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every client in the list's room regardless of
// role. Use it for notifications that carry no restricted fields.
func (h *Hub) Broadcast(listID int64, msg Message) {
	h.BroadcastSplit(listID, msg, msg)
}

// BroadcastSplit sends ownerMsg to owner clients and publicMsg to public
// clients of the same room, so restricted fields never cross the access
// boundary.
func (h *Hub) BroadcastSplit(listID int64, ownerMsg, publicMsg Message) {
	ownerData, err := json.Marshal(ownerMsg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}
	publicData, err := json.Marshal(publicMsg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[listID] {
		data := publicData
		if c.role == RoleOwner {
			data = ownerData
		}
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// BroadcastAll sends a message to every connected client in every room.
// Use it for process-wide notifications only.
func (h *Hub) BroadcastAll(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, room := range h.rooms {
		for c := range room {
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// ClientCount returns the number of clients in a list's room.
func (h *Hub) ClientCount(listID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[listID])
}
