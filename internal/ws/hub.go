package ws

import (
	"sync"
)

// Hub tracks which clients are in which room and fans outbound frames out to
// them. Sends are fire-and-forget: a client whose queue is full loses the
// frame rather than stalling the handler that produced it.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool // roomID -> clients
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// Join adds a client to a room's audience.
func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
}

// Leave removes a client from a room's audience.
func (h *Hub) Leave(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast queues a frame for every client in the room, skipping exclude
// when non-nil.
func (h *Hub) Broadcast(roomID string, frame []byte, exclude *Client) {
	if frame == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		if c == exclude {
			continue
		}
		select {
		case c.Send <- frame:
		default:
			// A dropped replace or commit would diverge this client for
			// good, so force a reconnect and full resync instead.
			c.Kick()
		}
	}
}

// Send queues a frame for a single client.
func (h *Hub) Send(c *Client, frame []byte) {
	if frame == nil {
		return
	}
	select {
	case c.Send <- frame:
	default:
		c.Kick()
	}
}
