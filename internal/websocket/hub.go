package websocket

import (
	"log/slog"
	"sync"
)

// Hub maps a user identity to its set of live connections and fans named
// events out to them. Connect/disconnect are the only writers of the
// registry, delivery is the only reader. The hub holds no durable state: a
// disconnected user misses live events and catches up from the stored
// notification list.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
	}
}

// Run serializes registry writes. Call once in its own goroutine.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case <-done:
			return
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.users[client.UserID] = set
	}
	set[client] = struct{}{}
	h.log.Debug("client connected", "user_id", client.UserID, "client_id", client.ID, "connections", len(set))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.users, client.UserID)
	}
	h.log.Debug("client disconnected", "user_id", client.UserID, "client_id", client.ID)
}

// DeliverToUser sends an event to every live connection of userID. Zero
// connections is a silent no-op: delivery is at-most-once, unacknowledged,
// and never an error from the caller's perspective.
func (h *Hub) DeliverToUser(userID string, event string, args ...interface{}) {
	data, err := NewEvent(event, args...).Marshal()
	if err != nil {
		h.log.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the frame, the heartbeat will reap the
			// connection if it stays stuck.
			h.log.Warn("dropping event for slow client", "user_id", userID, "client_id", client.ID, "event", event)
		}
	}
}

// Broadcast sends an event to every live connection regardless of identity.
func (h *Hub) Broadcast(event string, args ...interface{}) {
	data, err := NewEvent(event, args...).Marshal()
	if err != nil {
		h.log.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.users {
		for client := range set {
			select {
			case client.send <- data:
			default:
				h.log.Warn("dropping broadcast for slow client", "user_id", client.UserID, "client_id", client.ID, "event", event)
			}
		}
	}
}

// ConnectionCount reports the live connections registered for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// TotalConnections reports live connections across all users.
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.users {
		n += len(set)
	}
	return n
}
