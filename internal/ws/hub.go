package ws

import (
	"encoding/json"
	"sync"

	"taskshare/internal/logger"
)

// Hub tracks connected clients by user id and fans task events out to the
// users they are addressed to. Recipients are computed by the caller at
// publish time from the task's current owner and grantee set, so the hub
// itself holds no authorization state.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Publish sends the event to every connection of every listed user. A user
// appearing twice receives the event once per connection, not per mention.
// Clients whose send buffer is full are dropped rather than blocking the
// request that triggered the event.
func (h *Hub) Publish(userIDs []int64, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal ws event", "error", err)
		return
	}

	seen := make(map[int64]struct{}, len(userIDs))

	h.mu.RLock()
	var stalled []*Client
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		for c := range h.clients[id] {
			select {
			case c.send <- payload:
			default:
				stalled = append(stalled, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		logger.Warn("dropping slow ws client", "user_id", c.userID)
		c.Close()
	}
}

// ConnectedUsers returns how many distinct users have at least one open
// connection. Exposed for tests and the readiness probe.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
