package chat

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Broadcaster routes events between connections sharing a room key. The
// in-memory Hub satisfies it for a single-process deployment; an external
// pub/sub broker could substitute behind the same interface.
type Broadcaster interface {
	Join(requestID int64, c *Client)
	Leave(requestID int64, c *Client)
	Publish(requestID int64, event any)
}

// Hub is the process-local conversation room registry: request ID -> set of
// connected clients. It holds no durable state; persistence always happens
// before Publish.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[int64]map[*Client]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*Client]bool),
		logger: logger,
	}
}

// Join registers a client under the room key. Joining twice is a no-op.
func (h *Hub) Join(requestID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[requestID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[requestID] = room
	}
	room[c] = true
}

// Leave unregisters a client. Leaving an unknown client or room is a no-op.
// The room itself is dropped when its last member leaves.
func (h *Hub) Leave(requestID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[requestID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, requestID)
	}
}

// Publish delivers the event to every client currently joined to the room.
// Delivery is fire-and-forget: clients whose send buffer is full are
// skipped, and clients that have left are silently ignored.
func (h *Hub) Publish(requestID int64, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("broadcast marshal failed",
			zap.Int64("request_id", requestID),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[requestID] {
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
}

// RoomSize reports the current membership of a room.
func (h *Hub) RoomSize(requestID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[requestID])
}
