// Package live fans match updates out to websocket subscribers. Each match
// has its own room; scoring and lifecycle services push into it.
package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// MatchRoom names the room all subscribers of one match share.
func MatchRoom(matchID int) string {
	return fmt.Sprintf("match_%d", matchID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client joined",
				slog.String("room", client.room),
				slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, joined := clients[client]; joined {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToMatch satisfies the services' broadcaster interface.
func (h *Hub) BroadcastToMatch(matchID int, payload interface{}) {
	h.broadcastToRoom(MatchRoom(matchID), payload)
}

func (h *Hub) broadcastToRoom(room string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload",
			slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.send <- data:
			default:
				// Slow consumer, drop the frame rather than block the room.
			}
		}
		client.mu.Unlock()
	}
}
