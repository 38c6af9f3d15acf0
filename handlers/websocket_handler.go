package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sportarena/khokho-backend/live"
	"github.com/sportarena/khokho-backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend domain is settled.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub          *live.Hub
	matchService services.MatchService
	logger       *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, matchService services.MatchService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		matchService: matchService,
		logger:       logger,
	}
}

// ServeMatch upgrades the connection and subscribes it to one match's room.
func (h *WebSocketHandler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.matchService.GetByID(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("match_id", matchID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.MatchRoom(matchID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
