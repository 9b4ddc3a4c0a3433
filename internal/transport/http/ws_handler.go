package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/domain"
)

// WSHandler streams leaderboard snapshots to watchers (e.g. a screen at the party).
type WSHandler struct {
	leaderboard *app.LeaderboardService
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

func NewWSHandler(leaderboard *app.LeaderboardService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		leaderboard: leaderboard,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

const wsWriteWait = 10 * time.Second

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes the current table followed by every publish.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()
	// the server's read timeout still applies to the hijacked connection
	_ = conn.SetReadDeadline(time.Time{})

	updates, cancel, err := h.leaderboard.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// Watchers never send anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: update}); err != nil {
				h.logger.Debug("ws write error", slog.Any("error", err))
				return
			}
		case <-closed:
			return
		}
	}
}
