package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"roomchat/auth"
	"roomchat/domain"
)

// Handler upgrades HTTP requests to chat sessions. The room comes from the
// ?room query parameter; an optional ?token query parameter authenticates
// the principal.
type Handler struct {
	tokens   *auth.TokenManager
	opts     Options
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewHandler(tokens *auth.TokenManager, opts Options, log *slog.Logger) *Handler {
	return &Handler{
		tokens: tokens,
		opts:   opts,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomParam := r.URL.Query().Get("room")
	roomID, err := strconv.Atoi(roomParam)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	room := domain.RoomID(roomID)

	exists, err := h.opts.Gateway.RoomExists(room)
	if err != nil {
		h.log.Error("room lookup failed", slog.Any("error", err))
		http.Error(w, "error accessing room", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}

	principal := h.resolvePrincipal(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	session := NewSession(conn, room, principal, h.opts)
	// The session outlives the HTTP request; its lifetime is the
	// connection's, not the handler's.
	session.Start(context.Background())
}

// resolvePrincipal validates the optional token. A missing or invalid token
// downgrades to an anonymous session rather than rejecting the connection.
func (h *Handler) resolvePrincipal(r *http.Request) Principal {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		return Principal{}
	}

	claims, err := h.tokens.Validate(tokenStr)
	if err != nil {
		h.log.Debug("invalid token on websocket connect", slog.Any("error", err))
		return Principal{}
	}
	return Principal{Username: claims.Username, Authenticated: true}
}
