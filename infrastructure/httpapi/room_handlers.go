package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roomchat/auth"
	"roomchat/domain"
	"roomchat/errors"
	"roomchat/storage"
)

type RoomHandlers struct {
	rooms    *storage.RoomRepository
	messages *storage.MessageRepository
	tokens   *auth.TokenManager
	log      *slog.Logger
}

func NewRoomHandlers(rooms *storage.RoomRepository, messages *storage.MessageRepository, tokens *auth.TokenManager, log *slog.Logger) *RoomHandlers {
	return &RoomHandlers{rooms: rooms, messages: messages, tokens: tokens, log: log}
}

type createRoomRequest struct {
	Name  string `json:"name"`
	Topic string `json:"topic"`
}

type roomResponse struct {
	ID    domain.RoomID `json:"id"`
	Name  string        `json:"name"`
	Topic string        `json:"topic"`
	Owner string        `json:"owner"`
}

type messageResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

func (h *RoomHandlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claimsFromHeader(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "room name is required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	room, err := h.rooms.Create(domain.Room{
		Name:      req.Name,
		Topic:     req.Topic,
		Owner:     claims.Username,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.log.Error("room creation failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(roomResponse{ID: room.ID, Name: room.Name, Topic: room.Topic, Owner: room.Owner})
}

func (h *RoomHandlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := h.roomIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	room, err := h.rooms.Get(id)
	if stderrors.Is(err, errors.ErrRoomNotFound) {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("room lookup failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roomResponse{ID: room.ID, Name: room.Name, Topic: room.Topic, Owner: room.Owner})
}

// GetHistory returns the newest messages of a room, newest first.
func (h *RoomHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := h.roomIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	exists, err := h.rooms.Exists(id)
	if err != nil {
		h.log.Error("room lookup failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	messages, err := h.messages.Recent(id, limit)
	if err != nil {
		h.log.Error("history fetch failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse{
			ID:       msg.ID.String(),
			Username: msg.Username,
			Body:     msg.Body,
			SentAt:   msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *RoomHandlers) claimsFromHeader(r *http.Request) (*auth.CustomClaims, error) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	return h.tokens.Validate(token)
}

func (h *RoomHandlers) roomIDFromPath(r *http.Request) (domain.RoomID, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return domain.RoomID(id), err
}
