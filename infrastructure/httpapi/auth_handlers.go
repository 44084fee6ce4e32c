package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"roomchat/auth"
	"roomchat/domain"
	"roomchat/errors"
	"roomchat/storage"
)

type AuthHandlers struct {
	users            *storage.UserRepository
	tokens           *auth.TokenManager
	defaultAvatarURL string
	log              *slog.Logger
}

func NewAuthHandlers(users *storage.UserRepository, tokens *auth.TokenManager, defaultAvatarURL string, log *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:            users,
		tokens:           tokens,
		defaultAvatarURL: defaultAvatarURL,
		log:              log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := auth.ValidateRegister(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("password hashing failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	err = h.users.Create(domain.User{
		Username:     req.Username,
		PasswordHash: hash,
		AvatarURL:    h.defaultAvatarURL,
		CreatedAt:    time.Now().UTC(),
	})
	if stderrors.Is(err, errors.ErrUserExists) {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	}
	if err != nil {
		h.log.Error("user creation failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		h.log.Error("token generation failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tokenResponse{Username: req.Username, Token: token})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.users.Get(req.Username)
	if err != nil {
		// Same answer for unknown user and bad password.
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		h.log.Error("token generation failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{Username: user.Username, Token: token})
}
