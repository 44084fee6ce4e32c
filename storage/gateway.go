package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"roomchat/domain"
	"roomchat/errors"
)

// Gateway is the persistence surface the chat core talks to. It validates
// referenced users and rooms before writing and wraps store failures into
// ErrStoreUnavailable so callers can treat persistence as best-effort.
type Gateway struct {
	messages *MessageRepository
	users    *UserRepository
	rooms    *RoomRepository
	log      *slog.Logger
}

func NewGateway(messages *MessageRepository, users *UserRepository, rooms *RoomRepository, log *slog.Logger) *Gateway {
	return &Gateway{messages: messages, users: users, rooms: rooms, log: log}
}

// Append records one sanitized message and returns its assigned id. The
// message body must already be moderation output.
func (g *Gateway) Append(ctx context.Context, username string, room domain.RoomID, body string, toxic bool) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	ok, err := g.users.Exists(username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	if !ok {
		return uuid.Nil, errors.ErrUserNotFound
	}

	ok, err = g.rooms.Exists(room)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	if !ok {
		return uuid.Nil, errors.ErrRoomNotFound
	}

	now := time.Now()
	msg := domain.Message{
		ID:        uuid.New(),
		Room:      room,
		Username:  username,
		Body:      body,
		Toxic:     toxic,
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.messages.Store(msg); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return msg.ID, nil
}

// History returns the newest messages of a room.
func (g *Gateway) History(ctx context.Context, room domain.RoomID, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages, err := g.messages.Recent(room, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return messages, nil
}

// RoomExists reports whether a room id is known.
func (g *Gateway) RoomExists(room domain.RoomID) (bool, error) {
	return g.rooms.Exists(room)
}

// UserExists reports whether a username is registered.
func (g *Gateway) UserExists(username string) (bool, error) {
	return g.users.Exists(username)
}

// AvatarURL returns the avatar of a registered user.
func (g *Gateway) AvatarURL(username string) (string, error) {
	return g.users.AvatarURL(username)
}
