package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"roomchat/domain"
	"roomchat/errors"
)

func setupGateway(t *testing.T) (*Gateway, domain.RoomID, func()) {
	t.Helper()
	req := require.New(t)
	db, cleanup := SetupTestDB(t)

	users := NewUserRepository(db, testLogger())
	rooms, err := NewRoomRepository(db, testLogger())
	req.NoError(err)
	messages := NewMessageRepository(db, testLogger())

	now := time.Now().UTC()
	req.NoError(users.Create(domain.User{Username: "alice", PasswordHash: "x", CreatedAt: now}))
	room, err := rooms.Create(domain.Room{Name: "general", Owner: "alice", CreatedAt: now, UpdatedAt: now})
	req.NoError(err)

	gateway := NewGateway(messages, users, rooms, testLogger())
	return gateway, room.ID, func() {
		rooms.Release()
		cleanup()
	}
}

func TestGateway_AppendAndHistory(t *testing.T) {
	req := require.New(t)
	gateway, room, cleanup := setupGateway(t)
	defer cleanup()

	id, err := gateway.Append(context.Background(), "alice", room, "hello there", false)
	req.NoError(err)
	req.NotEqual(uuid.Nil, id)

	history, err := gateway.History(context.Background(), room, 10)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(id, history[0].ID)
	req.Equal("hello there", history[0].Body)
	req.False(history[0].Toxic)
	req.True(history[0].Visible)
}

func TestGateway_AppendRejectsUnknownReferences(t *testing.T) {
	req := require.New(t)
	gateway, room, cleanup := setupGateway(t)
	defer cleanup()

	_, err := gateway.Append(context.Background(), "nobody", room, "hi", false)
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = gateway.Append(context.Background(), "alice", domain.RoomID(999), "hi", false)
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func TestGateway_AppendHonorsCancelledContext(t *testing.T) {
	req := require.New(t)
	gateway, room, cleanup := setupGateway(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Append(ctx, "alice", room, "hi", false)
	req.ErrorIs(err, context.Canceled)
}
