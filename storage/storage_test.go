package storage

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"roomchat/domain"
	"roomchat/errors"
)

// SetupTestDB initializes a temporary Badger instance for testing
func SetupTestDB(t *testing.T) (*badger.DB, func()) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	return db, func() {
		db.Close()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMessageRepository_RecentIsNewestFirst(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	repository := NewMessageRepository(db, testLogger())
	room := domain.RoomID(1)
	at := time.Now().UTC()

	var stored []domain.Message
	for i, user := range []string{"alice", "bob", "clara"} {
		msg := domain.Message{
			ID:        uuid.New(),
			Room:      room,
			Username:  user,
			Body:      "hello from " + user,
			Visible:   true,
			CreatedAt: at.Add(time.Duration(i) * time.Minute),
			UpdatedAt: at.Add(time.Duration(i) * time.Minute),
		}
		req.NoError(repository.Store(msg))
		stored = append(stored, msg)
	}

	fetched, err := repository.Recent(room, 10)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("clara", fetched[0].Username)
	req.Equal("bob", fetched[1].Username)
	req.Equal("alice", fetched[2].Username)
	req.Equal(stored[2].ID, fetched[0].ID)
}

func TestMessageRepository_RecentHonorsLimitAndRoomIsolation(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	repository := NewMessageRepository(db, testLogger())
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.Store(domain.Message{
			ID:        uuid.New(),
			Room:      domain.RoomID(1),
			Username:  "alice",
			Body:      "msg",
			CreatedAt: at.Add(time.Duration(i) * time.Second),
			UpdatedAt: at.Add(time.Duration(i) * time.Second),
		}))
	}
	req.NoError(repository.Store(domain.Message{
		ID:        uuid.New(),
		Room:      domain.RoomID(2),
		Username:  "bob",
		Body:      "other room",
		CreatedAt: at,
		UpdatedAt: at,
	}))

	fetched, err := repository.Recent(domain.RoomID(1), 2)
	req.NoError(err)
	req.Len(fetched, 2)

	other, err := repository.Recent(domain.RoomID(2), 10)
	req.NoError(err)
	req.Len(other, 1)
	req.Equal("bob", other[0].Username)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	repository := NewUserRepository(db, testLogger())
	user := domain.User{
		Username:     "alice",
		PasswordHash: "$argon2id$...",
		AvatarURL:    "/static/images/default.png",
		CreatedAt:    time.Now().UTC(),
	}
	req.NoError(repository.Create(user))

	got, err := repository.Get("alice")
	req.NoError(err)
	req.Equal(user.Username, got.Username)
	req.Equal(user.PasswordHash, got.PasswordHash)
	req.Equal(user.AvatarURL, got.AvatarURL)

	req.ErrorIs(repository.Create(user), errors.ErrUserExists)

	_, err = repository.Get("nobody")
	req.ErrorIs(err, errors.ErrUserNotFound)

	exists, err := repository.Exists("alice")
	req.NoError(err)
	req.True(exists)

	exists, err = repository.Exists("nobody")
	req.NoError(err)
	req.False(exists)
}

func TestRoomRepository_CreateAssignsSequentialIds(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	repository, err := NewRoomRepository(db, testLogger())
	req.NoError(err)
	defer repository.Release()

	now := time.Now().UTC()
	first, err := repository.Create(domain.Room{Name: "general", Topic: "everything", Owner: "alice", CreatedAt: now, UpdatedAt: now})
	req.NoError(err)
	second, err := repository.Create(domain.Room{Name: "golang", Topic: "go talk", Owner: "bob", CreatedAt: now, UpdatedAt: now})
	req.NoError(err)
	req.Greater(int(second.ID), int(first.ID))

	got, err := repository.Get(first.ID)
	req.NoError(err)
	req.Equal("general", got.Name)
	req.Equal("alice", got.Owner)

	_, err = repository.Get(domain.RoomID(999))
	req.ErrorIs(err, errors.ErrRoomNotFound)

	exists, err := repository.Exists(second.ID)
	req.NoError(err)
	req.True(exists)
}
