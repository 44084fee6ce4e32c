package storage

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"roomchat/domain"
	"roomchat/errors"
)

const (
	roomKeyFormat   = "room:%d"
	roomSequenceKey = "seq:room"
)

type diskRoom struct {
	ID        domain.RoomID `json:"id"`
	Name      string        `json:"name"`
	Topic     string        `json:"topic"`
	Owner     string        `json:"owner"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

type RoomRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) (*RoomRepository, error) {
	seq, err := db.GetSequence([]byte(roomSequenceKey), 64)
	if err != nil {
		return nil, fmt.Errorf("opening room id sequence: %w", err)
	}
	return &RoomRepository{db: db, seq: seq, log: log}, nil
}

// Release hands unused sequence ids back to the store. Call on shutdown.
func (r *RoomRepository) Release() error {
	return r.seq.Release()
}

// Create assigns the next room id and persists the room. The returned room
// carries the assigned identifier.
func (r *RoomRepository) Create(room domain.Room) (domain.Room, error) {
	next, err := r.seq.Next()
	if err != nil {
		return domain.Room{}, err
	}
	// Sequence counts from zero; room ids start at one.
	room.ID = domain.RoomID(next + 1)

	value, err := json.Marshal(diskRoom{
		ID:        room.ID,
		Name:      room.Name,
		Topic:     room.Topic,
		Owner:     room.Owner,
		CreatedAt: room.CreatedAt.UnixNano(),
		UpdatedAt: room.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return domain.Room{}, err
	}

	key := []byte(fmt.Sprintf(roomKeyFormat, room.ID))
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// Get fetches a room by id.
func (r *RoomRepository) Get(id domain.RoomID) (domain.Room, error) {
	key := []byte(fmt.Sprintf(roomKeyFormat, id))

	var disk diskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}

	return domain.Room{
		ID:        disk.ID,
		Name:      disk.Name,
		Topic:     disk.Topic,
		Owner:     disk.Owner,
		CreatedAt: time.Unix(0, disk.CreatedAt),
		UpdatedAt: time.Unix(0, disk.UpdatedAt),
	}, nil
}

// Exists reports whether a room id is known.
func (r *RoomRepository) Exists(id domain.RoomID) (bool, error) {
	_, err := r.Get(id)
	if stderrors.Is(err, errors.ErrRoomNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
