package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"roomchat/domain"
)

// Message keys sort by room then timestamp, so a reverse prefix scan walks
// a room's history newest first.
//
//	msg:{room}:{created unix nano, zero padded}:{uuid}
const messageKeyFormat = "msg:%d:%019d:%s"

// diskMessage is the stored form of a domain.Message. Times are persisted
// as unix nanoseconds to keep the encoding stable across timezones.
type diskMessage struct {
	ID        uuid.UUID     `json:"id"`
	Room      domain.RoomID `json:"room"`
	Username  string        `json:"username"`
	Body      string        `json:"body"`
	Toxic     bool          `json:"toxic"`
	Visible   bool          `json:"visible"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// Store persists one message under its room/time ordered key.
func (r *MessageRepository) Store(msg domain.Message) error {
	key := fmt.Sprintf(messageKeyFormat, msg.Room, msg.CreatedAt.UnixNano(), msg.ID)
	value, err := json.Marshal(diskMessage{
		ID:        msg.ID,
		Room:      msg.Room,
		Username:  msg.Username,
		Body:      msg.Body,
		Toxic:     msg.Toxic,
		Visible:   msg.Visible,
		CreatedAt: msg.CreatedAt.UnixNano(),
		UpdatedAt: msg.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Recent returns up to limit messages of a room, newest first.
func (r *MessageRepository) Recent(room domain.RoomID, limit int) ([]domain.Message, error) {
	prefix := []byte(fmt.Sprintf("msg:%d:", room))
	// Seeking past every zero padded timestamp puts the reverse iterator
	// on the newest entry of the prefix.
	seek := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)

	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				msg, err := DecodeMessage(val)
				if err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// DecodeMessage parses a stored message value. Exported for offline
// inspection tooling that walks the store directly.
func DecodeMessage(value []byte) (domain.Message, error) {
	var disk diskMessage
	if err := json.Unmarshal(value, &disk); err != nil {
		return domain.Message{}, fmt.Errorf("decoding stored message: %w", err)
	}
	return domain.Message{
		ID:        disk.ID,
		Room:      disk.Room,
		Username:  disk.Username,
		Body:      disk.Body,
		Toxic:     disk.Toxic,
		Visible:   disk.Visible,
		CreatedAt: time.Unix(0, disk.CreatedAt),
		UpdatedAt: time.Unix(0, disk.UpdatedAt),
	}, nil
}
