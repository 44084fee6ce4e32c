package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one accepted chat event. Body always holds the sanitized
// output of the moderation pipeline; raw input that was masked or removed
// is never persisted. The core writes a message exactly once and never
// mutates it afterwards.
type Message struct {
	ID        uuid.UUID
	Room      RoomID
	Username  string
	Body      string
	Toxic     bool
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
