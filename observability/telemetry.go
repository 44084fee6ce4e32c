package observability

import (
	"time"

	"roomchat/domain"
)

// Sample is one moderation telemetry record, emitted per handled message.
type Sample struct {
	Room     domain.RoomID
	Username string
	Lang     string
	Flagged  bool
	Elapsed  time.Duration
	At       time.Time
}

// Handler Each kind of sample consumer has his own handler
// Based on the Chain of responsibility pattern
type Handler interface {
	Handle(sample Sample)
}
