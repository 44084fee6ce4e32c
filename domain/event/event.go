package event

import (
	"time"

	"github.com/google/uuid"

	"roomchat/domain"
)

// Kind enumerates the closed set of outbound event kinds a session can
// deliver. The frame codec matches over it exhaustively.
type Kind string

const (
	KindMessage   Kind = "message"
	KindBlocked   Kind = "blocked"
	KindUserJoin  Kind = "user_join"
	KindUserLeave Kind = "user_leave"
)

type Outbound interface {
	Kind() Kind
}

// ChatMessage carries an accepted, sanitized message to every member of a
// room, sender included. AvatarURL is resolved on the delivery side,
// best-effort, just before encoding.
type ChatMessage struct {
	ID        uuid.UUID
	Room      domain.RoomID
	Username  string
	AvatarURL string
	Body      string
	TempID    string
	At        time.Time
}

func (ChatMessage) Kind() Kind { return KindMessage }

// Blocked is the sender-only alert for a flagged message. It carries the
// sanitized text and the client correlation id; the raw input never leaves
// the pipeline.
type Blocked struct {
	Notice    string
	Sanitized string
	TempID    string
}

func (Blocked) Kind() Kind { return KindBlocked }

// UserJoined and UserLeft are presence events; they bypass moderation.

type UserJoined struct {
	Room     domain.RoomID
	Username string
}

func (UserJoined) Kind() Kind { return KindUserJoin }

type UserLeft struct {
	Room     domain.RoomID
	Username string
}

func (UserLeft) Kind() Kind { return KindUserLeave }
