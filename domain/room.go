package domain

import "time"

type RoomID int

// Room is the channel members join to exchange messages. The identifier is
// assigned by the CRUD surface and immutable once created; the chat core
// only ever reads rooms and uses the identifier as the group membership key.
type Room struct {
	ID        RoomID
	Name      string
	Topic     string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
