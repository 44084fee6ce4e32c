package domain

import "time"

type User struct {
	Username     string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
}
