package errors

import "fmt"

var (
	ErrWorkerPanic           = fmt.Errorf("worker panic")
	ErrUserNotFound          = fmt.Errorf("user not found")
	ErrUserExists            = fmt.Errorf("user already exists")
	ErrRoomNotFound          = fmt.Errorf("room not found")
	ErrStoreUnavailable      = fmt.Errorf("store unavailable")
	ErrClassifierUnavailable = fmt.Errorf("classifier unavailable")
	ErrSessionClosed         = fmt.Errorf("session closed")
	ErrSlowConsumer          = fmt.Errorf("slow consumer, event dropped")
	ErrInvalidCredentials    = fmt.Errorf("invalid credentials")
	ErrInvalidPassword       = fmt.Errorf("password does not meet complexity requirements")
)
