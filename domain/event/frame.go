package event

import (
	"encoding/json"
	"fmt"
)

// Wire frames for the websocket contract. One struct per event kind keeps
// the JSON shape explicit instead of leaking internal field names.

type chatMessageFrame struct {
	Type      Kind   `json:"type"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	TempID    string `json:"temp_id,omitempty"`
}

type blockedFrame struct {
	Type      Kind   `json:"type"`
	Message   string `json:"message"`
	TempID    string `json:"temp_id,omitempty"`
	Sanitized string `json:"sanitized"`
}

type presenceFrame struct {
	Type     Kind   `json:"type"`
	Username string `json:"username"`
}

// EncodeFrame renders an outbound event into its wire frame.
func EncodeFrame(e Outbound) ([]byte, error) {
	switch evt := e.(type) {
	case ChatMessage:
		return json.Marshal(chatMessageFrame{
			Type:      KindMessage,
			Message:   evt.Body,
			Username:  evt.Username,
			AvatarURL: evt.AvatarURL,
			TempID:    evt.TempID,
		})
	case Blocked:
		return json.Marshal(blockedFrame{
			Type:      KindBlocked,
			Message:   evt.Notice,
			TempID:    evt.TempID,
			Sanitized: evt.Sanitized,
		})
	case UserJoined:
		return json.Marshal(presenceFrame{Type: KindUserJoin, Username: evt.Username})
	case UserLeft:
		return json.Marshal(presenceFrame{Type: KindUserLeave, Username: evt.Username})
	}
	return nil, fmt.Errorf("unknown outbound event %T", e)
}
