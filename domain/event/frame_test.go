package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"roomchat/domain"
)

func TestEncodeFrame(t *testing.T) {
	testCases := []struct {
		name     string
		event    Outbound
		expected map[string]any
	}{
		{
			name: "chat message carries sender, avatar and temp id",
			event: ChatMessage{
				ID:        uuid.New(),
				Room:      domain.RoomID(7),
				Username:  "sofia",
				AvatarURL: "/static/images/default.png",
				Body:      "hello everyone",
				TempID:    "tmp-42",
				At:        time.Now(),
			},
			expected: map[string]any{
				"type":       "message",
				"message":    "hello everyone",
				"username":   "sofia",
				"avatar_url": "/static/images/default.png",
				"temp_id":    "tmp-42",
			},
		},
		{
			name: "chat message without temp id omits the field",
			event: ChatMessage{
				Username: "sofia",
				Body:     "hi",
			},
			expected: map[string]any{
				"type":       "message",
				"message":    "hi",
				"username":   "sofia",
				"avatar_url": "",
			},
		},
		{
			name: "blocked frame keeps sanitized text and notice",
			event: Blocked{
				Notice:    "[message removed due to toxic content]",
				Sanitized: "you are a [censored]",
				TempID:    "tmp-9",
			},
			expected: map[string]any{
				"type":      "blocked",
				"message":   "[message removed due to toxic content]",
				"temp_id":   "tmp-9",
				"sanitized": "you are a [censored]",
			},
		},
		{
			name:  "user join frame",
			event: UserJoined{Room: domain.RoomID(3), Username: "marc"},
			expected: map[string]any{
				"type":     "user_join",
				"username": "marc",
			},
		},
		{
			name:  "user leave frame",
			event: UserLeft{Room: domain.RoomID(3), Username: "marc"},
			expected: map[string]any{
				"type":     "user_leave",
				"username": "marc",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)

			raw, err := EncodeFrame(tc.event)
			assert.NoError(err)

			var got map[string]any
			assert.NoError(json.Unmarshal(raw, &got))
			assert.Equal(tc.expected, got)
		})
	}
}

func TestEncodeFrameUnknownEvent(t *testing.T) {
	assert := require.New(t)

	_, err := EncodeFrame(nil)
	assert.Error(err)
}
