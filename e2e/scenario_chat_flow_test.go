package e2e

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatFlowSuite struct {
	BaseSuite
}

func TestChatFlowSuite(t *testing.T) {
	suite.Run(t, &testChatFlowSuite{})
}

func (s *testChatFlowSuite) TestFullChatFlow() {
	// Unique usernames so the suite can rerun against the same server.
	suffix := uuid.New().String()[:8]
	alice := "alice" + suffix
	bob := "bob" + suffix
	password := "ComplexPass123!"

	var aliceToken, bobToken string
	var roomID int

	s.Run("Step 1: Register two users", func() {
		s.Header("Registering participants")

		var out map[string]string
		resp := s.PostJSON("/api/register", "", map[string]string{"username": alice, "password": password}, &out)
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		aliceToken = out["token"]

		resp = s.PostJSON("/api/register", "", map[string]string{"username": bob, "password": password}, &out)
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		bobToken = out["token"]
	})

	s.Run("Step 2: Create a room", func() {
		s.Header("Creating room")

		var out map[string]any
		resp := s.PostJSON("/api/rooms", aliceToken, map[string]string{
			"name":  "e2e-" + suffix,
			"topic": "end to end flow",
		}, &out)
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		roomID = int(out["id"].(float64))
	})

	s.Run("Step 3: Exchange a clean message", func() {
		s.Header("Clean message round trip")

		aliceConn := s.Dial(roomID, aliceToken)
		defer aliceConn.Close()
		bobConn := s.Dial(roomID, bobToken)
		defer bobConn.Close()

		// Alice sees Bob's join announcement.
		join := s.ReadFrameOfType(aliceConn, "user_join", 5*time.Second)
		s.Require().Equal(bob, join["username"])

		body := fmt.Sprintf(`{"message":"hello from %s","temp_id":"t1"}`, alice)
		s.Require().NoError(aliceConn.WriteMessage(1, []byte(body)))

		received := s.ReadFrameOfType(bobConn, "message", 5*time.Second)
		s.Require().Equal("hello from "+alice, received["message"])
		s.Require().Equal(alice, received["username"])

		echo := s.ReadFrameOfType(aliceConn, "message", 5*time.Second)
		s.Require().Equal("t1", echo["temp_id"])
	})

	s.Run("Step 4: Offensive message is masked and sender alerted", func() {
		s.Header("Moderated message")

		aliceConn := s.Dial(roomID, aliceToken)
		defer aliceConn.Close()
		bobConn := s.Dial(roomID, bobToken)
		defer bobConn.Close()

		// Assumes the server's lexicon contains "idiot".
		s.Require().NoError(aliceConn.WriteMessage(1, []byte(`{"message":"you idiot","temp_id":"t2"}`)))

		blocked := s.ReadFrameOfType(aliceConn, "blocked", 5*time.Second)
		s.Require().Equal("t2", blocked["temp_id"])
		s.Require().Contains(blocked["sanitized"], "[censored]")

		broadcast := s.ReadFrameOfType(bobConn, "message", 5*time.Second)
		s.Require().Contains(broadcast["message"], "[censored]")
	})

	s.Run("Step 5: Leave announces departure", func() {
		s.Header("Presence on leave")

		aliceConn := s.Dial(roomID, aliceToken)
		defer aliceConn.Close()
		bobConn := s.Dial(roomID, bobToken)

		s.ReadFrameOfType(aliceConn, "user_join", 5*time.Second)
		s.Require().NoError(bobConn.Close())

		left := s.ReadFrameOfType(aliceConn, "user_leave", 5*time.Second)
		s.Require().Equal(bob, left["username"])
	})
}
