package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests.
// The suite only runs against an already started server.
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping e2e suite")
	}
}

// Header prints a colorized step header in the test log.
func (s *BaseSuite) Header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// PostJSON posts a JSON body to the REST API and decodes the response.
func (s *BaseSuite) PostJSON(path, token string, body any, out any) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	request, err := http.NewRequest(http.MethodPost, "http://"+s.Config.ServerAddr+path, bytes.NewReader(raw))
	s.Require().NoError(err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	s.Require().NoError(err)
	defer response.Body.Close()

	if out != nil && response.StatusCode < 300 {
		s.Require().NoError(json.NewDecoder(response.Body).Decode(out))
	}
	return response
}

// Dial opens a websocket session into a room, optionally authenticated.
func (s *BaseSuite) Dial(room int, token string) *websocket.Conn {
	u := url.URL{
		Scheme:   "ws",
		Host:     s.Config.ServerAddr,
		Path:     "/ws",
		RawQuery: fmt.Sprintf("room=%d", room),
	}
	if token != "" {
		u.RawQuery += "&token=" + url.QueryEscape(token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to connect to websocket at "+u.String())
	return conn
}

// ReadFrame reads one JSON frame with a deadline.
func (s *BaseSuite) ReadFrame(conn *websocket.Conn, timeout time.Duration) map[string]any {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(timeout)))

	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)

	var frame map[string]any
	s.Require().NoError(json.Unmarshal(raw, &frame))
	return frame
}

// ReadFrameOfType skips frames until one of the wanted type arrives.
func (s *BaseSuite) ReadFrameOfType(conn *websocket.Conn, kind string, timeout time.Duration) map[string]any {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		frame := s.ReadFrame(conn, time.Until(deadline))
		if frame["type"] == kind {
			return frame
		}
	}
	s.Require().Failf("frame not received", "no %q frame within %v", kind, timeout)
	return nil
}
