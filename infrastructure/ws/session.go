package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"roomchat/domain"
	"roomchat/domain/event"
	"roomchat/errors"
	"roomchat/moderation"
	"roomchat/observability"
	"roomchat/runtime"
	"roomchat/storage"
)

// Conn is the subset of *websocket.Conn a session touches. Tests plug in a
// fake; production uses the real gorilla connection.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Principal identifies who is speaking on a connection. Authenticated
// principals carry the username from a validated token; anonymous sessions
// may name themselves per frame.
type Principal struct {
	Username      string
	Authenticated bool
}

// inboundFrame is what a client sends. Username is only honored for
// anonymous sessions; an authenticated principal cannot speak as someone
// else. Room is informational: the session is bound to the room resolved
// during the handshake.
type inboundFrame struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Room     int    `json:"room"`
	TempID   string `json:"temp_id"`
}

type Options struct {
	Registry *runtime.Registry
	Gateway  *storage.Gateway
	Pipeline *moderation.Pipeline
	Samples  chan observability.Sample
	Log      *slog.Logger

	BufferSize       int
	WriteTimeout     time.Duration
	PongTimeout      time.Duration
	PingInterval     time.Duration
	DefaultAvatarURL string
	BlockedNotice    string
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = 256
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = 60 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 54 * time.Second
	}
	if o.DefaultAvatarURL == "" {
		o.DefaultAvatarURL = "/static/images/default.png"
	}
	if o.BlockedNotice == "" {
		o.BlockedNotice = "Your message contained toxic content and was blocked or censored."
	}
	return o
}

// Session binds one websocket connection to one room. It is the room's
// EventSink for this participant: events queue on a buffered channel that
// the write pump drains, so a slow consumer only loses its own events.
type Session struct {
	id        string
	room      domain.RoomID
	principal Principal
	conn      Conn
	opts      Options

	send      chan event.Outbound
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewSession(conn Conn, room domain.RoomID, principal Principal, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		id:        uuid.NewString(),
		room:      room,
		principal: principal,
		conn:      conn,
		opts:      opts,
		send:      make(chan event.Outbound, opts.BufferSize),
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier used for registry membership.
func (s *Session) ID() string { return s.id }

// Consume queues an event for delivery. It never blocks: a closed session
// reports ErrSessionClosed and a full buffer ErrSlowConsumer.
func (s *Session) Consume(_ context.Context, e event.Outbound) error {
	select {
	case <-s.done:
		return errors.ErrSessionClosed
	default:
	}

	select {
	case s.send <- e:
		return nil
	case <-s.done:
		return errors.ErrSessionClosed
	default:
		return errors.ErrSlowConsumer
	}
}

// Start joins the room and spawns the read and write pumps. Presence is
// announced for authenticated users only; anonymous lurkers stay silent.
func (s *Session) Start(ctx context.Context) {
	s.opts.Registry.Subscribe(s.id, s.room, s)
	if s.principal.Authenticated {
		s.opts.Registry.Broadcast(ctx, s.room, event.UserJoined{Room: s.room, Username: s.principal.Username})
	}

	s.wg.Add(2)
	go s.readLoop(ctx)
	go s.writeLoop()
}

// Wait blocks until both pumps have exited. Used by tests.
func (s *Session) Wait() { s.wg.Wait() }

// close runs the teardown exactly once: announce departure, stop delivery,
// leave the room. After Unsubscribe returns, no further event can reach
// this session.
func (s *Session) close(ctx context.Context) {
	s.closeOnce.Do(func() {
		if s.principal.Authenticated {
			s.opts.Registry.Broadcast(ctx, s.room, event.UserLeft{Room: s.room, Username: s.principal.Username})
		}
		close(s.done)
		s.opts.Registry.Unsubscribe(s.id, s.room)
		s.opts.Log.Info("session closed",
			slog.String("session", s.id),
			slog.Int("room", int(s.room)),
			slog.String("user", s.principal.Username))
	})
}

func (s *Session) readLoop(ctx context.Context) {
	defer s.wg.Done()
	defer s.close(ctx)

	s.conn.SetReadDeadline(time.Now().Add(s.opts.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.opts.PongTimeout))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.opts.Log.Debug("websocket read error", slog.String("session", s.id), slog.Any("error", err))
			}
			return
		}
		s.handleFrame(ctx, raw)
	}
}

// handleFrame runs one inbound frame through moderation and fans the
// outcome out. Delivery comes first; persistence is best-effort and never
// holds a message back.
func (s *Session) handleFrame(ctx context.Context, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		// A malformed frame costs the frame, not the connection.
		s.opts.Log.Debug("dropping malformed frame", slog.String("session", s.id), slog.Any("error", err))
		return
	}

	sender := s.senderName(frame)
	if strings.TrimSpace(frame.Message) == "" {
		return
	}

	started := time.Now()
	decision := s.opts.Pipeline.Sanitize(frame.Message)

	if decision.Flagged {
		blocked := event.Blocked{
			Notice:    s.opts.BlockedNotice,
			Sanitized: decision.Output,
			TempID:    frame.TempID,
		}
		if err := s.Consume(ctx, blocked); err != nil {
			s.opts.Log.Debug("blocked alert lost", slog.String("session", s.id), slog.Any("error", err))
		}
	}

	msg := event.ChatMessage{
		ID:       uuid.New(),
		Room:     s.room,
		Username: sender,
		Body:     decision.Output,
		TempID:   frame.TempID,
		At:       started,
	}
	s.opts.Registry.Broadcast(ctx, s.room, msg)

	// Persistence is best-effort and never holds a delivered message back.
	// Messages from senders without an account are not stored.
	if _, err := s.opts.Gateway.Append(ctx, sender, s.room, decision.Output, decision.Flagged); err != nil {
		s.opts.Log.Warn("message not persisted",
			slog.String("session", s.id),
			slog.String("user", sender),
			slog.Any("error", err))
	}

	s.emitSample(sender, frame.Message, decision.Flagged, time.Since(started))
}

// senderName applies the identity policy: the token decides for
// authenticated sessions, the frame only names anonymous ones.
func (s *Session) senderName(frame inboundFrame) string {
	if s.principal.Authenticated {
		return s.principal.Username
	}
	if name := strings.TrimSpace(frame.Username); name != "" {
		return name
	}
	return "anonymous"
}

func (s *Session) emitSample(sender, original string, flagged bool, elapsed time.Duration) {
	if s.opts.Samples == nil {
		return
	}
	sample := observability.Sample{
		Room:     s.room,
		Username: sender,
		Lang:     whatlanggo.Detect(original).Lang.Iso6393(),
		Flagged:  flagged,
		Elapsed:  elapsed,
		At:       time.Now(),
	}
	select {
	case s.opts.Samples <- sample:
	default:
		// Telemetry is advisory, never backpressure.
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.wg.Done()
	}()

	for {
		select {
		case e := <-s.send:
			if err := s.write(e); err != nil {
				s.opts.Log.Debug("websocket write error", slog.String("session", s.id), slog.Any("error", err))
				return
			}
		case <-s.done:
			// Flush whatever was queued before the session closed.
			for {
				select {
				case e := <-s.send:
					if err := s.write(e); err != nil {
						return
					}
				default:
					s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
					s.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) write(e event.Outbound) error {
	if msg, ok := e.(event.ChatMessage); ok && msg.AvatarURL == "" {
		msg.AvatarURL = s.resolveAvatar(msg.Username)
		e = msg
	}

	raw, err := event.EncodeFrame(e)
	if err != nil {
		s.opts.Log.Error("frame encoding failed", slog.Any("error", err))
		return nil
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

// resolveAvatar looks the sender's avatar up at delivery time, falling back
// to the default for anonymous or unknown senders.
func (s *Session) resolveAvatar(username string) string {
	url, err := s.opts.Gateway.AvatarURL(username)
	if err != nil || url == "" {
		return s.opts.DefaultAvatarURL
	}
	return url
}
