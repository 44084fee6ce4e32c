package runtime

import (
	"context"
	"log/slog"
	"sync"

	"roomchat/contract"
	"roomchat/domain"
	"roomchat/domain/event"
)

// Registry tracks which session sits in which room and fans events out to
// room members. Membership changes take the write lock while broadcasts run
// under the read lock, so once Unsubscribe returns no further event reaches
// that session's sink.
type Registry struct {
	mu      sync.RWMutex
	sinks   map[string]contract.EventSink
	members map[domain.RoomID]map[string]struct{}
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		sinks:   make(map[string]contract.EventSink),
		members: make(map[domain.RoomID]map[string]struct{}),
		log:     log,
	}
}

// Subscribe adds a session to a room. Re-subscribing the same session id
// replaces its sink, which covers a reconnect reusing the id.
func (r *Registry) Subscribe(sessionID string, room domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[sessionID] = sink
	if r.members[room] == nil {
		r.members[room] = make(map[string]struct{})
	}
	r.members[room][sessionID] = struct{}{}
	r.log.Debug("session joined room", slog.String("session", sessionID), slog.Int("room", int(room)))
}

// Unsubscribe removes a session from a room. Safe to call for a session
// that was never subscribed.
func (r *Registry) Unsubscribe(sessionID string, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, sessionID)
	if members, ok := r.members[room]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(r.members, room)
		}
	}
	r.log.Debug("session left room", slog.String("session", sessionID), slog.Int("room", int(room)))
}

// Members reports how many sessions currently sit in a room.
func (r *Registry) Members(room domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[room])
}

// Broadcast delivers an event to every member of a room, sender included.
// A sink that fails only loses its own copy; the fan-out continues.
func (r *Registry) Broadcast(ctx context.Context, room domain.RoomID, e event.Outbound) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for sessionID := range r.members[room] {
		sink, ok := r.sinks[sessionID]
		if !ok {
			continue
		}
		if err := sink.Consume(ctx, e); err != nil {
			r.log.Debug("dropping event for session",
				slog.String("session", sessionID),
				slog.String("kind", string(e.Kind())),
				slog.Any("error", err))
		}
	}
}
