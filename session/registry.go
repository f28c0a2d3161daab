package session

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyActive is returned when a voice channel already has a live session.
var ErrAlreadyActive = errors.New("channel already has an active session")

// Registry maps each voice channel to at most one live session.
type Registry struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[string]*Session // keyed by voice channel ID
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Deps) *Registry {
	if deps.SearchLimit <= 0 {
		deps.SearchLimit = 5
	}
	if deps.IdlePoll <= 0 {
		deps.IdlePoll = 3 * time.Second
	}
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Create registers a session for the voice channel and starts its voice
// handshake. The entry is inserted before the handshake begins, so a
// second join for the same channel is rejected immediately instead of
// racing the handshake.
func (r *Registry) Create(guildID, voiceChannelID, textChannelID string) (*Session, error) {
	r.mu.Lock()
	if _, ok := r.sessions[voiceChannelID]; ok {
		r.mu.Unlock()
		return nil, ErrAlreadyActive
	}
	s := newSession(guildID, voiceChannelID, textChannelID, r.deps, func() {
		r.Remove(voiceChannelID)
	})
	r.sessions[voiceChannelID] = s
	r.mu.Unlock()

	go s.connect()
	return s, nil
}

// Remove drops the session for the voice channel. Idempotent.
func (r *Registry) Remove(voiceChannelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, voiceChannelID)
}

// Lookup returns the live session for the voice channel, if any.
func (r *Registry) Lookup(voiceChannelID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[voiceChannelID]
	return s, ok
}

// Dispatch routes a chat message to the session owning its text channel.
// Messages for channels without a session are dropped.
func (r *Registry) Dispatch(msg Message) {
	r.mu.Lock()
	var target *Session
	for _, s := range r.sessions {
		if s.textChannelID == msg.ChannelID {
			target = s
			break
		}
	}
	r.mu.Unlock()

	if target != nil {
		target.HandleMessage(msg)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll shuts down every live session. Used on process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Shutdown()
	}
}
