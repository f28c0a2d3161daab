package session

import (
	"context"
	"fmt"
	"sync"

	"Nocturne/queue"

	"github.com/Strum355/log"
)

// State is the session lifecycle state.
type State int

const (
	StateConnecting State = iota // Voice handshake in progress
	StateActive                  // Handshake done, playback loop running
	StateClosing                 // Leave in progress
	StateClosed                  // Terminal
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the controller for one voice channel. It owns the playback
// queue and the pending selections; nothing else reads or writes them.
type Session struct {
	mu sync.Mutex

	guildID        string
	voiceChannelID string
	textChannelID  string

	state State
	voice VoiceHandle
	queue *queue.Queue

	songPick  *trackPick
	albumPick *albumPick

	deps Deps

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	evict  func()
}

func newSession(guildID, voiceChannelID, textChannelID string, deps Deps, evict func()) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		guildID:        guildID,
		voiceChannelID: voiceChannelID,
		textChannelID:  textChannelID,
		state:          StateConnecting,
		queue:          queue.New(),
		deps:           deps,
		ctx:            ctx,
		cancel:         cancel,
		evict:          evict,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Queue exposes the session's playback queue.
func (s *Session) Queue() *queue.Queue {
	return s.queue
}

// connect performs the voice handshake. Success moves the session to
// Active and starts the playback loop; failure is terminal and evicts
// the session without it ever becoming Active.
func (s *Session) connect() {
	handle, err := s.deps.Dialer.Join(s.guildID, s.voiceChannelID)

	s.mu.Lock()
	if s.state != StateConnecting {
		// Shut down while the handshake was in flight.
		s.mu.Unlock()
		if err == nil && handle != nil {
			handle.Close()
		}
		return
	}
	if err != nil {
		s.state = StateClosed
		s.mu.Unlock()
		log.WithError(err).Error("Voice handshake failed")
		s.deps.Chat.Send(s.textChannelID, fmt.Sprintf("Oops! We ran into an issue while joining the voice channel: `%s`", err))
		s.terminate()
		return
	}
	s.voice = handle
	s.state = StateActive
	s.mu.Unlock()

	log.WithFields(log.Fields{"channel": s.voiceChannelID}).Info("Connected to voice channel")
	s.deps.Chat.Send(s.textChannelID, "Connected! I am ready for commands.")

	go s.playbackLoop()
}

// terminate emits the terminal event exactly once: the playback loop
// stops and the registry entry is removed.
func (s *Session) terminate() {
	s.once.Do(func() {
		s.cancel()
		s.evict()
	})
}

// leave closes the session on user request. The three steps are ordered
// and all run even if the voice close reports an error: stop routing,
// close the voice connection, emit the terminal event.
func (s *Session) leave() {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.state = StateClosing
	handle := s.voice
	s.mu.Unlock()

	if handle != nil {
		if err := handle.Close(); err != nil {
			log.WithError(err).Error("Closing voice connection")
		}
	}

	s.deps.Chat.Send(s.textChannelID, "Bye!")
	log.WithFields(log.Fields{"channel": s.voiceChannelID}).Info("Session closing")

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.terminate()
}

// Shutdown closes the session without chat replies. Used on process exit
// and safe to call in any state.
func (s *Session) Shutdown() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	handle := s.voice
	s.mu.Unlock()

	if handle != nil {
		if err := handle.Close(); err != nil {
			log.WithError(err).Error("Closing voice connection")
		}
	}
	s.terminate()
}

// voiceDo runs fn against the voice handle if the session has one.
func (s *Session) voiceDo(fn func(VoiceHandle)) {
	s.mu.Lock()
	handle := s.voice
	s.mu.Unlock()
	if handle != nil {
		fn(handle)
	}
}

// reply sends text to the session's text channel, addressed to the author.
func (s *Session) reply(msg Message, text string) {
	s.deps.Chat.Send(s.textChannelID, fmt.Sprintf("<@%s> %s", msg.AuthorID, text))
}
