// Package session implements the per-voice-channel controller: a registry
// of sessions, each owning a playback queue, a command router, pending
// search selections, and the loop that drains the queue through the
// decode pipeline into the voice transport.
package session

import (
	"context"
	"io"
	"time"

	"Nocturne/music"
)

// Message is one chat message as delivered by the gateway layer.
type Message struct {
	AuthorID   string
	AuthorName string
	ChannelID  string
	Content    string
}

// Messenger delivers chat messages to a text channel.
type Messenger interface {
	Send(channelID, content string)
}

// Presence updates the bot's status line.
type Presence interface {
	SetPlaying(name string)
}

// VoiceHandle is an open voice-transport connection for one channel.
type VoiceHandle interface {
	// Play streams raw PCM to the channel and blocks until the stream
	// ends, the current track is stopped, or the transport fails. A nil
	// return is the finished signal, an error the failed signal.
	Play(stream io.ReadCloser) error
	Pause()
	Unpause()
	// Stop ends the current track only; the connection stays open.
	Stop()
	Close() error
}

// Dialer performs the voice handshake for a channel.
type Dialer interface {
	Join(guildID, channelID string) (VoiceHandle, error)
}

// Pipeline turns a media URL into a raw PCM byte stream.
type Pipeline interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// History records played tracks. Optional; sessions tolerate a nil History.
type History interface {
	Record(guildID string, track music.Track)
	Recent(guildID string, limit int) ([]string, error)
}

// Deps bundles the collaborators shared by every session.
type Deps struct {
	BotID       string
	Chat        Messenger
	Presence    Presence
	Dialer      Dialer
	Provider    music.Provider
	Pipeline    Pipeline
	History     History
	SearchLimit int
	IdlePoll    time.Duration
}
