package session

import (
	"fmt"
	"time"

	"Nocturne/music"

	"github.com/Strum355/log"
)

// playbackLoop drains the queue through the decode pipeline. It is a
// self-re-arming tick: an empty queue re-arms after the idle-poll delay,
// a finished or failed track re-arms immediately. At most one track is
// in flight per session.
func (s *Session) playbackLoop() {
	for {
		track, ok := s.queue.Pop()
		if !ok {
			select {
			case <-time.After(s.deps.IdlePoll):
				continue
			case <-s.ctx.Done():
				return
			}
		}

		s.playTrack(track)

		select {
		case <-s.ctx.Done():
			return
		default:
		}
	}
}

// playTrack runs one track through the pipeline and the voice transport.
// Every failure is reported to the text channel and is non-fatal to the
// loop; playback advances to the next queued track.
func (s *Session) playTrack(t music.Track) {
	url, err := s.deps.Provider.StreamURL(s.ctx, t)
	if err != nil {
		log.WithError(err).Error("Resolving stream URL")
		s.deps.Chat.Send(s.textChannelID, fmt.Sprintf("There was an error trying to get the stream URL of the track: `%s`", err))
		return
	}

	s.deps.Presence.SetPlaying(t.Display())

	stream, err := s.deps.Pipeline.Open(s.ctx, url)
	if err != nil {
		log.WithError(err).Error("Opening decode pipeline")
		s.deps.Chat.Send(s.textChannelID, fmt.Sprintf("There was an error while playing the track: `%s`", err))
		return
	}
	defer stream.Close()

	if s.deps.History != nil {
		s.deps.History.Record(s.guildID, t)
	}

	s.mu.Lock()
	handle := s.voice
	s.mu.Unlock()
	if handle == nil {
		return
	}

	if err := handle.Play(stream); err != nil {
		log.WithError(err).Error("Playing track")
		s.deps.Chat.Send(s.textChannelID, fmt.Sprintf("There was an error while playing the track: `%s`", err))
		return
	}

	log.WithFields(log.Fields{"track": t.Title}).Info("Finished playing track")
}
