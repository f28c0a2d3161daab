package session

import (
	"fmt"
	"strconv"
	"strings"

	"Nocturne/music"

	"github.com/Strum355/log"
)

// trackPick is a pending song selection: the ranked candidates and the
// single user entitled to answer.
type trackPick struct {
	userID string
	tracks []music.Track
}

// albumPick is the album counterpart of trackPick.
type albumPick struct {
	userID string
	albums []music.Album
}

// parseChoice parses a selection answer. The answer is 1-indexed; ok is
// false for non-numeric input, zero, or out-of-range values.
func parseChoice(content string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || n <= 0 || n > max {
		return 0, false
	}
	return n, true
}

// resolveSongPick applies the requester's next message to the pending
// song selection. The selection is one-shot: it is cleared before the
// answer is judged, so every search gets exactly one resolution attempt.
func (s *Session) resolveSongPick(msg Message) {
	s.mu.Lock()
	pick := s.songPick
	if pick == nil || pick.userID != msg.AuthorID {
		s.mu.Unlock()
		return
	}
	s.songPick = nil
	s.mu.Unlock()

	n, ok := parseChoice(msg.Content, len(pick.tracks))
	if !ok {
		s.reply(msg, "That wasn't a valid answer. The search has been discarded.")
		return
	}

	t := pick.tracks[n-1]
	s.queue.Push(t)
	s.reply(msg, fmt.Sprintf("Song **%s** has been added to the queue.", t.Title))
	log.WithFields(log.Fields{"track": t.Title, "album": t.Album}).Info("Track added to queue")
}

// resolveAlbumPick applies the requester's next message to the pending
// album selection. The album's track list is fetched on demand and
// queued all-or-nothing: a failed fetch leaves the queue untouched.
func (s *Session) resolveAlbumPick(msg Message) {
	s.mu.Lock()
	pick := s.albumPick
	if pick == nil || pick.userID != msg.AuthorID {
		s.mu.Unlock()
		return
	}
	s.albumPick = nil
	s.mu.Unlock()

	n, ok := parseChoice(msg.Content, len(pick.albums))
	if !ok {
		s.reply(msg, "That wasn't a valid answer. The search has been discarded.")
		return
	}

	album := pick.albums[n-1]
	go func() {
		tracks, err := s.deps.Provider.AlbumTracks(s.ctx, album)
		if err != nil {
			log.WithError(err).Error("Fetching album tracks")
			s.reply(msg, fmt.Sprintf("There was an error fetching the album's tracks: `%s`", err))
			return
		}

		s.queue.PushAll(tracks)
		s.reply(msg, fmt.Sprintf("Album **%s** has been added to the queue.", album.Title))
		log.WithFields(log.Fields{"album": album.Title, "tracks": len(tracks)}).Info("Album added to queue")
	}()
}
