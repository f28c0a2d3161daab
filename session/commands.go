package session

import (
	"fmt"
	"regexp"
	"strings"

	"Nocturne/utils"

	"github.com/Strum355/log"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>\s+(.+)$`)

type commandFunc func(args []string, msg Message)

// commandHelp drives the help rendering; order matters.
var commandHelp = []struct{ name, usage string }{
	{"song", "search for a song, then pick one by number"},
	{"album", "search for an album, then pick one by number"},
	{"queue", "show the current playback queue"},
	{"history", "show recently played tracks"},
	{"pause", "pause the current track"},
	{"unpause", "resume the current track"},
	{"skip", "skip the current track (alias: next)"},
	{"leave", "leave the voice channel"},
	{"help", "show this guide"},
}

// HandleMessage processes one chat message from the session's text
// channel. Commands require a leading mention of the bot; the pending
// selections are tested against every message regardless, since answers
// are bare numbers.
func (s *Session) HandleMessage(msg Message) {
	s.mu.Lock()
	active := s.state == StateActive
	s.mu.Unlock()
	if !active {
		return
	}

	if m := mentionPattern.FindStringSubmatch(msg.Content); m != nil && m[1] == s.deps.BotID {
		fields := strings.Fields(m[2])
		if len(fields) > 0 {
			name, args := fields[0], fields[1:]
			if handler, ok := s.commands()[name]; ok {
				log.WithFields(log.Fields{"command": name, "author": msg.AuthorName}).Info("Received command")
				handler(args, msg)
			}
			// Unrecognized commands are ignored; arbitrary chat passes through.
		}
	}

	s.resolveSongPick(msg)
	s.resolveAlbumPick(msg)
}

func (s *Session) commands() map[string]commandFunc {
	stop := func(_ []string, _ Message) { s.voiceDo(VoiceHandle.Stop) }
	return map[string]commandFunc{
		"song":    s.lookupSong,
		"album":   s.lookupAlbum,
		"leave":   func(_ []string, _ Message) { s.leave() },
		"queue":   s.showQueue,
		"history": s.showHistory,
		"pause":   func(_ []string, _ Message) { s.voiceDo(VoiceHandle.Pause) },
		"unpause": func(_ []string, _ Message) { s.voiceDo(VoiceHandle.Unpause) },
		"skip":    stop,
		"next":    stop,
		"help":    s.showHelp,
	}
}

// lookupSong searches for tracks and opens (or replaces) the song
// selection once results arrive.
func (s *Session) lookupSong(args []string, msg Message) {
	query := strings.Join(args, " ")
	if query == "" {
		s.reply(msg, "Give me something to search for, e.g. `song harvest moon`.")
		return
	}

	go func() {
		tracks, err := s.deps.Provider.SearchTracks(s.ctx, query, s.deps.SearchLimit)
		if err != nil {
			log.WithError(err).Error("Track search failed")
			s.reply(msg, fmt.Sprintf("There was an issue while trying to run the search query: `%s`", err))
			return
		}
		if len(tracks) == 0 {
			s.reply(msg, fmt.Sprintf("No songs found for **%s**.", query))
			return
		}

		s.mu.Lock()
		if s.state != StateActive {
			s.mu.Unlock()
			return
		}
		s.songPick = &trackPick{userID: msg.AuthorID, tracks: tracks}
		s.mu.Unlock()

		var b strings.Builder
		fmt.Fprintf(&b, "Completed search for **%s**:\n", query)
		for i, t := range tracks {
			fmt.Fprintf(&b, "**%d**: %s\n", i+1, t.Describe())
		}
		b.WriteString("Please type the song number you have chosen in this text chat.")
		s.deps.Chat.Send(s.textChannelID, b.String())
	}()
}

// lookupAlbum searches for albums and opens (or replaces) the album
// selection once results arrive.
func (s *Session) lookupAlbum(args []string, msg Message) {
	query := strings.Join(args, " ")
	if query == "" {
		s.reply(msg, "Give me something to search for, e.g. `album rumours`.")
		return
	}

	go func() {
		albums, err := s.deps.Provider.SearchAlbums(s.ctx, query, s.deps.SearchLimit)
		if err != nil {
			log.WithError(err).Error("Album search failed")
			s.reply(msg, fmt.Sprintf("There was an issue while trying to run the search query: `%s`", err))
			return
		}
		if len(albums) == 0 {
			s.reply(msg, fmt.Sprintf("No albums found for **%s**.", query))
			return
		}

		s.mu.Lock()
		if s.state != StateActive {
			s.mu.Unlock()
			return
		}
		s.albumPick = &albumPick{userID: msg.AuthorID, albums: albums}
		s.mu.Unlock()

		var b strings.Builder
		fmt.Fprintf(&b, "Completed search for **%s**:\n", query)
		for i, a := range albums {
			fmt.Fprintf(&b, "**%d**: %s\n", i+1, a.Describe())
		}
		b.WriteString("Please type the album number you have chosen in this text chat.")
		s.deps.Chat.Send(s.textChannelID, b.String())
	}()
}

// showQueue renders the queue front-to-back, 1-indexed.
func (s *Session) showQueue(_ []string, msg Message) {
	tracks := s.queue.Tracks()
	if len(tracks) == 0 {
		s.reply(msg, "The queue is empty.")
		return
	}

	var b strings.Builder
	b.WriteString("Here is the current queue:\n\n")
	for i, t := range tracks {
		fmt.Fprintf(&b, "**%d**: %s [%s]\n", i+1, t.Describe(), utils.FormatTrackDuration(t.Duration))
	}
	s.reply(msg, b.String())
}

// showHistory renders the guild's recently played tracks.
func (s *Session) showHistory(_ []string, msg Message) {
	if s.deps.History == nil {
		s.reply(msg, "Play history is not enabled.")
		return
	}

	go func() {
		lines, err := s.deps.History.Recent(s.guildID, 10)
		if err != nil {
			log.WithError(err).Error("Fetching play history")
			s.reply(msg, "There was an error fetching the play history.")
			return
		}
		if len(lines) == 0 {
			s.reply(msg, "Nothing has been played yet.")
			return
		}

		var b strings.Builder
		b.WriteString("Recently played:\n\n")
		for i, line := range lines {
			fmt.Fprintf(&b, "**%d**: %s\n", i+1, line)
		}
		s.reply(msg, b.String())
	}()
}

// showHelp renders the command table.
func (s *Session) showHelp(_ []string, msg Message) {
	var b strings.Builder
	b.WriteString("**Commands:**\n\n")
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "`<@%s> %s` - %s\n", s.deps.BotID, c.name, c.usage)
	}
	s.reply(msg, b.String())
}
