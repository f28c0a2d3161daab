package music

import (
	"strings"
	"time"
)

// Track is a single playable song as returned by the search provider.
// Immutable once obtained.
type Track struct {
	ID       string        // Provider track ID
	Title    string        // Track title
	Album    string        // Owning album title
	Artists  []string      // Artist names, in provider order
	Duration time.Duration // Track length
}

// Display returns the short "Title - Artist" form used for the bot presence.
func (t Track) Display() string {
	if len(t.Artists) == 0 {
		return t.Title
	}
	return t.Title + " - " + t.Artists[0]
}

// Describe returns the long form used in search results and queue listings.
func (t Track) Describe() string {
	parts := []string{t.Title}
	if t.Album != "" {
		parts = append(parts, t.Album)
	}
	if len(t.Artists) > 0 {
		parts = append(parts, t.Artists[0])
	}
	return strings.Join(parts, " - ")
}

// SearchQuery returns the free-text query used to locate an audio stream
// for the track.
func (t Track) SearchQuery() string {
	return strings.TrimSpace(strings.Join(t.Artists, " ") + " " + t.Title)
}

// Album is a search result whose track list is fetched lazily, only once
// the album is actually chosen.
type Album struct {
	ID      string   // Provider album ID
	Title   string   // Album title
	Artists []string // Artist names, in provider order
}

// Describe returns the "Title - Artist" form used in search results.
func (a Album) Describe() string {
	if len(a.Artists) == 0 {
		return a.Title
	}
	return a.Title + " - " + a.Artists[0]
}
