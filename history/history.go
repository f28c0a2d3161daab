// Package history persists play records to Postgres.
package history

import (
	"fmt"
	"strings"
	"time"

	"Nocturne/music"

	"github.com/Strum355/log"
	"gorm.io/gorm"
)

// Play is one played track.
type Play struct {
	ID       uint   `gorm:"primaryKey"`
	GuildID  string `gorm:"index"`
	Title    string
	Album    string
	Artist   string
	PlayedAt time.Time
}

// Recorder writes and reads play records for the history command.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&Play{}); err != nil {
		return nil, fmt.Errorf("migrating play history: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record stores one play. Failures are logged and swallowed so playback
// never depends on the database.
func (r *Recorder) Record(guildID string, t music.Track) {
	play := Play{
		GuildID:  guildID,
		Title:    t.Title,
		Album:    t.Album,
		Artist:   strings.Join(t.Artists, ", "),
		PlayedAt: time.Now(),
	}
	if err := r.db.Create(&play).Error; err != nil {
		log.WithError(err).Error("Recording play")
	}
}

// Recent returns display lines for the guild's latest plays, newest first.
func (r *Recorder) Recent(guildID string, limit int) ([]string, error) {
	var plays []Play
	err := r.db.Where("guild_id = ?", guildID).
		Order("played_at desc").
		Limit(limit).
		Find(&plays).Error
	if err != nil {
		return nil, fmt.Errorf("fetching play history: %w", err)
	}

	lines := make([]string, 0, len(plays))
	for _, p := range plays {
		lines = append(lines, fmt.Sprintf("%s - %s - %s", p.Title, p.Album, p.Artist))
	}
	return lines, nil
}
