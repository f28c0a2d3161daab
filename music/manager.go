package music

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Manager wraps a Provider with a Redis cache. Stream URLs and album
// track lists are the expensive lookups; searches stay uncached since
// their results feed a one-shot selection.
type Manager struct {
	Provider
	redis       *redis.Client
	cacheStream time.Duration
	cacheAlbum  time.Duration
}

// NewManager creates a Manager with TTLs taken from the configuration.
func NewManager(p Provider, rdb *redis.Client) *Manager {
	return &Manager{
		Provider:    p,
		redis:       rdb,
		cacheStream: time.Duration(viper.GetInt("cache.stream")) * time.Second,
		cacheAlbum:  time.Duration(viper.GetInt("cache.album")) * time.Second,
	}
}

// StreamURL resolves a track's stream URL, consulting Redis first.
func (m *Manager) StreamURL(ctx context.Context, t Track) (string, error) {
	key := "stream:" + t.ID

	cached, err := m.redis.Get(ctx, key).Result()
	if err == nil && cached != "" {
		return cached, nil
	}

	url, err := m.Provider.StreamURL(ctx, t)
	if err != nil {
		return "", err
	}

	m.redis.Set(ctx, key, url, m.cacheStream)
	return url, nil
}

// AlbumTracks fetches an album's track list, consulting Redis first.
func (m *Manager) AlbumTracks(ctx context.Context, album Album) ([]Track, error) {
	key := "album:" + album.ID

	cached, err := m.redis.Get(ctx, key).Result()
	if err == nil && cached != "" {
		var tracks []Track
		if err := json.Unmarshal([]byte(cached), &tracks); err == nil {
			return tracks, nil
		}
	}

	tracks, err := m.Provider.AlbumTracks(ctx, album)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(tracks)
	m.redis.Set(ctx, key, data, m.cacheAlbum)
	return tracks, nil
}
