package music

import "context"

// Provider resolves text queries into ranked tracks and albums, expands a
// chosen album into its tracks, and resolves a track into a playable
// stream URL.
type Provider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error)
	AlbumTracks(ctx context.Context, album Album) ([]Track, error)
	StreamURL(ctx context.Context, track Track) (string, error)
}
