package music

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// SpotifyConfig holds the credentials for the Spotify metadata client.
type SpotifyConfig struct {
	ID           string
	Secret       string
	RefreshToken string
	Market       string
}

// Spotify searches tracks and albums through the Spotify API and resolves
// stream URLs through an audio Resolver. Spotify itself never serves
// audio; it is the metadata half of the provider.
type Spotify struct {
	client     *spotify.Client
	resolver   *Resolver
	market     string
	maxRetries int
	retryDelay time.Duration
}

// NewSpotify creates a Spotify provider from a refresh token.
func NewSpotify(ctx context.Context, cfg SpotifyConfig, resolver *Resolver) (*Spotify, error) {
	if cfg.ID == "" || cfg.Secret == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ID),
		spotifyauth.WithClientSecret(cfg.Secret),
	)
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	httpClient := auth.Client(ctx, token)

	return &Spotify{
		client:     spotify.New(httpClient),
		resolver:   resolver,
		market:     cfg.Market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// options builds the shared request options, scoping results to the
// configured market when one is set.
func (p *Spotify) options(limit int) []spotify.RequestOption {
	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if p.market != "" {
		opts = append(opts, spotify.Market(p.market))
	}
	return opts
}

// SearchTracks returns up to limit ranked track candidates for the query.
func (p *Spotify) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	var result *spotify.SearchResult
	err := p.retry(func() error {
		r, err := p.client.Search(ctx, query, spotify.SearchTypeTrack, p.options(limit)...)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("track search: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		tracks = append(tracks, convertFullTrack(t))
	}
	return tracks, nil
}

// SearchAlbums returns up to limit ranked album candidates for the query.
func (p *Spotify) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	var result *spotify.SearchResult
	err := p.retry(func() error {
		r, err := p.client.Search(ctx, query, spotify.SearchTypeAlbum, p.options(limit)...)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("album search: %w", err)
	}
	if result.Albums == nil {
		return nil, nil
	}

	albums := make([]Album, 0, len(result.Albums.Albums))
	for _, a := range result.Albums.Albums {
		albums = append(albums, Album{
			ID:      string(a.ID),
			Title:   a.Name,
			Artists: artistNames(a.Artists),
		})
	}
	return albums, nil
}

// AlbumTracks fetches the full track list of an album, in album order.
func (p *Spotify) AlbumTracks(ctx context.Context, album Album) ([]Track, error) {
	var page *spotify.SimpleTrackPage
	err := p.retry(func() error {
		pg, err := p.client.GetAlbumTracks(ctx, spotify.ID(album.ID), p.options(50)...)
		if err != nil {
			return err
		}
		page = pg
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("album tracks: %w", err)
	}

	tracks := make([]Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, Track{
			ID:       string(t.ID),
			Title:    t.Name,
			Album:    album.Title,
			Artists:  artistNames(t.Artists),
			Duration: time.Duration(t.Duration) * time.Millisecond,
		})
	}
	return tracks, nil
}

// StreamURL resolves the track to a playable audio URL.
func (p *Spotify) StreamURL(ctx context.Context, track Track) (string, error) {
	return p.resolver.StreamURL(ctx, track)
}

func convertFullTrack(t spotify.FullTrack) Track {
	return Track{
		ID:       string(t.ID),
		Title:    t.Name,
		Album:    t.Album.Name,
		Artists:  artistNames(t.Artists),
		Duration: time.Duration(t.Duration) * time.Millisecond,
	}
}

func artistNames(artists []spotify.SimpleArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

// retry runs fn up to maxRetries times, backing off linearly on errors
// that look transient.
func (p *Spotify) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
		if i < p.maxRetries-1 {
			time.Sleep(p.retryDelay * time.Duration(i+1))
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "504")
}
