package music

import (
	"context"
	"fmt"

	"github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
)

// Resolver maps a track to a playable audio URL by searching YouTube for
// the closest match and picking its first audio-carrying format.
type Resolver struct {
	search  *ytsearch.Client
	youtube *youtube.Client
}

// NewResolver creates a Resolver with default clients.
func NewResolver() *Resolver {
	return &Resolver{
		search:  ytsearch.NewClient(nil),
		youtube: &youtube.Client{},
	}
}

// StreamURL returns a URL the decode pipeline can read audio from.
func (r *Resolver) StreamURL(ctx context.Context, t Track) (string, error) {
	query := t.SearchQuery()

	res, err := r.search.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("youtube search: %w", err)
	}
	if len(res.Results) == 0 {
		return "", fmt.Errorf("no youtube match for %q", query)
	}

	video, err := r.youtube.GetVideoContext(ctx, res.Results[0].VideoID)
	if err != nil {
		return "", fmt.Errorf("youtube video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return "", fmt.Errorf("no audio formats for %q", video.Title)
	}

	streamURL, err := r.youtube.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return "", fmt.Errorf("youtube stream url: %w", err)
	}

	return streamURL, nil
}
