package session

import (
	"errors"
	"testing"
	"time"

	"Nocturne/music"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackDrainsQueueInOrder(t *testing.T) {
	env := newTestEnv(5 * time.Millisecond)
	s := env.activeSession(t)

	s.Queue().PushAll([]music.Track{
		{ID: "t1", Title: "First", Artists: []string{"Ana"}},
		{ID: "t2", Title: "Second", Artists: []string{"Bob"}},
	})

	assert.Eventually(t, func() bool {
		return env.voice.playCount() == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"stream://t1", "stream://t2"}, env.pipeline.opened())
	assert.Equal(t, []string{"First - Ana", "Second - Bob"}, env.presence.playing())
	assert.Equal(t, 0, s.Queue().Len())
}

func TestOneTrackInFlight(t *testing.T) {
	env := newTestEnv(5 * time.Millisecond)
	block := make(chan struct{})
	env.voice.block = block
	s := env.activeSession(t)

	s.Queue().PushAll([]music.Track{
		{ID: "t1", Title: "First"},
		{ID: "t2", Title: "Second"},
	})

	assert.Eventually(t, func() bool {
		return env.voice.playCount() == 1
	}, time.Second, 5*time.Millisecond)

	// The second track stays queued while the first is in flight.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, env.voice.playCount())
	assert.Equal(t, 1, s.Queue().Len())

	close(block)
	assert.Eventually(t, func() bool {
		return env.voice.playCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestFailedStreamResolutionAdvancesQueue(t *testing.T) {
	env := newTestEnv(5 * time.Millisecond)
	env.provider.streamErr = errors.New("region locked")
	s := env.activeSession(t)

	s.Queue().PushAll([]music.Track{
		{ID: "t1", Title: "First"},
		{ID: "t2", Title: "Second"},
	})

	assert.Eventually(t, func() bool {
		return s.Queue().Len() == 0
	}, time.Second, 5*time.Millisecond)
	assert.True(t, env.chat.contains("error trying to get the stream URL"))
	assert.Equal(t, 0, env.voice.playCount())
}

func TestFailedPlaybackIsReportedAndAdvances(t *testing.T) {
	env := newTestEnv(5 * time.Millisecond)
	env.voice.playErr = errors.New("opus send timeout")
	s := env.activeSession(t)

	s.Queue().Push(music.Track{ID: "t1", Title: "First"})

	assert.Eventually(t, func() bool {
		return env.voice.playCount() == 1 && env.chat.contains("error while playing the track")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Queue().Len())
}

func TestIdleQueuePicksUpLateTracks(t *testing.T) {
	env := newTestEnv(5 * time.Millisecond)
	s := env.activeSession(t)

	// Let the loop go idle before anything is queued.
	time.Sleep(30 * time.Millisecond)
	s.Queue().Push(music.Track{ID: "t1", Title: "First"})

	assert.Eventually(t, func() bool {
		return env.voice.playCount() == 1
	}, time.Second, 5*time.Millisecond)
}
