package queue

import (
	"sync"

	"Nocturne/music"
)

// Queue is the FIFO playback queue owned by a single session. Enqueue
// only appends, dequeue only removes from the front; ordering is never
// re-derived from track metadata.
type Queue struct {
	mu     sync.Mutex // Mutex to protect concurrent access
	tracks []music.Track
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{tracks: []music.Track{}}
}

// Push appends a single track to the back of the queue.
func (q *Queue) Push(t music.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, t)
}

// PushAll appends tracks to the back of the queue, preserving their order.
func (q *Queue) PushAll(tracks []music.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, tracks...)
}

// Pop removes and returns the front track. The second return is false
// when the queue is empty.
func (q *Queue) Pop() (music.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return music.Track{}, false
	}
	t := q.tracks[0]
	q.tracks = q.tracks[1:]
	return t, true
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Tracks returns a copy of the queued tracks, front to back.
func (q *Queue) Tracks() []music.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]music.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}
