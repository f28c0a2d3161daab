package queue

import (
	"fmt"
	"sync"
	"testing"

	"Nocturne/music"

	"github.com/stretchr/testify/assert"
)

func track(title string) music.Track {
	return music.Track{ID: title, Title: title}
}

func TestPopOrderIsFIFO(t *testing.T) {
	q := New()
	q.Push(track("a"))
	q.Push(track("b"))
	q.Push(track("c"))

	got, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", got.Title)

	got, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", got.Title)

	got, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "c", got.Title)
}

func TestPopEmpty(t *testing.T) {
	q := New()
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestPushAllPreservesOrder(t *testing.T) {
	q := New()
	q.Push(track("first"))
	q.PushAll([]music.Track{track("second"), track("third")})

	titles := []string{}
	for {
		tr, ok := q.Pop()
		if !ok {
			break
		}
		titles = append(titles, tr.Title)
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles)
}

func TestTracksReturnsCopy(t *testing.T) {
	q := New()
	q.Push(track("a"))
	q.Push(track("b"))

	snapshot := q.Tracks()
	snapshot[0] = track("mutated")

	got, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, 1, q.Len())
}

func TestConcurrentPush(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Push(track(fmt.Sprintf("t%d", n)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, q.Len())
}
