package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"Nocturne/music"

	"github.com/stretchr/testify/assert"
)

const testBotID = "200"

type fakeChat struct {
	mu   sync.Mutex
	msgs []string
}

func (c *fakeChat) Send(channelID, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, content)
}

func (c *fakeChat) contains(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type fakePresence struct {
	mu    sync.Mutex
	names []string
}

func (p *fakePresence) SetPlaying(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
}

func (p *fakePresence) playing() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

type fakeVoice struct {
	mu       sync.Mutex
	plays    int
	playErr  error
	closeErr error
	closes   int
	block    chan struct{}
}

func (v *fakeVoice) Play(stream io.ReadCloser) error {
	defer stream.Close()
	v.mu.Lock()
	v.plays++
	block := v.block
	err := v.playErr
	v.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (v *fakeVoice) Pause()   {}
func (v *fakeVoice) Unpause() {}
func (v *fakeVoice) Stop()    {}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closes++
	return v.closeErr
}

func (v *fakeVoice) closeCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closes
}

func (v *fakeVoice) playCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.plays
}

type fakeDialer struct {
	handle *fakeVoice
	err    error
}

func (d *fakeDialer) Join(guildID, channelID string) (VoiceHandle, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.handle, nil
}

type fakeProvider struct {
	tracks      []music.Track
	albums      []music.Album
	albumTracks []music.Track
	searchErr   error
	albumErr    error
	streamErr   error
}

func (p *fakeProvider) SearchTracks(ctx context.Context, query string, limit int) ([]music.Track, error) {
	return p.tracks, p.searchErr
}

func (p *fakeProvider) SearchAlbums(ctx context.Context, query string, limit int) ([]music.Album, error) {
	return p.albums, p.searchErr
}

func (p *fakeProvider) AlbumTracks(ctx context.Context, album music.Album) ([]music.Track, error) {
	return p.albumTracks, p.albumErr
}

func (p *fakeProvider) StreamURL(ctx context.Context, t music.Track) (string, error) {
	if p.streamErr != nil {
		return "", p.streamErr
	}
	return "stream://" + t.ID, nil
}

type fakePipeline struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (p *fakePipeline) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.urls = append(p.urls, url)
	return io.NopCloser(strings.NewReader("")), nil
}

func (p *fakePipeline) opened() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.urls))
	copy(out, p.urls)
	return out
}

type testEnv struct {
	registry *Registry
	chat     *fakeChat
	presence *fakePresence
	voice    *fakeVoice
	dialer   *fakeDialer
	provider *fakeProvider
	pipeline *fakePipeline
}

func newTestEnv(idlePoll time.Duration) *testEnv {
	env := &testEnv{
		chat:     &fakeChat{},
		presence: &fakePresence{},
		voice:    &fakeVoice{},
		provider: &fakeProvider{},
		pipeline: &fakePipeline{},
	}
	env.dialer = &fakeDialer{handle: env.voice}
	env.registry = NewRegistry(Deps{
		BotID:       testBotID,
		Chat:        env.chat,
		Presence:    env.presence,
		Dialer:      env.dialer,
		Provider:    env.provider,
		Pipeline:    env.pipeline,
		SearchLimit: 5,
		IdlePoll:    idlePoll,
	})
	return env
}

// activeSession creates a session and waits for the handshake to finish.
func (e *testEnv) activeSession(t *testing.T) *Session {
	t.Helper()
	s, err := e.registry.Create("guild", "voice-1", "text-1")
	assert.NoError(t, err)
	assert.Eventually(t, func() bool {
		return s.State() == StateActive
	}, time.Second, 5*time.Millisecond)
	return s
}

func msg(author, content string) Message {
	return Message{AuthorID: author, AuthorName: "user-" + author, ChannelID: "text-1", Content: content}
}

func command(author, rest string) Message {
	return msg(author, "<@"+testBotID+"> "+rest)
}

func TestCreateRejectsDuplicateChannel(t *testing.T) {
	env := newTestEnv(time.Hour)
	env.activeSession(t)

	_, err := env.registry.Create("guild", "voice-1", "text-2")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, env.registry.Len())
}

func TestConnectFailureEvictsSession(t *testing.T) {
	env := newTestEnv(time.Hour)
	env.dialer.err = errors.New("no permission")

	s, err := env.registry.Create("guild", "voice-1", "text-1")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return env.registry.Len() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateClosed, s.State())
	assert.True(t, env.chat.contains("issue while joining the voice channel"))
}

func TestLeaveRemovesSessionEvenWhenCloseFails(t *testing.T) {
	env := newTestEnv(time.Hour)
	env.voice.closeErr = errors.New("connection reset")
	s := env.activeSession(t)

	env.registry.Dispatch(command("1", "leave"))

	assert.Eventually(t, func() bool {
		return env.registry.Len() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateClosed, s.State())
	assert.True(t, env.chat.contains("Bye!"))
	assert.Equal(t, 1, env.voice.closeCount())
}

func TestDispatchIgnoresOtherChannels(t *testing.T) {
	env := newTestEnv(time.Hour)
	s := env.activeSession(t)

	other := Message{AuthorID: "1", ChannelID: "text-other", Content: "<@" + testBotID + "> leave"}
	env.registry.Dispatch(other)

	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 1, env.registry.Len())
}

func TestShutdownClosesConnectingSession(t *testing.T) {
	env := newTestEnv(time.Hour)
	s, err := env.registry.Create("guild", "voice-1", "text-1")
	assert.NoError(t, err)

	s.Shutdown()

	assert.Equal(t, StateClosed, s.State())
	assert.Eventually(t, func() bool {
		return env.registry.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCloseAllShutsDownEverySession(t *testing.T) {
	env := newTestEnv(time.Hour)
	env.activeSession(t)

	s2, err := env.registry.Create("guild", "voice-2", "text-2")
	assert.NoError(t, err)
	assert.Eventually(t, func() bool {
		return s2.State() == StateActive
	}, time.Second, 5*time.Millisecond)

	env.registry.CloseAll()

	assert.Eventually(t, func() bool {
		return env.registry.Len() == 0
	}, time.Second, 5*time.Millisecond)
}
