package voice

import (
	"fmt"
	"io"
	"sync"
	"time"

	"Nocturne/session"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960 // samples per channel per opus frame
	maxBytes   = 4000
)

// Dialer joins guild voice channels over an open gateway connection.
type Dialer struct {
	session *discordgo.Session
}

func NewDialer(s *discordgo.Session) *Dialer {
	return &Dialer{session: s}
}

// Join connects to the voice channel muted for receive and returns the
// connection wrapped as a playback handle.
func (d *Dialer) Join(guildID, channelID string) (session.VoiceHandle, error) {
	vc, err := d.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("joining voice channel: %w", err)
	}
	return &Conn{vc: vc}, nil
}

// Conn streams PCM audio to one Discord voice connection. Play blocks
// until the stream is exhausted, fails, or is stopped, so callers drive
// one track at a time.
type Conn struct {
	vc *discordgo.VoiceConnection

	mu     sync.Mutex
	paused bool
	stop   chan struct{}
}

func (c *Conn) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Conn) Unpause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Stop aborts the in-flight Play, if any. The connection stays usable
// for the next Play.
func (c *Conn) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Close stops playback and disconnects from the voice channel.
func (c *Conn) Close() error {
	c.Stop()
	return c.vc.Disconnect()
}

// Play encodes the raw PCM stream (s16le, 48kHz, stereo) into opus
// frames and sends them down the voice connection. A clean end of
// stream returns nil.
func (c *Conn) Play(stream io.ReadCloser) error {
	defer stream.Close()

	if !c.vc.Ready {
		for i := 0; i < 20; i++ {
			time.Sleep(250 * time.Millisecond)
			if c.vc.Ready {
				break
			}
		}
		if !c.vc.Ready {
			return fmt.Errorf("voice connection never became ready")
		}
	}

	c.vc.Speaking(true)
	defer c.vc.Speaking(false)

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("creating opus encoder: %w", err)
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.paused = false
	c.stop = stop
	c.mu.Unlock()

	pcmBuffer := make([]byte, frameSize*channels*2)
	pcmCache := []int16{}

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		c.mu.Lock()
		paused := c.paused
		c.mu.Unlock()

		if paused {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		n, err := stream.Read(pcmBuffer)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		for i := 0; i+1 < n; i += 2 {
			sample := int16(pcmBuffer[i]) | int16(pcmBuffer[i+1])<<8
			pcmCache = append(pcmCache, sample)
		}

		for len(pcmCache) >= frameSize*channels {
			frame := pcmCache[:frameSize*channels]
			pcmCache = pcmCache[frameSize*channels:]

			opusFrame, err := encoder.Encode(frame, frameSize, maxBytes)
			if err != nil {
				return fmt.Errorf("encoding opus frame: %w", err)
			}
			if len(opusFrame) == 0 {
				continue
			}

			select {
			case c.vc.OpusSend <- opusFrame:
			case <-time.After(100 * time.Millisecond):
				return fmt.Errorf("timeout sending opus frame")
			case <-stop:
				return nil
			}
		}
	}
}
