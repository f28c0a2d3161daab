// Package pipeline adapts the external decode process. Given a media URL
// it produces a raw PCM byte stream; the terminal signal is the stream's
// EOF or read error.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/viper"
)

const (
	sampleRate = 48000
	channels   = 2
)

// FFmpeg spawns an ffmpeg process per track and exposes its stdout as
// the audio stream.
type FFmpeg struct {
	path string
}

// NewFFmpeg returns an FFmpeg pipeline using the configured binary path.
func NewFFmpeg() *FFmpeg {
	path := viper.GetString("ffmpeg.path")
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path}
}

// Open starts decoding the URL into s16le 48kHz stereo PCM. Closing the
// returned stream kills the process.
func (f *FFmpeg) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, f.path,
		"-i", url,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "0",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &stream{cmd: cmd, out: stdout}, nil
}

type stream struct {
	cmd *exec.Cmd
	out io.ReadCloser
}

func (s *stream) Read(p []byte) (int, error) {
	return s.out.Read(p)
}

func (s *stream) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	return s.out.Close()
}
