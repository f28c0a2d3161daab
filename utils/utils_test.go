package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type TrackDurationTestCase struct {
	input    time.Duration
	expected string
}

func TestFormatTrackDuration(t *testing.T) {
	tests := []TrackDurationTestCase{
		{0 * time.Second, "00:00"},
		{45 * time.Second, "00:45"},
		{3*time.Minute + 45*time.Second, "03:45"},
		{1*time.Hour + 23*time.Minute + 45*time.Second, "01:23:45"},
		{2*time.Hour + 5*time.Second, "02:00:05"},
	}

	for _, tt := range tests {
		result := FormatTrackDuration(tt.input)
		assert.Equal(t, tt.expected, result)
	}
}
