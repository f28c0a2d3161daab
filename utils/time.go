package utils

import (
	"fmt"
	"time"
)

// FormatTrackDuration formats a track length as MM:SS, or HH:MM:SS for
// tracks an hour or longer.
func FormatTrackDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
