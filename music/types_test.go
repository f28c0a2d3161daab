package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackDisplay(t *testing.T) {
	full := Track{Title: "Harvest Moon", Album: "Harvest Moon", Artists: []string{"Neil Young"}}
	assert.Equal(t, "Harvest Moon - Neil Young", full.Display())

	noArtist := Track{Title: "Interlude"}
	assert.Equal(t, "Interlude", noArtist.Display())
}

func TestTrackDescribe(t *testing.T) {
	full := Track{Title: "Dreams", Album: "Rumours", Artists: []string{"Fleetwood Mac"}}
	assert.Equal(t, "Dreams - Rumours - Fleetwood Mac", full.Describe())

	bare := Track{Title: "Dreams"}
	assert.Equal(t, "Dreams", bare.Describe())
}

func TestTrackSearchQuery(t *testing.T) {
	track := Track{Title: "Dreams", Artists: []string{"Fleetwood Mac"}}
	assert.Equal(t, "Fleetwood Mac Dreams", track.SearchQuery())

	noArtist := Track{Title: "Dreams"}
	assert.Equal(t, "Dreams", noArtist.SearchQuery())
}

func TestAlbumDescribe(t *testing.T) {
	album := Album{Title: "Rumours", Artists: []string{"Fleetwood Mac"}}
	assert.Equal(t, "Rumours - Fleetwood Mac", album.Describe())
}
