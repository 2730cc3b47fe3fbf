// Package playlist groups the player queue into contiguous album runs.
package playlist

import (
	"math/rand"

	"github.com/kmac/mpdscripts/internal/player"
)

// Album is a maximal contiguous run of queue tracks sharing one album tag.
// Runs are derived fresh from a queue snapshot and never persisted.
type Album struct {
	ID        string
	Positions []int // ordered member track positions
	Start     int   // position of the first track
	End       int   // position of the last track
}

// Albums groups tracks into album runs, preserving queue order. Tracks
// without an album tag never join a run and break contiguity. The same album
// name appearing in two separate places in the queue yields two runs.
func Albums(tracks []player.Track) []Album {
	var albums []Album
	for _, t := range tracks {
		if t.Album == "" {
			continue
		}
		if n := len(albums); n > 0 && albums[n-1].ID == t.Album && albums[n-1].End == t.Pos-1 {
			run := &albums[n-1]
			run.Positions = append(run.Positions, t.Pos)
			run.End = t.Pos
			continue
		}
		albums = append(albums, Album{
			ID:        t.Album,
			Positions: []int{t.Pos},
			Start:     t.Pos,
			End:       t.Pos,
		})
	}
	return albums
}

// AlbumContaining returns the run covering the given queue position.
func AlbumContaining(albums []Album, pos int) (Album, bool) {
	for _, a := range albums {
		if pos >= a.Start && pos <= a.End {
			return a, true
		}
	}
	return Album{}, false
}

// RandomAlbumExcluding picks a run uniformly at random, avoiding runs whose
// identifier equals excludeID unless that would leave nothing to pick from.
func RandomAlbumExcluding(rng *rand.Rand, albums []Album, excludeID string) (Album, bool) {
	if len(albums) == 0 {
		return Album{}, false
	}
	candidates := make([]Album, 0, len(albums))
	for _, a := range albums {
		if a.ID != excludeID {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		candidates = albums
	}
	return candidates[rng.Intn(len(candidates))], true
}
