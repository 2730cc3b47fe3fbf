// Package player defines the playback capability consumed by the album shuffler.
package player

// Play states reported by the player.
const (
	StatusPlay  = "play"
	StatusPause = "pause"
	StatusStop  = "stop"
)

// Track is one entry of the player's queue. Pos is stable only until the
// queue is mutated.
type Track struct {
	Pos      int    // 0-based queue position
	Album    string // album tag, empty when the track carries none
	Artist   string
	Title    string
	Duration int // seconds, 0 when unknown
}

// Status is a point-in-time snapshot of playback.
type Status struct {
	State    string  // play, pause or stop
	Pos      int     // queue position of the current track, -1 when none
	Elapsed  float64 // seconds into the current track
	Duration float64 // length of the current track in seconds
}

// Playing reports whether a track is active (playing or paused).
func (s Status) Playing() bool {
	return s.Pos >= 0 && (s.State == StatusPlay || s.State == StatusPause)
}

// Player is the minimal status/control surface the shuffler needs. The real
// implementation talks to MPD; tests substitute an in-memory one.
type Player interface {
	// Status returns the current playback snapshot.
	Status() (Status, error)

	// Playlist returns the full ordered queue.
	Playlist() ([]Track, error)

	// Play starts playback at the given queue position.
	Play(pos int) error
}
