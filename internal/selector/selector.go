// Package selector decides which album from the queue plays next.
package selector

import (
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kmac/mpdscripts/internal/player"
	"github.com/kmac/mpdscripts/internal/playlist"
)

// exactPrefix marks a queue entry as a case-sensitive exact album name.
// Entries without it match any album name containing the entry.
const exactPrefix = "!"

// Outcome reports what SelectNext did.
type Outcome int

const (
	// Selected means an album was chosen and playback switched (or, in
	// passive mode, the decision was logged).
	Selected Outcome = iota

	// Suppressed means no selection was performed: the suspend flag is set
	// or there was no album to choose from.
	Suppressed

	// Failed means an album was chosen but the player rejected the command.
	Failed
)

// Selector picks the next album, consulting the album queue before falling
// back to a uniform random choice.
type Selector struct {
	player  player.Player
	gates   Gates
	rng     *rand.Rand
	passive bool
}

// New creates a selector. In passive mode decisions are computed and logged
// but the player is never touched.
func New(p player.Player, gates Gates, rng *rand.Rand, passive bool) *Selector {
	return &Selector{
		player:  p,
		gates:   gates,
		rng:     rng,
		passive: passive,
	}
}

// SelectNext chooses the next album from the given runs and starts playback
// at its first track. currentAlbumID identifies the album that is ending; the
// random fallback avoids it when the playlist holds more than one album.
func (s *Selector) SelectNext(albums []playlist.Album, currentAlbumID string) (playlist.Album, Outcome) {
	if s.gates.Suspended() {
		log.Info().Msg("Suspend flag present, not selecting an album")
		return playlist.Album{}, Suppressed
	}

	album, ok := s.fromQueue(albums)
	if !ok {
		album, ok = playlist.RandomAlbumExcluding(s.rng, albums, currentAlbumID)
		if !ok {
			log.Warn().Msg("No albums on the playlist, nothing to select")
			return playlist.Album{}, Suppressed
		}
		log.Info().Str("album", album.ID).Msg("Picked random album")
	}

	if s.passive {
		log.Info().
			Str("album", album.ID).
			Int("pos", album.Start).
			Msg("Passive mode, not changing playback")
		return album, Selected
	}

	if err := s.player.Play(album.Start); err != nil {
		log.Warn().
			Err(err).
			Str("album", album.ID).
			Int("pos", album.Start).
			Msg("Player rejected play command")
		return album, Failed
	}

	log.Info().Str("album", album.ID).Int("pos", album.Start).Msg("Playing album")
	return album, Selected
}

// fromQueue consumes queue entries front to back until one resolves against
// the current album runs. Entries that match nothing are consumed too, so a
// stale entry can never block the queue. The queue file is rewritten with all
// consumed entries removed.
func (s *Selector) fromQueue(albums []playlist.Album) (playlist.Album, bool) {
	entries, err := s.gates.ReadQueue()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot read album queue")
		return playlist.Album{}, false
	}
	if len(entries) == 0 {
		return playlist.Album{}, false
	}

	for i, entry := range entries {
		album, ok := resolve(albums, entry)
		if !ok {
			log.Info().Str("entry", entry).Msg("Queued album not on the playlist, dropping entry")
			continue
		}
		if err := s.gates.WriteQueue(entries[i+1:]); err != nil {
			log.Warn().Err(err).Msg("Cannot rewrite album queue")
		}
		if err := s.gates.AppendArchive(entry); err != nil {
			log.Warn().Err(err).Msg("Cannot append to album queue archive")
		}
		log.Info().Str("entry", entry).Str("album", album.ID).Msg("Selected album from queue")
		return album, true
	}

	// Nothing resolved; every entry was consumed.
	if err := s.gates.WriteQueue(nil); err != nil {
		log.Warn().Err(err).Msg("Cannot rewrite album queue")
	}
	log.Info().Msg("No queued album matched the playlist")
	return playlist.Album{}, false
}

// resolve matches one queue entry against the album runs in playlist order.
// A "!" prefix demands the exact album name; anything else is a
// case-sensitive substring match.
func resolve(albums []playlist.Album, entry string) (playlist.Album, bool) {
	if name, exact := strings.CutPrefix(entry, exactPrefix); exact {
		for _, a := range albums {
			if a.ID == name {
				return a, true
			}
		}
		return playlist.Album{}, false
	}
	for _, a := range albums {
		if strings.Contains(a.ID, entry) {
			return a, true
		}
	}
	return playlist.Album{}, false
}
