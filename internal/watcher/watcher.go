// Package watcher polls the player and swaps in a new album when the last
// track of the current album is reached.
package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kmac/mpdscripts/internal/player"
	"github.com/kmac/mpdscripts/internal/playlist"
	"github.com/kmac/mpdscripts/internal/selector"
)

type stateKind int

const (
	stateIdle stateKind = iota
	stateWatching
	stateTriggered
)

// State carries everything the poll loop remembers between polls. It is a
// plain value so tests can drive the watcher with a scripted status sequence.
type State struct {
	kind         stateKind
	lastPos      int // position observed on the previous poll, -1 when none
	triggeredPos int // position that caused the last trigger, -1 when none
}

// NewState returns the initial idle state.
func NewState() State {
	return State{kind: stateIdle, lastPos: -1, triggeredPos: -1}
}

// Idle reports whether the watcher is waiting for playback to start.
func (s State) Idle() bool { return s.kind == stateIdle }

// Watching reports whether the watcher is tracking normal playback.
func (s State) Watching() bool { return s.kind == stateWatching }

// Triggered reports whether an album-boundary action was issued and the
// watcher is cooling down until the position changes.
func (s State) Triggered() bool { return s.kind == stateTriggered }

// Watcher runs the poll loop against the player.
type Watcher struct {
	player   player.Player
	selector *selector.Selector
	interval time.Duration
	backoff  time.Duration
}

// New creates a watcher polling at the given interval, waiting backoff after
// a player failure before retrying.
func New(p player.Player, sel *selector.Selector, interval, backoff time.Duration) *Watcher {
	return &Watcher{
		player:   p,
		selector: sel,
		interval: interval,
		backoff:  backoff,
	}
}

// step advances the state machine for one poll. It reports whether album
// selection should fire and, if so, the identifier of the ending album.
//
// A trigger requires the last track of an album to be observed at the same
// position on two consecutive polls. A manual skip to the last track is
// indistinguishable from natural arrival and triggers too; this is a known
// limitation carried over from the behavior this daemon replaces.
func step(st State, status player.Status, albums []playlist.Album) (State, bool, string) {
	if !status.Playing() {
		return NewState(), false, ""
	}

	next := st
	next.lastPos = status.Pos
	if next.kind == stateIdle {
		next.kind = stateWatching
	}

	if status.Pos != st.lastPos {
		// Moving off the position that fired re-arms the watcher.
		if st.kind == stateTriggered && status.Pos != st.triggeredPos {
			next.kind = stateWatching
			next.triggeredPos = -1
		}
		return next, false, ""
	}

	// Position held for a full poll interval.
	album, ok := playlist.AlbumContaining(albums, status.Pos)
	if !ok || album.End != status.Pos {
		return next, false, ""
	}
	if st.kind == stateTriggered && st.triggeredPos == status.Pos {
		return next, false, ""
	}

	next.kind = stateTriggered
	next.triggeredPos = status.Pos
	return next, true, album.ID
}

// Tick performs one poll cycle and returns the advanced state. The album runs
// are rebuilt from a fresh queue snapshot on every call.
func (w *Watcher) Tick(st State) (State, error) {
	status, err := w.player.Status()
	if err != nil {
		return st, err
	}
	tracks, err := w.player.Playlist()
	if err != nil {
		return st, err
	}
	albums := playlist.Albums(tracks)

	next, fire, albumID := step(st, status, albums)
	if fire {
		log.Debug().
			Int("pos", status.Pos).
			Str("album", albumID).
			Msg("Last track of album sustained, selecting next album")
		if _, outcome := w.selector.SelectNext(albums, albumID); outcome == selector.Failed {
			// Stay armed so the next poll retries the selection.
			next.kind = stateWatching
			next.triggeredPos = -1
		}
	}
	return next, nil
}

// Run polls until the context is cancelled. Player failures are logged and
// retried after the backoff; the loop never exits because of them.
func (w *Watcher) Run(ctx context.Context) error {
	st := NewState()
	for {
		next, err := w.Tick(st)
		wait := w.interval
		if err != nil {
			log.Warn().
				Err(err).
				Dur("backoff", w.backoff).
				Msg("Player unavailable, retrying")
			wait = w.backoff
		} else {
			st = next
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
