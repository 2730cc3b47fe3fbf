package playlist_test

import (
	"math/rand"
	"testing"

	"github.com/kmac/mpdscripts/internal/player"
	"github.com/kmac/mpdscripts/internal/playlist"
)

func tracks(albums ...string) []player.Track {
	ts := make([]player.Track, len(albums))
	for i, a := range albums {
		ts[i] = player.Track{Pos: i, Album: a}
	}
	return ts
}

func TestAlbums(t *testing.T) {
	tests := []struct {
		name     string
		input    []player.Track
		wantIDs  []string
		wantEnds []int
	}{
		{
			name:     "two albums",
			input:    tracks("A", "A", "A", "B", "B", "B"),
			wantIDs:  []string{"A", "B"},
			wantEnds: []int{2, 5},
		},
		{
			name:     "single album",
			input:    tracks("A", "A"),
			wantIDs:  []string{"A"},
			wantEnds: []int{1},
		},
		{
			name:     "single-track albums",
			input:    tracks("A", "B", "C"),
			wantIDs:  []string{"A", "B", "C"},
			wantEnds: []int{0, 1, 2},
		},
		{
			name:     "repeated album in two places yields two runs",
			input:    tracks("A", "A", "B", "A", "A"),
			wantIDs:  []string{"A", "B", "A"},
			wantEnds: []int{1, 2, 4},
		},
		{
			name:     "untagged tracks are skipped and break contiguity",
			input:    tracks("A", "", "A", "B"),
			wantIDs:  []string{"A", "A", "B"},
			wantEnds: []int{0, 2, 3},
		},
		{
			name:    "empty playlist",
			input:   nil,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			albums := playlist.Albums(tt.input)

			if len(albums) != len(tt.wantIDs) {
				t.Fatalf("expected %d runs, got %d", len(tt.wantIDs), len(albums))
			}
			for i, a := range albums {
				if a.ID != tt.wantIDs[i] {
					t.Errorf("run %d: expected id %q, got %q", i, tt.wantIDs[i], a.ID)
				}
				if a.End != tt.wantEnds[i] {
					t.Errorf("run %d: expected end %d, got %d", i, tt.wantEnds[i], a.End)
				}
				if a.Start != a.Positions[0] {
					t.Errorf("run %d: start %d does not match first position %d", i, a.Start, a.Positions[0])
				}
				if a.End != a.Positions[len(a.Positions)-1] {
					t.Errorf("run %d: end %d does not match last position %d", i, a.End, a.Positions[len(a.Positions)-1])
				}
			}
		})
	}
}

func TestAlbumsReconstructOrder(t *testing.T) {
	input := tracks("A", "A", "B", "C", "C", "C", "A", "D")
	albums := playlist.Albums(input)

	var positions []int
	for _, a := range albums {
		positions = append(positions, a.Positions...)
	}

	if len(positions) != len(input) {
		t.Fatalf("expected %d positions, got %d", len(input), len(positions))
	}
	for i, pos := range positions {
		if pos != i {
			t.Errorf("position %d: expected %d, got %d", i, i, pos)
		}
	}
}

func TestAlbumContaining(t *testing.T) {
	albums := playlist.Albums(tracks("A", "A", "A", "B", "B"))

	tests := []struct {
		pos    int
		wantID string
		found  bool
	}{
		{0, "A", true},
		{2, "A", true},
		{3, "B", true},
		{4, "B", true},
		{5, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		album, ok := playlist.AlbumContaining(albums, tt.pos)
		if ok != tt.found {
			t.Errorf("pos %d: expected found=%v, got %v", tt.pos, tt.found, ok)
			continue
		}
		if ok && album.ID != tt.wantID {
			t.Errorf("pos %d: expected album %q, got %q", tt.pos, tt.wantID, album.ID)
		}
	}
}

func TestRandomAlbumExcluding(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("never returns the excluded album", func(t *testing.T) {
		albums := playlist.Albums(tracks("A", "A", "B", "C"))
		for i := 0; i < 1000; i++ {
			album, ok := playlist.RandomAlbumExcluding(rng, albums, "A")
			if !ok {
				t.Fatal("expected an album")
			}
			if album.ID == "A" {
				t.Fatal("picked the excluded album")
			}
		}
	})

	t.Run("sole album is returned even when excluded", func(t *testing.T) {
		albums := playlist.Albums(tracks("A", "A"))
		album, ok := playlist.RandomAlbumExcluding(rng, albums, "A")
		if !ok {
			t.Fatal("expected the sole album")
		}
		if album.ID != "A" {
			t.Errorf("expected album A, got %q", album.ID)
		}
	})

	t.Run("empty playlist returns nothing", func(t *testing.T) {
		if _, ok := playlist.RandomAlbumExcluding(rng, nil, "A"); ok {
			t.Error("expected no album for an empty playlist")
		}
	})

	t.Run("covers all candidates", func(t *testing.T) {
		albums := playlist.Albums(tracks("A", "B", "C", "D"))
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			album, _ := playlist.RandomAlbumExcluding(rng, albums, "A")
			seen[album.ID] = true
		}
		for _, id := range []string{"B", "C", "D"} {
			if !seen[id] {
				t.Errorf("album %q was never picked", id)
			}
		}
	})
}
