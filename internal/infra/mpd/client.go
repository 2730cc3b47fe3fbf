// Package mpd provides a wrapper around the gompd MPD client.
package mpd

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"

	"github.com/kmac/mpdscripts/internal/player"
)

// Client wraps the MPD client with reconnection logic. It implements
// player.Player.
type Client struct {
	mu       sync.RWMutex
	client   *mpd.Client
	host     string
	port     int
	password string
}

// NewClient creates a new MPD client wrapper.
func NewClient(host string, port int, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		password: password,
	}
}

// Connect establishes connection to MPD.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connectLocked()
}

// connectLocked establishes connection (must hold lock).
func (c *Client) connectLocked() error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	log.Info().Str("addr", addr).Msg("Connecting to MPD")

	client, err := mpd.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to MPD: %w", err)
	}

	if c.password != "" {
		if err := client.Command("password %s", c.password).OK(); err != nil {
			client.Close()
			return fmt.Errorf("MPD authentication failed: %w", err)
		}
	}

	c.client = client
	log.Info().Msg("Connected to MPD")
	return nil
}

// ensureConnected checks connection and reconnects if needed.
func (c *Client) ensureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return c.connectLocked()
	}

	// Try a ping to check if connection is alive
	if err := c.client.Ping(); err != nil {
		log.Warn().Err(err).Msg("MPD connection lost, reconnecting...")
		c.client.Close()
		c.client = nil
		return c.connectLocked()
	}

	return nil
}

// Close closes the MPD connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// Ping checks if the connection is alive.
func (c *Client) Ping() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	return c.client.Ping()
}

// Status returns the current playback snapshot.
func (c *Client) Status() (player.Status, error) {
	if err := c.ensureConnected(); err != nil {
		return player.Status{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	attrs, err := c.client.Status()
	if err != nil {
		return player.Status{}, err
	}
	return statusFromAttrs(attrs), nil
}

// Playlist returns the current queue as domain tracks.
func (c *Client) Playlist() ([]player.Track, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	songs, err := c.client.PlaylistInfo(-1, -1)
	if err != nil {
		return nil, err
	}

	tracks := make([]player.Track, 0, len(songs))
	for i, song := range songs {
		tracks = append(tracks, trackFromAttrs(song, i))
	}
	return tracks, nil
}

// Play starts playback at the given queue position.
func (c *Client) Play(pos int) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.Play(pos)
}

// statusFromAttrs converts an MPD status response to a domain snapshot.
func statusFromAttrs(attrs mpd.Attrs) player.Status {
	status := player.Status{Pos: -1}

	switch attrs["state"] {
	case "play":
		status.State = player.StatusPlay
	case "pause":
		status.State = player.StatusPause
	default:
		status.State = player.StatusStop
	}

	if pos, err := strconv.Atoi(attrs["song"]); err == nil {
		status.Pos = pos
	}
	if elapsed, err := strconv.ParseFloat(attrs["elapsed"], 64); err == nil {
		status.Elapsed = elapsed
	}
	if duration, err := strconv.ParseFloat(attrs["duration"], 64); err == nil {
		status.Duration = duration
	}

	return status
}

// trackFromAttrs converts an MPD playlist entry to a domain track. fallback
// is the entry's index, used when the Pos attribute is missing.
func trackFromAttrs(attrs mpd.Attrs, fallback int) player.Track {
	track := player.Track{
		Pos:    fallback,
		Album:  attrs["Album"],
		Artist: attrs["Artist"],
		Title:  attrs["Title"],
	}

	if pos, err := strconv.Atoi(attrs["Pos"]); err == nil {
		track.Pos = pos
	}
	if dur, err := strconv.Atoi(attrs["Time"]); err == nil {
		track.Duration = dur
	} else if dur, err := strconv.ParseFloat(attrs["duration"], 64); err == nil {
		track.Duration = int(dur)
	}

	return track
}
