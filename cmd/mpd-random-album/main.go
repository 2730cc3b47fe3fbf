// Package main is the entry point for the mpd-random-album daemon, an
// album-level shuffle for MPD: when the last track of an album on the queue
// finishes, playback jumps to the first track of a newly chosen album.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/kmac/mpdscripts/internal/config"
	"github.com/kmac/mpdscripts/internal/infra/mpd"
	"github.com/kmac/mpdscripts/internal/player"
	"github.com/kmac/mpdscripts/internal/playlist"
	"github.com/kmac/mpdscripts/internal/selector"
	"github.com/kmac/mpdscripts/internal/version"
	"github.com/kmac/mpdscripts/internal/watcher"
)

func usage() {
	fmt.Fprintf(os.Stderr, `%s

Picks a random album from the current MPD playlist and plays it from its
first track. In daemon mode, monitors MPD and selects a new album whenever
the last track of the current album ends.

Albums can be enqueued by name in the album queue file (one per line,
substring match; prefix with '!' for an exact match). Touching the suspend
file disables selection until it is removed.

Usage:
  mpd-random-album [flags]

Flags:
%s`, version.GetInfo().String(), flag.CommandLine.FlagUsages())
}

func main() {
	daemon := flag.BoolP("daemon", "d", false, "monitor MPD and select a new album at the end of each album")
	debug := flag.BoolP("debug", "D", false, "enable debug logging")
	passive := flag.BoolP("passive", "p", false, "compute the selection but do not change playback")
	info := flag.BoolP("info", "i", false, "print the album runs and current song, then exit")
	help := flag.BoolP("help", "h", false, "print this help and exit")
	host := flag.String("host", "", "MPD host (overrides config file and MPD_HOST)")
	port := flag.Int("port", 0, "MPD port (overrides config file and MPD_PORT)")
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
		}
	}
	cfg.ApplyEnv()
	if *host != "" {
		cfg.MPD.Host = *host
	}
	if *port != 0 {
		cfg.MPD.Port = *port
	}

	log.Info().Msgf("%s", version.GetInfo().String())
	log.Info().
		Str("mpd_host", cfg.MPD.Host).
		Int("mpd_port", cfg.MPD.Port).
		Str("queue_file", cfg.Files.Queue).
		Str("suspend_file", cfg.Files.Suspend).
		Bool("daemon", *daemon).
		Bool("passive", *passive).
		Msg("Configuration")

	if *passive {
		log.Info().Msg("Passive mode: playback will not be changed")
	}

	client := mpd.NewClient(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
	if err := client.Connect(); err != nil {
		if !*daemon {
			log.Fatal().Err(err).Msg("Failed to connect to MPD")
		}
		// Daemon mode keeps going; the poll loop reconnects with backoff.
		log.Warn().Err(err).Msg("MPD not reachable yet, will retry")
	}
	defer client.Close()

	gates := selector.FileGates{
		SuspendPath: cfg.Files.Suspend,
		QueuePath:   cfg.Files.Queue,
		ArchivePath: cfg.Files.Archive,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sel := selector.New(client, gates, rng, *passive)

	if *info {
		if err := printInfo(client); err != nil {
			log.Fatal().Err(err).Msg("Failed to query MPD")
		}
		return
	}

	if !*daemon {
		if err := selectOnce(client, sel); err != nil {
			log.Fatal().Err(err).Msg("Selection failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(client, sel, cfg.Watch.PollInterval.Std(), cfg.Watch.RetryBackoff.Std())
	log.Info().
		Dur("poll_interval", cfg.Watch.PollInterval.Std()).
		Msg("Watching MPD for album boundaries")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Watcher stopped")
	}
	log.Info().Msg("Stopped")
}

// selectOnce performs a single album selection against the current queue.
func selectOnce(p player.Player, sel *selector.Selector) error {
	tracks, err := p.Playlist()
	if err != nil {
		return err
	}
	albums := playlist.Albums(tracks)

	currentID := ""
	if status, err := p.Status(); err == nil && status.Playing() {
		if album, ok := playlist.AlbumContaining(albums, status.Pos); ok {
			currentID = album.ID
		}
	}

	if _, outcome := sel.SelectNext(albums, currentID); outcome == selector.Failed {
		return fmt.Errorf("player rejected the play command")
	}
	return nil
}

// printInfo dumps the album runs and current song to stdout.
func printInfo(p player.Player) error {
	tracks, err := p.Playlist()
	if err != nil {
		return err
	}
	status, err := p.Status()
	if err != nil {
		return err
	}

	albums := playlist.Albums(tracks)
	fmt.Printf("Albums on playlist: %d\n", len(albums))
	for _, a := range albums {
		fmt.Printf("  [%d-%d] %s (%d tracks)\n", a.Start, a.End, a.ID, len(a.Positions))
	}

	if !status.Playing() {
		fmt.Println("Nothing playing")
		return nil
	}
	for _, t := range tracks {
		if t.Pos == status.Pos {
			fmt.Printf("Current song: [%d] %s - %s (%s)\n", t.Pos, t.Artist, t.Title, t.Album)
			break
		}
	}
	return nil
}
