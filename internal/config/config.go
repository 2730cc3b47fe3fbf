// Package config loads daemon configuration from an optional YAML file and
// the MPD environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" or "2s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MPD holds the player connection settings.
type MPD struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
}

// Files holds the paths of the override gate files.
type Files struct {
	Queue   string `yaml:"queue"`
	Suspend string `yaml:"suspend"`
	Archive string `yaml:"archive"` // empty disables archiving
}

// Watch holds the poll loop timing.
type Watch struct {
	PollInterval Duration `yaml:"pollInterval"`
	RetryBackoff Duration `yaml:"retryBackoff"`
}

// Config is the daemon configuration.
type Config struct {
	MPD   MPD   `yaml:"mpd"`
	Files Files `yaml:"files"`
	Watch Watch `yaml:"watch"`
}

// Default returns the built-in configuration: a local MPD and the gate files
// in the system temp directory.
func Default() Config {
	tmp := os.TempDir()
	return Config{
		MPD: MPD{
			Host: "localhost",
			Port: 6600,
		},
		Files: Files{
			Queue:   filepath.Join(tmp, "mpd.albumq"),
			Suspend: filepath.Join(tmp, "mpd.norandom"),
			Archive: filepath.Join(tmp, "mpd.albumq.archive"),
		},
		Watch: Watch{
			PollInterval: Duration(time.Second),
			RetryBackoff: Duration(5 * time.Second),
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the MPD_* environment variables. MPD_HOST supports the
// conventional "password@host" form.
func (c *Config) ApplyEnv() {
	if host := os.Getenv("MPD_HOST"); host != "" {
		if pass, h, ok := strings.Cut(host, "@"); ok {
			c.MPD.Password = pass
			c.MPD.Host = h
		} else {
			c.MPD.Host = host
		}
	}
	if port := os.Getenv("MPD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.MPD.Port = p
		}
	}
	if v := os.Getenv("MPD_RANDOM_ALBUM_QUEUE_FILE"); v != "" {
		c.Files.Queue = v
		c.Files.Archive = v + ".archive"
	}
	if v := os.Getenv("MPD_RANDOM_SUSPEND_FILE"); v != "" {
		c.Files.Suspend = v
	}
	if v, ok := os.LookupEnv("MPD_RANDOM_ALBUM_QUEUE_ARCHIVE_FILE"); ok {
		// Setting this to the empty string disables archiving.
		c.Files.Archive = v
	}
}
