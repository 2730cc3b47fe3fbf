package version_test

import (
	"testing"

	"github.com/kmac/mpdscripts/internal/version"
)

func TestVersionInfo(t *testing.T) {
	t.Run("Version should not be empty", func(t *testing.T) {
		if version.Version == "" {
			t.Error("Version should not be empty")
		}
	})

	t.Run("Name should be mpd-random-album", func(t *testing.T) {
		if version.Name != "mpd-random-album" {
			t.Errorf("Expected name 'mpd-random-album', got '%s'", version.Name)
		}
	})
}

func TestGetInfo(t *testing.T) {
	info := version.GetInfo()

	t.Run("should return name", func(t *testing.T) {
		if info.Name != version.Name {
			t.Errorf("Expected name '%s', got '%s'", version.Name, info.Name)
		}
	})

	t.Run("should return version", func(t *testing.T) {
		if info.Version != version.Version {
			t.Errorf("Expected version '%s', got '%s'", version.Version, info.Version)
		}
	})

	t.Run("string includes name and version", func(t *testing.T) {
		s := info.String()
		if s == "" {
			t.Error("expected a non-empty version string")
		}
	})
}
