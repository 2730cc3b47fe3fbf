package selector

import (
	"os"
	"strings"
)

// Gates exposes the operator-editable override surfaces: the suspend flag and
// the album queue. Implementations must read fresh state on every call so an
// operator edit takes effect on the next trigger.
type Gates interface {
	// Suspended reports whether album selection is currently disabled.
	Suspended() bool

	// ReadQueue returns the queued album specifiers, front first.
	ReadQueue() ([]string, error)

	// WriteQueue replaces the queue with the given entries.
	WriteQueue(entries []string) error

	// AppendArchive records a consumed specifier.
	AppendArchive(entry string) error
}

// FileGates reads the overrides from the filesystem. The suspend flag is the
// bare existence of SuspendPath; the queue file holds one specifier per line.
type FileGates struct {
	SuspendPath string
	QueuePath   string
	ArchivePath string // empty disables archiving
}

// Suspended reports whether the suspend file exists. Its content is ignored.
func (g FileGates) Suspended() bool {
	_, err := os.Stat(g.SuspendPath)
	return err == nil
}

// ReadQueue reads the queue file. A missing file is an empty queue.
func (g FileGates) ReadQueue() ([]string, error) {
	data, err := os.ReadFile(g.QueuePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// WriteQueue rewrites the queue file, one specifier per line. An empty slice
// leaves an empty file behind.
func (g FileGates) WriteQueue(entries []string) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return os.WriteFile(g.QueuePath, []byte(b.String()), 0o644)
}

// AppendArchive appends a consumed specifier to the archive file.
func (g FileGates) AppendArchive(entry string) error {
	if g.ArchivePath == "" {
		return nil
	}
	f, err := os.OpenFile(g.ArchivePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(entry + "\n"); err != nil {
		return err
	}
	return nil
}
