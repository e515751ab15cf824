// Package checkpoint persists the number of source lines already accounted for,
// so an interrupted run can resume without re-inserting flushed batches.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultPath = "processing.checkpoint"

type Store interface {
	// Load returns the last saved line count, or 0 when nothing usable is stored.
	Load() int64
	Save(lines int64) error
	// Clear removes the checkpoint. Clearing a missing checkpoint is not an error.
	Clear() error
}

// FileStore keeps the checkpoint as a decimal integer in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() int64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Could not read checkpoint, starting from the beginning", "path", s.path, "error", err)
		}
		return 0
	}

	lines, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || lines < 0 {
		slog.Warn("Ignoring unparsable checkpoint", "path", s.path, "content", string(data))
		return 0
	}
	return lines
}

// Save replaces the checkpoint through a temp file and rename, so readers see
// either the previous value or the new one.
func (s *FileStore) Save(lines int64) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(strconv.FormatInt(lines, 10)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}

// Exists reports whether a checkpoint file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
