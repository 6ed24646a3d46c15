package snowlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/snowbotix/snowlog/internal/rotate"
)

// FileSink appends formatted lines to a size-rotated log file. A
// cross-process advisory lock at <path>.lock keeps two processes from
// rotating the same file against each other; holding it is part of sink
// construction, so a held lock surfaces as a construction error.
type FileSink struct {
	writer *rotate.Writer
	lock   *flock.Flock
}

// NewFileSink opens path for appending with rotation at maxBytes and up
// to maxFiles rotated backups.
func NewFileSink(path string, maxBytes int64, maxFiles int) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire log lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("log file %s is locked by another process", path)
	}

	writer, err := rotate.New(path, maxBytes, maxFiles)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &FileSink{writer: writer, lock: lock}, nil
}

// Emit appends the line plus a newline, rotating first when needed.
func (s *FileSink) Emit(line string) error {
	_, err := s.writer.Write(append([]byte(line), '\n'))
	return err
}

// Flush syncs the current file to disk.
func (s *FileSink) Flush() error {
	return s.writer.Sync()
}

// Close closes the file and releases the advisory lock.
func (s *FileSink) Close() error {
	err := s.writer.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	return err
}
