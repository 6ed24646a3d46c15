// Package rotate implements size-based log file rotation with numbered
// backup generations.
package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Writer is an io.Writer that rotates its file before any write that
// would push it past maxBytes. Backups carry numeric suffixes:
//
//	robot.log -> robot.log.1 -> robot.log.2 -> ... -> deleted
//
// with at most maxFiles backups kept, so the path never accumulates
// more than maxFiles+1 files.
type Writer struct {
	path     string
	maxBytes int64
	maxFiles int

	mu      sync.Mutex
	file    *os.File
	written int64
	closed  bool
}

// New opens (or creates) the file at path for appending. maxBytes is
// the rotation threshold; maxFiles is the number of rotated backups to
// keep. A maxBytes of zero rotates on every write to a non-empty file.
func New(path string, maxBytes int64, maxFiles int) (*Writer, error) {
	w := &Writer{
		path:     path,
		maxBytes: maxBytes,
		maxFiles: maxFiles,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends p, rotating first when the write would exceed maxBytes.
// A single write larger than maxBytes lands whole in a fresh file, which
// may then exceed the limit. If rotation fails the writer reports it to
// stderr and keeps appending to the current file, retrying the rotation
// on later writes.
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, os.ErrClosed
	}

	if w.written > 0 && w.written+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	// A failed rotation leaves no open handle: reopen the base file so
	// the write still lands.
	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.written += int64(n)
	return
}

// Sync flushes the current file to disk.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close closes the underlying file. Later writes fail with
// os.ErrClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// openFile opens or creates the log file and records its current size,
// so rotation thresholds survive process restarts.
func (w *Writer) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = f
	w.written = info.Size()
	return nil
}

// rotate shifts backup generations up by one, trims generations at or
// past maxFiles, moves the current file to .1, and opens a fresh file.
// Called with w.mu held.
func (w *Writer) rotate() error {
	if w.file != nil {
		closeErr := w.file.Close()
		w.file = nil
		if closeErr != nil {
			return fmt.Errorf("failed to close log file: %w", closeErr)
		}
	}

	gens, err := w.generations()
	if err != nil {
		return err
	}

	// Highest first so renames never clobber a live generation.
	sort.Sort(sort.Reverse(sort.IntSlice(gens)))

	for _, num := range gens {
		src := fmt.Sprintf("%s.%d", w.path, num)
		if num >= w.maxFiles {
			_ = os.Remove(src)
			continue
		}
		_ = os.Rename(src, fmt.Sprintf("%s.%d", w.path, num+1))
	}

	if _, err := os.Stat(w.path); err == nil {
		if err := os.Rename(w.path, w.path+".1"); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	w.written = 0
	return w.openFile()
}

// generations lists the numeric suffixes of existing backups.
func (w *Writer) generations() ([]int, error) {
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return nil, fmt.Errorf("failed to list rotated files: %w", err)
	}

	var gens []int
	for _, m := range matches {
		suffix := strings.TrimPrefix(m, w.path+".")
		num, err := strconv.Atoi(suffix)
		if err != nil || num < 1 {
			continue
		}
		gens = append(gens, num)
	}
	return gens, nil
}

// Backups returns the paths of existing backup generations for base,
// ordered oldest first (highest suffix first). The viewer uses this to
// merge a log across its generations.
func Backups(base string) []string {
	matches, err := filepath.Glob(base + ".*")
	if err != nil {
		return nil
	}

	var gens []int
	for _, m := range matches {
		suffix := strings.TrimPrefix(m, base+".")
		num, convErr := strconv.Atoi(suffix)
		if convErr != nil || num < 1 {
			continue
		}
		gens = append(gens, num)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(gens)))

	paths := make([]string, 0, len(gens))
	for _, num := range gens {
		paths = append(paths, fmt.Sprintf("%s.%d", base, num))
	}
	return paths
}
