package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// followPollInterval drives the fallback scan. The fsnotify path wakes
// the loop faster when the platform supports it.
const followPollInterval = 100 * time.Millisecond

// Follow streams entries appended to path into the channel until ctx
// is done. It watches the file's directory with fsnotify when
// available and polls otherwise; when rotation swaps a fresh file in
// under the reader, it reopens and continues from the start of the
// new file.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- Entry) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	t := &tailer{viewer: v, path: path, file: file, reader: bufio.NewReader(file)}
	defer t.close()

	var fsEvents chan fsnotify.Event
	var fsErrors chan error
	if watcher, werr := fsnotify.NewWatcher(); werr == nil {
		defer func() { _ = watcher.Close() }()
		if werr := watcher.Add(filepath.Dir(path)); werr == nil {
			fsEvents = watcher.Events
			fsErrors = watcher.Errors
		}
	}

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-fsEvents:
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if err := t.drain(ctx, entries); err != nil {
				return err
			}
		case <-fsErrors:
			// Watch degraded; the ticker keeps the stream alive.
		case <-ticker.C:
			if err := t.drain(ctx, entries); err != nil {
				return err
			}
		}
	}
}

// tailer tracks the read position inside a followed file.
type tailer struct {
	viewer  *Viewer
	path    string
	file    *os.File
	reader  *bufio.Reader
	pending string // partial line seen before its newline arrived
}

func (t *tailer) close() {
	if t.file != nil {
		_ = t.file.Close()
	}
}

// drain reads everything currently available, forwarding matching
// entries. At end of data it checks whether the path was rotated out
// from under the open file.
func (t *tailer) drain(ctx context.Context, entries chan<- Entry) error {
	for {
		chunk, err := t.reader.ReadString('\n')
		if err != nil {
			t.pending += chunk
			return t.maybeReopen()
		}

		line := strings.TrimSuffix(t.pending+chunk, "\n")
		t.pending = ""
		if line == "" {
			continue
		}

		entry := t.viewer.parseLine(line)
		if !t.viewer.matchesFilter(entry) {
			continue
		}
		select {
		case entries <- entry:
		case <-ctx.Done():
			return nil
		}
	}
}

// maybeReopen reopens the path when rotation has replaced the file we
// hold open. A transiently missing file is left for the next wake.
func (t *tailer) maybeReopen() error {
	current, err := os.Stat(t.path)
	if err != nil {
		return nil
	}
	held, err := t.file.Stat()
	if err == nil && os.SameFile(current, held) {
		return nil
	}

	file, err := os.Open(t.path)
	if err != nil {
		return nil
	}
	_ = t.file.Close()
	t.file = file
	t.reader = bufio.NewReader(file)
	t.pending = ""
	return nil
}
