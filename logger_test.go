package snowlog

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// memorySink records emitted lines and lifecycle calls for assertions.
type memorySink struct {
	lines   []string
	flushes int
	closed  bool
}

func (s *memorySink) Emit(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *memorySink) Flush() error {
	s.flushes++
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func TestLoggerRoutesToSinksInOrder(t *testing.T) {
	first := &memorySink{}
	second := &memorySink{}
	l := New(SeverityInfo, SeverityWarning, first, second)

	l.Emit(SeverityInfo, "one")
	l.Emit(SeverityInfo, "two")

	for _, s := range []*memorySink{first, second} {
		if len(s.lines) != 2 || s.lines[0] != "one" || s.lines[1] != "two" {
			t.Errorf("sink lines = %v, want [one two]", s.lines)
		}
	}
}

func TestLoggerFlushThreshold(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityWarning, sink)

	l.Emit(SeverityInfo, "info line")
	if sink.flushes != 0 {
		t.Errorf("INFO below threshold should not flush, got %d flushes", sink.flushes)
	}

	l.Emit(SeverityWarning, "warning line")
	if sink.flushes != 1 {
		t.Errorf("WARNING at threshold should flush once, got %d flushes", sink.flushes)
	}

	l.Emit(SeverityError, "error line")
	if sink.flushes != 2 {
		t.Errorf("ERROR above threshold should flush, got %d flushes", sink.flushes)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityWarning, sink)

	l.SetLevel(SeverityError)

	if l.Level() != SeverityError {
		t.Errorf("Level() = %v, want %v", l.Level(), SeverityError)
	}
	if r := l.Warning(); r != nil {
		t.Error("WARNING below minimum should yield a nil record")
	}

	l.Warning().Msg("dropped")
	l.Error().Msg("kept")

	if len(sink.lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(sink.lines), sink.lines)
	}
	if !strings.HasSuffix(sink.lines[0], "] kept") {
		t.Errorf("unexpected line: %q", sink.lines[0])
	}
}

func TestLoggerEnabled(t *testing.T) {
	l := New(SeverityWarning, SeverityWarning)

	if l.Enabled(SeverityInfo) {
		t.Error("INFO should be disabled at WARNING minimum")
	}
	if !l.Enabled(SeverityWarning) || !l.Enabled(SeverityFatal) {
		t.Error("WARNING and FATAL should be enabled at WARNING minimum")
	}
}

func TestLoggerCloseDetachesSinks(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityWarning, sink)

	l.Info().Msg("before close")
	l.Close()

	if !sink.closed {
		t.Error("Close should close the sink")
	}
	if sink.flushes == 0 {
		t.Error("Close should flush before closing")
	}

	l.Info().Msg("after close")
	if len(sink.lines) != 1 {
		t.Errorf("no lines should be routed after Close, got %v", sink.lines)
	}
}

func TestLoggerConcurrentRecords(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 50

	sink := &memorySink{}
	l := New(SeverityInfo, SeverityFatal, sink)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				l.Info().Msg(fmt.Sprintf("worker %d message %d", id, j))
			}
		}(i)
	}
	wg.Wait()

	if len(sink.lines) != goroutines*perGoroutine {
		t.Fatalf("expected %d lines, got %d", goroutines*perGoroutine, len(sink.lines))
	}
	for _, line := range sink.lines {
		if !lineRe.MatchString(line) {
			t.Fatalf("torn or malformed line: %q", line)
		}
	}
}
