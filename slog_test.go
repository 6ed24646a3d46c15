package snowlog

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandlerRendersFacadeLines(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityFatal, sink)
	lg := slog.New(NewSlogHandler(l))

	lg.Info("state updated", "axis", "x", "value", 1.5)

	if len(sink.lines) != 1 {
		t.Fatalf("expected 1 line, got %v", sink.lines)
	}
	line := sink.lines[0]
	if !lineRe.MatchString(line) {
		t.Fatalf("line does not match format: %q", line)
	}
	if !strings.HasSuffix(line, "] state updated axis=x value=1.5") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "slog_test.go:") {
		t.Errorf("line should carry the slog call site, got %q", line)
	}
}

func TestSlogHandlerLevelMapping(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityFatal, sink)
	lg := slog.New(NewSlogHandler(l))

	lg.Debug("low detail")
	lg.Info("normal")
	lg.Warn("careful")
	lg.Error("broken")

	if len(sink.lines) != 4 {
		t.Fatalf("expected 4 lines, got %v", sink.lines)
	}
	for i, want := range []byte{'I', 'I', 'W', 'E'} {
		if sink.lines[i][0] != want {
			t.Errorf("line %d: prefix %c, want %c (%q)", i, sink.lines[i][0], want, sink.lines[i])
		}
	}
}

func TestSlogHandlerRespectsMinimum(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityError, SeverityFatal, sink)
	lg := slog.New(NewSlogHandler(l))

	lg.Info("dropped")
	lg.Warn("dropped too")
	lg.Error("kept")

	if len(sink.lines) != 1 || !strings.HasSuffix(sink.lines[0], "] kept") {
		t.Errorf("expected only the ERROR line, got %v", sink.lines)
	}
}

func TestSlogHandlerWithAttrsAndGroups(t *testing.T) {
	sink := &memorySink{}
	l := New(SeverityInfo, SeverityFatal, sink)
	lg := slog.New(NewSlogHandler(l)).With("app", "robot").WithGroup("req")

	lg.Info("handled", "id", 7)

	if len(sink.lines) != 1 {
		t.Fatalf("expected 1 line, got %v", sink.lines)
	}
	if !strings.HasSuffix(sink.lines[0], "] handled app=robot req.id=7") {
		t.Errorf("unexpected line: %q", sink.lines[0])
	}
}

func TestSlogHandlerNilLoggerTracksGlobal(t *testing.T) {
	Shutdown()
	lg := slog.New(NewSlogHandler(nil))

	// Uninitialized: disabled and silent.
	if lg.Enabled(context.Background(), slog.LevelError) {
		t.Error("handler should be disabled with no active logger")
	}
	lg.Error("nowhere to go")
}
