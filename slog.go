package snowlog

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// SlogHandler adapts the facade to log/slog: records handled by it
// render as the same textual lines as direct Record calls, with attrs
// appended to the message as key=value pairs. slog defines no fatal
// level, so the handler never terminates the process; Error and above
// map to ERROR.
type SlogHandler struct {
	logger *Logger
	prefix string // pre-rendered WithAttrs pairs, each " key=value"
	groups []string
}

// NewSlogHandler returns a handler routing through l. A nil l routes
// through the process-wide logger, tracking Init and Shutdown.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Slog returns a *slog.Logger over the process-wide logger. Handy as
// an argument to libraries that speak slog.
func Slog() *slog.Logger {
	return slog.New(NewSlogHandler(nil))
}

func (h *SlogHandler) active() *Logger {
	if h.logger != nil {
		return h.logger
	}
	return Active()
}

func severityForLevel(level slog.Level) Severity {
	switch {
	case level >= slog.LevelError:
		return SeverityError
	case level >= slog.LevelWarn:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	l := h.active()
	return l != nil && l.Enabled(severityForLevel(level))
}

// Handle implements slog.Handler.
func (h *SlogHandler) Handle(_ context.Context, rec slog.Record) error {
	l := h.active()
	if l == nil {
		return nil
	}
	sev := severityForLevel(rec.Level)
	if !l.Enabled(sev) {
		return nil
	}

	file, line := "???", 0
	if rec.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{rec.PC})
		if frame, _ := frames.Next(); frame.File != "" {
			file, line = frame.File, frame.Line
		}
	}

	var sb strings.Builder
	sb.WriteString(rec.Message)
	sb.WriteString(h.prefix)
	rec.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.groups, a)
		return true
	})
	msg := strings.TrimPrefix(sb.String(), " ")
	if msg == "" {
		return nil
	}

	at := rec.Time
	if at.IsZero() {
		at = time.Now()
	}
	l.Emit(sev, FormatLine(sev, file, line, at, goroutineID(), msg))
	return nil
}

// WithAttrs implements slog.Handler. Attrs are rendered eagerly into
// a prefix shared by every record the derived handler emits.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&sb, h.groups, a)
	}
	return &SlogHandler{logger: h.logger, prefix: sb.String(), groups: h.groups}
}

// WithGroup implements slog.Handler. Group names dot-qualify the keys
// of subsequent attrs.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &SlogHandler{logger: h.logger, prefix: h.prefix, groups: groups}
}

// appendAttr renders a as " key=value", dot-qualified by groups, with
// group attrs flattened recursively. Empty-keyed non-group attrs are
// dropped, as slog.TextHandler drops them.
func appendAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string{}, groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, sub, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	sb.WriteByte(' ')
	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}
