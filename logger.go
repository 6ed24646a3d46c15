package snowlog

import (
	"sync"
	"sync/atomic"
)

// Logger routes formatted lines to an ordered list of sinks. Admission
// is gated by a minimum severity, adjustable at runtime; records at or
// above the flush threshold force a synchronous flush of every sink.
// Routing and flushing run under one lock, so concurrent callers never
// interleave partial lines.
type Logger struct {
	min     atomic.Int32
	flushAt Severity

	mu    sync.Mutex
	sinks []Sink
}

// New builds a Logger over sinks, in routing order. min gates record
// admission; flushAt is the severity at or above which every sink is
// flushed after a record is routed. The flush threshold is fixed for
// the logger's lifetime.
func New(min, flushAt Severity, sinks ...Sink) *Logger {
	l := &Logger{flushAt: flushAt, sinks: sinks}
	l.min.Store(int32(min))
	return l
}

// Enabled reports whether records at sev are currently admitted.
// Lock-free; safe from any goroutine.
func (l *Logger) Enabled(sev Severity) bool {
	return sev >= Severity(l.min.Load())
}

// SetLevel adjusts the minimum severity. Records already being routed
// are unaffected.
func (l *Logger) SetLevel(sev Severity) {
	l.min.Store(int32(sev))
}

// Level returns the current minimum severity.
func (l *Logger) Level() Severity {
	return Severity(l.min.Load())
}

// Emit routes one formatted line to every sink in order, then flushes
// all sinks when sev reaches the flush threshold. Sink errors are
// swallowed: logging never fails its caller. Admission is the caller's
// job; Emit routes unconditionally.
func (l *Logger) Emit(sev Severity, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sinks {
		_ = s.Emit(line)
	}
	if sev >= l.flushAt {
		for _, s := range l.sinks {
			_ = s.Flush()
		}
	}
}

// Flush flushes every sink.
func (l *Logger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sinks {
		_ = s.Flush()
	}
}

// Close flushes and closes every sink and detaches them. Further Emit
// calls become no-ops.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sinks {
		_ = s.Flush()
		_ = s.Close()
	}
	l.sinks = nil
}
