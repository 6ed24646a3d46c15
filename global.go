package snowlog

import (
	"io"
	"sync"
	"sync/atomic"
)

// Config controls Init. The zero value works, but callers normally
// start from DefaultConfig and override what they need.
type Config struct {
	// FilePath enables the rotating file sink when non-empty.
	FilePath string

	// MaxFileBytes is the file sink's rotation threshold. Zero or
	// negative means 10 MiB.
	MaxFileBytes int64

	// MaxFiles is the number of rotated backups kept. Zero or negative
	// means 5.
	MaxFiles int

	// MinLevel names the lowest admitted severity: "info", "warning",
	// "error", or "fatal". Empty or unknown means "info".
	MinLevel string

	// FlushLevel names the severity at or above which every sink is
	// flushed after a record routes. Empty or unknown means "warning".
	FlushLevel string

	// NoColor disables console colorization even on a terminal.
	NoColor bool

	// ConsoleOut overrides the console stream; nil means os.Stdout.
	ConsoleOut io.Writer
}

// DefaultConfig returns the standard configuration: console only until
// FilePath is set, INFO admission, flush at WARNING, 10 MiB rotation
// with 5 backups.
func DefaultConfig() Config {
	return Config{
		MaxFileBytes: 10 * 1024 * 1024,
		MaxFiles:     5,
		MinLevel:     "info",
		FlushLevel:   "warning",
	}
}

var (
	lifecycleMu sync.Mutex
	active      atomic.Pointer[Logger]
)

// Init builds the process-wide logger from cfg and installs it. Any
// previously installed logger is flushed, closed, and its file lock
// released before the replacement's sinks are built, so a re-Init may
// carry the same FilePath. Init does not fail: a file sink that cannot
// be constructed degrades Init to console-only and reports the cause
// as a WARNING record.
//
// Init and Shutdown serialize against each other but not against
// records in flight; a record issued while Init is replacing the
// logger may land on either configuration or be dropped. Callers
// sequence lifecycle changes against their own logging.
func Init(cfg Config) {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 10 * 1024 * 1024
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 5
	}

	minSev := SeverityInfo
	if sev, err := ParseSeverity(cfg.MinLevel); cfg.MinLevel != "" && err == nil {
		minSev = sev
	}
	flushSev := SeverityWarning
	if sev, err := ParseSeverity(cfg.FlushLevel); cfg.FlushLevel != "" && err == nil {
		flushSev = sev
	}

	// Retire the outgoing logger before building sinks: its file sink
	// holds the path lock the replacement may need.
	if prev := active.Swap(nil); prev != nil {
		prev.Close()
	}

	sinks := []Sink{NewConsoleSink(cfg.ConsoleOut, cfg.NoColor)}
	var degraded error
	if cfg.FilePath != "" {
		fs, err := NewFileSink(cfg.FilePath, cfg.MaxFileBytes, cfg.MaxFiles)
		if err != nil {
			degraded = err
		} else {
			sinks = append(sinks, fs)
		}
	}

	logger := New(minSev, flushSev, sinks...)
	active.Store(logger)
	if degraded != nil {
		logger.Warning().Msgf("file sink unavailable, continuing console-only: %v", degraded)
	}
}

// Shutdown flushes and closes the active logger and returns the
// package to the uninitialized state, where logging is a silent no-op.
func Shutdown() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if prev := active.Swap(nil); prev != nil {
		prev.Close()
	}
}

// Active returns the installed logger, or nil before Init and after
// Shutdown.
func Active() *Logger {
	return active.Load()
}

// SetLevel adjusts the active logger's minimum severity. No-op when
// uninitialized.
func SetLevel(sev Severity) {
	if l := active.Load(); l != nil {
		l.SetLevel(sev)
	}
}

// Flush flushes every sink of the active logger. No-op when
// uninitialized.
func Flush() {
	if l := active.Load(); l != nil {
		l.Flush()
	}
}

// Info starts an INFO record on the active logger. Uninitialized or
// below the minimum severity, it returns the nil no-op builder.
func Info() *Record { return active.Load().record(SeverityInfo, 2) }

// Warning starts a WARNING record on the active logger.
func Warning() *Record { return active.Load().record(SeverityWarning, 2) }

// Error starts an ERROR record on the active logger.
func Error() *Record { return active.Load().record(SeverityError, 2) }

// Fatal starts a FATAL record on the active logger. Finalizing it
// terminates the process even when the package is uninitialized.
func Fatal() *Record { return active.Load().record(SeverityFatal, 2) }

// InfoIf starts an INFO record when cond is true.
func InfoIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return active.Load().record(SeverityInfo, 2)
}

// WarningIf starts a WARNING record when cond is true.
func WarningIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return active.Load().record(SeverityWarning, 2)
}

// ErrorIf starts an ERROR record when cond is true.
func ErrorIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return active.Load().record(SeverityError, 2)
}

// FatalIf starts a FATAL record when cond is true. False means no
// record and no termination.
func FatalIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return active.Load().record(SeverityFatal, 2)
}
