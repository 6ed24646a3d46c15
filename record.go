package snowlog

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// osExit terminates the process after a fatal record. Package tests
// swap it out to observe the exit instead of dying.
var osExit = os.Exit

// Record accumulates one log message through chained appends and emits
// it when finalized with Msg, Msgf, or Send. A nil *Record is a valid
// no-op builder: every method returns immediately, so a call site
// below the minimum severity pays only the admission check.
//
// The source location is captured when the record is created; the
// timestamp and goroutine id when it is finalized.
type Record struct {
	logger *Logger
	sev    Severity
	file   string
	line   int
	buf    []byte
}

// record starts a builder for sev, or returns nil when sev is not
// admitted. Fatal records are always constructed, even with no logger:
// finalizing a fatal record must terminate the process no matter how
// logging is configured. callerSkip addresses the frame that created
// the record.
func (l *Logger) record(sev Severity, callerSkip int) *Record {
	if l == nil || !l.Enabled(sev) {
		if sev != SeverityFatal {
			return nil
		}
	}

	r := &Record{logger: l, sev: sev}
	var ok bool
	if _, r.file, r.line, ok = runtime.Caller(callerSkip); !ok {
		r.file, r.line = "???", 0
	}
	return r
}

// Info starts an INFO record. Returns a nil no-op builder when INFO is
// below the logger's minimum severity.
func (l *Logger) Info() *Record { return l.record(SeverityInfo, 2) }

// Warning starts a WARNING record.
func (l *Logger) Warning() *Record { return l.record(SeverityWarning, 2) }

// Error starts an ERROR record.
func (l *Logger) Error() *Record { return l.record(SeverityError, 2) }

// Fatal starts a FATAL record. Finalizing it flushes every sink and
// terminates the process, with or without output.
func (l *Logger) Fatal() *Record { return l.record(SeverityFatal, 2) }

// InfoIf starts an INFO record when cond is true; otherwise it returns
// the nil builder and nothing attached to the record runs.
func (l *Logger) InfoIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return l.record(SeverityInfo, 2)
}

// WarningIf starts a WARNING record when cond is true.
func (l *Logger) WarningIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return l.record(SeverityWarning, 2)
}

// ErrorIf starts an ERROR record when cond is true.
func (l *Logger) ErrorIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return l.record(SeverityError, 2)
}

// FatalIf starts a FATAL record when cond is true. A false cond means
// no record and no termination.
func (l *Logger) FatalIf(cond bool) *Record {
	if !cond {
		return nil
	}
	return l.record(SeverityFatal, 2)
}

// Str appends s to the message.
func (r *Record) Str(s string) *Record {
	if r == nil {
		return r
	}
	r.buf = append(r.buf, s...)
	return r
}

// Int appends the decimal rendering of v.
func (r *Record) Int(v int) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendInt(r.buf, int64(v), 10)
	return r
}

// Int64 appends the decimal rendering of v.
func (r *Record) Int64(v int64) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendInt(r.buf, v, 10)
	return r
}

// Uint64 appends the decimal rendering of v.
func (r *Record) Uint64(v uint64) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendUint(r.buf, v, 10)
	return r
}

// Float64 appends v in the shortest representation that round-trips.
func (r *Record) Float64(v float64) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendFloat(r.buf, v, 'g', -1, 64)
	return r
}

// Float32 appends v in the shortest representation that round-trips.
func (r *Record) Float32(v float32) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendFloat(r.buf, float64(v), 'g', -1, 32)
	return r
}

// Bool appends "true" or "false".
func (r *Record) Bool(v bool) *Record {
	if r == nil {
		return r
	}
	r.buf = strconv.AppendBool(r.buf, v)
	return r
}

// Err appends err.Error(), or "<nil>" for a nil error.
func (r *Record) Err(err error) *Record {
	if r == nil {
		return r
	}
	if err == nil {
		r.buf = append(r.buf, "<nil>"...)
		return r
	}
	r.buf = append(r.buf, err.Error()...)
	return r
}

// Any appends v using fmt's default formatting.
func (r *Record) Any(v any) *Record {
	if r == nil {
		return r
	}
	r.buf = fmt.Append(r.buf, v)
	return r
}

// Ln appends a line break. The break is part of the message, so the
// continuation renders under the same record prefix.
func (r *Record) Ln() *Record {
	if r == nil {
		return r
	}
	r.buf = append(r.buf, '\n')
	return r
}

// Func runs fn against the record. On a nil record fn never runs, so
// expensive or side-effecting appends behind InfoIf and friends are
// skipped entirely when the record is disabled.
func (r *Record) Func(fn func(*Record)) *Record {
	if r == nil {
		return r
	}
	fn(r)
	return r
}

// Msg appends s and finalizes the record.
func (r *Record) Msg(s string) {
	if r == nil {
		return
	}
	r.buf = append(r.buf, s...)
	r.finish()
}

// Msgf appends the fmt.Sprintf rendering of format and finalizes the
// record.
func (r *Record) Msgf(format string, args ...any) {
	if r == nil {
		return
	}
	r.buf = fmt.Appendf(r.buf, format, args...)
	r.finish()
}

// Send finalizes the record with the message accumulated so far.
func (r *Record) Send() {
	if r == nil {
		return
	}
	r.finish()
}

// finish routes the record when it has content, then handles the fatal
// contract: flush everything and terminate. An empty record emits
// nothing, but an empty fatal record still ends the process.
func (r *Record) finish() {
	if len(r.buf) > 0 && r.logger != nil {
		line := FormatLine(r.sev, r.file, r.line, time.Now(), goroutineID(), string(r.buf))
		r.logger.Emit(r.sev, line)
	}
	if r.sev == SeverityFatal {
		if r.logger != nil {
			r.logger.Flush()
		}
		osExit(1)
	}
}
