package snowlog

import (
	"fmt"
	"strings"
)

// Severity classifies log records. The order is total and fixed:
// Info < Warning < Error < Fatal.
type Severity int32

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{"INFO", "WARNING", "ERROR", "FATAL"}

var severityChars = [...]byte{'I', 'W', 'E', 'F'}

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityFatal {
		return fmt.Sprintf("SEVERITY(%d)", int32(s))
	}
	return severityNames[s]
}

// Char returns the single-letter prefix used in the textual log format.
func (s Severity) Char() byte {
	if s < SeverityInfo || s > SeverityFatal {
		return '?'
	}
	return severityChars[s]
}

// ParseSeverity maps a severity name to its value. Names match
// case-insensitively; "warn" is accepted as an alias for "warning".
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "fatal":
		return SeverityFatal, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}
