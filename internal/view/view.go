// Package view parses, filters, and renders log files written in the
// snowlog line format.
package view

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/snowbotix/snowlog"
	"github.com/snowbotix/snowlog/internal/rotate"
)

// entryRe captures the components of one formatted line: level char,
// date, time, goroutine id, source location, message.
var entryRe = regexp.MustCompile(`^([IWEF])(\d{4})(\d{2})(\d{2}) (\d{2}):(\d{2}):(\d{2})\.(\d{6}) (\d+) (.+?):(\d+)\] (.*)$`)

// Entry is one parsed log line.
type Entry struct {
	Time      time.Time
	Severity  snowlog.Severity
	Goroutine uint64
	File      string
	Line      int
	Msg       string
	Raw       string // original line
	IsValid   bool   // whether parsing succeeded
}

// Config configures the viewer.
type Config struct {
	MinLevel string         // lowest severity to show (info|warning|error|fatal)
	Pattern  *regexp.Regexp // raw-line filter
	NoColor  bool
}

// Viewer provides log viewing and filtering.
type Viewer struct {
	config Config
	minSev snowlog.Severity
	hasMin bool
	styles snowlog.Styles
	out    io.Writer
}

// NewViewer creates a viewer writing rendered entries to out.
func NewViewer(cfg Config, out io.Writer) *Viewer {
	v := &Viewer{
		config: cfg,
		styles: snowlog.NoColorStyles(),
		out:    out,
	}
	if !cfg.NoColor {
		v.styles = snowlog.DefaultStyles()
	}
	if cfg.MinLevel != "" {
		if sev, err := snowlog.ParseSeverity(cfg.MinLevel); err == nil {
			v.minSev = sev
			v.hasMin = true
		}
	}
	return v
}

// Tail returns the entries of the last n matching lines of the file.
// n <= 0 means all matching lines.
func (v *Viewer) Tail(path string, n int) ([]Entry, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range lines {
		entry := v.parseLine(line)
		if v.matchesFilter(entry) {
			entries = append(entries, entry)
		}
	}
	return lastN(entries, n), nil
}

// TailAll is Tail across the file and its rotated generations, oldest
// generation first, so the result spans rotation boundaries. Missing
// generations are skipped; it is an error only when nothing at all can
// be read.
func (v *Viewer) TailAll(path string, n int) ([]Entry, error) {
	paths := append(rotate.Backups(path), path)

	var entries []Entry
	var readAny bool
	for _, p := range paths {
		lines, err := readLines(p)
		if err != nil {
			continue
		}
		readAny = true
		for _, line := range lines {
			entry := v.parseLine(line)
			if v.matchesFilter(entry) {
				entries = append(entries, entry)
			}
		}
	}
	if !readAny {
		return nil, fmt.Errorf("no readable log files for %s", path)
	}
	return lastN(entries, n), nil
}

// Print renders entries to the viewer's output.
func (v *Viewer) Print(entries []Entry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// FormatEntry renders one entry for display. The line itself is never
// altered; valid entries gain severity coloring, unparseable lines
// pass through raw.
func (v *Viewer) FormatEntry(entry Entry) string {
	if !entry.IsValid || v.config.NoColor {
		return entry.Raw
	}
	return v.styleFor(entry.Severity).Render(entry.Raw)
}

func (v *Viewer) styleFor(sev snowlog.Severity) lipgloss.Style {
	switch sev {
	case snowlog.SeverityWarning:
		return v.styles.Warning
	case snowlog.SeverityError:
		return v.styles.Error
	case snowlog.SeverityFatal:
		return v.styles.Fatal
	}
	return v.styles.Info
}

// parseLine parses a formatted log line into an Entry. Lines that do
// not match the format come back with IsValid false and Raw set.
func (v *Viewer) parseLine(line string) Entry {
	entry := Entry{Raw: line}

	m := entryRe.FindStringSubmatch(line)
	if m == nil {
		return entry
	}

	entry.IsValid = true
	entry.Severity = severityForChar(m[1][0])

	year, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[4])
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])
	sec, _ := strconv.Atoi(m[7])
	micro, _ := strconv.Atoi(m[8])
	entry.Time = time.Date(year, time.Month(month), day, hour, minute, sec, micro*1000, time.Local)

	entry.Goroutine, _ = strconv.ParseUint(m[9], 10, 64)
	entry.File = m[10]
	entry.Line, _ = strconv.Atoi(m[11])
	entry.Msg = m[12]
	return entry
}

// matchesFilter checks an entry against the configured filters. Lines
// that failed to parse carry no severity, so a severity filter drops
// them; the pattern filter always runs against the raw line.
func (v *Viewer) matchesFilter(entry Entry) bool {
	if v.hasMin {
		if !entry.IsValid || entry.Severity < v.minSev {
			return false
		}
	}
	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}
	return true
}

func severityForChar(c byte) snowlog.Severity {
	switch c {
	case 'W':
		return snowlog.SeverityWarning
	case 'E':
		return snowlog.SeverityError
	case 'F':
		return snowlog.SeverityFatal
	}
	return snowlog.SeverityInfo
}

// readLines reads a whole file as lines, with a buffer sized for long
// entries.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return lines, nil
}

func lastN(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		return entries[len(entries)-n:]
	}
	return entries
}
