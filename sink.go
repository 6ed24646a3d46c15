package snowlog

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Sink is a log destination. Emit receives one fully formatted line
// without a trailing newline; the sink supplies its own framing. A Sink
// is driven by a single Logger, which serializes Emit, Flush, and Close.
// Sink errors never reach logging call sites.
type Sink interface {
	Emit(line string) error
	Flush() error
	Close() error
}

// Console color palette (256-color codes).
const (
	colorYellow = "220"
	colorRed    = "196"
)

// Styles holds the per-severity styles wrapped around console lines.
// Color is applied around the formatted text, never inside it, so the
// line stays parseable.
type Styles struct {
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Fatal   lipgloss.Style
}

// DefaultStyles returns the colored console styles.
func DefaultStyles() Styles {
	return Styles{
		Info:    lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Fatal:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Info:    lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Fatal:   lipgloss.NewStyle(),
	}
}

// ConsoleSink writes formatted lines to a stream, colorized per
// severity when the stream is a terminal.
type ConsoleSink struct {
	out    io.Writer
	styles Styles
}

// NewConsoleSink creates a console sink on w; a nil w means os.Stdout.
// Color is enabled when w is a terminal, the NO_COLOR environment
// variable is unset, and noColor is false.
func NewConsoleSink(w io.Writer, noColor bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	styles := NoColorStyles()
	if !noColor && !detectNoColor() && isTTY(w) {
		styles = DefaultStyles()
	}
	return &ConsoleSink{out: w, styles: styles}
}

// Emit writes the line plus a newline. The style is selected from the
// level character that leads every formatted line.
func (s *ConsoleSink) Emit(line string) error {
	_, err := fmt.Fprintln(s.out, s.styleFor(line).Render(line))
	return err
}

// Flush is a no-op: the underlying stream is unbuffered.
func (s *ConsoleSink) Flush() error { return nil }

// Close is a no-op: the sink does not own its stream.
func (s *ConsoleSink) Close() error { return nil }

func (s *ConsoleSink) styleFor(line string) lipgloss.Style {
	if line == "" {
		return s.styles.Info
	}
	switch line[0] {
	case 'W':
		return s.styles.Warning
	case 'E':
		return s.styles.Error
	case 'F':
		return s.styles.Fatal
	}
	return s.styles.Info
}

// isTTY checks if output is a terminal.
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// detectNoColor checks if the NO_COLOR environment variable is set.
func detectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
