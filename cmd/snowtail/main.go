// Package main provides the snowtail command - a viewer for snowlog
// log files.
//
// Usage:
//
//	snowtail [file] [flags]
//
// Flags:
//
//	-f, --follow         Follow log output (like tail -f)
//	-n, --lines int      Number of lines to show (default 50)
//	-a, --all            Include rotated generations (file.1, file.2, ...)
//	    --level string   Filter by severity (info|warning|error|fatal)
//	    --filter string  Filter by pattern (regex)
//	    --no-color       Disable colored output
//	    --no-tui         Plain streaming output in follow mode
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	isatty "github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/snowbotix/snowlog/internal/view"
	"github.com/snowbotix/snowlog/pkg/version"
)

const defaultLogFile = "robot.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		follow  bool
		lines   int
		all     bool
		level   string
		filter  string
		noColor bool
		noTUI   bool
	)

	cmd := &cobra.Command{
		Use:   "snowtail [file]",
		Short: "View snowlog log files",
		Long: `View and tail log files written in the snowlog line format.

By default, shows the last 50 lines of robot.log in the current
directory. Use -f to follow new entries in real-time (like 'tail -f');
on a terminal this opens a scrollable viewer, elsewhere it streams
plain lines.

Examples:
  snowtail                        # Show last 50 lines of robot.log
  snowtail /var/log/robot.log     # Show a specific file
  snowtail -n 100                 # Show last 100 lines
  snowtail -a                     # Include rotated generations
  snowtail -f                     # Follow in real-time
  snowtail --level error          # Show only errors and worse
  snowtail --filter "command"     # Filter by pattern`,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultLogFile
			if len(args) > 0 {
				path = args[0]
			}
			return runTail(cmd.Context(), tailOptions{
				path:    path,
				follow:  follow,
				lines:   lines,
				all:     all,
				level:   level,
				filter:  filter,
				noColor: noColor,
				noTUI:   noTUI,
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include rotated generations")
	cmd.Flags().StringVar(&level, "level", "", "Filter by severity (info|warning|error|fatal)")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter by keyword/pattern (regex)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Plain streaming output in follow mode")

	return cmd
}

type tailOptions struct {
	path    string
	follow  bool
	lines   int
	all     bool
	level   string
	filter  string
	noColor bool
	noTUI   bool
}

func runTail(ctx context.Context, opts tailOptions) error {
	var pattern *regexp.Regexp
	if opts.filter != "" {
		var err error
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	viewer := view.NewViewer(view.Config{
		MinLevel: opts.level,
		Pattern:  pattern,
		NoColor:  opts.noColor,
	}, os.Stdout)

	if opts.follow {
		if !opts.noTUI && stdoutIsTTY() {
			return runFollowTUI(ctx, viewer, opts.path, opts.lines, opts.all)
		}
		return runFollowPlain(ctx, viewer, opts.path, opts.lines, opts.all)
	}

	entries, err := tail(viewer, opts)
	if err != nil {
		return err
	}
	viewer.Print(entries)
	return nil
}

func tail(viewer *view.Viewer, opts tailOptions) ([]view.Entry, error) {
	if opts.all {
		return viewer.TailAll(opts.path, opts.lines)
	}
	return viewer.Tail(opts.path, opts.lines)
}

// runFollowPlain streams entries as plain lines until interrupted.
func runFollowPlain(ctx context.Context, viewer *view.Viewer, path string, lines int, all bool) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Log file: %s\n", path)
	fmt.Fprintln(os.Stderr, "Following... (Ctrl+C to stop)")
	fmt.Fprintln(os.Stderr, "---")

	// Seed with the recent history before streaming.
	if seed, err := tail(viewer, tailOptions{path: path, lines: lines, all: all}); err == nil {
		viewer.Print(seed)
	}

	entries := make(chan view.Entry, 100)
	errCh := make(chan error, 1)
	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			fmt.Println(viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\n---")
			fmt.Fprintln(os.Stderr, "Stopped.")
			return nil
		}
	}
}

func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
