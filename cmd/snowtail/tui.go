package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snowbotix/snowlog/internal/view"
)

// maxTailLines bounds the scrollback kept in memory.
const maxTailLines = 2000

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type entryMsg view.Entry

type followFailedMsg struct{ err error }

// runFollowTUI follows the file inside a scrollable viewport.
func runFollowTUI(ctx context.Context, viewer *view.Viewer, path string, lines int, all bool) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	seed, err := tail(viewer, tailOptions{path: path, lines: lines, all: all})
	if err != nil {
		return err
	}

	program := tea.NewProgram(newTailModel(viewer, path, seed), tea.WithAltScreen())

	entries := make(chan view.Entry, 100)
	errCh := make(chan error, 1)
	go func() { errCh <- viewer.Follow(ctx, path, entries) }()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry := <-entries:
				program.Send(entryMsg(entry))
			case err := <-errCh:
				if err != nil {
					program.Send(followFailedMsg{err})
				}
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	final, err := program.Run()
	cancel()
	if err != nil {
		return err
	}
	if m, ok := final.(*tailModel); ok && m.err != nil {
		return fmt.Errorf("follow failed: %w", m.err)
	}
	return nil
}

// tailModel is the bubbletea model for follow mode.
type tailModel struct {
	viewer   *view.Viewer
	path     string
	viewport viewport.Model
	lines    []string
	ready    bool
	follow   bool // stick to the bottom as entries arrive
	quitting bool
	err      error
}

func newTailModel(viewer *view.Viewer, path string, seed []view.Entry) *tailModel {
	m := &tailModel{viewer: viewer, path: path, follow: true}
	for _, entry := range seed {
		m.lines = append(m.lines, viewer.FormatEntry(entry))
	}
	return m
}

// Init implements tea.Model.
func (m *tailModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *tailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "end", "G":
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		// One line of header, one of footer.
		height := msg.Height - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil

	case entryMsg:
		m.lines = append(m.lines, m.viewer.FormatEntry(view.Entry(msg)))
		if len(m.lines) > maxTailLines {
			m.lines = m.lines[len(m.lines)-maxTailLines:]
		}
		m.refresh()
		return m, nil

	case followFailedMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	// Scrolling away from the bottom pauses following.
	m.follow = m.viewport.AtBottom()
	return m, cmd
}

func (m *tailModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View implements tea.Model.
func (m *tailModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("snowtail • " + m.path)
	if !m.follow {
		header += dimStyle.Render("  (scrolled, press end to resume)")
	}
	footer := dimStyle.Render("q to quit  •  ↑/↓ scroll  •  end to follow")

	return header + "\n" + m.viewport.View() + "\n" + footer
}
