// Package robot implements the demo robot controller served by robotd.
// It exercises the logging stack end to end: every command and state
// change is logged through snowlog.
package robot

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/snowbotix/snowlog"
)

// historySize bounds the retained command history.
const historySize = 128

// Vec3 is a 3-component vector.
type Vec3 [3]float64

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

// State is the robot state exchanged over HTTP.
type State struct {
	Position  Vec3    `json:"position"`
	Velocity  Vec3    `json:"velocity"`
	Timestamp float64 `json:"timestamp"` // unix seconds of the last change
}

// Command is one control message.
type Command struct {
	Command string `json:"command"`
	Target  *Vec3  `json:"target,omitempty"`
}

// HistoryEntry records one processed command.
type HistoryEntry struct {
	Seq      int     `json:"seq"`
	Command  string  `json:"command"`
	Received float64 `json:"received"` // unix seconds
}

// Controller tracks robot state and processes commands.
type Controller struct {
	logger *snowlog.Logger

	mu      sync.Mutex
	state   State
	seq     int
	history *lru.Cache[int, HistoryEntry]
}

// NewController creates a controller at the origin. A nil logger
// disables command logging.
func NewController(logger *snowlog.Logger) *Controller {
	history, _ := lru.New[int, HistoryEntry](historySize)
	return &Controller{logger: logger, history: history}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Process applies one command and returns the resulting state.
func (c *Controller) Process(cmd Command) (State, error) {
	if cmd.Command == "" {
		return State{}, fmt.Errorf("missing command")
	}

	c.logger.Info().Msgf("Received command: %s", cmd.Command)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Command {
	case "move":
		if cmd.Target == nil {
			return State{}, fmt.Errorf("move command requires a target")
		}
		c.state.Position = *cmd.Target
		c.logger.Info().Msgf("Move to position: %s", c.state.Position)
	case "stop":
		c.state.Velocity = Vec3{}
		c.logger.Info().Msg("Stopping")
	}

	now := unixSeconds(time.Now())
	c.state.Timestamp = now

	c.seq++
	c.history.Add(c.seq, HistoryEntry{Seq: c.seq, Command: cmd.Command, Received: now})
	return c.state, nil
}

// History returns the retained commands, oldest first.
func (c *Controller) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]HistoryEntry, 0, c.history.Len())
	for _, seq := range c.history.Keys() {
		if entry, ok := c.history.Peek(seq); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
