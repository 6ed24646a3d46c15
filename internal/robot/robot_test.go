package robot

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowbotix/snowlog"
)

// captureSink collects formatted lines for assertions.
type captureSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *captureSink) Emit(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *captureSink) Flush() error { return nil }
func (s *captureSink) Close() error { return nil }

func (s *captureSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *captureSink) joined() string {
	return strings.Join(s.all(), "\n")
}

func newTestLogger() (*snowlog.Logger, *captureSink) {
	sink := &captureSink{}
	return snowlog.New(snowlog.SeverityInfo, snowlog.SeverityWarning, sink), sink
}

func TestVec3String(t *testing.T) {
	assert.Equal(t, "(1, 2, 3)", Vec3{1, 2, 3}.String())
	assert.Equal(t, "(0.1, 0.2, 0.3)", Vec3{0.1, 0.2, 0.3}.String())
	assert.Equal(t, "(0, 0, 0)", Vec3{}.String())
}

func TestControllerMove(t *testing.T) {
	logger, sink := newTestLogger()
	c := NewController(logger)

	target := Vec3{1.5, 2.5, 3.5}
	state, err := c.Process(Command{Command: "move", Target: &target})
	require.NoError(t, err)

	assert.Equal(t, target, state.Position)
	assert.Greater(t, state.Timestamp, 0.0)
	assert.Equal(t, state, c.State())

	logged := sink.joined()
	assert.Contains(t, logged, "Received command: move")
	assert.Contains(t, logged, "Move to position: (1.5, 2.5, 3.5)")
}

func TestControllerRejectsBadCommands(t *testing.T) {
	c := NewController(nil)

	_, err := c.Process(Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing command")

	_, err = c.Process(Command{Command: "move"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")

	// Failed commands leave no trace in state or history.
	assert.Equal(t, State{}, c.State())
	assert.Empty(t, c.History())
}

func TestControllerAcceptsUnknownCommands(t *testing.T) {
	c := NewController(nil)

	state, err := c.Process(Command{Command: "dance"})
	require.NoError(t, err)
	assert.Equal(t, Vec3{}, state.Position)
	assert.Greater(t, state.Timestamp, 0.0)
}

func TestControllerHistoryOrder(t *testing.T) {
	c := NewController(nil)

	for _, name := range []string{"dock", "undock", "dance"} {
		_, err := c.Process(Command{Command: name})
		require.NoError(t, err)
	}

	history := c.History()
	require.Len(t, history, 3)
	for i, want := range []string{"dock", "undock", "dance"} {
		assert.Equal(t, i+1, history[i].Seq)
		assert.Equal(t, want, history[i].Command)
		assert.Greater(t, history[i].Received, 0.0)
	}
}

func TestControllerHistoryBounded(t *testing.T) {
	c := NewController(nil)

	for i := 0; i < historySize+10; i++ {
		_, err := c.Process(Command{Command: "ping"})
		require.NoError(t, err)
	}

	history := c.History()
	require.Len(t, history, historySize)
	// The oldest entries were evicted.
	assert.Equal(t, 11, history[0].Seq)
	assert.Equal(t, historySize+10, history[len(history)-1].Seq)
}
