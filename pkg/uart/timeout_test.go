package uart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeoutFramerBasic(t *testing.T) {
	f := &TimeoutFramer{Terminator: '\n'}

	r := f.Feed('h')
	require.Equal(t, TimerRestart, r.Timer)
	require.Equal(t, []byte{'h'}, r.Echo)
	require.Nil(t, r.Command)

	f.Feed('i')
	r = f.Feed('\n')
	require.Equal(t, TimerStop, r.Timer)
	require.NotNil(t, r.Command)
	require.Equal(t, "hi", r.Command.Str)
	require.Equal(t, 2, r.Command.Size)
}

func TestTimeoutFramerEmptyLine(t *testing.T) {
	f := &TimeoutFramer{}
	r := f.Feed('\n')
	require.Nil(t, r.Command)
	require.True(t, r.Flush)
	require.Equal(t, TimerStop, r.Timer)
}

func TestTimeoutFramerInactivity(t *testing.T) {
	f := &TimeoutFramer{}
	f.Feed('p')
	f.Feed('a')

	r := f.Timeout()
	require.True(t, r.Flush)
	require.Equal(t, DropTimeout, r.Drop)
	require.Equal(t, TimerStop, r.Timer)

	// Partial input is gone, the next line frames from scratch.
	_, cmds, _ := feedAll(f, "info\n")
	require.Equal(t, []string{"info"}, cmds)
}

func TestTimeoutFramerIdleTimeout(t *testing.T) {
	f := &TimeoutFramer{}
	r := f.Timeout()
	require.True(t, r.Flush)
	require.Equal(t, DropNone, r.Drop)
}

func TestTimeoutFramerTooLong(t *testing.T) {
	f := &TimeoutFramer{}
	fill := strings.Repeat("x", MaxCommandLen-1)
	_, cmds, drops := feedAll(f, fill)
	require.Empty(t, cmds)
	require.Empty(t, drops)

	r := f.Feed('y')
	require.True(t, r.Flush)
	require.Equal(t, DropTooLong, r.Drop)
	require.Equal(t, TimerStop, r.Timer)
}

// Over-long line tail behavior, deliberately pinned rather than fixed:
// bytes arriving after the buffer-full flush but before the next
// terminator become the start of the next command.
func TestTimeoutFramerOverlongTail(t *testing.T) {
	f := &TimeoutFramer{}
	feedAll(f, strings.Repeat("x", MaxCommandLen)) // fill plus trigger byte

	_, cmds, _ := feedAll(f, "tail\n")
	require.Equal(t, []string{"tail"}, cmds)
}

func TestTimeoutFramerNonPrintable(t *testing.T) {
	f := &TimeoutFramer{}
	r := f.Feed(0x01)
	require.Empty(t, r.Echo)
	// Not an accepted character: the timer must not be re-armed.
	require.Equal(t, TimerNoChange, r.Timer)
}
