package uart

// TimerAction defines what to do with the inactivity timer.
type TimerAction int

const (
	// TimerNoChange indicates keep the timer as-is.
	TimerNoChange TimerAction = iota
	// TimerRestart to restart the timer.
	TimerRestart
	// TimerStop to stop/cancel the timer.
	TimerStop
)

// DropReason explains why buffered input was discarded.
type DropReason int

const (
	// DropNone means nothing was discarded.
	DropNone DropReason = iota
	// DropTooLong means the line exceeded MaxCommandLen-1 bytes.
	DropTooLong
	// DropTimeout means the inactivity window expired mid-line.
	DropTimeout
)

// Result indicates what to do after one framing step.
type Result struct {
	// Echo holds bytes to write back to the transport.
	Echo []byte
	// Command is the completed command, if any.
	Command *Command
	// Flush requests discarding all unread transport input.
	Flush bool
	// Drop reports discarded input for diagnostics.
	Drop DropReason
	// Timer tells the event loop what to do with the inactivity timer.
	Timer TimerAction
}

// Framer consumes one byte at a time and assembles command lines.
// Implementations are pure state machines with no locking: they must be
// driven from exactly one goroutine.
type Framer interface {
	// Feed consumes one received byte.
	Feed(b byte) Result
	// Timeout notifies the framer that the inactivity timer expired.
	Timeout() Result
	// Reset drops all accumulated state.
	Reset()
}

func printable(b byte) bool {
	return b >= 0x20 && b <= 0x7e
}

func isTerminator(b byte) bool {
	return b == '\r' || b == '\n'
}

var echoCRLF = []byte{'\r', '\n'}

// LineFramer is the dual-terminator framing policy: both CR and LF end
// a command, so CR, LF, CRLF and LFCR line endings all work. An
// over-long line switches the framer into a discard state until the
// next terminator; the line is dropped, not truncated.
type LineFramer struct {
	buf      [MaxCommandLen - 1]byte
	length   int
	overflow bool
}

// Feed implements Framer.
func (f *LineFramer) Feed(b byte) (r Result) {
	if isTerminator(b) {
		// Echo CRLF regardless of which terminator arrived so the
		// terminal returns to column 0 on a new line.
		r.Echo = echoCRLF
		if f.overflow {
			r.Drop = DropTooLong
		} else if f.length > 0 {
			r.Command = &Command{Str: string(f.buf[:f.length]), Size: f.length}
		}
		f.Reset()
		return
	}

	if f.overflow {
		// Keep echoing so the user sees what was typed, but the line
		// is already doomed.
		if printable(b) {
			r.Echo = []byte{b}
		}
		return
	}

	if !printable(b) {
		// Neither echoed nor buffered.
		return
	}

	if f.length < len(f.buf) {
		f.buf[f.length] = b
		f.length++
		r.Echo = []byte{b}
		return
	}

	// Buffer full. The byte itself is neither stored nor echoed.
	f.overflow = true
	return
}

// Timeout implements Framer. LineFramer does not use the timer.
func (f *LineFramer) Timeout() Result {
	return Result{}
}

// Reset implements Framer.
func (f *LineFramer) Reset() {
	f.length = 0
	f.overflow = false
}
