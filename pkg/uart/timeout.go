package uart

// TimeoutFramer is the single-terminator framing policy: one configured
// terminator byte ends a command, and every accepted byte re-arms an
// inactivity timer. When the timer fires the unread transport input is
// flushed and the partial line is silently discarded.
//
// Unlike LineFramer there is no discard state for over-long lines: on
// buffer-full the framer flushes and resets immediately, so bytes of
// the same line arriving after the flush start the next command. See
// DESIGN.md before hardening this.
type TimeoutFramer struct {
	// Terminator ends a command. Defaults to LF when zero.
	Terminator byte

	buf    [MaxCommandLen - 1]byte
	length int
}

func (f *TimeoutFramer) terminator() byte {
	if f.Terminator == 0 {
		return '\n'
	}
	return f.Terminator
}

// Feed implements Framer.
func (f *TimeoutFramer) Feed(b byte) (r Result) {
	if b == f.terminator() {
		r.Echo = echoCRLF
		r.Timer = TimerStop
		if f.length == 0 {
			// Nothing accumulated: discard any queued input too.
			r.Flush = true
			return
		}
		r.Command = &Command{Str: string(f.buf[:f.length]), Size: f.length}
		f.Reset()
		return
	}

	if !printable(b) {
		return
	}

	if f.length < len(f.buf) {
		f.buf[f.length] = b
		f.length++
		r.Echo = []byte{b}
		r.Timer = TimerRestart
		return
	}

	// No room for this byte: give up on the whole line right away.
	r.Timer = TimerStop
	r.Flush = true
	r.Drop = DropTooLong
	f.Reset()
	return
}

// Timeout implements Framer.
func (f *TimeoutFramer) Timeout() (r Result) {
	if f.length > 0 {
		r.Drop = DropTimeout
	}
	r.Flush = true
	r.Timer = TimerStop
	f.Reset()
	return
}

// Reset implements Framer.
func (f *TimeoutFramer) Reset() {
	f.length = 0
}
