package uart

import (
	"io"
	"sync"
)

// Gate serializes outbound writes to the transport. Both the command
// responder and the periodic logger write through the same Gate, so at
// most one write is in flight at any time.
type Gate struct {
	w    io.Writer
	lock sync.Mutex
}

// NewGate creates a Gate over a transport writer.
func NewGate(w io.Writer) *Gate {
	return &Gate{w: w}
}

// Send writes all bytes under the lock. It reports an error unless
// every byte was accepted by the driver.
func (g *Gate) Send(data []byte) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	n, err := g.w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// SendString is a convenience form of Send.
func (g *Gate) SendString(s string) error {
	return g.Send([]byte(s))
}
