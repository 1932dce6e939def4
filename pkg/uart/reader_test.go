package uart

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// idlePort blocks in Read until closed, like a serial port with no
// traffic on the line.
type idlePort struct {
	once   sync.Once
	closed chan struct{}
}

func newIdlePort() *idlePort {
	return &idlePort{closed: make(chan struct{})}
}

func (p *idlePort) Read([]byte) (int, error) {
	<-p.closed
	return 0, errors.New("port closed")
}

func (p *idlePort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

type recordingSource struct {
	io.Reader
	closed bool
}

func (s *recordingSource) Close() error {
	s.closed = true
	return nil
}

func TestReaderCancelUnblocksRead(t *testing.T) {
	port := newIdlePort()
	events := make(chan Event, EventQueueSize)
	r := &Reader{Source: port, Events: events}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop on cancel")
	}
}

func TestReaderPumpsAndClosesOnEOF(t *testing.T) {
	src := &recordingSource{Reader: strings.NewReader("abc")}
	events := make(chan Event, EventQueueSize)
	r := &Reader{Source: src, Events: events}

	require.NoError(t, r.Run(context.Background()))

	ev := <-events
	require.Equal(t, EventData, ev.Kind)
	require.Equal(t, []byte("abc"), ev.Data)
	require.True(t, src.closed)
}
