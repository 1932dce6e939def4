package device

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ElvBry/samplelog/pkg/flashlog"
	"github.com/ElvBry/samplelog/pkg/uart"
	"github.com/stretchr/testify/require"
)

func startLogging(t *testing.T, part *flashlog.MemPartition) *flashlog.Store {
	t.Helper()
	store, err := flashlog.Open(part)
	require.NoError(t, err)
	s := store.Settings()
	s.State = flashlog.StateLogging
	s.LoggingPeriodMS = MinLoggingPeriodMS
	require.NoError(t, store.PersistSettings(s))
	return store
}

func runDevice(t *testing.T, dev *Device) (entries <-chan flashlog.Entry, stop func()) {
	t.Helper()
	ch := make(chan flashlog.Entry, 64)
	dev.Telemetry = ch
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dev.Run(ctx)
		close(done)
	}()
	return ch, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("device loop did not stop")
		}
	}
}

func TestLoggingLoopAppends(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store := startLogging(t, part)

	out := &syncBuffer{}
	commands := make(chan uart.Command, uart.CommandQueueSize)
	dev, err := New(store, uart.NewGate(out), commands,
		SourceFunc(func() (float32, error) { return 42.5, nil }),
		NewMonotonicClock())
	require.NoError(t, err)

	entries, stop := runDevice(t, dev)
	for i := 0; i < 3; i++ {
		select {
		case e := <-entries:
			require.Equal(t, float32(42.5), e.Value)
		case <-time.After(time.Second):
			t.Fatal("no entry logged")
		}
	}
	stop()

	require.GreaterOrEqual(t, store.Written(), uint32(3))
}

func TestSensorErrorUsesSentinel(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store := startLogging(t, part)

	commands := make(chan uart.Command, uart.CommandQueueSize)
	dev, err := New(store, uart.NewGate(&syncBuffer{}), commands,
		SourceFunc(func() (float32, error) { return 0, errors.New("sensor gone") }),
		NewMonotonicClock())
	require.NoError(t, err)

	entries, stop := runDevice(t, dev)
	defer stop()

	select {
	case e := <-entries:
		require.Equal(t, SentinelValue, e.Value)
	case <-time.After(time.Second):
		t.Fatal("no entry logged")
	}
}

func TestStopCommandWhileLogging(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store := startLogging(t, part)

	out := &syncBuffer{}
	commands := make(chan uart.Command, uart.CommandQueueSize)
	dev, err := New(store, uart.NewGate(out), commands,
		SourceFunc(func() (float32, error) { return 1, nil }),
		NewMonotonicClock())
	require.NoError(t, err)

	entries, stop := runDevice(t, dev)
	<-entries
	commands <- uart.Command{Str: "stop", Size: 4}

	// The IDLE banner marks the loop parked on the command channel.
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "IDLE - Type 'help'")
	}, time.Second, 10*time.Millisecond)
	stop()

	reopened, err := flashlog.Open(part)
	require.NoError(t, err)
	require.Equal(t, flashlog.StateIdle, reopened.Settings().State)
}

// flakyWriter drops writes while stalled, like a wedged tx line.
type flakyWriter struct {
	mu      sync.Mutex
	stalled bool
	fails   int
	buf     strings.Builder
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stalled {
		w.fails++
		return 0, errors.New("tx stalled")
	}
	return w.buf.Write(p)
}

func (w *flakyWriter) failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fails
}

func (w *flakyWriter) recover() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stalled = false
}

func (w *flakyWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestSendFailureDoesNotStopLoop(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store, err := flashlog.Open(part)
	require.NoError(t, err)

	out := &flakyWriter{stalled: true}
	commands := make(chan uart.Command, uart.CommandQueueSize)
	dev, err := New(store, uart.NewGate(out), commands,
		SourceFunc(func() (float32, error) { return 1, nil }),
		NewMonotonicClock())
	require.NoError(t, err)

	_, stop := runDevice(t, dev)
	defer stop()

	// Both the IDLE banner and the help response are lost on the
	// stalled transport.
	commands <- uart.Command{Str: "help", Size: 4}
	require.Eventually(t, func() bool {
		return out.failures() >= 2
	}, time.Second, 10*time.Millisecond)

	out.recover()
	commands <- uart.Command{Str: "info", Size: 4}
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "System Information:")
	}, time.Second, 10*time.Millisecond)
	require.NotContains(t, out.String(), "Available commands")
}

func TestSpliceGapSeeding(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store := startLogging(t, part)
	require.NoError(t, store.Append(flashlog.Entry{TimestampMS: 1000, Value: 1}))

	// Simulated reboot: a fresh store over the same partition.
	store2, err := flashlog.Open(part)
	require.NoError(t, err)

	commands := make(chan uart.Command, uart.CommandQueueSize)
	clock := &fakeClock{}
	dev, err := New(store2, uart.NewGate(&syncBuffer{}), commands,
		SourceFunc(func() (float32, error) { return 1, nil }), clock)
	require.NoError(t, err)

	entries, stop := runDevice(t, dev)
	defer stop()

	select {
	case e := <-entries:
		require.Equal(t, 1000+flashlog.DataSpliceGapMS, e.TimestampMS)
	case <-time.After(time.Second):
		t.Fatal("no entry logged")
	}
}

func TestErrorStateOnlyAcceptsReset(t *testing.T) {
	part := flashlog.NewMemPartition(flashlog.LogStart+4*64, 64)
	store, err := flashlog.Open(part)
	require.NoError(t, err)
	s := store.Settings()
	s.State = flashlog.StateError
	require.NoError(t, store.PersistSettings(s))

	out := &syncBuffer{}
	commands := make(chan uart.Command, uart.CommandQueueSize)
	dev, err := New(store, uart.NewGate(out), commands,
		SourceFunc(func() (float32, error) { return 1, nil }),
		NewMonotonicClock())
	require.NoError(t, err)

	_, stop := runDevice(t, dev)
	commands <- uart.Command{Str: "start", Size: 5}
	commands <- uart.Command{Str: "reset", Size: 5}

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "IDLE - Type 'help'")
	}, time.Second, 10*time.Millisecond)
	require.Contains(t, out.String(), "ERROR state - Type 'reset' to recover")
	stop()

	reopened, err := flashlog.Open(part)
	require.NoError(t, err)
	require.Equal(t, flashlog.StateIdle, reopened.Settings().State)
}
