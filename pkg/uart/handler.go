package uart

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Transport is the driver-facing side of the serial line. Write sends
// bytes out; FlushInput discards everything received but not yet
// consumed.
type Transport interface {
	Write(p []byte) (int, error)
	FlushInput() error
}

// Handler consumes driver events and runs a Framer. It is the only
// goroutine touching the framer state, so the framer needs no locking.
// Completed commands are delivered over a bounded channel; when that
// channel is full the handler blocks, which also stops all further byte
// consumption until the consumer catches up.
type Handler struct {
	Framer    Framer
	Transport Transport
	Gate      *Gate
	// Timeout is the inactivity window for timeout-mode framers.
	Timeout time.Duration

	events   chan Event
	commands chan Command
	timer    <-chan time.Time
}

// DefaultTimeout is the default inactivity window.
const DefaultTimeout = 5 * time.Second

// NewHandler creates a Handler with the reference queue sizing.
func NewHandler(f Framer, t Transport, gate *Gate) *Handler {
	return &Handler{
		Framer:    f,
		Transport: t,
		Gate:      gate,
		Timeout:   DefaultTimeout,
		events:    make(chan Event, EventQueueSize),
		commands:  make(chan Command, CommandQueueSize),
	}
}

// Events returns the channel driver events are posted to.
func (h *Handler) Events() chan<- Event {
	return h.events
}

// Commands returns the channel completed commands arrive on, in the
// exact order their terminating bytes arrived at the framer.
func (h *Handler) Commands() <-chan Command {
	return h.commands
}

// Run processes events until the context is canceled.
func (h *Handler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.timer:
			if err := h.apply(ctx, h.Framer.Timeout()); err != nil {
				return err
			}
		case ev := <-h.events:
			switch ev.Kind {
			case EventData:
				for _, b := range ev.Data {
					if err := h.apply(ctx, h.Framer.Feed(b)); err != nil {
						return err
					}
				}
			case EventFifoOverflow, EventBufferFull:
				// Driver-level loss always wins over in-progress
				// accumulation.
				glog.Warning("transport overflow, flushing input")
				h.flushInput()
				h.Framer.Reset()
				h.timer = nil
			}
		}
	}
}

func (h *Handler) apply(ctx context.Context, r Result) error {
	if len(r.Echo) > 0 {
		if err := h.Gate.Send(r.Echo); err != nil {
			glog.Warningf("echo failed: %v", err)
		}
	}

	switch r.Drop {
	case DropTooLong:
		glog.Warningf("command truncated at %d chars", MaxCommandLen-1)
	case DropTimeout:
		glog.Info("input timeout, discarding partial command")
	}

	if r.Flush {
		h.flushInput()
	}

	switch r.Timer {
	case TimerRestart:
		h.timer = time.After(h.Timeout)
	case TimerStop:
		h.timer = nil
	}

	if r.Command != nil {
		select {
		case h.commands <- *r.Command:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (h *Handler) flushInput() {
	if err := h.Transport.FlushInput(); err != nil {
		glog.Warningf("flush input failed: %v", err)
	}
}
