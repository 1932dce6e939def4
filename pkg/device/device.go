package device

import (
	"context"
	"time"

	"github.com/ElvBry/samplelog/pkg/flashlog"
	"github.com/ElvBry/samplelog/pkg/uart"
)

// Device is the application main loop. It is the sole owner of the
// store and its counters: commands and samples are both handled from
// this one task, so no locking is needed beyond the transmit Gate.
type Device struct {
	Store    *flashlog.Store
	Gate     *uart.Gate
	Commands <-chan uart.Command
	Source   Source
	Clock    Clock

	// Telemetry, when non-nil, receives every appended entry on a
	// best-effort basis: a full channel drops, never blocks the loop.
	Telemetry chan<- flashlog.Entry

	log      levelGate
	originMS uint32 // session timestamp origin
	startMS  uint32 // monotonic reference for relative timestamps
}

// New wires a Device and seeds the session clock origin: past the last
// persisted timestamp by the splice gap when entries exist, from the
// monotonic clock otherwise.
func New(store *flashlog.Store, gate *uart.Gate, commands <-chan uart.Command, source Source, clock Clock) (*Device, error) {
	d := &Device{
		Store:    store,
		Gate:     gate,
		Commands: commands,
		Source:   source,
		Clock:    clock,
	}
	d.log.level = store.Settings().LogLevel

	origin, ok, err := store.SpliceOrigin()
	if err != nil {
		return nil, err
	}
	if ok {
		d.originMS = origin
		d.log.Infof("seeding clock origin at %d ms (splice gap)", origin)
	} else {
		d.originMS = clock.NowMS()
	}
	d.startMS = clock.NowMS()
	return d, nil
}

// Run drives the IDLE/LOGGING/ERROR state machine until the context is
// canceled.
func (d *Device) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch d.Store.Settings().State {
		case flashlog.StateIdle:
			d.send("\r\nIDLE - Type 'help' for commands\r\n")
			d.log.Infof("state: IDLE, waiting for commands")
			if err := d.runIdle(ctx); err != nil {
				return err
			}
			// Relative timestamps restart when leaving IDLE.
			d.startMS = d.Clock.NowMS()

		case flashlog.StateLogging:
			if err := d.runLoggingStep(ctx); err != nil {
				return err
			}

		case flashlog.StateError:
			d.send("\r\nERROR state - Type 'reset' to recover\r\n")
			d.log.Errorf("in ERROR state")
			if err := d.runError(ctx); err != nil {
				return err
			}

		default:
			d.log.Errorf("unknown state %d, resetting to IDLE", d.Store.Settings().State)
			s := d.Store.Settings()
			s.State = flashlog.StateIdle
			if err := d.Store.PersistSettings(s); err != nil {
				d.log.Errorf("persist settings: %v", err)
			}
		}
	}
}

// runIdle blocks on the command channel until a command switches the
// operating state.
func (d *Device) runIdle(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-d.Commands:
			if d.dispatch(cmd.Str) {
				return nil
			}
		}
	}
}

// runError accepts only reset; everything else is told how to recover.
func (d *Device) runError(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-d.Commands:
			if cmd.Str == "reset" {
				d.dispatch(cmd.Str)
				return nil
			}
			d.send("ERROR state - Type 'reset' to recover\r\n")
		}
	}
}

// runLoggingStep polls for one command without blocking, takes one
// sample, appends it and sleeps out the period.
func (d *Device) runLoggingStep(ctx context.Context) error {
	select {
	case cmd := <-d.Commands:
		d.dispatch(cmd.Str)
	default:
	}
	if d.Store.Settings().State != flashlog.StateLogging {
		// Entries are only created while LOGGING.
		return nil
	}

	value, err := d.Source.Sample()
	if err != nil {
		d.log.Errorf("sample failed: %v", err)
		value = SentinelValue
	}

	entry := flashlog.Entry{
		TimestampMS: d.originMS + (d.Clock.NowMS() - d.startMS),
		Value:       value,
	}
	if err := d.Store.Append(entry); err != nil {
		d.log.Errorf("append failed: %v", err)
		d.send("Error: failed to write entry\r\n")
	} else {
		d.log.Debugf("logged entry ts=%d value=%.2f", entry.TimestampMS, value)
		if d.Telemetry != nil {
			select {
			case d.Telemetry <- entry:
			default:
			}
		}
	}

	period := time.Duration(d.Store.Settings().LoggingPeriodMS) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(period):
	}
	return nil
}

func (d *Device) send(msg string) {
	if err := d.Gate.SendString(msg); err != nil {
		d.log.Warningf("send failed: %v", err)
	}
}
