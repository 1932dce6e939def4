package uart

import (
	"context"
	"io"

	"github.com/ElvBry/samplelog/pkg/framework"
)

// Reader pumps raw bytes from a transport into a Handler's event
// channel, standing in for the interrupt-driven delivery of the
// embedded driver. When the event channel is saturated the pending
// chunk is dropped and a BufferFull event is posted instead, mirroring
// the driver's ring-buffer overflow behavior.
type Reader struct {
	Source io.ReadCloser
	Events chan<- Event
}

// Run implements framework.Runnable. Source.Read has no cancellation
// of its own, so the transport is closed when the context is canceled
// to unblock a pending read.
func (r *Reader) Run(ctx context.Context) error {
	return framework.RunWithContextCloser(ctx, r.Source, func() error {
		return r.pump(ctx)
	})
}

func (r *Reader) pump(ctx context.Context) error {
	buf := make([]byte, 128)
	for {
		n, err := r.Source.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case r.Events <- Event{Kind: EventData, Data: data}:
			default:
				select {
				case r.Events <- Event{Kind: EventBufferFull}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

var _ framework.Runnable = (*Reader)(nil)
