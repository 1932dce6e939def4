package uart

// Sizing of the driver-facing queues. Matches the reference sizing of
// the transport driver: 8 outstanding events, 8 queued commands.
const (
	EventQueueSize   = 8
	CommandQueueSize = 8
)

// MaxCommandLen bounds a command line, counting the terminator slot.
// The longest accepted command is MaxCommandLen-1 bytes.
const MaxCommandLen = 64

// EventKind tags a driver event.
type EventKind int

const (
	// EventData carries received bytes.
	EventData EventKind = iota
	// EventFifoOverflow reports loss in the driver's hardware FIFO.
	EventFifoOverflow
	// EventBufferFull reports saturation of the driver's ring buffer.
	EventBufferFull
)

// Event is one asynchronous notification from the transport driver.
type Event struct {
	Kind EventKind
	Data []byte
}

// Command is a completed command line. Str never contains a terminator
// and is at most MaxCommandLen-1 bytes.
type Command struct {
	Str  string
	Size int
}
