// Package uart turns a raw serial byte stream into discrete command
// strings and serializes outbound writes.
package uart

// The input path mirrors the embedded driver model: the driver delivers
// events (data chunks, overflow notifications) which are consumed by
// exactly one Handler goroutine. The Handler owns a Framer, a pure
// per-byte state machine, so framing state is only ever touched from a
// single execution context. Completed commands are handed to the
// application over a bounded channel in arrival order.
//
// Two framing policies are provided: LineFramer treats both CR and LF
// as terminators and keeps consuming an over-long line in a discard
// state; TimeoutFramer uses a single configured terminator plus an
// inactivity window that throws away partial input.
