package flashlog

import (
	"encoding/binary"
)

// SettingsMagic marks an initialized settings record. Change it to
// force re-initialization on next open.
const SettingsMagic uint32 = 0xDEADBEEF

// DefaultLoggingPeriodMS is the logging cadence after initialization.
const DefaultLoggingPeriodMS uint32 = 5000

// State is the persisted operating state.
type State uint8

const (
	// StateIdle means waiting for commands, not sampling.
	StateIdle State = iota
	// StateLogging means sampling and appending on the period cadence.
	StateLogging
	// StateError means halted until the user resets.
	StateError
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateLogging:
		return "LOGGING"
	case StateError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Settings is the record persisted at partition offset 0.
type Settings struct {
	LoggingPeriodMS uint32
	State           State
	LogLevel        uint8
}

// settingsSize covers {magic u32, period u32, state u8, level u8,
// pad u16}, packed little-endian.
const settingsSize = 12

// DefaultSettings returns the post-initialization settings.
func DefaultSettings() Settings {
	return Settings{
		LoggingPeriodMS: DefaultLoggingPeriodMS,
		State:           StateIdle,
		LogLevel:        3, // INFO
	}
}

func marshalSettings(s Settings) []byte {
	buf := make([]byte, settingsSize)
	binary.LittleEndian.PutUint32(buf[0:], SettingsMagic)
	binary.LittleEndian.PutUint32(buf[4:], s.LoggingPeriodMS)
	buf[8] = byte(s.State)
	buf[9] = s.LogLevel
	// buf[10:12] is padding and stays zero.
	return buf
}

// unmarshalSettings decodes a raw record. ok reports whether the magic
// matched; on mismatch the record is uninitialized or corrupt.
func unmarshalSettings(buf []byte) (s Settings, ok bool) {
	if binary.LittleEndian.Uint32(buf[0:]) != SettingsMagic {
		return
	}
	s.LoggingPeriodMS = binary.LittleEndian.Uint32(buf[4:])
	s.State = State(buf[8])
	s.LogLevel = buf[9]
	ok = true
	return
}
