package flashlog

import (
	"encoding/binary"
	"math"
)

// LogStart is the fixed offset of the log region. The settings record
// owns the first sector exclusively.
const LogStart uint32 = 4096

// EntrySize is the packed size of one log entry.
const EntrySize uint32 = 8

// erasedTimestamp is what an entry slot's timestamp reads as after an
// erase; it is the sentinel the recovery scan probes for.
const erasedTimestamp uint32 = 0xFFFFFFFF

// Entry is one timestamped sample.
type Entry struct {
	TimestampMS uint32
	Value       float32
}

func marshalEntry(e Entry) []byte {
	buf := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(buf[0:], e.TimestampMS)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(e.Value))
	return buf
}

func unmarshalEntry(buf []byte) Entry {
	return Entry{
		TimestampMS: binary.LittleEndian.Uint32(buf[0:]),
		Value:       math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])),
	}
}
