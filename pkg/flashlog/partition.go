package flashlog

import (
	"errors"
)

// Partition models a raw erasable flash region. Offsets are absolute
// within the partition. Implementations must support reads at arbitrary
// offsets, bit-clearing programming at arbitrary offsets and erasing
// only in aligned whole sectors.
type Partition interface {
	// Read fills buf from the partition starting at off.
	Read(off uint32, buf []byte) error
	// Write programs data at off. Programming can only clear bits;
	// the target range must have been erased first for the data to
	// come back intact.
	Write(off uint32, data []byte) error
	// EraseRange erases [off, off+size), both sector aligned. Erased
	// bytes read back as 0xff.
	EraseRange(off, size uint32) error
	// Size is the partition size in bytes.
	Size() uint32
	// SectorSize is the smallest erasable unit.
	SectorSize() uint32
}

var (
	// ErrOutOfRange reports access beyond the partition end.
	ErrOutOfRange = errors.New("access outside partition")
	// ErrUnaligned reports an erase not aligned to sector boundaries.
	ErrUnaligned = errors.New("erase range not sector aligned")
	// ErrOutOfSpace reports an append with the log region full.
	ErrOutOfSpace = errors.New("log region full")
)
