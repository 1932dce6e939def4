package flashlog

// MemPartition is an in-memory Partition enforcing flash discipline:
// programming ANDs new data into the existing content (bits only ever
// clear, as NOR flash does), erasing restores 0xff on whole aligned
// sectors. It keeps per-sector erase counters and supports fault
// injection, which the store and recovery tests rely on.
type MemPartition struct {
	data       []byte
	sectorSize uint32
	erases     []int

	// FailNextWrite and FailNextErase, when non-nil, make the next
	// matching operation fail with that error and reset to nil.
	FailNextWrite error
	FailNextErase error
}

// NewMemPartition creates a partition of size bytes in the erased
// state. size must be a multiple of sectorSize.
func NewMemPartition(size, sectorSize uint32) *MemPartition {
	p := &MemPartition{
		data:       make([]byte, size),
		sectorSize: sectorSize,
		erases:     make([]int, size/sectorSize),
	}
	for i := range p.data {
		p.data[i] = 0xff
	}
	return p
}

// Read implements Partition.
func (p *MemPartition) Read(off uint32, buf []byte) error {
	if int64(off)+int64(len(buf)) > int64(len(p.data)) {
		return ErrOutOfRange
	}
	copy(buf, p.data[off:])
	return nil
}

// Write implements Partition.
func (p *MemPartition) Write(off uint32, data []byte) error {
	if err := p.FailNextWrite; err != nil {
		p.FailNextWrite = nil
		return err
	}
	if int64(off)+int64(len(data)) > int64(len(p.data)) {
		return ErrOutOfRange
	}
	for i, b := range data {
		p.data[off+uint32(i)] &= b
	}
	return nil
}

// EraseRange implements Partition.
func (p *MemPartition) EraseRange(off, size uint32) error {
	if err := p.FailNextErase; err != nil {
		p.FailNextErase = nil
		return err
	}
	if off%p.sectorSize != 0 || size%p.sectorSize != 0 {
		return ErrUnaligned
	}
	if int64(off)+int64(size) > int64(len(p.data)) {
		return ErrOutOfRange
	}
	for i := off; i < off+size; i++ {
		p.data[i] = 0xff
	}
	for s := off / p.sectorSize; s < (off+size)/p.sectorSize; s++ {
		p.erases[s]++
	}
	return nil
}

// Size implements Partition.
func (p *MemPartition) Size() uint32 {
	return uint32(len(p.data))
}

// SectorSize implements Partition.
func (p *MemPartition) SectorSize() uint32 {
	return p.sectorSize
}

// EraseCount returns how many times a sector has been erased.
func (p *MemPartition) EraseCount(sector uint32) int {
	return p.erases[sector]
}
