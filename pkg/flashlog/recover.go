package flashlog

import (
	"fmt"

	"github.com/golang/glog"
)

// DataSpliceGapMS is added to the last persisted timestamp when seeding
// a new session's clock origin, leaving a visible gap that marks the
// restart boundary in exported data.
const DataSpliceGapMS uint32 = 60000

// scanEntries reconstructs the physical entry count from partition
// content. It first probes each sector's last slot for the erased
// sentinel to find the current sector, then scans that sector's slots
// linearly. No on-flash counter is trusted because none is kept.
func scanEntries(part Partition) (uint32, error) {
	sectorSize := part.SectorSize()
	entriesPerSector := sectorSize / EntrySize
	totalSectors := (part.Size() - LogStart) / sectorSize

	buf := make([]byte, EntrySize)

	sector := totalSectors
	for i := uint32(0); i < totalSectors; i++ {
		lastSlot := LogStart + i*sectorSize + (entriesPerSector-1)*EntrySize
		if err := part.Read(lastSlot, buf); err != nil {
			return 0, fmt.Errorf("probe sector %d: %w", i, err)
		}
		if unmarshalEntry(buf).TimestampMS == erasedTimestamp {
			sector = i
			break
		}
	}

	if sector >= totalSectors {
		glog.Warning("log region full")
		return totalSectors * entriesPerSector, nil
	}

	slot := entriesPerSector
	for i := uint32(0); i < entriesPerSector; i++ {
		off := LogStart + sector*sectorSize + i*EntrySize
		if err := part.Read(off, buf); err != nil {
			return 0, fmt.Errorf("scan sector %d: %w", sector, err)
		}
		if unmarshalEntry(buf).TimestampMS == erasedTimestamp {
			slot = i
			break
		}
	}

	total := sector*entriesPerSector + slot
	glog.Infof("found empty slot in sector %d, entry %d (total: %d)", sector, slot, total)
	return total, nil
}

// SpliceOrigin returns the clock origin for the next session: the last
// committed entry's timestamp plus DataSpliceGapMS. ok is false when no
// entries exist and the caller should seed from its monotonic clock.
func (s *Store) SpliceOrigin() (origin uint32, ok bool, err error) {
	if s.written == 0 {
		return 0, false, nil
	}
	buf := make([]byte, EntrySize)
	off := LogStart + (s.written-1)*EntrySize
	if err := s.part.Read(off, buf); err != nil {
		return 0, false, fmt.Errorf("read last entry: %w", err)
	}
	last := unmarshalEntry(buf).TimestampMS
	return last + DataSpliceGapMS, true, nil
}
