package flashlog

import (
	"fmt"

	"github.com/golang/glog"
)

// Store owns the write cursor of the log region and the in-memory copy
// of the settings record. It is not goroutine safe: exactly one task
// owns a Store, the way the application loop owns the log in firmware.
type Store struct {
	part    Partition
	setting Settings

	written uint32 // physical entries since last erase
	logical uint32 // written minus the in-memory trim count
}

// Open reads the settings record and reconstructs the write cursor. If
// the magic does not match, the whole partition is erased and default
// settings are written, losing any previous content.
func Open(part Partition) (*Store, error) {
	s := &Store{part: part}

	raw := make([]byte, settingsSize)
	if err := part.Read(0, raw); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	setting, ok := unmarshalSettings(raw)
	if !ok {
		glog.Info("settings magic mismatch, initializing partition")
		if err := s.EraseAll(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.setting = setting
	written, err := scanEntries(part)
	if err != nil {
		return nil, err
	}
	s.written = written
	s.logical = written
	glog.Infof("recovered %d entries (period=%dms state=%s)",
		written, setting.LoggingPeriodMS, setting.State)
	return s, nil
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	return s.setting
}

// Written returns the physical entry count.
func (s *Store) Written() uint32 {
	return s.written
}

// Logical returns the logical entry count (physical minus trims).
func (s *Store) Logical() uint32 {
	return s.logical
}

// Capacity returns the total entry capacity of the log region.
func (s *Store) Capacity() uint32 {
	sectorSize := s.part.SectorSize()
	sectors := (s.part.Size() - LogStart) / sectorSize
	return sectors * (sectorSize / EntrySize)
}

// Append writes one entry at the cursor, erasing the target sector
// first when the entry is the sector's first. Counters are unchanged if
// the erase or the write fails.
func (s *Store) Append(e Entry) error {
	if s.written >= s.Capacity() {
		return ErrOutOfSpace
	}
	off := LogStart + s.written*EntrySize
	if off%s.part.SectorSize() == 0 {
		glog.V(1).Infof("erasing sector at offset %d", off)
		if err := s.part.EraseRange(off, s.part.SectorSize()); err != nil {
			return fmt.Errorf("erase sector: %w", err)
		}
	}
	if err := s.part.Write(off, marshalEntry(e)); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	s.written++
	s.logical++
	glog.V(2).Infof("wrote entry at offset %d", off)
	return nil
}

// PersistSettings erases the settings sector and writes the record.
// Synchronous and unbatched: every state-changing command pays the full
// erase cost.
func (s *Store) PersistSettings(setting Settings) error {
	if err := s.part.EraseRange(0, s.part.SectorSize()); err != nil {
		return fmt.Errorf("erase settings: %w", err)
	}
	if err := s.part.Write(0, marshalSettings(setting)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.setting = setting
	return nil
}

// Trim logically removes the last count entries. Purely in-memory: no
// flash is touched and a reboot resurrects the physical count. Clamps
// at zero, never fails.
func (s *Store) Trim(count uint32) uint32 {
	if count > s.logical {
		count = s.logical
	}
	s.logical -= count
	return count
}

// EraseAll erases the entire partition, writes default settings and
// zeroes both counters.
func (s *Store) EraseAll() error {
	if err := s.part.EraseRange(0, s.part.Size()); err != nil {
		return fmt.Errorf("erase partition: %w", err)
	}
	def := DefaultSettings()
	if err := s.part.Write(0, marshalSettings(def)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.setting = def
	s.written = 0
	s.logical = 0
	return nil
}

// ReadRange reads count entries starting at logical index start. The
// logical window is the tail of the physical region: trimmed entries at
// the front stay on flash but are not addressable.
func (s *Store) ReadRange(start, count uint32) ([]Entry, error) {
	if start+count > s.logical {
		return nil, ErrOutOfRange
	}
	phys := (s.written - s.logical) + start
	entries := make([]Entry, 0, count)
	buf := make([]byte, EntrySize)
	for i := uint32(0); i < count; i++ {
		off := LogStart + (phys+i)*EntrySize
		if err := s.part.Read(off, buf); err != nil {
			return nil, fmt.Errorf("read entry: %w", err)
		}
		entries = append(entries, unmarshalEntry(buf))
	}
	return entries, nil
}
