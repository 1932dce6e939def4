package config

import (
	"fmt"

	"github.com/ElvBry/samplelog/pkg/flashlog"
)

// Validate checks configuration correctness. It performs declarative
// validation only and MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	p := cfg.Partition
	if p.SectorSize == 0 {
		return fmt.Errorf("partition: sector_size required")
	}
	if p.Size == 0 || p.Size%p.SectorSize != 0 {
		return fmt.Errorf("partition: size %d not a multiple of sector_size %d",
			p.Size, p.SectorSize)
	}
	if flashlog.LogStart%p.SectorSize != 0 {
		return fmt.Errorf("partition: sector_size %d does not align the log region start %d",
			p.SectorSize, flashlog.LogStart)
	}
	if p.Size <= flashlog.LogStart {
		return fmt.Errorf("partition: size %d leaves no room for the log region", p.Size)
	}
	if p.SectorSize%flashlog.EntrySize != 0 {
		return fmt.Errorf("partition: sector_size %d not a multiple of entry size %d",
			p.SectorSize, flashlog.EntrySize)
	}

	switch cfg.Framing.Mode {
	case "line":
	case "timeout":
		if len(cfg.Framing.Terminator) != 1 {
			return fmt.Errorf("framing: timeout mode needs a single terminator byte")
		}
		if cfg.Framing.TimeoutMS <= 0 {
			return fmt.Errorf("framing: timeout_ms must be > 0")
		}
	default:
		return fmt.Errorf("framing: unknown mode %q", cfg.Framing.Mode)
	}

	if cfg.Serial.Device != "" && cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial: baud must be > 0")
	}
	return nil
}
