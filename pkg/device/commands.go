package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ElvBry/samplelog/pkg/flashlog"
)

// MinLoggingPeriodMS is the lowest accepted logging period.
const MinLoggingPeriodMS uint32 = 5

const helpText = "Available commands:\r\n" +
	"  help - Show this help message\r\n" +
	"  start - Begin logging data\r\n" +
	"  stop - Stop logging data\r\n" +
	"  info - Show system information\r\n" +
	"  set period <ms> - Set logging period in milliseconds\r\n" +
	"  set level <0-5> - Set log level (0=none, 1=error, 2=warn, 3=info, 4=debug, 5=verbose)\r\n" +
	"  dump <count> - Print last <count> entries in CSV format (omit for all)\r\n" +
	"  clear <count> - Remove last <count> entries (omit for all)\r\n" +
	"  reset - Erase all data and reset to initial state\r\n"

// dispatch handles one framed command string and reports whether the
// operating state changed.
func (d *Device) dispatch(cmd string) bool {
	before := d.Store.Settings().State
	d.handle(cmd)
	return d.Store.Settings().State != before
}

func (d *Device) handle(cmd string) {
	switch {
	case cmd == "help":
		d.send(helpText)

	case cmd == "start":
		d.handleStart()

	case cmd == "stop":
		d.handleStop()

	case cmd == "info":
		d.handleInfo()

	case strings.HasPrefix(cmd, "set period "):
		d.handleSetPeriod(strings.TrimPrefix(cmd, "set period "))

	case strings.HasPrefix(cmd, "set level "):
		d.handleSetLevel(strings.TrimPrefix(cmd, "set level "))

	case cmd == "dump" || strings.HasPrefix(cmd, "dump "):
		d.handleDump(strings.TrimSpace(strings.TrimPrefix(cmd, "dump")))

	case cmd == "clear" || strings.HasPrefix(cmd, "clear "):
		d.handleClear(strings.TrimSpace(strings.TrimPrefix(cmd, "clear")))

	case cmd == "reset":
		d.handleReset()

	default:
		d.send("Unknown command. Type 'help' for commands.\r\n")
	}
}

func (d *Device) handleStart() {
	s := d.Store.Settings()
	if s.State == flashlog.StateLogging {
		d.send("Already logging\r\n")
		return
	}
	s.State = flashlog.StateLogging
	if err := d.Store.PersistSettings(s); err != nil {
		d.storageError(err)
		return
	}
	d.send("Started logging\r\n")
	d.log.Infof("state changed to LOGGING")
}

func (d *Device) handleStop() {
	s := d.Store.Settings()
	if s.State == flashlog.StateIdle {
		d.send("Already stopped\r\n")
		return
	}
	s.State = flashlog.StateIdle
	if err := d.Store.PersistSettings(s); err != nil {
		d.storageError(err)
		return
	}
	d.send("Stopped logging\r\n")
	d.log.Infof("state changed to IDLE")
}

func (d *Device) handleInfo() {
	s := d.Store.Settings()
	capacity := d.Store.Capacity()
	logical := d.Store.Logical()
	remaining := capacity - d.Store.Written()
	percent := float64(logical) / float64(capacity) * 100

	d.send(fmt.Sprintf("\r\nSystem Information:\r\n"+
		"  Logging period: %d ms\r\n"+
		"  Current state: %s\r\n"+
		"  Entries logged: %d / %d\r\n"+
		"  Remaining space: %d entries (%.1f%% full)\r\n"+
		"  Log level: %s\r\n\r\n",
		s.LoggingPeriodMS, s.State, logical, capacity,
		remaining, percent, levelName(s.LogLevel)))
}

func (d *Device) handleSetPeriod(arg string) {
	period, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		d.send("Error: invalid period\r\n")
		return
	}
	if uint32(period) < MinLoggingPeriodMS {
		d.send(fmt.Sprintf("Error: Period must be >= %d ms\r\n", MinLoggingPeriodMS))
		return
	}
	s := d.Store.Settings()
	s.LoggingPeriodMS = uint32(period)
	if err := d.Store.PersistSettings(s); err != nil {
		d.storageError(err)
		return
	}
	d.send(fmt.Sprintf("Period set to %d ms\r\n", period))
	d.log.Infof("period changed to %d ms", period)
}

func (d *Device) handleSetLevel(arg string) {
	level, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || uint8(level) > maxLevel {
		d.send("Error: Level must be 0-5\r\n")
		return
	}
	s := d.Store.Settings()
	s.LogLevel = uint8(level)
	if err := d.Store.PersistSettings(s); err != nil {
		d.storageError(err)
		return
	}
	d.log.level = uint8(level)
	d.send(fmt.Sprintf("Log level set to %d\r\n", level))
}

func (d *Device) handleDump(arg string) {
	logical := d.Store.Logical()
	count := logical
	if arg != "" {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			d.send("Error: invalid count\r\n")
			return
		}
		if count = uint32(n); count > logical {
			count = logical
		}
	}

	d.send("timestamp_ms,value\r\n")
	entries, err := d.Store.ReadRange(logical-count, count)
	if err != nil {
		d.storageError(err)
		return
	}
	for _, e := range entries {
		d.send(fmt.Sprintf("%d,%.2f\r\n", e.TimestampMS, e.Value))
	}
	d.send(fmt.Sprintf("\r\nDumped %d entries\r\n", count))
}

func (d *Device) handleClear(arg string) {
	count := d.Store.Logical()
	if arg != "" {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			d.send("Error: invalid count\r\n")
			return
		}
		count = uint32(n)
	}

	removed := d.Store.Trim(count)
	if removed == 0 {
		d.send("No entries to clear\r\n")
		return
	}
	d.send(fmt.Sprintf("Removed last %d entries (now %d total)\r\n",
		removed, d.Store.Logical()))
	d.log.Infof("logically removed %d entries", removed)
}

func (d *Device) handleReset() {
	d.send("Resetting and erasing all data...\r\n")
	if err := d.Store.EraseAll(); err != nil {
		d.send("Error: Reset failed\r\n")
		d.log.Errorf("reset failed: %v", err)
		return
	}
	d.log.level = d.Store.Settings().LogLevel
	d.originMS = d.Clock.NowMS()
	d.startMS = d.originMS
	d.send("Reset complete\r\n")
	d.log.Infof("system reset")
}

// storageError reports a flash fault to the user and keeps running.
func (d *Device) storageError(err error) {
	d.log.Errorf("storage error: %v", err)
	d.send("Error: storage failure\r\n")
}
