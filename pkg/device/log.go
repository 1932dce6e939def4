package device

import (
	"github.com/golang/glog"
)

// Log levels persisted in settings: 0=none, 1=error, 2=warn, 3=info,
// 4=debug, 5=verbose.
const (
	LevelNone uint8 = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelVerbose
	maxLevel = LevelVerbose
)

// levelName returns the display name of a log level.
func levelName(level uint8) string {
	switch level {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelVerbose:
		return "VERBOSE"
	}
	return "UNKNOWN"
}

// levelGate maps the device's persisted log level onto glog calls,
// suppressing classes above the configured level.
type levelGate struct {
	level uint8
}

func (g *levelGate) Errorf(format string, args ...interface{}) {
	if g.level >= LevelError {
		glog.Errorf(format, args...)
	}
}

func (g *levelGate) Warningf(format string, args ...interface{}) {
	if g.level >= LevelWarn {
		glog.Warningf(format, args...)
	}
}

func (g *levelGate) Infof(format string, args ...interface{}) {
	if g.level >= LevelInfo {
		glog.Infof(format, args...)
	}
}

func (g *levelGate) Debugf(format string, args ...interface{}) {
	if g.level >= LevelDebug {
		glog.V(1).Infof(format, args...)
	}
}
