// Package entry defines the LogEntry type that flows through the alog pipeline.
package entry

import (
	"fmt"
	"strings"
)

// Level represents log severity levels.
type Level int

const (
	// LevelNone prints the raw message without any decoration.
	LevelNone Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelDebug
)

// DefaultMsgSize is the initial message capacity of every buffer slot.
const DefaultMsgSize = 256

// String returns the string representation of a Level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Tag returns the severity tag printed in front of the message.
// LevelNone has no tag.
func (l Level) Tag() string {
	switch l {
	case LevelInfo:
		return "I "
	case LevelWarn:
		return "W "
	case LevelError:
		return "E "
	case LevelDebug:
		return "D "
	default:
		return ""
	}
}

// ParseLevel converts a string to a Level. Case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "RAW", "":
		return LevelNone, nil
	case "INFO", "INF", "I":
		return LevelInfo, nil
	case "WARN", "WARNING", "WRN", "W":
		return LevelWarn, nil
	case "ERROR", "ERR", "E":
		return LevelError, nil
	case "DEBUG", "DBG", "D":
		return LevelDebug, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level %q", s)
	}
}

// LogEntry is one pending message in the pipeline buffer.
type LogEntry struct {
	Level     Level
	Verbosity int
	Timestamp int64  // microseconds since pipeline start, 0 when timestamps were off
	Msg       []byte // formatted message, owned by the entry
	End       bool   // sentinel: tells the worker to stop
}

// New returns an entry with a preallocated message buffer.
func New() LogEntry {
	return LogEntry{Msg: make([]byte, 0, DefaultMsgSize)}
}

// Reset clears the entry for reuse while keeping its message storage.
func (e *LogEntry) Reset() {
	e.Level = LevelNone
	e.Verbosity = 0
	e.Timestamp = 0
	e.Msg = e.Msg[:0]
	e.End = false
}

// Printf formats into the entry's message storage. The existing capacity is
// reused when the result fits; otherwise the storage is replaced by a larger
// one. The message is never truncated.
func (e *LogEntry) Printf(format string, args ...any) {
	e.Msg = fmt.Appendf(e.Msg[:0], format, args...)
}

// Message returns the formatted message as a string.
func (e *LogEntry) Message() string {
	return string(e.Msg)
}

// AppendTimestamp appends the [minutes.seconds.millis.micros] stamp for a
// microsecond delta, zero padded as 00000.00.000.000.
func AppendTimestamp(dst []byte, us int64) []byte {
	return fmt.Appendf(dst, "%05d.%02d.%03d.%03d",
		us/1000000/60,
		us/1000000%60,
		us/1000%1000,
		us%1000)
}
