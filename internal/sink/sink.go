// Package sink defines the Sink interface for pipeline output.
package sink

import (
	"io"

	"github.com/Geun-Oh/alog/internal/buffer"
	"github.com/Geun-Oh/alog/internal/entry"
)

// Sink receives entries from the pipeline worker and writes them to an
// output destination. Sinks are only ever called from the worker goroutine.
type Sink interface {
	// Write outputs a single log entry.
	Write(e *entry.LogEntry) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}

// color ANSI escape codes.
const (
	colorDefault = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
)

// appendLine renders e the way it is printed: an optional timestamp and a
// severity tag for decorated levels, then the message verbatim. With color
// set the stamp and tag are wrapped in escape codes, and WARN, ERROR and
// DEBUG lines are colored up to the end of the message.
func appendLine(dst []byte, e *entry.LogEntry, color bool) []byte {
	if e.Level != entry.LevelNone {
		if e.Timestamp != 0 {
			if color {
				dst = append(dst, colorBlue...)
			}
			dst = entry.AppendTimestamp(dst, e.Timestamp)
			if color {
				dst = append(dst, colorDefault...)
			}
			dst = append(dst, ' ')
		}

		if color {
			dst = append(dst, levelColor(e.Level)...)
		}
		dst = append(dst, e.Level.Tag()...)
		if color && e.Level == entry.LevelInfo {
			dst = append(dst, colorDefault...)
		}
	}

	dst = append(dst, e.Msg...)

	if color && trailingReset(e.Level) {
		dst = append(dst, colorDefault...)
	}
	return dst
}

func levelColor(l entry.Level) string {
	switch l {
	case entry.LevelInfo:
		return colorGreen
	case entry.LevelWarn:
		return colorMagenta
	case entry.LevelError:
		return colorRed
	case entry.LevelDebug:
		return colorYellow
	default:
		return ""
	}
}

func trailingReset(l entry.Level) bool {
	return l == entry.LevelWarn || l == entry.LevelError || l == entry.LevelDebug
}

// writeLine renders e into a pooled buffer and writes it with a single call.
func writeLine(w io.Writer, e *entry.LogEntry, color bool) error {
	line := buffer.GetLine()
	*line = appendLine(*line, e, color)
	_, err := w.Write(*line)
	buffer.PutLine(line)
	if err != nil {
		return err
	}
	return flush(w)
}

// flush pushes out anything a buffered writer may be holding.
func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
