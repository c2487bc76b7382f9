package sink

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/filter"
)

// ConsoleSink writes entries to the process console. NONE and INFO go to
// stdout, WARN, ERROR and DEBUG go to stderr.
type ConsoleSink struct {
	stdout io.Writer
	stderr io.Writer
	gate   filter.Filter
	color  atomic.Bool
}

// NewConsoleSink creates a console sink. Nil writers default to os.Stdout
// and os.Stderr. Entries rejected by gate are not printed; a nil gate
// passes everything.
func NewConsoleSink(stdout, stderr io.Writer, gate filter.Filter, color bool) *ConsoleSink {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	s := &ConsoleSink{stdout: stdout, stderr: stderr, gate: gate}
	s.color.Store(color)
	return s
}

// SetColor turns ANSI color output on or off.
func (s *ConsoleSink) SetColor(on bool) {
	s.color.Store(on)
}

// Color reports whether ANSI color output is on.
func (s *ConsoleSink) Color() bool {
	return s.color.Load()
}

// Write outputs a formatted log entry to the stream chosen by its level.
func (s *ConsoleSink) Write(e *entry.LogEntry) error {
	if s.gate != nil && !s.gate.Match(e) {
		return nil
	}
	return writeLine(s.stream(e.Level), e, s.color.Load())
}

func (s *ConsoleSink) stream(l entry.Level) io.Writer {
	if l == entry.LevelNone || l == entry.LevelInfo {
		return s.stdout
	}
	return s.stderr
}

// Flush flushes both streams.
func (s *ConsoleSink) Flush() error {
	if err := flush(s.stdout); err != nil {
		return err
	}
	return flush(s.stderr)
}

// Close is a no-op; the console streams belong to the process.
func (s *ConsoleSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }
