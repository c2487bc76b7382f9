package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/Geun-Oh/alog/internal/entry"
)

// WriterSink writes entries as plain text, without color codes, to any writer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a plain text sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write outputs a single uncolored line.
func (s *WriterSink) Write(e *entry.LogEntry) error {
	return writeLine(s.w, e, false)
}

// Flush flushes w if it buffers.
func (s *WriterSink) Flush() error { return flush(s.w) }

// Close is a no-op; w belongs to the caller.
func (s *WriterSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *WriterSink) Name() string { return "writer" }

// FileSink writes entries to a file, truncated when opened.
type FileSink struct {
	inner *WriterSink
	file  *os.File
}

// NewFileSink creates (or truncates) the file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}
	return &FileSink{inner: NewWriterSink(f), file: f}, nil
}

// Write delegates to the inner sink.
func (s *FileSink) Write(e *entry.LogEntry) error {
	return s.inner.Write(e)
}

// Flush syncs the file to disk.
func (s *FileSink) Flush() error {
	return s.file.Sync()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// Name returns the sink identifier.
func (s *FileSink) Name() string {
	return "file:" + s.file.Name()
}
