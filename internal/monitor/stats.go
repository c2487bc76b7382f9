// Package monitor provides lock-free statistics for the log pipeline.
package monitor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats collects pipeline counters. All methods are safe for concurrent use.
type Stats struct {
	enqueued   atomic.Uint64
	dropped    atomic.Uint64
	printed    atomic.Uint64
	grows      atomic.Uint64
	sinkErrors atomic.Uint64
	startTime  time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordEnqueue counts an entry accepted into the buffer.
func (s *Stats) RecordEnqueue() {
	s.enqueued.Add(1)
}

// RecordDrop counts an entry discarded because the pipeline was paused.
func (s *Stats) RecordDrop() {
	s.dropped.Add(1)
}

// RecordPrint counts an entry handed to the sinks by the worker.
func (s *Stats) RecordPrint() {
	s.printed.Add(1)
}

// RecordGrow counts a buffer doubling.
func (s *Stats) RecordGrow() {
	s.grows.Add(1)
}

// RecordSinkError counts a failed sink write.
func (s *Stats) RecordSinkError() {
	s.sinkErrors.Add(1)
}

// Enqueued returns the number of accepted entries.
func (s *Stats) Enqueued() uint64 { return s.enqueued.Load() }

// Dropped returns the number of entries submitted while paused.
func (s *Stats) Dropped() uint64 { return s.dropped.Load() }

// Printed returns the number of entries the worker has printed.
func (s *Stats) Printed() uint64 { return s.printed.Load() }

// Grows returns the number of buffer doublings.
func (s *Stats) Grows() uint64 { return s.grows.Load() }

// SinkErrors returns the number of failed sink writes.
func (s *Stats) SinkErrors() uint64 { return s.sinkErrors.Load() }

// Pending returns the number of accepted entries not yet printed.
func (s *Stats) Pending() uint64 {
	printed := s.Printed()
	enqueued := s.Enqueued()
	if printed > enqueued {
		return 0
	}
	return enqueued - printed
}

// Elapsed returns the time since monitoring started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Rate returns printed entries per second.
func (s *Stats) Rate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.Printed()) / elapsed
}

// Summary returns a formatted summary string.
func (s *Stats) Summary() string {
	return fmt.Sprintf(
		"Enqueued:    %d\n"+
			"Printed:     %d\n"+
			"Pending:     %d\n"+
			"Dropped:     %d\n"+
			"Grows:       %d\n"+
			"Sink errors: %d\n"+
			"Duration:    %s\n"+
			"Throughput:  %.0f entries/s",
		s.Enqueued(), s.Printed(), s.Pending(), s.Dropped(), s.Grows(), s.SinkErrors(),
		s.Elapsed().Round(time.Millisecond),
		s.Rate(),
	)
}
