// Package pipeline turns log calls into console and file output on a single
// background goroutine, so callers never wait on I/O.
//
// Producers format their message straight into the tail slot of a growable
// ring under one mutex and signal the worker. The worker pops one entry at a
// time under the same mutex and prints it after releasing the lock. Pause
// enqueues a sentinel entry and waits for the worker to reach it, so
// everything accepted before Pause is printed before Pause returns.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Geun-Oh/alog/internal/buffer"
	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/filter"
	"github.com/Geun-Oh/alog/internal/monitor"
	"github.com/Geun-Oh/alog/internal/sink"
)

// DefaultCapacity is the initial slot count of a pipeline buffer.
const DefaultCapacity = 256

// Options configures a Pipeline.
type Options struct {
	// Capacity is the initial number of buffer slots. Defaults to DefaultCapacity.
	Capacity int
	// Stdout and Stderr receive console output. Nil means os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Threshold decides whether DEBUG entries reach the console.
	// Nil means filter.Global.
	Threshold *filter.Threshold
	// Colors turns on ANSI colors for console output. Files never get colors.
	Colors bool
	// NoTimestamps starts the pipeline with timestamps off.
	NoTimestamps bool
	// Stats receives the pipeline counters. A fresh collector is used when nil.
	Stats *monitor.Stats
}

// Pipeline is an asynchronous log pipeline with one worker goroutine.
//
// State machine: stopped --Resume--> running --Pause--> stopped. Add only has
// an effect while running.
type Pipeline struct {
	// life serializes Pause, Resume, SetFile and Close so that at most one
	// worker exists and the file is only swapped while it is stopped.
	life sync.Mutex

	mu         sync.Mutex
	cond       *sync.Cond
	ring       *buffer.Ring
	file       sink.Sink
	timestamps bool
	running    bool
	done       chan struct{} // closed when the current worker exits

	console *sink.ConsoleSink
	start   time.Time
	stats   *monitor.Stats
}

// New creates a pipeline and starts its worker.
func New(opts Options) *Pipeline {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Threshold == nil {
		opts.Threshold = filter.Global
	}
	if opts.Stats == nil {
		opts.Stats = monitor.NewStats()
	}

	p := &Pipeline{
		ring:       buffer.NewRing(opts.Capacity),
		timestamps: !opts.NoTimestamps,
		console:    sink.NewConsoleSink(opts.Stdout, opts.Stderr, filter.NewDebugGate(opts.Threshold), opts.Colors),
		start:      time.Now(),
		stats:      opts.Stats,
	}
	p.cond = sync.NewCond(&p.mu)

	p.Resume()
	return p
}

// Add formats a message with fmt semantics and queues it for printing.
// It never performs I/O. While the pipeline is paused the call is a no-op
// and the message is dropped.
func (p *Pipeline) Add(level entry.Level, verbosity int, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		p.stats.RecordDrop()
		return
	}

	e := p.ring.Reserve()
	e.Printf(format, args...)
	e.Level = level
	e.Verbosity = verbosity
	if p.timestamps {
		e.Timestamp = time.Since(p.start).Microseconds()
	}

	if p.ring.Commit() {
		p.stats.RecordGrow()
	}
	p.stats.RecordEnqueue()

	p.cond.Signal()
}

// Resume starts the worker. It is a no-op if the pipeline is already running.
func (p *Pipeline) Resume() {
	p.life.Lock()
	defer p.life.Unlock()

	p.resume()
}

func (p *Pipeline) resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.done = make(chan struct{})
	go p.work(p.done)
}

// Pause stops accepting entries, waits until the worker has printed
// everything queued so far and then stops it. It is a no-op if the pipeline
// is not running. There is no timeout: a sink blocked in Write blocks Pause.
func (p *Pipeline) Pause() {
	p.life.Lock()
	defer p.life.Unlock()

	p.pause()
}

func (p *Pipeline) pause() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}

	p.running = false

	// The sentinel goes through the same path as any entry, growing the
	// ring if needed, so it can never be lost.
	if p.ring.PushBack(entry.LogEntry{End: true}) {
		p.stats.RecordGrow()
	}
	p.cond.Signal()

	done := p.done
	p.mu.Unlock()

	<-done

	p.mu.Lock()
	p.done = nil
	p.mu.Unlock()
}

// work is the worker loop. Each popped entry is moved into cur, so the
// worker never reads a slot a producer may be writing.
func (p *Pipeline) work(done chan struct{}) {
	defer close(done)

	var cur entry.LogEntry
	for {
		p.mu.Lock()
		for p.ring.Empty() {
			p.cond.Wait()
		}
		p.ring.PopFront(&cur)
		file := p.file
		p.mu.Unlock()

		if cur.End {
			p.drain(file)
			return
		}

		p.print(&cur, file)
	}
}

// print writes one entry to the console and, if attached, the file.
// The DEBUG console gate does not apply to the file.
func (p *Pipeline) print(e *entry.LogEntry, file sink.Sink) {
	if err := p.console.Write(e); err != nil {
		p.stats.RecordSinkError()
	}
	if file != nil {
		if err := file.Write(e); err != nil {
			p.stats.RecordSinkError()
		}
	}
	p.stats.RecordPrint()
}

// drain flushes the console and the attached file when the worker reaches
// the pause sentinel.
func (p *Pipeline) drain(file sink.Sink) {
	sinks := []sink.Sink{p.console}
	if file != nil {
		sinks = append(sinks, file)
	}
	for _, s := range sinks {
		if err := s.Flush(); err != nil {
			p.stats.RecordSinkError()
		}
	}
}

// SetFile pauses the pipeline, closes any attached file, opens path with
// truncation when it is not empty, and resumes. On error the pipeline keeps
// running with no file attached and the error is returned.
func (p *Pipeline) SetFile(path string) error {
	p.life.Lock()
	defer p.life.Unlock()

	p.pause()
	defer p.resume()

	var errs []error
	if err := p.detach(); err != nil {
		errs = append(errs, err)
	}

	if path != "" {
		fs, err := sink.NewFileSink(path)
		if err != nil {
			errs = append(errs, err)
		} else {
			p.mu.Lock()
			p.file = fs
			p.mu.Unlock()
		}
	}

	return errors.Join(errs...)
}

// detach closes and forgets the attached file. The worker must be stopped.
func (p *Pipeline) detach() error {
	p.mu.Lock()
	file := p.file
	p.file = nil
	p.mu.Unlock()

	if file == nil {
		return nil
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", file.Name(), err)
	}
	return nil
}

// SetTimestamps turns timestamps on or off for entries added after the call.
// Entries already queued keep the timestamp they were given.
func (p *Pipeline) SetTimestamps(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.timestamps = on
}

// SetColors turns console colors on or off. Output already printed is not
// affected; entries still queued are printed with the new setting.
func (p *Pipeline) SetColors(on bool) {
	p.console.SetColor(on)
}

// Running reports whether the worker is accepting entries.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Capacity returns the current number of buffer slots.
func (p *Pipeline) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ring.Cap()
}

// Stats returns the pipeline counters.
func (p *Pipeline) Stats() *monitor.Stats {
	return p.stats
}

// Close pauses the pipeline, draining everything queued, and closes the
// attached file. A closed pipeline can be resumed again.
func (p *Pipeline) Close() error {
	p.life.Lock()
	defer p.life.Unlock()

	p.pause()
	return p.detach()
}
