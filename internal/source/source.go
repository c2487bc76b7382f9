// Package source reads lines from other programs and files so the CLI can
// feed them into a pipeline.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// MaxLineSize is the longest line a source emits in one piece. Longer lines
// are split into consecutive chunks of at most MaxLineSize bytes.
const MaxLineSize = 1024 * 1024

// Line is one line of input, without its trailing newline.
type Line struct {
	Stream string // stdout, stderr, stdin, file
	Text   string
}

// Source reads lines from an input and emits them on a channel.
// Implementations must close the returned channel when the source is exhausted
// or the context is cancelled.
type Source interface {
	// Start begins reading from the source. The returned channel will receive
	// lines until the source is exhausted or ctx is cancelled.
	Start(ctx context.Context) (<-chan Line, error)

	// Err returns the first read error once the channel is closed.
	// Cancellation is not reported.
	Err() error

	// Name returns a human-readable identifier for this source.
	Name() string
}

// scanLines is bufio.ScanLines that hands out a full buffer as a token
// instead of failing with bufio.ErrTooLong.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 && i < MaxLineSize {
		return bufio.ScanLines(data, atEOF)
	}
	if len(data) >= MaxLineSize {
		return MaxLineSize, data[:MaxLineSize], nil
	}
	return bufio.ScanLines(data, atEOF)
}

// scan reads r line by line and sends each line on ch. It returns when r is
// exhausted or ctx is cancelled.
func scan(ctx context.Context, stream string, r io.Reader, ch chan<- Line) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(scanLines)

	for scanner.Scan() {
		line := Line{
			Stream: stream,
			Text:   scanner.Text(),
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- line:
		}
	}
	return scanner.Err()
}

// firstErr keeps the first non-cancellation error reported to it.
type firstErr struct {
	mu  sync.Mutex
	err error
}

func (e *firstErr) set(err error) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

// Err returns the first recorded error.
func (e *firstErr) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
