package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ReaderSource reads lines from a reader, os.Stdin by default (pipe mode).
type ReaderSource struct {
	r io.Reader
	firstErr
}

// NewStdinSource creates a source that reads from stdin.
func NewStdinSource() *ReaderSource {
	return NewReaderSource(os.Stdin)
}

// NewReaderSource creates a source that reads from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Name returns the source identifier.
func (s *ReaderSource) Name() string {
	return "stdin"
}

// Start reads from the reader and returns a channel of lines.
func (s *ReaderSource) Start(ctx context.Context) (<-chan Line, error) {
	ch := make(chan Line, 256)

	go func() {
		defer close(ch)
		if err := scan(ctx, "stdin", s.r, ch); err != nil {
			s.set(fmt.Errorf("read: %w", err))
		}
	}()

	return ch, nil
}
