package source

import (
	"context"
	"fmt"
	"os"
	"time"
)

// FileSource reads lines from a file, optionally following new writes (tail -f).
type FileSource struct {
	path   string
	follow bool
	poll   time.Duration
	firstErr
}

// NewFileSource creates a source that reads from a file.
// If follow is true, it continues reading as new lines are appended.
func NewFileSource(path string, follow bool) *FileSource {
	return &FileSource{
		path:   path,
		follow: follow,
		poll:   100 * time.Millisecond,
	}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Start opens the file and returns a channel of lines.
func (s *FileSource) Start(ctx context.Context) (<-chan Line, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", s.path, err)
	}

	ch := make(chan Line, 256)

	go func() {
		defer close(ch)
		defer f.Close()

		for {
			if err := scan(ctx, "file", f, ch); err != nil {
				s.set(fmt.Errorf("read %s: %w", s.path, err))
				return
			}

			if !s.follow {
				return
			}

			// Poll for new data when following.
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.poll):
			}
		}
	}()

	return ch, nil
}
