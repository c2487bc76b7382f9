package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// ExecSource executes a command and streams its stdout/stderr lines.
type ExecSource struct {
	command string
	args    []string
	firstErr
}

// NewExecSource creates a source that runs the given command with arguments.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{
		command: command,
		args:    args,
	}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return fmt.Sprintf("exec:%s", s.command)
}

// Start executes the command and returns a channel of lines.
// The channel is closed when the command exits or ctx is cancelled.
// Err then reports the first read error joined with the exit error.
func (s *ExecSource) Start(ctx context.Context) (<-chan Line, error) {
	cmd := exec.CommandContext(ctx, s.command, s.args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command: %w", err)
	}

	ch := make(chan Line, 256)
	var wg sync.WaitGroup
	var readErrs [2]error

	read := func(i int, stream string, r io.Reader) {
		defer wg.Done()
		if err := scan(ctx, stream, r, ch); err != nil {
			readErrs[i] = fmt.Errorf("read %s: %w", stream, err)
			// The child must never block on a pipe nobody reads.
			_, _ = io.Copy(io.Discard, r)
		}
	}
	wg.Add(2)
	go read(0, "stdout", stdoutPipe)
	go read(1, "stderr", stderrPipe)

	go func() {
		wg.Wait()
		s.set(errors.Join(readErrs[0], readErrs[1], cmd.Wait()))
		close(ch)
	}()

	return ch, nil
}
