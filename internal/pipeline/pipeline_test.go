package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/filter"
)

// gateWriter blocks the first Write until released, holding the worker
// while producers keep adding.
type gateWriter struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	buf     bytes.Buffer
}

func newGateWriter() *gateWriter {
	return &gateWriter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (w *gateWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	return w.buf.Write(p)
}

type testOutput struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestPipeline builds a pipeline writing to in-memory buffers. The
// buffers must only be read after Pause or Close.
func newTestPipeline(t *testing.T, opts Options) (*Pipeline, *testOutput) {
	t.Helper()
	out := &testOutput{}
	if opts.Stdout == nil {
		opts.Stdout = &out.stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = &out.stderr
	}
	if opts.Threshold == nil {
		opts.Threshold = filter.NewThreshold(filter.DefaultLlama)
	}
	p := New(opts)
	t.Cleanup(func() { _ = p.Close() })
	return p, out
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestFileMirroring(t *testing.T) {
	p, out := newTestPipeline(t, Options{NoTimestamps: true, Colors: true})
	path := filepath.Join(t.TempDir(), "mirror.log")
	require.NoError(t, p.SetFile(path))

	p.Add(entry.LevelInfo, 0, "alpha\n")
	p.Add(entry.LevelInfo, 0, "beta:%d\n", 42)
	p.Add(entry.LevelInfo, 0, "gamma\n")
	require.NoError(t, p.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "I alpha\nI beta:42\nI gamma\n", string(got))
	assert.NotContains(t, string(got), "\033[")

	assert.Contains(t, out.stdout.String(), "\033[", "console keeps its colors")
}

func TestPauseDrainsPending(t *testing.T) {
	p, out := newTestPipeline(t, Options{NoTimestamps: true})

	const k = 1000
	for i := 0; i < k; i++ {
		p.Add(entry.LevelNone, 0, "msg %d\n", i)
	}
	p.Pause()

	got := lines(out.stdout.String())
	require.Len(t, got, k)
	for i, l := range got {
		assert.Equal(t, fmt.Sprintf("msg %d", i), l)
	}
	assert.Equal(t, uint64(k), p.Stats().Printed())
}

func TestFIFOAcrossProducers(t *testing.T) {
	p, out := newTestPipeline(t, Options{Capacity: 4, NoTimestamps: true})
	path := filepath.Join(t.TempDir(), "fifo.log")
	require.NoError(t, p.SetFile(path))

	const producers, perProducer = 8, 500

	var g errgroup.Group
	for id := 0; id < producers; id++ {
		id := id
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				p.Add(entry.LevelInfo, 0, "p%d m%d\n", id, i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, p.Close())

	console := lines(out.stdout.String())
	require.Len(t, console, producers*perProducer)

	file, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.stdout.String(), string(file), "console and file share one global order")

	next := make([]int, producers)
	for _, l := range console {
		var id, seq int
		_, err := fmt.Sscanf(l, "I p%d m%d", &id, &seq)
		require.NoError(t, err, l)
		assert.Equal(t, next[id], seq, "producer %d out of order", id)
		next[id] = seq + 1
	}
}

func TestNoLossUnderGrowth(t *testing.T) {
	gate := newGateWriter()
	p, _ := newTestPipeline(t, Options{Capacity: 4, NoTimestamps: true, Stdout: gate})

	p.Add(entry.LevelNone, 0, "0\n")
	<-gate.entered // the worker is now stuck printing the first entry

	const n = 1000
	for i := 1; i <= n; i++ {
		p.Add(entry.LevelNone, 0, "%d\n", i)
	}
	assert.Greater(t, p.Capacity(), 4)
	assert.NotZero(t, p.Stats().Grows())

	close(gate.release)
	p.Pause()

	got := lines(gate.buf.String())
	require.Len(t, got, n+1)
	for i, l := range got {
		assert.Equal(t, fmt.Sprint(i), l)
	}
}

func TestAddWhilePausedIsDropped(t *testing.T) {
	p, out := newTestPipeline(t, Options{NoTimestamps: true})

	p.Pause()
	assert.False(t, p.Running())
	p.Add(entry.LevelInfo, 0, "lost\n")

	p.Resume()
	p.Add(entry.LevelInfo, 0, "kept\n")
	p.Pause()

	assert.Equal(t, "I kept\n", out.stdout.String())
	assert.Equal(t, uint64(1), p.Stats().Dropped())
	assert.Equal(t, uint64(1), p.Stats().Enqueued())
}

func TestTimestampToggleIsForwardOnly(t *testing.T) {
	gate := newGateWriter()
	p, _ := newTestPipeline(t, Options{Stdout: gate})

	p.Add(entry.LevelNone, 0, "hold\n")
	<-gate.entered

	time.Sleep(time.Millisecond)
	p.Add(entry.LevelInfo, 0, "before\n")
	p.SetTimestamps(false)
	p.Add(entry.LevelInfo, 0, "after\n")

	close(gate.release)
	p.Pause()

	got := lines(gate.buf.String())
	require.Len(t, got, 3)
	assert.Regexp(t, regexp.MustCompile(`^\d{5}\.\d{2}\.\d{3}\.\d{3} I before$`), got[1])
	assert.Equal(t, "I after", got[2])
}

func TestDebugSuppression(t *testing.T) {
	th := filter.NewThreshold(filter.DefaultLlama)
	p, out := newTestPipeline(t, Options{NoTimestamps: true, Threshold: th})
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, p.SetFile(path))

	p.Add(entry.LevelDebug, filter.DefaultDebug, "hidden\n")
	p.Add(entry.LevelInfo, 0, "shown\n")
	p.Pause()

	assert.Empty(t, out.stderr.String())
	assert.Equal(t, "I shown\n", out.stdout.String())

	th.Set(filter.DefaultDebug)
	p.Resume()
	p.Add(entry.LevelDebug, filter.DefaultDebug, "visible\n")
	require.NoError(t, p.Close())

	assert.Equal(t, "D visible\n", out.stderr.String())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "D hidden\nI shown\nD visible\n", string(got))
}

func TestStreamSelection(t *testing.T) {
	p, out := newTestPipeline(t, Options{NoTimestamps: true, Threshold: filter.NewThreshold(filter.DefaultDebug)})

	p.Add(entry.LevelNone, 0, "n\n")
	p.Add(entry.LevelInfo, 0, "i\n")
	p.Add(entry.LevelWarn, 0, "w\n")
	p.Add(entry.LevelError, 0, "e\n")
	p.Add(entry.LevelDebug, 0, "d\n")
	p.Pause()

	assert.Equal(t, "n\nI i\n", out.stdout.String())
	assert.Equal(t, "W w\nE e\nD d\n", out.stderr.String())
}

func TestIdempotentLifecycle(t *testing.T) {
	p, out := newTestPipeline(t, Options{NoTimestamps: true})

	p.Resume()
	p.Resume()
	assert.True(t, p.Running())

	p.Add(entry.LevelInfo, 0, "once\n")

	p.Pause()
	p.Pause()
	assert.False(t, p.Running())
	assert.Equal(t, "I once\n", out.stdout.String())

	p.Resume()
	assert.True(t, p.Running())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, p.Running())
}

func TestSetFile(t *testing.T) {
	t.Run("OpenErrorKeepsRunning", func(t *testing.T) {
		p, out := newTestPipeline(t, Options{NoTimestamps: true})

		err := p.SetFile(filepath.Join(t.TempDir(), "no", "such", "dir.log"))
		require.Error(t, err)
		assert.True(t, p.Running())

		p.Add(entry.LevelInfo, 0, "still here\n")
		p.Pause()
		assert.Equal(t, "I still here\n", out.stdout.String())
	})

	t.Run("DetachAndSwap", func(t *testing.T) {
		p, _ := newTestPipeline(t, Options{NoTimestamps: true})
		dir := t.TempDir()
		first := filepath.Join(dir, "first.log")
		second := filepath.Join(dir, "second.log")

		require.NoError(t, p.SetFile(first))
		p.Add(entry.LevelWarn, 0, "one\n")
		require.NoError(t, p.SetFile(second))
		p.Add(entry.LevelWarn, 0, "two\n")
		require.NoError(t, p.SetFile(""))
		p.Add(entry.LevelWarn, 0, "three\n")
		p.Pause()

		got, err := os.ReadFile(first)
		require.NoError(t, err)
		assert.Equal(t, "W one\n", string(got))

		got, err = os.ReadFile(second)
		require.NoError(t, err)
		assert.Equal(t, "W two\n", string(got))
	})

	t.Run("ResumesPausedPipeline", func(t *testing.T) {
		p, _ := newTestPipeline(t, Options{})
		p.Pause()
		require.NoError(t, p.SetFile(""))
		assert.True(t, p.Running())
	})
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestSinkErrorsAreCounted(t *testing.T) {
	p, _ := newTestPipeline(t, Options{Stdout: errWriter{}})

	p.Add(entry.LevelInfo, 0, "x\n")
	p.Pause()

	assert.Equal(t, uint64(1), p.Stats().SinkErrors())
	assert.Equal(t, uint64(1), p.Stats().Printed())
}

// flushCounter is a buffered-style writer that counts Flush calls.
type flushCounter struct {
	bytes.Buffer
	flushes int
}

func (w *flushCounter) Flush() error {
	w.flushes++
	return nil
}

func TestPauseFlushesConsole(t *testing.T) {
	w := &flushCounter{}
	p, _ := newTestPipeline(t, Options{Stdout: w, NoTimestamps: true})

	p.Add(entry.LevelInfo, 0, "x\n")
	p.Pause()

	assert.Equal(t, "I x\n", w.String())
	assert.Equal(t, 2, w.flushes, "one flush per line plus one at the pause sentinel")
}

func TestConcurrentControl(t *testing.T) {
	p, _ := newTestPipeline(t, Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	var g errgroup.Group
	for id := 0; id < 4; id++ {
		id := id
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				p.Add(entry.LevelWarn, 0, "%d:%d\n", id, i)
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < 20; i++ {
			p.Pause()
			p.SetTimestamps(i%2 == 0)
			p.SetColors(i%2 == 1)
			p.Resume()
		}
		return nil
	})
	require.NoError(t, g.Wait())
	require.NoError(t, p.Close())

	s := p.Stats()
	assert.Equal(t, uint64(4*200), s.Enqueued()+s.Dropped())
	assert.Equal(t, s.Enqueued(), s.Printed())
}
