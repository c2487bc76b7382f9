package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Line) []Line {
	t.Helper()
	var out []Line
	for l := range ch {
		out = append(out, l)
	}
	return out
}

func TestReaderSource(t *testing.T) {
	src := NewReaderSource(strings.NewReader("one\ntwo\nthree"))
	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "three", got[2].Text)
	assert.Equal(t, "stdin", got[1].Stream)
	assert.NoError(t, src.Err())
}

func TestReaderSourceReadError(t *testing.T) {
	boom := errors.New("boom")
	src := NewReaderSource(io.MultiReader(strings.NewReader("one\n"), iotest.ErrReader(boom)))
	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Text)
	assert.ErrorIs(t, src.Err(), boom)
}

func TestFileSourceSplitsLongLines(t *testing.T) {
	long := strings.Repeat("a", 2*MaxLineSize+10)
	path := filepath.Join(t.TempDir(), "long.log")
	require.NoError(t, os.WriteFile(path, []byte(long+"\nsecond\nthird\n"), 0644))

	src := NewFileSource(path, false)
	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 5)
	assert.Len(t, got[0].Text, MaxLineSize)
	assert.Len(t, got[1].Text, MaxLineSize)
	assert.Equal(t, strings.Repeat("a", 10), got[2].Text)
	assert.Equal(t, "second", got[3].Text)
	assert.Equal(t, "third", got[4].Text)
	assert.NoError(t, src.Err())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	src := NewFileSource(path, false)
	assert.Equal(t, "file:"+path, src.Name())

	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Text)
	assert.Equal(t, "file", got[0].Stream)
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope"), false).Start(context.Background())
	assert.Error(t, err)
}

func TestFileSourceFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	src := NewFileSource(path, true)
	src.poll = 5 * time.Millisecond
	ch, err := src.Start(ctx)
	require.NoError(t, err)

	l := <-ch
	assert.Equal(t, "first", l.Text)

	cancel()
	for range ch {
	}
}

func TestExecSource(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	src := NewExecSource("/bin/sh", []string{"-c", "echo out; echo err 1>&2"})
	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	streams := map[string]string{}
	for _, l := range collect(t, ch) {
		streams[l.Stream] = l.Text
	}
	assert.Equal(t, "out", streams["stdout"])
	assert.Equal(t, "err", streams["stderr"])
	assert.NoError(t, src.Err())
}

func TestExecSourceLongLineDoesNotHang(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	src := NewExecSource("/bin/sh", []string{"-c", "head -c 2000000 /dev/zero | tr '\\0' a; echo; echo after"})
	ch, err := src.Start(context.Background())
	require.NoError(t, err)

	done := make(chan []Line)
	go func() { done <- collect(t, ch) }()

	var got []Line
	select {
	case got = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("line channel was never closed")
	}

	require.Len(t, got, 3)
	assert.Len(t, got[0].Text, MaxLineSize)
	assert.Len(t, got[1].Text, 2000000-MaxLineSize)
	assert.Equal(t, "after", got[2].Text)
	assert.NoError(t, src.Err())
}

func TestExecSourceExitError(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	src := NewExecSource("/bin/sh", []string{"-c", "exit 3"})
	ch, err := src.Start(context.Background())
	require.NoError(t, err)
	collect(t, ch)
	assert.Error(t, src.Err())
}
