package alog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMain installs a main logger writing to buffers and restores the
// process-wide state afterwards.
func withMain(t *testing.T, threshold int) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	require.NoError(t, Shutdown())

	prev := VerbosityThreshold()
	SetVerbosityThreshold(threshold)

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, Init(Options{Stdout: stdout, Stderr: stderr, NoTimestamps: true}))

	t.Cleanup(func() {
		_ = Shutdown()
		SetVerbosityThreshold(prev)
	})
	return stdout, stderr
}

func TestInitTwice(t *testing.T) {
	withMain(t, DefaultLlama)
	assert.ErrorIs(t, Init(Options{}), ErrInitialized)
}

func TestMainIsLazySingleton(t *testing.T) {
	require.NoError(t, Shutdown())
	t.Cleanup(func() { _ = Shutdown() })

	a := Main()
	b := Main()
	assert.Same(t, a, b)
	assert.True(t, a.Running())

	require.NoError(t, Shutdown())
	assert.False(t, a.Running())
	assert.NotSame(t, a, Main(), "Main rebuilds after Shutdown")
}

func TestLevelsAndThreshold(t *testing.T) {
	stdout, stderr := withMain(t, DefaultLlama)

	Log("raw %s\n", "line")
	Info("info %d\n", 1)
	Warn("warn\n")
	Error("error\n")
	Debug("debug is above the threshold\n")
	InfoV(DefaultLlama+1, "too verbose\n")
	require.NoError(t, Shutdown())

	assert.Equal(t, "raw line\nI info 1\n", stdout.String())
	assert.Equal(t, "W warn\nE error\n", stderr.String())
}

func TestDebugReachesFileOnly(t *testing.T) {
	stdout, stderr := withMain(t, DefaultLlama)
	path := filepath.Join(t.TempDir(), "main.log")
	require.NoError(t, SetFile(path))

	// Tier 1 passes the submit threshold, but the console still hides DEBUG.
	DebugV(1, "quiet detail\n")
	Logv(1, "raw\n")
	require.NoError(t, Shutdown())

	assert.Empty(t, stderr.String())
	assert.Equal(t, "raw\n", stdout.String())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "D quiet detail\nraw\n", string(got))
}

func TestDebugOnConsole(t *testing.T) {
	_, stderr := withMain(t, DefaultDebug)

	Debug("now visible\n")
	WarnV(DefaultDebug, "warned\n")
	ErrorV(0, "failed\n")
	require.NoError(t, Shutdown())

	assert.Equal(t, "D now visible\nW warned\nE failed\n", stderr.String())
}

func TestPauseResumeTimestampsColors(t *testing.T) {
	stdout, _ := withMain(t, DefaultLlama)

	Pause()
	Info("dropped\n")
	Resume()
	SetColors(false)
	SetTimestamps(false)
	Info("kept\n")
	require.NoError(t, Shutdown())

	assert.Equal(t, "I kept\n", stdout.String())
}

func TestNewIsIndependent(t *testing.T) {
	l := New(8)
	defer l.Close()

	assert.True(t, l.Running())
	assert.Equal(t, 8, l.Capacity())
	assert.NotSame(t, l, Main())
	require.NoError(t, Shutdown())
}
