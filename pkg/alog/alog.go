package alog

import (
	"errors"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/filter"
	"github.com/Geun-Oh/alog/internal/pipeline"
)

// Logger is an asynchronous log pipeline.
type Logger = pipeline.Pipeline

// Options configures a Logger.
type Options = pipeline.Options

// Level is the severity of a log entry.
type Level = entry.Level

// Severity levels.
const (
	LevelNone  = entry.LevelNone
	LevelInfo  = entry.LevelInfo
	LevelWarn  = entry.LevelWarn
	LevelError = entry.LevelError
	LevelDebug = entry.LevelDebug
)

// Verbosity tiers.
const (
	DefaultDebug = filter.DefaultDebug
	DefaultLlama = filter.DefaultLlama
)

// ErrInitialized is returned by Init when the main logger already exists.
var ErrInitialized = errors.New("alog: main logger already initialized")

var (
	mainMu     sync.Mutex
	mainLogger *Logger
)

// New creates an independent logger with the given initial capacity and
// starts it. Release it with Close.
func New(capacity int) *Logger {
	opts := defaultOptions()
	opts.Capacity = capacity
	return pipeline.New(opts)
}

// Main returns the process-wide logger, building it with default options on
// first use.
func Main() *Logger {
	mainMu.Lock()
	defer mainMu.Unlock()

	if mainLogger == nil {
		mainLogger = pipeline.New(defaultOptions())
	}
	return mainLogger
}

// Init builds the process-wide logger with opts. It fails with
// ErrInitialized if Main or Init already built it.
func Init(opts Options) error {
	mainMu.Lock()
	defer mainMu.Unlock()

	if mainLogger != nil {
		return ErrInitialized
	}
	if opts.Threshold == nil {
		opts.Threshold = filter.Global
	}
	mainLogger = pipeline.New(opts)
	return nil
}

// Shutdown drains and stops the process-wide logger and closes its file.
// A later call to Main or Init builds a fresh one.
func Shutdown() error {
	mainMu.Lock()
	l := mainLogger
	mainLogger = nil
	mainMu.Unlock()

	if l == nil {
		return nil
	}
	return l.Close()
}

func defaultOptions() Options {
	return Options{
		Capacity:  pipeline.DefaultCapacity,
		Threshold: filter.Global,
		Colors:    isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// SetVerbosityThreshold sets the process-wide verbosity threshold. Calls
// with a higher verbosity tier are not submitted, and DEBUG console output
// needs a threshold of at least DefaultDebug.
func SetVerbosityThreshold(v int) {
	filter.Global.Set(v)
}

// VerbosityThreshold returns the process-wide verbosity threshold.
func VerbosityThreshold() int {
	return filter.Global.Get()
}

// logAt submits to the main logger when verbosity passes the threshold.
// Arguments are not formatted otherwise.
func logAt(level Level, verbosity int, format string, args ...any) {
	if !filter.Global.Allowed(verbosity) {
		return
	}
	Main().Add(level, verbosity, format, args...)
}

// Log prints a raw message without timestamp or tag.
func Log(format string, args ...any) { logAt(LevelNone, 0, format, args...) }

// Logv prints a raw message at verbosity tier v.
func Logv(v int, format string, args ...any) { logAt(LevelNone, v, format, args...) }

// Info logs at INFO level.
func Info(format string, args ...any) { logAt(LevelInfo, 0, format, args...) }

// Warn logs at WARN level.
func Warn(format string, args ...any) { logAt(LevelWarn, 0, format, args...) }

// Error logs at ERROR level.
func Error(format string, args ...any) { logAt(LevelError, 0, format, args...) }

// Debug logs at DEBUG level with verbosity tier DefaultDebug.
func Debug(format string, args ...any) { logAt(LevelDebug, DefaultDebug, format, args...) }

// InfoV logs at INFO level with verbosity tier v.
func InfoV(v int, format string, args ...any) { logAt(LevelInfo, v, format, args...) }

// WarnV logs at WARN level with verbosity tier v.
func WarnV(v int, format string, args ...any) { logAt(LevelWarn, v, format, args...) }

// ErrorV logs at ERROR level with verbosity tier v.
func ErrorV(v int, format string, args ...any) { logAt(LevelError, v, format, args...) }

// DebugV logs at DEBUG level with verbosity tier v.
func DebugV(v int, format string, args ...any) { logAt(LevelDebug, v, format, args...) }

// Pause drains and stops the main logger. Calls made while paused are dropped.
func Pause() { Main().Pause() }

// Resume restarts the main logger.
func Resume() { Main().Resume() }

// SetFile mirrors the main logger's output into path, truncating it.
// An empty path detaches the current file.
func SetFile(path string) error { return Main().SetFile(path) }

// SetTimestamps turns timestamps on or off for later entries of the main logger.
func SetTimestamps(on bool) { Main().SetTimestamps(on) }

// SetColors turns console colors on or off for the main logger.
func SetColors(on bool) { Main().SetColors(on) }
