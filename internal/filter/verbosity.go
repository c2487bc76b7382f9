package filter

import (
	"sync/atomic"

	"github.com/Geun-Oh/alog/internal/entry"
)

const (
	// DefaultDebug is the verbosity tier of DEBUG messages and the threshold
	// at which DEBUG output is shown on the console.
	DefaultDebug = 10
	// DefaultLlama is the threshold used when nothing else is configured.
	DefaultLlama = 5
)

// Threshold is a verbosity threshold that can be read and changed from any
// goroutine.
type Threshold struct {
	v atomic.Int64
}

// Global is the process-wide threshold shared by the default pipeline and
// the package level logging functions.
var Global = NewThreshold(DefaultLlama)

// NewThreshold returns a threshold initialized to v.
func NewThreshold(v int) *Threshold {
	t := &Threshold{}
	t.v.Store(int64(v))
	return t
}

// Set changes the threshold.
func (t *Threshold) Set(v int) {
	t.v.Store(int64(v))
}

// Get returns the current threshold.
func (t *Threshold) Get() int {
	return int(t.v.Load())
}

// Allowed reports whether a message of the given verbosity tier should be
// submitted at all.
func (t *Threshold) Allowed(verbosity int) bool {
	return verbosity <= t.Get()
}

// ShowDebug reports whether DEBUG entries are printed on the console.
func (t *Threshold) ShowDebug() bool {
	return t.Get() >= DefaultDebug
}

// DebugGate hides DEBUG entries from the console while the threshold is
// below DefaultDebug. Other levels always pass.
type DebugGate struct {
	t *Threshold
}

// NewDebugGate creates a gate bound to t.
func NewDebugGate(t *Threshold) *DebugGate {
	return &DebugGate{t: t}
}

// Match returns false only for DEBUG entries while debug output is off.
func (g *DebugGate) Match(e *entry.LogEntry) bool {
	return e.Level != entry.LevelDebug || g.t.ShowDebug()
}

// Name returns the filter description.
func (g *DebugGate) Name() string {
	return "debug-gate"
}

// VerbosityFilter passes entries whose verbosity tier is within the threshold.
type VerbosityFilter struct {
	t *Threshold
}

// NewVerbosityFilter creates a verbosity filter bound to t.
func NewVerbosityFilter(t *Threshold) *VerbosityFilter {
	return &VerbosityFilter{t: t}
}

// Match returns true if the entry's verbosity does not exceed the threshold.
func (f *VerbosityFilter) Match(e *entry.LogEntry) bool {
	return f.t.Allowed(e.Verbosity)
}

// Name returns the filter description.
func (f *VerbosityFilter) Name() string {
	return "verbosity"
}
