package filter

import (
	"regexp"
	"strings"

	"github.com/Geun-Oh/alog/internal/entry"
)

// levelKeywords maps level words found in foreign log lines to entry levels.
// Ordered by likelihood of occurrence for early exit.
var levelKeywords = []struct {
	keywords []string
	level    entry.Level
}{
	{[]string{"ERROR", "ERR", "FATAL", "PANIC", "CRITICAL"}, entry.LevelError},
	{[]string{"WARN", "WARNING"}, entry.LevelWarn},
	{[]string{"INFO"}, entry.LevelInfo},
	{[]string{"DEBUG", "TRACE"}, entry.LevelDebug},
}

// levelRegex detects log levels in common formats like [ERROR], level=error, etc.
var levelRegex = regexp.MustCompile(`(?i)\b(DEBUG|TRACE|INFO|WARN(?:ING)?|ERR(?:OR)?|FATAL|PANIC|CRITICAL)\b`)

// LevelFilter passes only entries whose level is in the allowed set.
type LevelFilter struct {
	allowed map[entry.Level]bool
}

// NewLevelFilter creates a filter that passes entries matching any of the given levels.
// Example: NewLevelFilter(entry.LevelError, entry.LevelWarn)
func NewLevelFilter(levels ...entry.Level) *LevelFilter {
	allowed := make(map[entry.Level]bool, len(levels))
	for _, l := range levels {
		allowed[l] = true
	}
	return &LevelFilter{allowed: allowed}
}

// Match returns true if the entry's level is in the allowed set.
func (f *LevelFilter) Match(e *entry.LogEntry) bool {
	return f.allowed[e.Level]
}

// Name returns the filter description.
func (f *LevelFilter) Name() string {
	var levels []string
	for _, l := range []entry.Level{entry.LevelNone, entry.LevelInfo, entry.LevelWarn, entry.LevelError, entry.LevelDebug} {
		if f.allowed[l] {
			levels = append(levels, l.String())
		}
	}
	return "level:" + strings.Join(levels, ",")
}

// DetectLevel attempts to extract a log level from a line produced by another
// program. It returns fallback when no level word is found.
func DetectLevel(msg string, fallback entry.Level) entry.Level {
	match := levelRegex.FindString(msg)
	if match == "" {
		return fallback
	}

	upper := strings.ToUpper(match)
	for _, p := range levelKeywords {
		for _, kw := range p.keywords {
			if upper == kw {
				return p.level
			}
		}
	}
	return fallback
}
