// Package filter decides which entries reach the pipeline and which of them
// reach the console.
package filter

import (
	"strings"

	"github.com/Geun-Oh/alog/internal/entry"
)

// Filter determines whether a LogEntry passes a criterion.
type Filter interface {
	// Match returns true if the entry passes this filter.
	Match(e *entry.LogEntry) bool

	// Name returns a human-readable description of this filter.
	Name() string
}

// MatchMode controls how multiple filters are combined.
type MatchMode int

const (
	// MatchAny passes if ANY filter matches (OR logic).
	MatchAny MatchMode = iota
	// MatchAll passes only if ALL filters match (AND logic).
	MatchAll
)

// Chain combines multiple filters with a configurable match mode.
// A Chain is itself a Filter, so chains nest.
type Chain struct {
	filters []Filter
	mode    MatchMode
}

// NewChain creates a FilterChain with the given mode.
func NewChain(mode MatchMode, filters ...Filter) *Chain {
	return &Chain{
		filters: filters,
		mode:    mode,
	}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Match evaluates the chain against an entry.
// Returns true if no filters are configured (pass-through).
func (c *Chain) Match(e *entry.LogEntry) bool {
	if len(c.filters) == 0 {
		return true
	}

	switch c.mode {
	case MatchAll:
		for _, f := range c.filters {
			if !f.Match(e) {
				return false
			}
		}
		return true
	default: // MatchAny
		for _, f := range c.filters {
			if f.Match(e) {
				return true
			}
		}
		return false
	}
}

// Name returns a description of the chain and its members.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		names = append(names, f.Name())
	}
	op := " | "
	if c.mode == MatchAll {
		op = " & "
	}
	return "(" + strings.Join(names, op) + ")"
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}
