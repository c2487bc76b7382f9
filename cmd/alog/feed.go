package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/filter"
	"github.com/Geun-Oh/alog/internal/pipeline"
	"github.com/Geun-Oh/alog/internal/source"
)

// feedOptions controls how source lines become pipeline entries.
type feedOptions struct {
	level  string   // fixed level; empty means detect from the line
	only   []string // levels to keep; empty keeps all
	tier   int      // verbosity tier of every submitted line
	stream map[string]entry.Level
}

// gate builds the filter every line must pass: the --only levels, if any,
// and the process verbosity threshold against the line tier.
func (o feedOptions) gate() (filter.Filter, error) {
	verbosity := filter.NewVerbosityFilter(filter.Global)
	if len(o.only) == 0 {
		return verbosity, nil
	}
	levels := make([]entry.Level, 0, len(o.only))
	for _, s := range o.only {
		for _, part := range strings.Split(s, ",") {
			l, err := entry.ParseLevel(part)
			if err != nil {
				return nil, err
			}
			levels = append(levels, l)
		}
	}
	return filter.NewChain(filter.MatchAll, filter.NewLevelFilter(levels...), verbosity), nil
}

// feed copies every line of src into p until src is exhausted or ctx ends.
// It returns the number of lines submitted and the source's read error, if
// any.
func feed(ctx context.Context, p *pipeline.Pipeline, src source.Source, opts feedOptions) (int, error) {
	var fixed *entry.Level
	if opts.level != "" {
		l, err := entry.ParseLevel(opts.level)
		if err != nil {
			return 0, err
		}
		fixed = &l
	}

	gate, err := opts.gate()
	if err != nil {
		return 0, err
	}

	ch, err := src.Start(ctx)
	if err != nil {
		return 0, fmt.Errorf("start %s: %w", src.Name(), err)
	}

	n := 0
	for line := range ch {
		level := opts.stream[line.Stream]
		if fixed != nil {
			level = *fixed
		} else {
			level = filter.DetectLevel(line.Text, level)
		}

		candidate := entry.LogEntry{Level: level, Verbosity: opts.tier}
		if !gate.Match(&candidate) {
			continue
		}

		p.Add(level, opts.tier, "%s\n", line.Text)
		n++
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	if err := src.Err(); err != nil {
		return n, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return n, nil
}
