package main

import (
	"github.com/spf13/cobra"

	"github.com/Geun-Oh/alog/internal/entry"
	"github.com/Geun-Oh/alog/internal/source"
)

var (
	runFeed = feedOptions{
		stream: map[string]entry.Level{
			"stdout": entry.LevelInfo,
			"stderr": entry.LevelWarn,
		},
	}

	runCmd = &cobra.Command{
		Use:   "run -- command [args...]",
		Short: "Run a command and log its output",
		Long: `Run a command and log its output. Lines from stdout default to INFO and lines
from stderr to WARN unless a level word is found in the line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := source.NewExecSource(args[0], args[1:])
			_, err := feed(cmd.Context(), logger, src, runFeed)
			return err
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&runFeed.level, "level", "l", "", "log every line at this level instead of detecting it")
	runCmd.Flags().StringSliceVar(&runFeed.only, "only", nil, "keep only these levels (none,info,warn,error,debug)")
	runCmd.Flags().IntVar(&runFeed.tier, "tier", 0, "verbosity tier of the lines; lines above the threshold are skipped")
}
