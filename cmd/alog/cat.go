package main

import (
	"github.com/spf13/cobra"

	"github.com/Geun-Oh/alog/internal/source"
)

var (
	catFeed   feedOptions
	catFollow bool

	catCmd = &cobra.Command{
		Use:   "cat [file]",
		Short: "Log the lines of a file, or stdin when the file is - or missing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src source.Source = source.NewStdinSource()
			if len(args) == 1 && args[0] != "-" {
				src = source.NewFileSource(args[0], catFollow)
			}
			_, err := feed(cmd.Context(), logger, src, catFeed)
			return err
		},
	}
)

func init() {
	catCmd.Flags().StringVarP(&catFeed.level, "level", "l", "", "log every line at this level instead of detecting it")
	catCmd.Flags().StringSliceVar(&catFeed.only, "only", nil, "keep only these levels (none,info,warn,error,debug)")
	catCmd.Flags().IntVar(&catFeed.tier, "tier", 0, "verbosity tier of the lines; lines above the threshold are skipped")
	catCmd.Flags().BoolVar(&catFollow, "follow", false, "keep reading as the file grows")
}
