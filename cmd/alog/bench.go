package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Geun-Oh/alog/internal/entry"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)
)

var (
	benchProducers int
	benchMessages  int

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Hammer the pipeline from concurrent producers and print its counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if benchProducers <= 0 || benchMessages <= 0 {
				return fmt.Errorf("producers and messages must be positive")
			}

			var g errgroup.Group
			for id := 0; id < benchProducers; id++ {
				id := id
				g.Go(func() error {
					for i := 0; i < benchMessages; i++ {
						logger.Add(entry.LevelInfo, 0, "producer %d message %d\n", id, i)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			// Drain before reading the counters.
			logger.Pause()

			title := titleStyle.Render(fmt.Sprintf("alog bench: %d x %d", benchProducers, benchMessages))
			body := fmt.Sprintf("%s\nCapacity:    %d", logger.Stats().Summary(), logger.Capacity())
			fmt.Fprintln(cmd.OutOrStdout(), title)
			fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render(body))
			return nil
		},
	}
)

func init() {
	benchCmd.Flags().IntVarP(&benchProducers, "producers", "p", 8, "number of concurrent producers")
	benchCmd.Flags().IntVarP(&benchMessages, "messages", "n", 10000, "messages per producer")
	benchCmd.Flags().Bool("show", false, "print the benchmark messages instead of discarding them")
}
