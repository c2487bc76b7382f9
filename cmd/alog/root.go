package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Geun-Oh/alog/internal/config"
	"github.com/Geun-Oh/alog/internal/filter"
	"github.com/Geun-Oh/alog/internal/pipeline"
)

var (
	configPath string
	cfg        = config.Default()

	// logger is built by the root command before any subcommand runs.
	logger *pipeline.Pipeline

	rootCmd = &cobra.Command{
		Use:   "alog",
		Short: "alog feeds lines through an asynchronous log pipeline",
		Long: `alog feeds lines from files, stdin or a child process through an asynchronous
log pipeline. Lines are tagged by level, timestamped, printed to the console
and optionally mirrored to a file.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&cfg.File, "file", "f", cfg.File, "mirror output into this file (truncated)")
	flags.BoolVar(&cfg.Timestamps, "timestamps", cfg.Timestamps, "prefix entries with the time since start")
	flags.StringVar(&cfg.Colors, "colors", cfg.Colors, "console colors: auto, always or never")
	flags.IntVarP(&cfg.Verbosity, "verbosity", "v", cfg.Verbosity, "verbosity threshold (>= 10 shows DEBUG on the console)")
	flags.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "initial buffer capacity")

	rootCmd.AddCommand(catCmd, runCmd, benchCmd)
}

// setup merges file, environment and flag settings, in that order of
// precedence, and builds the pipeline.
func setup(cmd *cobra.Command, _ []string) error {
	merged, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := merged.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		merged.File = cfg.File
	}
	if flags.Changed("timestamps") {
		merged.Timestamps = cfg.Timestamps
	}
	if flags.Changed("colors") {
		merged.Colors = cfg.Colors
	}
	if flags.Changed("verbosity") {
		merged.Verbosity = cfg.Verbosity
	}
	if flags.Changed("capacity") {
		merged.Capacity = cfg.Capacity
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	cfg = merged

	filter.Global.Set(cfg.Verbosity)

	opts := pipeline.Options{
		Capacity:     cfg.Capacity,
		Colors:       cfg.UseColors(os.Stderr.Fd()),
		NoTimestamps: !cfg.Timestamps,
	}
	// bench discards console output unless --show is given.
	if show, err := flags.GetBool("show"); err == nil && !show {
		opts.Stdout, opts.Stderr = io.Discard, io.Discard
	}
	logger = pipeline.New(opts)

	if cfg.File != "" {
		if err := logger.SetFile(cfg.File); err != nil {
			return fmt.Errorf("attach log file: %w", err)
		}
	}
	return nil
}

func teardown(*cobra.Command, []string) error {
	if logger == nil {
		return nil
	}
	return logger.Close()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			_ = logger.Close()
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
