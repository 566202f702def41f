package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "flowpipe",
	Short: "Tooling for the flowpipe buffering library",
	Long: `flowpipe - non-blocking byte pipes over swappable storage backends.

The library buffers byte streams in heap memory, memory-mapped temp
files or plain files, composes those into elastic (never-full) pipes,
and spills producer backlog to disk when a consumer channel lags.

Commands:
  bench    FIFO throughput benchmark across pipe backends
  version  Show version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
