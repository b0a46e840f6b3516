package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aristath/dayplanner/internal/config"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dayplanner",
		Short: "Simulate a day of tasks with a greedy or a search scheduler",
		Long: `dayplanner plays out one simulated day over a set of tasks with durations,
prerequisites, preferences and optional fixed start times, and prints the
resulting timeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDefault()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newTasksCmd(a))
	rootCmd.AddCommand(newBenchCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	return rootCmd
}

func main() {
	// Signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
