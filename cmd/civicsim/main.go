package main

import (
	"fmt"
	"os"

	"github.com/Herodot91/gov-simulator/internal/app"
	"github.com/Herodot91/gov-simulator/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "civicsim",
		Short: "Florești Metropole civic-education policy simulator",
		Long: `civicsim steps through a fixed sequence of policy scenarios, applies the
option chosen for each one, and tracks four bounded scores (Governance,
Economy, Stability, Risk) and a depletable budget.

Run "civicsim play" for the interactive simulator or "civicsim run" to
simulate a choice sequence non-interactively.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlayCmd(),
		newRunCmd(),
		newScenariosCmd(),
		newReplayCmd(),
		newExportsCmd(),
		newSweepCmd(),
	)
	return rootCmd
}

// loadApp reads the configuration and builds the services. quiet silences
// terminal logging for the full-screen UI.
func loadApp(cmd *cobra.Command, quiet bool) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.New(cmd.Context(), cfg, quiet)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}
