package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-simulate an exported run from its saved inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.Exporter.LoadRun(args[0])
			if err != nil {
				return fmt.Errorf("failed to load run %s: %w", args[0], err)
			}
			return simulateAndPrint(cmd, a, run)
		},
	}
	cmd.Flags().Bool("brief", false, "Append a press briefing (requires GEMINI_API_KEY)")
	return cmd
}

func newExportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List exported runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := a.Exporter.ListExports()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(out, map[string]any{"dir": a.Exporter.Dir, "runs": ids})
			}
			if len(ids) == 0 {
				fmt.Fprintf(out, "No exported runs in %s\n", a.Exporter.Dir)
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}
