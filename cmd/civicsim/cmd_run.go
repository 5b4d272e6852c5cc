package main

import (
	"fmt"

	"github.com/Herodot91/gov-simulator/internal/app"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/Herodot91/gov-simulator/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a choice sequence without the interactive UI",
		Long: `Simulate one run. Pass one --choice per scenario, in order: an option key
such as "B", a full option label such as "B) Decentralize to regions", or
"(skip)". Scenarios without a --choice are skipped.`,
		Example: `  civicsim run --mode Democracy --budget 100 --choice B --choice "(skip)" --choice B
  civicsim run --choice A --choice C --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := runFromFlags(cmd, a)
			if err != nil {
				return err
			}
			return simulateAndPrint(cmd, a, run)
		},
	}

	cmd.Flags().String("mode", "", "Democracy or Autocracy (default from CIVICSIM_MODE)")
	cmd.Flags().Int("budget", -1, "Starting budget (default from CIVICSIM_BUDGET)")
	cmd.Flags().StringArray("choice", nil, "Choice for the next scenario (repeatable)")
	cmd.Flags().Bool("export", false, "Write report.json, history.csv and run.yaml to the export directory")
	cmd.Flags().Bool("brief", false, "Append a press briefing (requires GEMINI_API_KEY)")

	return cmd
}

func runFromFlags(cmd *cobra.Command, a *app.App) (models.Run, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	budget, _ := cmd.Flags().GetInt("budget")
	labels, _ := cmd.Flags().GetStringArray("choice")

	mode := a.Config.ParsedMode()
	if modeFlag != "" {
		m, err := models.ParseMode(modeFlag)
		if err != nil {
			return models.Run{}, err
		}
		mode = m
	}
	if !cmd.Flags().Changed("budget") {
		budget = a.Config.StartingBudget
	}

	choices := make([]models.Choice, len(labels))
	for i, l := range labels {
		choices[i] = models.ParseChoice(l)
	}
	if n := a.Engine.Catalog().Len(); len(choices) > n {
		return models.Run{}, fmt.Errorf("got %d choices for %d scenarios", len(choices), n)
	}

	return models.Run{Mode: mode, StartingBudget: budget, Choices: choices}, nil
}

// simulateAndPrint runs the simulation and writes the result, honouring
// the --json, --export and --brief flags when the command defines them.
func simulateAndPrint(cmd *cobra.Command, a *app.App, run models.Run) error {
	res, err := a.Engine.Simulate(run)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		if err := report.WriteReportJSON(out, res); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if export, _ := cmd.Flags().GetBool("export"); export {
		id, err := a.Exporter.Save(run, res)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		a.Log.Info("run exported", zap.String("run_id", id), zap.String("dir", a.Exporter.Dir))
		if !jsonOut {
			fmt.Fprintf(out, "\nExported run %s to %s\n", id, a.Exporter.Dir)
		}
	}

	if brief, _ := cmd.Flags().GetBool("brief"); brief {
		if a.Briefer == nil {
			return fmt.Errorf("press briefing requires GEMINI_API_KEY")
		}
		text, err := a.Briefer.Brief(cmd.Context(), a.Engine.Catalog(), res)
		if err != nil {
			return fmt.Errorf("press briefing failed: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\nPress Briefing:\n%s\n", text)
	}
	return nil
}
