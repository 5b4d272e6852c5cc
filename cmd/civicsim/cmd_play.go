package main

import (
	"github.com/Herodot91/gov-simulator/internal/config"
	"github.com/Herodot91/gov-simulator/internal/tui"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the interactive simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			budget := min(a.Config.StartingBudget, config.MaxInteractiveBudget)
			return tui.Run(tui.Options{
				Engine:   a.Engine,
				Exporter: a.Exporter,
				Briefer:  a.Briefer,
				Mode:     a.Config.ParsedMode(),
				Budget:   budget,
				Log:      a.Log,
			})
		},
	}
}
