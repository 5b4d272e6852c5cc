package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/spf13/cobra"
)

func newScenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenario catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			cat := a.Engine.Catalog()
			out := cmd.OutOrStdout()

			if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
				data, err := cat.YAML()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				type option struct {
					Key         string         `json:"key"`
					Label       string         `json:"label"`
					Description string         `json:"description"`
					Cost        int            `json:"cost"`
					Effects     map[string]int `json:"effects"`
				}
				type scenario struct {
					ID                    int      `json:"id"`
					Title                 string   `json:"title"`
					InternationalReaction string   `json:"international_reaction"`
					Options               []option `json:"options"`
				}
				list := []scenario{}
				for _, sc := range cat.Scenarios() {
					s := scenario{ID: sc.ID, Title: sc.Title, InternationalReaction: sc.InternationalReaction}
					for _, opt := range sc.Options {
						eff := map[string]int{}
						for _, e := range opt.Effects {
							eff[string(e.Score)] = e.Delta
						}
						s.Options = append(s.Options, option{
							Key: opt.Key, Label: opt.Label(), Description: opt.Description, Cost: opt.Cost, Effects: eff,
						})
					}
					list = append(list, s)
				}
				return writeJSON(out, list)
			}

			for _, sc := range cat.Scenarios() {
				fmt.Fprintf(out, "Scenario %d: %s\n", sc.ID, sc.Title)
				fmt.Fprintf(out, "  %s\n", sc.InternationalReaction)
				fmt.Fprintf(out, "    %s\n", models.SkipLabel)
				for _, opt := range sc.Options {
					fmt.Fprintf(out, "    %s\n", opt.Label())
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().Bool("yaml", false, "Print the catalog as YAML, usable as a CIVICSIM_CATALOG file")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
