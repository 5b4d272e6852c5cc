package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/Herodot91/gov-simulator/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// printResult writes the text rendering of a run: history table, log and
// final summary.
func printResult(w io.Writer, res *models.Result) {
	headers := []string{""}
	for _, n := range models.ScoreNames {
		headers = append(headers, string(n))
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for _, row := range report.HistoryTable(res) {
		cells := []string{row.Label}
		for _, n := range models.ScoreNames {
			cells = append(cells, strconv.Itoa(row.Scores.Get(n)))
		}
		t.Row(cells...)
	}

	fmt.Fprintf(w, "Mode: %s  |  Starting Budget: %d\n\n", res.Mode, res.StartingBudget)
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log:")
	for _, line := range res.Log {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)

	final := res.FinalScores()
	fmt.Fprintf(w, "Final Scores: %s  |  Budget Left: %d\n", final, res.FinalBudget)
	fmt.Fprintf(w, "Risk: %s\n", models.RiskLevel(final.Risk))
	reaction := res.LastInternationalReaction
	if reaction == "" {
		reaction = "—"
	}
	fmt.Fprintf(w, "Last Intl Reaction: %s\n", reaction)
}
