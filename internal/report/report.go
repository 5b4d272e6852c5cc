// Package report turns a simulation result into exportable artifacts: the
// score history table, a CSV rendering of it and the JSON run report.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Herodot91/gov-simulator/internal/models"
)

// Row is one line of the score history table.
type Row struct {
	Label  string
	Scores models.Scores
}

// HistoryTable labels each snapshot S1..SN.
func HistoryTable(res *models.Result) []Row {
	rows := make([]Row, len(res.History))
	for i, s := range res.History {
		rows[i] = Row{Label: fmt.Sprintf("S%d", i+1), Scores: s}
	}
	return rows
}

// WriteHistoryCSV writes the history table with an unnamed index column,
// the layout spreadsheet tools and pandas read back without options.
func WriteHistoryCSV(w io.Writer, res *models.Result) error {
	cw := csv.NewWriter(w)
	header := []string{""}
	for _, n := range models.ScoreNames {
		header = append(header, string(n))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range HistoryTable(res) {
		rec := []string{row.Label}
		for _, n := range models.ScoreNames {
			rec = append(rec, strconv.Itoa(row.Scores.Get(n)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report is the downloadable summary of one run.
type Report struct {
	Mode           models.Mode   `json:"mode"`
	StartingBudget int           `json:"starting_budget"`
	FinalBudget    int           `json:"final_budget"`
	FinalScores    models.Scores `json:"final_scores"`
	Log            []string      `json:"log"`
}

func BuildReport(res *models.Result) Report {
	log := res.Log
	if log == nil {
		log = []string{}
	}
	return Report{
		Mode:           res.Mode,
		StartingBudget: res.StartingBudget,
		FinalBudget:    res.FinalBudget,
		FinalScores:    res.FinalScores(),
		Log:            log,
	}
}

func WriteReportJSON(w io.Writer, res *models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(BuildReport(res))
}
