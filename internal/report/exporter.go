package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	reportFile  = "report.json"
	historyFile = "history.csv"
	runFile     = "run.yaml"
)

// Exporter writes one directory per run under Dir.
type Exporter struct {
	Dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Save writes the report, the history CSV and the run inputs for res and
// returns the generated run id.
func (e *Exporter) Save(run models.Run, res *models.Result) (string, error) {
	id := uuid.NewString()
	dir := filepath.Join(e.Dir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var reportBuf bytes.Buffer
	if err := WriteReportJSON(&reportBuf, res); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, reportFile), reportBuf.Bytes(), 0644); err != nil {
		return "", err
	}

	var historyBuf bytes.Buffer
	if err := WriteHistoryCSV(&historyBuf, res); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, historyFile), historyBuf.Bytes(), 0644); err != nil {
		return "", err
	}

	runData, err := yaml.Marshal(run)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, runFile), runData, 0644); err != nil {
		return "", err
	}

	return id, nil
}

// LoadRun reads back the inputs of an exported run so it can be replayed.
func (e *Exporter) LoadRun(id string) (models.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Run{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	data, err := os.ReadFile(filepath.Join(e.Dir, id, runFile))
	if err != nil {
		return models.Run{}, err
	}
	var run models.Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return models.Run{}, fmt.Errorf("parse %s: %w", runFile, err)
	}
	return run, nil
}

// ListExports returns the ids of exported runs, sorted.
func (e *Exporter) ListExports() ([]string, error) {
	if _, err := os.Stat(e.Dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// run.yaml marks a complete export
		if _, err := os.Stat(filepath.Join(e.Dir, entry.Name(), runFile)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
