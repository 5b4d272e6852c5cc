package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/engine"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/Herodot91/gov-simulator/internal/report"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, budget int) model {
	t.Helper()
	return NewModel(Options{
		Engine:   engine.NewEngine(catalog.Default(), nil),
		Exporter: report.NewExporter(t.TempDir()),
		Mode:     models.Democracy,
		Budget:   budget,
	})
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestPlayThrough(t *testing.T) {
	m := newTestModel(t, 100)
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	m = send(t, m, key(tea.KeyEnter))
	require.Equal(t, stateChoosing, m.state)
	assert.Contains(t, m.View(), "Scenario 1 of 5: Decentralization of Customs & Border Police")

	// S1 -> B, S2..S5 skipped
	m = send(t, m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyEnter))
	assert.Equal(t, 1, m.current)
	m = send(t, m, key(tea.KeyEnter), key(tea.KeyEnter), key(tea.KeyEnter), key(tea.KeyEnter))

	require.Equal(t, stateResults, m.state)
	require.NotNil(t, m.result)
	assert.Equal(t, models.Scores{Governance: 60, Economy: 50, Stability: 55, Risk: 50}, m.result.FinalScores())
	assert.Equal(t, 80, m.result.FinalBudget)
	assert.Equal(t, []models.Choice{models.Select("B"), models.Skip(), models.Skip(), models.Skip(), models.Skip()}, m.run.Choices)

	view := m.View()
	assert.Contains(t, view, "Budget Left: 80")
	assert.Contains(t, view, "Citizen Progress Card")
	assert.Contains(t, view, "MEDIUM RISK")
	assert.Contains(t, view, "Last Intl Reaction:")
}

func TestCursorWrapsAndBack(t *testing.T) {
	m := send(t, newTestModel(t, 100), key(tea.KeyEnter))

	m = send(t, m, key(tea.KeyUp))
	assert.Equal(t, 2, m.cursors[0], "up from skip wraps to last option")

	m = send(t, m, key(tea.KeyEnter), key(tea.KeyDown), key(tea.KeyLeft))
	assert.Equal(t, 0, m.current)
	assert.Equal(t, 1, m.cursors[1], "selection kept when going back")
}

func TestResetChoices(t *testing.T) {
	m := send(t, newTestModel(t, 100), key(tea.KeyEnter))
	m = send(t, m, key(tea.KeyDown), key(tea.KeyEnter), key(tea.KeyDown), runeKey('r'))

	assert.Equal(t, 0, m.current)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, m.cursors)
}

func TestSetupModeAndBudget(t *testing.T) {
	m := newTestModel(t, 100)
	m = send(t, m, key(tea.KeyTab), key(tea.KeyUp), key(tea.KeyUp))
	assert.Equal(t, models.Autocracy, m.mode)
	assert.Equal(t, "110", m.budgetInput.Value())

	m.budgetInput.SetValue("148")
	m = send(t, m, key(tea.KeyUp))
	assert.Equal(t, "150", m.budgetInput.Value())

	m.budgetInput.SetValue("abc")
	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, stateSetup, m.state)
	assert.Contains(t, m.View(), "Budget must be a whole number")

	m.budgetInput.SetValue("10")
	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, stateChoosing, m.state)
	assert.Equal(t, 10, m.budget)
}

func TestExportFromResults(t *testing.T) {
	m := send(t, newTestModel(t, 100), key(tea.KeyEnter))
	for range m.scenarios {
		m = send(t, m, key(tea.KeyEnter))
	}
	require.Equal(t, stateResults, m.state)

	m = send(t, m, runeKey('e'))
	assert.Contains(t, m.status, "Exported to")

	ids, err := m.exporter.ListExports()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	_, err = os.Stat(filepath.Join(m.exporter.Dir, ids[0], "history.csv"))
	assert.NoError(t, err)

	m = send(t, m, runeKey('b'))
	assert.Equal(t, stateResults, m.state)
	assert.Contains(t, m.status, "GEMINI_API_KEY")
}
