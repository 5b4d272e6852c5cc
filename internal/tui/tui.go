package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Herodot91/gov-simulator/internal/config"
	"github.com/Herodot91/gov-simulator/internal/debrief"
	"github.com/Herodot91/gov-simulator/internal/engine"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/Herodot91/gov-simulator/internal/report"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
)

const budgetStep = 5

type sessionState int

const (
	stateSetup sessionState = iota
	stateChoosing
	stateResults
	stateBriefing
	stateError
)

// Options configures the interactive session.
type Options struct {
	Engine   *engine.Engine
	Exporter *report.Exporter
	Briefer  *debrief.Briefer // optional
	Mode     models.Mode
	Budget   int
	Log      *zap.Logger
}

type model struct {
	state    sessionState
	engine   *engine.Engine
	exporter *report.Exporter
	briefer  *debrief.Briefer
	log      *zap.Logger

	scenarios []models.Scenario
	mode      models.Mode
	budget    int
	// cursors holds the highlighted entry per scenario; 0 is "(skip)".
	cursors []int
	current int

	budgetInput textinput.Model
	viewport    viewport.Model
	bars        map[models.ScoreName]progress.Model

	run      models.Run
	result   *models.Result
	status   string
	briefing string
	err      error
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0A223A")).
			Background(lipgloss.Color("#0B1B2B")).
			Foreground(lipgloss.Color("#EAF4FF")).
			Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90E0EF"))

	riskStyles = map[string]lipgloss.Style{
		"LOW RISK":    badge("#156B5D"),
		"MEDIUM RISK": badge("#7A5A00"),
		"HIGH RISK":   badge("#8A1B23"),
	}

	barColors = map[models.ScoreName]string{
		models.Governance: "#4CC9F0",
		models.Economy:    "#48CAE4",
		models.Stability:  "#90E0EF",
		models.Risk:       "#E63946",
	}
)

func badge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(bg)).
		Bold(true).
		Padding(0, 1)
}

func NewModel(opts Options) model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "0-150"
	ti.SetValue(strconv.Itoa(opts.Budget))
	ti.Focus()
	ti.CharLimit = 3
	ti.Width = 10

	bars := make(map[models.ScoreName]progress.Model, len(models.ScoreNames))
	for _, n := range models.ScoreNames {
		bars[n] = progress.New(
			progress.WithSolidFill(barColors[n]),
			progress.WithoutPercentage(),
			progress.WithWidth(30),
		)
	}

	scenarios := opts.Engine.Catalog().Scenarios()
	mode := opts.Mode
	if mode == "" {
		mode = models.Democracy
	}
	return model{
		state:       stateSetup,
		engine:      opts.Engine,
		exporter:    opts.Exporter,
		briefer:     opts.Briefer,
		log:         log,
		scenarios:   scenarios,
		mode:        mode,
		budget:      opts.Budget,
		cursors:     make([]int, len(scenarios)),
		budgetInput: ti,
		bars:        bars,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type briefingMsg struct {
	text string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.state {
		case stateSetup:
			return m.updateSetup(msg)
		case stateChoosing:
			return m.updateChoosing(msg), nil
		case stateResults:
			return m.updateResults(msg)
		case stateError:
			if msg.String() == "enter" {
				m.err = nil
				m.state = stateResults
				if m.result == nil {
					m.state = stateSetup
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case briefingMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.briefing = msg.text
		m.state = stateResults
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.mode == models.Democracy {
			m.mode = models.Autocracy
		} else {
			m.mode = models.Democracy
		}
		return m, nil
	case "up", "down":
		b, err := strconv.Atoi(m.budgetInput.Value())
		if err != nil {
			b = m.budget
		}
		if msg.String() == "up" {
			b += budgetStep
		} else {
			b -= budgetStep
		}
		b = max(0, min(config.MaxInteractiveBudget, b))
		m.budgetInput.SetValue(strconv.Itoa(b))
		return m, nil
	case "enter":
		b, err := strconv.Atoi(strings.TrimSpace(m.budgetInput.Value()))
		if err != nil || b < 0 || b > config.MaxInteractiveBudget {
			m.status = fmt.Sprintf("Budget must be a whole number between 0 and %d.", config.MaxInteractiveBudget)
			return m, nil
		}
		m.budget = b
		m.status = ""
		m.state = stateChoosing
		return m, nil
	}

	var cmd tea.Cmd
	m.budgetInput, cmd = m.budgetInput.Update(msg)
	return m, cmd
}

func (m model) updateChoosing(msg tea.KeyMsg) model {
	n := len(m.scenarios[m.current].Options) + 1
	switch msg.String() {
	case "up", "k":
		m.cursors[m.current] = (m.cursors[m.current] + n - 1) % n
	case "down", "j":
		m.cursors[m.current] = (m.cursors[m.current] + 1) % n
	case "left", "backspace":
		if m.current > 0 {
			m.current--
		}
	case "r":
		m = m.resetChoices()
	case "right", "enter":
		if m.current < len(m.scenarios)-1 {
			m.current++
			return m
		}
		return m.simulate()
	}
	return m
}

func (m model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m = m.resetChoices()
		m.state = stateChoosing
		return m, nil
	case "s":
		m = m.resetChoices()
		m.state = stateSetup
		return m, nil
	case "e":
		id, err := m.exporter.Save(m.run, m.result)
		if err != nil {
			m.log.Error("export failed", zap.Error(err))
			m.status = "Export failed: " + err.Error()
		} else {
			m.log.Info("run exported", zap.String("run_id", id))
			m.status = fmt.Sprintf("Exported to %s/%s", m.exporter.Dir, id)
		}
		return m, nil
	case "b":
		if m.briefer == nil {
			m.status = "Press briefing needs GEMINI_API_KEY."
			return m, nil
		}
		m.state = stateBriefing
		return m, m.requestBriefing()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// choices maps the highlighted entries to engine selections.
func (m model) choices() []models.Choice {
	out := make([]models.Choice, len(m.scenarios))
	for i, c := range m.cursors {
		if c == 0 {
			out[i] = models.Skip()
			continue
		}
		out[i] = models.ParseChoice(m.scenarios[i].Options[c-1].Label())
	}
	return out
}

func (m model) resetChoices() model {
	m.cursors = make([]int, len(m.scenarios))
	m.current = 0
	m.result = nil
	m.briefing = ""
	m.status = ""
	return m
}

func (m model) simulate() model {
	m.run = models.Run{Mode: m.mode, StartingBudget: m.budget, Choices: m.choices()}
	res, err := m.engine.Simulate(m.run)
	if err != nil {
		m.err = err
		m.state = stateError
		return m
	}
	m.result = res
	m.briefing = ""
	m.status = ""
	m.state = stateResults
	m.resizeViewport()
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoTop()
	return m
}

func (m *model) resizeViewport() {
	w := int(float64(m.width) * 0.6)
	h := m.height - 18
	if w < 20 {
		w = 60
	}
	if h < 5 {
		h = 10
	}
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	if m.result != nil {
		m.viewport.SetContent(m.renderLog())
	}
}

func (m model) requestBriefing() tea.Cmd {
	briefer, cat, res := m.briefer, m.engine.Catalog(), m.result
	return func() tea.Msg {
		text, err := briefer.Brief(context.Background(), cat, res)
		return briefingMsg{text: text, err: err}
	}
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateSetup:
		s = m.viewSetup()
	case stateChoosing:
		s = m.viewChoosing()
	case stateResults:
		s = m.viewResults()
	case stateBriefing:
		s = "\n  Preparing the press briefing... please wait.\n"
	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Enter to go back or Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) viewSetup() string {
	lines := []string{
		titleStyle.Render("Florești Metropole — CivicTech Simulator"),
		"",
		fmt.Sprintf("Mode: %s", selectedStyle.Render(string(m.mode))),
		"",
		"Starting budget (units): " + m.budgetInput.View(),
	}
	if m.status != "" {
		lines = append(lines, "", statusStyle.Render(m.status))
	}
	lines = append(lines, "", helpStyle.Render("tab: switch mode • ↑/↓: budget ±5 • enter: start • esc: quit"))
	return strings.Join(lines, "\n")
}

func (m model) viewChoosing() string {
	sc := m.scenarios[m.current]
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Scenario %d of %d: %s", sc.ID, len(m.scenarios), sc.Title)))
	b.WriteString("\n")
	b.WriteString(captionStyle.Render(sc.InternationalReaction))
	b.WriteString("\n\n")

	labels := []string{models.SkipLabel}
	for _, opt := range sc.Options {
		labels = append(labels, opt.Label())
	}
	for i, label := range labels {
		if i == m.cursors[m.current] {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(optionStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Mode: %s  |  Budget: %d\n\n", m.mode, m.budget))
	next := "enter: next scenario"
	if m.current == len(m.scenarios)-1 {
		next = "enter: run simulation"
	}
	b.WriteString(helpStyle.Render("↑/↓: choose • " + next + " • ←: back • r: reset choices • esc: quit"))
	return b.String()
}

func (m model) viewResults() string {
	final := m.result.FinalScores()
	header := fmt.Sprintf("Final Scores: %s  |  Budget Left: %d", final, m.result.FinalBudget)

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Score Evolution Over Scenarios"),
		m.renderHistory(),
		"",
		titleStyle.Render("Log"),
		m.viewport.View(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderCard())

	help := "↑/↓: scroll log • e: export CSV/JSON • r: reset choices • s: new setup • q: quit"
	if m.briefer != nil {
		help = "↑/↓: scroll log • e: export CSV/JSON • b: press briefing • r: reset choices • s: new setup • q: quit"
	}

	parts := []string{header, "", main}
	if m.status != "" {
		parts = append(parts, "", statusStyle.Render(m.status))
	}
	parts = append(parts, "", helpStyle.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderHistory() string {
	headers := []string{"Scenario"}
	for _, n := range models.ScoreNames {
		headers = append(headers, string(n))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C"))).
		Headers(headers...)
	for _, row := range report.HistoryTable(m.result) {
		cells := []string{row.Label}
		for _, n := range models.ScoreNames {
			cells = append(cells, strconv.Itoa(row.Scores.Get(n)))
		}
		t.Row(cells...)
	}
	return t.Render()
}

// renderCard draws the citizen progress card for the final scores.
func (m model) renderCard() string {
	final := m.result.FinalScores()
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Citizen Progress Card"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Budget: %d\n", m.result.FinalBudget))
	for _, n := range models.ScoreNames {
		v := final.Get(n)
		line := fmt.Sprintf("%-10s %3d", n, v)
		if n == models.Risk {
			level := models.RiskLevel(v)
			line += " " + riskStyles[level].Render(level)
		}
		b.WriteString(line + "\n")
		b.WriteString(m.bars[n].ViewAs(float64(v)/models.MaxScore) + "\n")
	}
	reaction := m.result.LastInternationalReaction
	if reaction == "" {
		reaction = "—"
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(30).Render("Last Intl Reaction: " + reaction))
	return cardStyle.Render(b.String())
}

func (m model) renderLog() string {
	if m.result == nil {
		return ""
	}
	w := m.viewport.Width
	if w <= 0 {
		w = 60
	}
	text := lipgloss.NewStyle().Width(w).Render(m.result.LogText())
	if m.briefing != "" {
		text += "\n\n" + titleStyle.Render("Press Briefing") + "\n" + lipgloss.NewStyle().Width(w).Render(m.briefing)
	}
	return text
}

func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
