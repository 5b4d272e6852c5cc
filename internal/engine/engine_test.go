package engine

import (
	"testing"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.Default(), nil)
}

func skips(n int) []models.Choice {
	out := make([]models.Choice, n)
	for i := range out {
		out[i] = models.Skip()
	}
	return out
}

func TestInsufficientBudget(t *testing.T) {
	eng := newTestEngine(t)
	choices := skips(5)
	choices[0] = models.Select("B")

	res, err := eng.Simulate(models.Run{Mode: models.Autocracy, StartingBudget: 10, Choices: choices})
	require.NoError(t, err)

	assert.Equal(t, models.Baseline(), res.History[0])
	assert.Equal(t, 10, res.FinalBudget)
	assert.Equal(t, "Not enough budget for B) Decentralize to regions. Skipped.", res.Log[0])
	assert.Equal(t, models.OutcomeInsufficientBudget, res.Steps[0].Outcome)
	assert.Empty(t, res.LastInternationalReaction)
}

func TestDemocracyVote(t *testing.T) {
	eng := newTestEngine(t)
	choices := skips(5)
	choices[0] = models.Select("B")

	res, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: 100, Choices: choices})
	require.NoError(t, err)

	want := models.Scores{Governance: 60, Economy: 50, Stability: 55, Risk: 50}
	assert.Equal(t, want, res.History[0])
	assert.Equal(t, 80, res.FinalBudget)
	assert.Equal(t, "EU encourages decentralization.", res.LastInternationalReaction)

	require.Len(t, res.Log, 6)
	assert.Equal(t, "Decentralization of Customs & Border Police | B) Decentralize to regions | Cost 20 | "+
		"Intl: EU encourages decentralization. | Scores Governance 60, Economy 50, Stability 55, Risk 50 | Budget 80", res.Log[0])
	assert.Equal(t, "Vote: turnout 58% → PASSED", res.Log[1])
	require.NotNil(t, res.Steps[0].Vote)
	assert.Equal(t, models.Vote{Turnout: 58, Passed: true}, *res.Steps[0].Vote)
	for _, line := range res.Log[2:] {
		assert.Equal(t, "Skipped (no choice).", line)
	}
}

func TestAutocracyHasNoVote(t *testing.T) {
	eng := newTestEngine(t)
	res, err := eng.Simulate(models.Run{Mode: models.Autocracy, StartingBudget: 100, Choices: []models.Choice{models.Select("B")}})
	require.NoError(t, err)

	assert.Len(t, res.Log, 5)
	assert.Nil(t, res.Steps[0].Vote)
	assert.NotContains(t, res.LogText(), "Vote:")
}

func TestAllSkipped(t *testing.T) {
	eng := newTestEngine(t)
	res, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: 75, Choices: skips(5)})
	require.NoError(t, err)

	require.Len(t, res.History, 5)
	for _, s := range res.History {
		assert.Equal(t, models.Baseline(), s)
	}
	assert.Equal(t, 75, res.FinalBudget)
	assert.Empty(t, res.LastInternationalReaction)
	assert.Equal(t, []string{
		"Skipped (no choice).", "Skipped (no choice).", "Skipped (no choice).",
		"Skipped (no choice).", "Skipped (no choice).",
	}, res.Log)
}

func TestInvalidChoice(t *testing.T) {
	eng := newTestEngine(t)
	choices := []models.Choice{models.Select("Z"), models.Select("C"), models.Select("b")}

	res, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: 100, Choices: choices})
	require.NoError(t, err)

	assert.Equal(t, "Invalid choice.", res.Log[0])
	assert.Equal(t, models.OutcomeInvalidOptionKey, res.Steps[0].Outcome)
	assert.Equal(t, models.OutcomeApplied, res.Steps[1].Outcome)
	assert.Equal(t, models.OutcomeInvalidOptionKey, res.Steps[2].Outcome)
	assert.Equal(t, models.Scores{Governance: 55, Economy: 60, Stability: 50, Risk: 50}, res.History[1])
	assert.Equal(t, res.History[1], res.History[2])
	assert.Equal(t, 75, res.FinalBudget)
	assert.Equal(t, "Russia warns against outside influence.", res.LastInternationalReaction)
	// 55+50 > 90
	assert.Contains(t, res.LogText(), "Vote: turnout 55% → PASSED")
}

func TestMalformedLabelsAreInvalid(t *testing.T) {
	eng := newTestEngine(t)
	for _, label := range []string{")", ") nothing", "skip", "SKIP", " B) x", ""} {
		res, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: 100,
			Choices: []models.Choice{models.ParseChoice(label)}})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeInvalidOptionKey, res.Steps[0].Outcome, "label %q", label)
		assert.Equal(t, "Invalid choice.", res.Log[0], "label %q", label)
		assert.Equal(t, models.Baseline(), res.History[0], "label %q", label)
		assert.Equal(t, 100, res.FinalBudget, "label %q", label)
	}

	res, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: 100,
		Choices: []models.Choice{models.ParseChoice(models.SkipLabel)}})
	require.NoError(t, err)
	assert.Equal(t, "Skipped (no choice).", res.Log[0])
}

func TestFailedVoteKeepsEffects(t *testing.T) {
	cat, err := catalog.New([]models.Scenario{{
		ID: 1, Title: "Emergency Decree", InternationalReaction: "Observers concerned.",
		Options: []models.Option{{Key: "A", Description: "Suspend parliament", Cost: 0,
			Effects: models.Effects{{Score: models.Governance, Delta: -30}, {Score: models.Stability, Delta: -45}}}},
	}})
	require.NoError(t, err)

	res, err := NewEngine(cat, nil).Simulate(models.Run{Mode: models.Democracy, Choices: []models.Choice{models.Select("A")}})
	require.NoError(t, err)

	assert.Equal(t, models.Scores{Governance: 20, Economy: 50, Stability: 5, Risk: 50}, res.History[0])
	// round(30 + 2.5) = 33
	assert.Equal(t, "Vote: turnout 33% → FAILED", res.Log[1])
}

func TestChoiceCountMismatch(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.Simulate(models.Run{Mode: models.Autocracy, StartingBudget: 50})
	require.NoError(t, err)
	assert.Len(t, res.History, 5)
	assert.Equal(t, models.OutcomeSkippedChoice, res.Steps[4].Outcome)

	long := append(skips(5), models.Select("A"), models.Select("B"))
	res, err = eng.Simulate(models.Run{Mode: models.Autocracy, StartingBudget: 50, Choices: long})
	require.NoError(t, err)
	assert.Len(t, res.History, 5)
	assert.Len(t, res.Log, 5)
}

func TestSimulateRejectsInvalidRun(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Simulate(models.Run{Mode: models.Democracy, StartingBudget: -1})
	assert.ErrorIs(t, err, models.ErrInvalidRun)

	_, err = eng.Simulate(models.Run{Mode: "Oligarchy"})
	assert.ErrorIs(t, err, models.ErrInvalidRun)
}

func TestClampingAtBounds(t *testing.T) {
	cat, err := catalog.New([]models.Scenario{
		{ID: 1, Title: "Boom", Options: []models.Option{{Key: "A", Description: "up",
			Effects: models.Effects{{Score: models.Economy, Delta: 80}, {Score: models.Risk, Delta: -80}}}}},
		{ID: 2, Title: "Bust", Options: []models.Option{{Key: "A", Description: "down",
			Effects: models.Effects{{Score: models.Economy, Delta: -30}}}}},
	})
	require.NoError(t, err)

	res, err := NewEngine(cat, nil).Simulate(models.Run{Mode: models.Autocracy,
		Choices: []models.Choice{models.Select("A"), models.Select("A")}})
	require.NoError(t, err)

	assert.Equal(t, 100, res.History[0].Economy)
	assert.Equal(t, 0, res.History[0].Risk)
	assert.Equal(t, 70, res.History[1].Economy)
	assert.Equal(t, 0, res.History[1].Risk)
}

func TestTurnout(t *testing.T) {
	cases := map[int]int{0: 30, 1: 31, 50: 55, 55: 58, 99: 80, 100: 80}
	for stability, want := range cases {
		assert.Equal(t, want, Turnout(stability), "stability %d", stability)
	}
}

func TestChoiceSequences(t *testing.T) {
	cat := catalog.Default()
	// options per scenario: 2, 3, 2, 2, 2
	assert.Len(t, ChoiceSequences(cat, false), 3*4*3*3*3)
	assert.Len(t, ChoiceSequences(cat, true), 4*5*4*4*4)

	for _, seq := range ChoiceSequences(cat, false)[:3] {
		assert.Len(t, seq, cat.Len())
	}
}

func TestInvariantsOverAllChoiceSequences(t *testing.T) {
	eng := newTestEngine(t)
	n := eng.Catalog().Len()

	runs := 0
	err := eng.Sweep([]int{0, 10, 35, 60, 100, 150}, models.Modes, true, func(run models.Run, res *models.Result) error {
		runs++
		if err := CheckInvariants(n, run, res); err != nil {
			return err
		}
		again, err := eng.Simulate(run)
		require.NoError(t, err)
		require.Equal(t, res, again)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2*6*4*5*4*4*4, runs)
}

func TestCheckInvariantsDetectsTampering(t *testing.T) {
	eng := newTestEngine(t)
	run := models.Run{Mode: models.Democracy, StartingBudget: 100, Choices: []models.Choice{models.Select("B")}}

	tamper := map[string]func(*models.Result){
		"short history":   func(r *models.Result) { r.History = r.History[:4] },
		"score overflow":  func(r *models.Result) { r.History[2].Economy = 101; r.Steps[2].Scores.Economy = 101 },
		"budget grew":     func(r *models.Result) { r.FinalBudget = 120 },
		"skip changed":    func(r *models.Result) { r.History[3].Risk = 10; r.Steps[3].Scores.Risk = 10 },
		"missing vote":    func(r *models.Result) { r.Steps[0].Vote = nil },
		"snapshot drift":  func(r *models.Result) { r.Steps[1].Scores = models.Baseline() },
		"wrong deduction": func(r *models.Result) { r.Steps[0].Cost = 5 },
	}
	for name, fn := range tamper {
		t.Run(name, func(t *testing.T) {
			res, err := eng.Simulate(run)
			require.NoError(t, err)
			require.NoError(t, CheckInvariants(5, run, res))

			fn(res)
			assert.ErrorIs(t, CheckInvariants(5, run, res), ErrInvariant)
		})
	}
}
