// Package engine replays a choice sequence against the scenario catalog.
//
// Simulate is a pure function of the catalog and the Run: it performs no
// I/O beyond debug logging and keeps no state between calls, so a single
// Engine may be shared by concurrent callers.
package engine

import (
	"fmt"
	"math"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/models"
	"go.uber.org/zap"
)

const (
	baseTurnout   = 30
	passThreshold = 90
)

type Engine struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewEngine(cat *catalog.Catalog, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: cat, log: log}
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Simulate plays every scenario in catalog order. Per-scenario problems
// (skips, unknown keys, unaffordable options) are recorded in the result
// log; an error is returned only when the run itself is invalid.
//
// Missing trailing choices count as skips and surplus choices are ignored,
// so the history always has one snapshot per scenario.
func (e *Engine) Simulate(run models.Run) (*models.Result, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}

	n := e.catalog.Len()
	if len(run.Choices) > n {
		e.log.Warn("ignoring surplus choices",
			zap.Int("choices", len(run.Choices)),
			zap.Int("scenarios", n))
	}

	res := &models.Result{
		Mode:           run.Mode,
		StartingBudget: run.StartingBudget,
		History:        make([]models.Scores, 0, n),
		Steps:          make([]models.Step, 0, n),
		Log:            make([]string, 0, n),
	}

	scores := models.Baseline()
	budget := run.StartingBudget
	for i, sc := range e.catalog.Scenarios() {
		choice := models.Skip()
		if i < len(run.Choices) {
			choice = run.Choices[i]
		}

		step := models.Step{ScenarioID: sc.ID, Choice: choice}
		switch {
		case choice.IsSkip():
			step.Outcome = models.OutcomeSkippedChoice
			res.Log = append(res.Log, "Skipped (no choice).")

		default:
			opt, err := catalog.OptionFor(sc, choice.Key)
			if err != nil {
				step.Outcome = models.OutcomeInvalidOptionKey
				res.Log = append(res.Log, "Invalid choice.")
				break
			}
			if opt.Cost > budget {
				step.Outcome = models.OutcomeInsufficientBudget
				res.Log = append(res.Log, fmt.Sprintf("Not enough budget for %s) %s. Skipped.", opt.Key, opt.Description))
				break
			}

			budget -= opt.Cost
			scores = scores.Apply(opt.Effects)
			res.LastInternationalReaction = sc.InternationalReaction
			step.Outcome = models.OutcomeApplied
			step.Cost = opt.Cost
			res.Log = append(res.Log, fmt.Sprintf("%s | %s) %s | Cost %d | Intl: %s | Scores %s | Budget %d",
				sc.Title, opt.Key, opt.Description, opt.Cost, sc.InternationalReaction, scores, budget))

			if run.Mode == models.Democracy {
				vote := CastVote(scores)
				step.Vote = &vote
				res.Log = append(res.Log, VoteLine(vote))
			}
		}

		step.BudgetAfter = budget
		step.Scores = scores
		res.Steps = append(res.Steps, step)
		res.History = append(res.History, scores)

		e.log.Debug("scenario processed",
			zap.Int("scenario", sc.ID),
			zap.Stringer("choice", choice),
			zap.String("outcome", string(step.Outcome)),
			zap.Int("budget", budget))
	}
	res.FinalBudget = budget

	e.log.Debug("simulation finished",
		zap.String("mode", string(run.Mode)),
		zap.Int("starting_budget", run.StartingBudget),
		zap.Int("final_budget", res.FinalBudget),
		zap.Stringer("final_scores", res.FinalScores()))
	return res, nil
}

// Turnout is the Democracy-mode voter turnout for a Stability score,
// rounded half away from zero and clamped to [0,100].
func Turnout(stability int) int {
	return models.Clamp(int(math.Round(baseTurnout + 0.5*float64(stability))))
}

// Passed reports whether a reform vote passes with the given scores.
func Passed(s models.Scores) bool {
	return s.Stability+s.Governance > passThreshold
}

// CastVote computes the informational vote annotation. It never changes
// the scores the vote was cast on.
func CastVote(s models.Scores) models.Vote {
	return models.Vote{Turnout: Turnout(s.Stability), Passed: Passed(s)}
}

func VoteLine(v models.Vote) string {
	verdict := "FAILED"
	if v.Passed {
		verdict = "PASSED"
	}
	return fmt.Sprintf("Vote: turnout %d%% → %s", v.Turnout, verdict)
}
