package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/models"
)

// UnknownKey is a key no catalog option may use (keys are uppercase), fed
// to sweeps to exercise the invalid-choice path.
const UnknownKey = "?"

var ErrInvariant = errors.New("invariant violated")

// ChoiceSequences enumerates every combination of skip and option keys
// across the catalog. With withInvalid, UnknownKey is tried at every
// scenario too.
func ChoiceSequences(cat *catalog.Catalog, withInvalid bool) [][]models.Choice {
	seqs := [][]models.Choice{{}}
	for _, sc := range cat.Scenarios() {
		alts := []models.Choice{models.Skip()}
		if withInvalid {
			alts = append(alts, models.Select(UnknownKey))
		}
		for _, opt := range sc.Options {
			alts = append(alts, models.Select(opt.Key))
		}
		next := make([][]models.Choice, 0, len(seqs)*len(alts))
		for _, prefix := range seqs {
			for _, c := range alts {
				next = append(next, append(slices.Clone(prefix), c))
			}
		}
		seqs = next
	}
	return seqs
}

// Sweep simulates every choice sequence under each budget and mode and
// hands the results to visit. It stops at the first error.
func (e *Engine) Sweep(budgets []int, modes []models.Mode, withInvalid bool, visit func(models.Run, *models.Result) error) error {
	seqs := ChoiceSequences(e.catalog, withInvalid)
	for _, mode := range modes {
		for _, budget := range budgets {
			for _, seq := range seqs {
				run := models.Run{Mode: mode, StartingBudget: budget, Choices: seq}
				res, err := e.Simulate(run)
				if err != nil {
					return err
				}
				if err := visit(run, res); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CheckInvariants verifies the properties every result must satisfy:
// one snapshot per scenario, scores within bounds, a budget that never
// grows or goes negative, and untouched state on every non-applied step.
func CheckInvariants(n int, run models.Run, res *models.Result) error {
	if len(res.History) != n || len(res.Steps) != n {
		return fmt.Errorf("%w: %d snapshots and %d steps for %d scenarios", ErrInvariant, len(res.History), len(res.Steps), n)
	}
	if res.FinalBudget < 0 || res.FinalBudget > run.StartingBudget {
		return fmt.Errorf("%w: final budget %d outside [0,%d]", ErrInvariant, res.FinalBudget, run.StartingBudget)
	}

	prevScores, prevBudget := models.Baseline(), run.StartingBudget
	for i, step := range res.Steps {
		snap := res.History[i]
		for _, name := range models.ScoreNames {
			if v := snap.Get(name); v < models.MinScore || v > models.MaxScore {
				return fmt.Errorf("%w: S%d %s=%d out of range", ErrInvariant, i+1, name, v)
			}
		}
		if step.Scores != snap {
			return fmt.Errorf("%w: S%d step scores differ from history", ErrInvariant, i+1)
		}
		if step.BudgetAfter < 0 || step.BudgetAfter > prevBudget {
			return fmt.Errorf("%w: S%d budget went from %d to %d", ErrInvariant, i+1, prevBudget, step.BudgetAfter)
		}
		if step.Outcome == models.OutcomeApplied {
			if step.BudgetAfter != prevBudget-step.Cost {
				return fmt.Errorf("%w: S%d charged %d, budget %d -> %d", ErrInvariant, i+1, step.Cost, prevBudget, step.BudgetAfter)
			}
			if (run.Mode == models.Democracy) != (step.Vote != nil) {
				return fmt.Errorf("%w: S%d vote annotation does not match mode %s", ErrInvariant, i+1, run.Mode)
			}
		} else {
			if snap != prevScores || step.BudgetAfter != prevBudget {
				return fmt.Errorf("%w: S%d %s changed state", ErrInvariant, i+1, step.Outcome)
			}
			if step.Vote != nil {
				return fmt.Errorf("%w: S%d %s has a vote", ErrInvariant, i+1, step.Outcome)
			}
		}
		prevScores, prevBudget = snap, step.BudgetAfter
	}
	if res.FinalBudget != prevBudget {
		return fmt.Errorf("%w: final budget %d, last step left %d", ErrInvariant, res.FinalBudget, prevBudget)
	}
	return nil
}
