package models

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScoreName identifies one of the four tracked indicators.
type ScoreName string

const (
	Governance ScoreName = "Governance"
	Economy    ScoreName = "Economy"
	Stability  ScoreName = "Stability"
	Risk       ScoreName = "Risk"
)

// ScoreNames lists the indicators in display order.
var ScoreNames = []ScoreName{Governance, Economy, Stability, Risk}

const (
	MinScore      = 0
	MaxScore      = 100
	BaselineScore = 50
)

// ParseScoreName matches s exactly against the known score names.
func ParseScoreName(s string) (ScoreName, error) {
	for _, n := range ScoreNames {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown score name %q", s)
}

// Clamp restricts v to [MinScore, MaxScore].
func Clamp(v int) int {
	return max(MinScore, min(MaxScore, v))
}

// Scores is an immutable snapshot of the four indicators. Methods that
// change a score return a new value.
type Scores struct {
	Governance int `yaml:"Governance" json:"Governance"`
	Economy    int `yaml:"Economy" json:"Economy"`
	Stability  int `yaml:"Stability" json:"Stability"`
	Risk       int `yaml:"Risk" json:"Risk"`
}

// Baseline returns the starting snapshot with every score at 50.
func Baseline() Scores {
	return Scores{
		Governance: BaselineScore,
		Economy:    BaselineScore,
		Stability:  BaselineScore,
		Risk:       BaselineScore,
	}
}

func (s Scores) Get(name ScoreName) int {
	switch name {
	case Governance:
		return s.Governance
	case Economy:
		return s.Economy
	case Stability:
		return s.Stability
	case Risk:
		return s.Risk
	}
	return 0
}

// With returns a copy of s with name set to the clamped value v.
func (s Scores) With(name ScoreName, v int) Scores {
	v = Clamp(v)
	switch name {
	case Governance:
		s.Governance = v
	case Economy:
		s.Economy = v
	case Stability:
		s.Stability = v
	case Risk:
		s.Risk = v
	}
	return s
}

// Apply adds every effect delta to its score, clamping each result once.
// Scores not named in effects keep their value.
func (s Scores) Apply(effects Effects) Scores {
	for _, e := range effects {
		s = s.With(e.Score, s.Get(e.Score)+e.Delta)
	}
	return s
}

func (s Scores) String() string {
	parts := make([]string, len(ScoreNames))
	for i, n := range ScoreNames {
		parts[i] = fmt.Sprintf("%s %d", n, s.Get(n))
	}
	return strings.Join(parts, ", ")
}

// Effect is a signed delta applied to one score.
type Effect struct {
	Score ScoreName `yaml:"score"`
	Delta int       `yaml:"delta"`
}

// Effects keeps effect order stable. In YAML it is written as a mapping
// such as {Governance: 10, Stability: 5}.
type Effects []Effect

func (e *Effects) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: effects must be a mapping", value.Line)
	}
	out := make(Effects, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var delta int
		if err := value.Content[i+1].Decode(&delta); err != nil {
			return fmt.Errorf("line %d: effect %q: %w", value.Content[i+1].Line, value.Content[i].Value, err)
		}
		out = append(out, Effect{Score: ScoreName(value.Content[i].Value), Delta: delta})
	}
	*e = out
	return nil
}

func (e Effects) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	for _, eff := range e {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(eff.Score)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(eff.Delta)},
		)
	}
	return node, nil
}

func (e Effects) String() string {
	parts := make([]string, len(e))
	for i, eff := range e {
		parts[i] = fmt.Sprintf("%s %+d", eff.Score, eff.Delta)
	}
	return strings.Join(parts, ", ")
}

// Option is one selectable choice within a scenario.
type Option struct {
	Key         string  `yaml:"key"`
	Description string  `yaml:"description"`
	Effects     Effects `yaml:"effects"`
	Cost        int     `yaml:"cost"`
}

// Label is the display string offered to the player. ParseChoice maps it
// back to the option key.
func (o Option) Label() string {
	return fmt.Sprintf("%s) %s — Cost %d | Effects: %s", o.Key, o.Description, o.Cost, o.Effects)
}

// Scenario is one policy decision point.
type Scenario struct {
	ID                    int      `yaml:"id"`
	Title                 string   `yaml:"title"`
	InternationalReaction string   `yaml:"international_reaction"`
	Options               []Option `yaml:"options"`
}

// Mode is the political system a run is played under.
type Mode string

const (
	Democracy Mode = "Democracy"
	Autocracy Mode = "Autocracy"
)

var Modes = []Mode{Democracy, Autocracy}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want Democracy or Autocracy)", s)
}

// SkipLabel is the presentation label for not choosing an option.
const SkipLabel = "(skip)"

// Choice is the selection made for one scenario: either a skip or an
// option key. The zero value selects the empty key, which matches no option.
type Choice struct {
	Skipped bool   `yaml:"skip,omitempty"`
	Key     string `yaml:"key,omitempty"`
}

func Skip() Choice { return Choice{Skipped: true} }

func Select(key string) Choice { return Choice{Key: key} }

func (c Choice) IsSkip() bool { return c.Skipped }

func (c Choice) String() string {
	if c.IsSkip() {
		return SkipLabel
	}
	return c.Key
}

// ParseChoice converts a presentation label into a Choice. Only SkipLabel
// is a skip; any other label selects the text before the first ')'.
func ParseChoice(label string) Choice {
	if label == SkipLabel {
		return Skip()
	}
	key, _, _ := strings.Cut(label, ")")
	return Select(key)
}

var ErrInvalidRun = errors.New("invalid run")

// Run is the input of one simulation.
type Run struct {
	Mode           Mode     `yaml:"mode"`
	StartingBudget int      `yaml:"starting_budget"`
	Choices        []Choice `yaml:"choices"`
}

func (r Run) Validate() error {
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRun, err)
	}
	if r.StartingBudget < 0 {
		return fmt.Errorf("%w: starting budget %d is negative", ErrInvalidRun, r.StartingBudget)
	}
	return nil
}

// Outcome classifies what happened at one scenario.
type Outcome string

const (
	OutcomeApplied            Outcome = "applied"
	OutcomeSkippedChoice      Outcome = "skipped"
	OutcomeInvalidOptionKey   Outcome = "invalid_option"
	OutcomeInsufficientBudget Outcome = "insufficient_budget"
)

// Vote is the informational Democracy-mode annotation.
type Vote struct {
	Turnout int  `yaml:"turnout" json:"turnout"`
	Passed  bool `yaml:"passed" json:"passed"`
}

// Step records the processing of a single scenario.
type Step struct {
	ScenarioID  int     `yaml:"scenario_id"`
	Choice      Choice  `yaml:"choice"`
	Outcome     Outcome `yaml:"outcome"`
	Cost        int     `yaml:"cost,omitempty"`
	BudgetAfter int     `yaml:"budget_after"`
	Scores      Scores  `yaml:"scores"`
	Vote        *Vote   `yaml:"vote,omitempty"`
}

// Result is the output of one simulation. It is owned by the caller.
type Result struct {
	Mode                      Mode     `yaml:"mode"`
	StartingBudget            int      `yaml:"starting_budget"`
	History                   []Scores `yaml:"history"`
	Steps                     []Step   `yaml:"steps"`
	Log                       []string `yaml:"log"`
	FinalBudget               int      `yaml:"final_budget"`
	LastInternationalReaction string   `yaml:"last_international_reaction,omitempty"`
}

// FinalScores returns the last snapshot, or the baseline for an empty run.
func (r *Result) FinalScores() Scores {
	if len(r.History) == 0 {
		return Baseline()
	}
	return r.History[len(r.History)-1]
}

func (r *Result) LogText() string {
	return strings.Join(r.Log, "\n")
}

// RiskLevel buckets a Risk score for display.
func RiskLevel(risk int) string {
	switch {
	case risk <= 33:
		return "LOW RISK"
	case risk <= 66:
		return "MEDIUM RISK"
	default:
		return "HIGH RISK"
	}
}
