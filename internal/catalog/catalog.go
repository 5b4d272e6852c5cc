// Package catalog holds the fixed, ordered list of policy scenarios.
//
// A Catalog is validated once when it is loaded and is read-only afterwards;
// accessors hand out copies so callers cannot change shared content.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/Herodot91/gov-simulator/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var embeddedScenarios []byte

var (
	ErrOutOfRange     = errors.New("scenario index out of range")
	ErrOptionNotFound = errors.New("option not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

var optionKeyPattern = regexp.MustCompile(`^[A-Z]$`)

type Catalog struct {
	scenarios []models.Scenario
}

type catalogFile struct {
	Scenarios []models.Scenario `yaml:"scenarios"`
}

var defaultCatalog = mustParse(embeddedScenarios)

// Default returns the embedded Florești Metropole catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("embedded scenarios: %v", err))
	}
	return c
}

// Load reads and validates a catalog file. An empty path selects the
// embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Scenarios)
}

// New validates scenarios and builds a catalog from a private copy of them.
func New(scenarios []models.Scenario) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios", ErrInvalidCatalog)
	}
	for i, sc := range scenarios {
		if err := validateScenario(i, sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
	}
	c := &Catalog{scenarios: make([]models.Scenario, len(scenarios))}
	for i, sc := range scenarios {
		c.scenarios[i] = cloneScenario(sc)
	}
	return c, nil
}

func validateScenario(i int, sc models.Scenario) error {
	if sc.ID != i+1 {
		return fmt.Errorf("scenario %d: id %d, want %d", i+1, sc.ID, i+1)
	}
	if sc.Title == "" {
		return fmt.Errorf("scenario %d: empty title", sc.ID)
	}
	if len(sc.Options) == 0 {
		return fmt.Errorf("scenario %d: no options", sc.ID)
	}
	seen := make(map[string]bool, len(sc.Options))
	for _, opt := range sc.Options {
		if !optionKeyPattern.MatchString(opt.Key) {
			return fmt.Errorf("scenario %d: option key %q is not a single uppercase letter", sc.ID, opt.Key)
		}
		if seen[opt.Key] {
			return fmt.Errorf("scenario %d: duplicate option key %q", sc.ID, opt.Key)
		}
		seen[opt.Key] = true
		if opt.Cost < 0 {
			return fmt.Errorf("scenario %d option %s: negative cost %d", sc.ID, opt.Key, opt.Cost)
		}
		scores := make(map[models.ScoreName]bool, len(opt.Effects))
		for _, eff := range opt.Effects {
			if _, err := models.ParseScoreName(string(eff.Score)); err != nil {
				return fmt.Errorf("scenario %d option %s: %v", sc.ID, opt.Key, err)
			}
			if scores[eff.Score] {
				return fmt.Errorf("scenario %d option %s: duplicate effect on %s", sc.ID, opt.Key, eff.Score)
			}
			scores[eff.Score] = true
		}
	}
	return nil
}

func cloneScenario(sc models.Scenario) models.Scenario {
	sc.Options = slices.Clone(sc.Options)
	for i := range sc.Options {
		sc.Options[i].Effects = slices.Clone(sc.Options[i].Effects)
	}
	return sc
}

// YAML renders the catalog in the format Parse reads, for use as a
// starting point for a CIVICSIM_CATALOG override.
func (c *Catalog) YAML() ([]byte, error) {
	return yaml.Marshal(catalogFile{Scenarios: c.Scenarios()})
}

func (c *Catalog) Len() int {
	return len(c.scenarios)
}

// Scenarios returns a copy of every scenario in play order.
func (c *Catalog) Scenarios() []models.Scenario {
	out := make([]models.Scenario, len(c.scenarios))
	for i, sc := range c.scenarios {
		out[i] = cloneScenario(sc)
	}
	return out
}

// ScenarioAt returns the scenario at the zero-based index.
func (c *Catalog) ScenarioAt(index int) (models.Scenario, error) {
	if index < 0 || index >= len(c.scenarios) {
		return models.Scenario{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, index, len(c.scenarios))
	}
	return cloneScenario(c.scenarios[index]), nil
}

// OptionFor looks up key in sc. Matching is exact; keys are case sensitive.
func OptionFor(sc models.Scenario, key string) (models.Option, error) {
	for _, opt := range sc.Options {
		if opt.Key == key {
			return opt, nil
		}
	}
	return models.Option{}, fmt.Errorf("%w: scenario %d has no option %q", ErrOptionNotFound, sc.ID, key)
}
