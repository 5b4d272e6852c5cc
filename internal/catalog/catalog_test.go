package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 5, c.Len())

	first, err := c.ScenarioAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Decentralization of Customs & Border Police", first.Title)
	assert.Equal(t, "EU encourages decentralization.", first.InternationalReaction)

	opt, err := OptionFor(first, "B")
	require.NoError(t, err)
	assert.Equal(t, "Decentralize to regions", opt.Description)
	assert.Equal(t, 20, opt.Cost)
	assert.Equal(t, models.Effects{{Score: models.Governance, Delta: 10}, {Score: models.Stability, Delta: 5}}, opt.Effects)

	second, err := c.ScenarioAt(1)
	require.NoError(t, err)
	keys := []string{}
	for _, o := range second.Options {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)
}

func TestScenarioAtOutOfRange(t *testing.T) {
	c := Default()
	for _, idx := range []int{-1, c.Len(), 99} {
		_, err := c.ScenarioAt(idx)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", idx)
	}
}

func TestOptionForExactMatch(t *testing.T) {
	sc, err := Default().ScenarioAt(0)
	require.NoError(t, err)

	_, err = OptionFor(sc, "b")
	assert.ErrorIs(t, err, ErrOptionNotFound)
	_, err = OptionFor(sc, "Z")
	assert.ErrorIs(t, err, ErrOptionNotFound)
	_, err = OptionFor(sc, "B ")
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := Default()
	sc, err := c.ScenarioAt(0)
	require.NoError(t, err)
	sc.Title = "changed"
	sc.Options[0].Cost = 999
	sc.Options[0].Effects[0].Delta = 999

	again, err := c.ScenarioAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Decentralization of Customs & Border Police", again.Title)
	assert.Equal(t, 10, again.Options[0].Cost)
	assert.Equal(t, -5, again.Options[0].Effects[0].Delta)

	all := c.Scenarios()
	all[1].Options = nil
	assert.Len(t, c.Scenarios()[1].Options, 3)
}

func TestParseRejectsMalformedCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty": `scenarios: []`,
		"bad id": `
scenarios:
  - id: 2
    title: T
    options: [{key: A, description: d, effects: {Economy: 1}, cost: 0}]`,
		"no options": `
scenarios:
  - id: 1
    title: T
    options: []`,
		"duplicate key": `
scenarios:
  - id: 1
    title: T
    options:
      - {key: A, description: d, effects: {Economy: 1}, cost: 0}
      - {key: A, description: e, effects: {Economy: 2}, cost: 0}`,
		"lowercase key": `
scenarios:
  - id: 1
    title: T
    options: [{key: a, description: d, effects: {Economy: 1}, cost: 0}]`,
		"negative cost": `
scenarios:
  - id: 1
    title: T
    options: [{key: A, description: d, effects: {Economy: 1}, cost: -3}]`,
		"unknown score": `
scenarios:
  - id: 1
    title: T
    options: [{key: A, description: d, effects: {Happiness: 1}, cost: 0}]`,
		"duplicate effect": `
scenarios:
  - id: 1
    title: T
    options: [{key: A, description: d, effects: {Economy: 1, Economy: 2}, cost: 0}]`,
		"not yaml": `scenarios: [`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	src := `
scenarios:
  - id: 1
    title: Water Tariffs
    international_reaction: World Bank approves.
    options:
      - {key: A, description: Raise tariffs, effects: {Economy: 5, Stability: -5}, cost: 5}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	sc, err := c.ScenarioAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Water Tariffs", sc.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Scenarios(), c.Scenarios())
}
