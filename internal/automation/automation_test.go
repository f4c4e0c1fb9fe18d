package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/scenecore/internal/config"
	"github.com/san-kum/scenecore/internal/optim"
	"github.com/san-kum/scenecore/internal/storage"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	cfg.Seed = 3
	return cfg
}

const scenarioYAML = `name: tour
description: two short runs
steps:
  - scene: drop
    params:
      gravity: -1.62
  - scene: rain
    seed: 9
    method: verlet
    params:
      count: 4
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "tour", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, -1.62, sc.Steps[0].Params["gravity"])
	assert.True(t, sc.Steps[1].Save)
	assert.Equal(t, "verlet", sc.Steps[1].Method)
}

func TestLoadScenarioEmpty(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: nothing\n"))
	assert.True(t, errors.Is(err, ErrEmptyScenario))

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepConfig(t *testing.T) {
	r := NewRunner(baseConfig())

	cfg, err := r.StepConfig(Step{Scene: "rain", Seed: 9, Params: map[string]float64{"count": 4}})
	require.NoError(t, err)
	assert.Equal(t, "rain", cfg.Scene)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 4, cfg.Count)
	assert.Equal(t, 0.5, cfg.Duration)

	cfg, err = r.StepConfig(Step{Preset: "moon"})
	require.NoError(t, err)
	assert.Equal(t, -1.62, cfg.Physics.Gravity[1])

	_, err = r.StepConfig(Step{Preset: "pluto"})
	assert.Error(t, err)
	_, err = r.StepConfig(Step{Params: map[string]float64{"warp": 9}})
	assert.Error(t, err)
	_, err = r.StepConfig(Step{Method: "rk4"})
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())

	results, err := NewRunner(baseConfig(), WithStore(st)).Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "drop", results[0].Scene)
	assert.Empty(t, results[0].RunID)
	assert.Equal(t, 30, results[0].Result.Steps)

	require.NotEmpty(t, results[1].RunID)
	meta, err := st.Load(results[1].RunID)
	require.NoError(t, err)
	assert.Equal(t, "rain", meta.Scene)
	assert.Equal(t, int64(9), meta.Seed)
}

func TestRunScenarioSaveWithoutStore(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Scene: "drop"}, {Scene: "drop", Save: true}}}
	results, err := NewRunner(baseConfig()).Run(context.Background(), sc)
	assert.Error(t, err)
	assert.Len(t, results, 1)
}

func TestSweepValues(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Sweep{Min: 0, Max: 1, Steps: 3}.Values())
	assert.Equal(t, []float64{2}, Sweep{Min: 2, Max: 5, Steps: 1}.Values())
}

func TestRunSweep(t *testing.T) {
	results, err := NewRunner(baseConfig()).RunSweep(context.Background(), Sweep{Param: "gravity", Min: 0, Max: -10, Steps: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, -5.0, results[1].Value)
	assert.Contains(t, results[0].Metrics, "energy")
	assert.NotEqual(t, results[0].Checksum, results[2].Checksum)

	_, err = NewRunner(baseConfig()).RunSweep(context.Background(), Sweep{Param: "warp", Steps: 2})
	assert.Error(t, err)
}

func TestEvaluateWithGridSearch(t *testing.T) {
	g, err := optim.NewGridSearch([]string{"gravity"}, [][]float64{{-9.81, -1.62, 0}})
	require.NoError(t, err)

	params, best, err := g.Search(context.Background(), NewRunner(baseConfig()).Evaluate, "mean_speed")
	require.NoError(t, err)
	assert.Equal(t, 0.0, params["gravity"])
	assert.Zero(t, best)
}
