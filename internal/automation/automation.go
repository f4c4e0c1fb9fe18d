package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/scenecore/internal/config"
	"github.com/san-kum/scenecore/internal/experiment"
	"github.com/san-kum/scenecore/internal/logging"
	"github.com/san-kum/scenecore/internal/sim"
	"github.com/san-kum/scenecore/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overrides the base configuration for one run. Empty fields keep the
// base value.
type Step struct {
	Scene     string             `yaml:"scene"`
	SceneFile string             `yaml:"scene_file"`
	Preset    string             `yaml:"preset"`
	Seed      int64              `yaml:"seed"`
	Method    string             `yaml:"method"`
	Params    map[string]float64 `yaml:"params"`
	Save      bool               `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

type StepResult struct {
	Index  int
	Scene  string
	RunID  string // empty unless the step was saved
	Result *sim.Result
}

// Runner executes scenarios and sweeps on top of a base configuration.
type Runner struct {
	base   *config.Config
	store  *storage.Store
	logger *zap.Logger
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = logging.OrNop(l) }
}

// WithStore enables saving steps marked save.
func WithStore(s *storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

func NewRunner(base *config.Config, opts ...Option) *Runner {
	r := &Runner{base: base.Clone(), logger: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StepConfig layers a step over the base: preset, then scene, then the
// remaining overrides.
func (r *Runner) StepConfig(step Step) (*config.Config, error) {
	cfg := r.base.Clone()
	scene := step.Scene
	if scene == "" {
		scene = cfg.Scene
	}

	if step.Preset != "" {
		p := config.GetPreset(scene, step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for scene %s", step.Preset, scene)
		}
		cfg = p
	}
	cfg.Scene = scene
	if step.SceneFile != "" {
		cfg.SceneFile = step.SceneFile
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Method != "" {
		cfg.Physics.Method = step.Method
	}
	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *Runner) run(ctx context.Context, cfg *config.Config) (*experiment.Experiment, *sim.Result, error) {
	exp := experiment.New(cfg, experiment.WithLogger(r.logger))
	if err := exp.Setup(nil); err != nil {
		return nil, nil, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return exp, result, nil
}

// Run executes every step in order and stops at the first failure,
// returning the results gathered so far.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := r.StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.logger.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("scene", cfg.Scene))

		exp, result, err := r.run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Index: i, Scene: exp.Name(), Result: result}
		if step.Save {
			if r.store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if sr.RunID, err = r.store.Save(exp.RunInfo(), result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Evaluate runs the base configuration with params applied. It has the
// shape optim.GridSearch expects.
func (r *Runner) Evaluate(ctx context.Context, params map[string]float64) (*sim.Result, error) {
	cfg, err := r.StepConfig(Step{Params: params})
	if err != nil {
		return nil, err
	}
	_, result, err := r.run(ctx, cfg)
	return result, err
}

// Sweep varies one named config param over an inclusive range.
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

// Values returns the sampled param values. A single step samples Min.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// SweepResult holds results from one sweep sample
type SweepResult struct {
	Value    float64
	Metrics  map[string]float64
	Checksum uint64
	Dropped  uint64
}

// RunSweep executes one run per sampled value.
func (r *Runner) RunSweep(ctx context.Context, sw Sweep) ([]SweepResult, error) {
	values := sw.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg, err := r.StepConfig(Step{Params: map[string]float64{sw.Param: v}})
		if err != nil {
			return results, err
		}
		_, result, err := r.run(ctx, cfg)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{
			Value:    v,
			Metrics:  result.Metrics,
			Checksum: result.Checksum(),
			Dropped:  result.Dropped,
		})
		r.logger.Debug("sweep sample",
			zap.Int("sample", i+1),
			zap.Int("of", len(values)),
			zap.String("param", sw.Param),
			zap.Float64("value", v))
	}

	return results, nil
}
