package experiment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/config"
	"github.com/san-kum/scenecore/internal/logging"
	"github.com/san-kum/scenecore/internal/physics"
	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/sim"
	"github.com/san-kum/scenecore/internal/storage"
	"github.com/san-kum/scenecore/internal/vmath"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *zap.Logger
	simulator *sim.Simulator
}

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.logger = logging.OrNop(l) }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SimConfig maps the file/flag configuration onto a run configuration.
func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		FixedStep:     cfg.Engine.FixedStep,
		Duration:      cfg.Duration,
		FrameRate:     cfg.FrameRate,
		MaxDelta:      cfg.Engine.MaxDelta,
		MaxSteps:      cfg.Engine.MaxSteps,
		Seed:          cfg.Seed,
		ValidateState: true,
	}
}

// NewScene builds an empty scene whose integrator follows cfg.Physics.
func NewScene(cfg *config.Config, logger *zap.Logger) *scene.Scene {
	in := physics.NewIntegrator(vmath.FromArray(cfg.Physics.Gravity))
	in.Damping = cfg.Physics.Damping
	// Validate has already rejected unknown methods.
	in.Method, _ = physics.ParseMethod(cfg.Physics.Method)
	return scene.New(scene.WithPhysics(in), scene.WithLogger(logger))
}

// BuildScene creates and populates a scene for seed, from SceneFile when set
// and from the named builder otherwise.
func (e *Experiment) BuildScene(seed int64) (*scene.Scene, error) {
	w := NewScene(e.cfg, e.logger)
	if e.cfg.SceneFile != "" {
		digest, err := storage.LoadScene(e.cfg.SceneFile, w)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("scene file loaded",
			zap.String("path", e.cfg.SceneFile),
			zap.String("digest", fmt.Sprintf("%016x", digest)))
		return w, nil
	}
	if err := e.registry.Build(e.cfg.Scene, w, e.cfg.Count, seed); err != nil {
		return nil, err
	}
	return w, nil
}

func (e *Experiment) newSimulator(seed int64, metrics []sim.Metric) (*sim.Simulator, error) {
	w, err := e.BuildScene(seed)
	if err != nil {
		return nil, err
	}
	s := sim.New(w, sim.WithLogger(e.logger))
	for _, m := range metrics {
		s.AddMetric(m)
	}
	return s, nil
}

// Setup builds the scene and a simulator observing metrics. A nil slice
// selects the registry defaults.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	if metrics == nil {
		metrics = e.registry.DefaultMetrics()
	}
	s, err := e.newSimulator(e.cfg.Seed, metrics)
	if err != nil {
		return err
	}
	e.simulator = s
	e.logger.Info("experiment ready",
		zap.String("scene", e.Name()),
		zap.Int("entities", s.Scene().Len()),
		zap.Int64("seed", e.cfg.Seed))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

// Builder returns a sim.Builder for ensembles. Every call builds an
// independent scene with fresh default metrics.
func (e *Experiment) Builder() sim.Builder {
	return func(seed int64) (*sim.Simulator, error) {
		return e.newSimulator(seed, e.registry.DefaultMetrics())
	}
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Name is the scene name, or the file path for file-backed scenes.
func (e *Experiment) Name() string {
	if e.cfg.SceneFile != "" {
		return e.cfg.SceneFile
	}
	return e.cfg.Scene
}

func (e *Experiment) RunInfo() storage.RunInfo {
	return storage.RunInfo{
		Scene:     e.cfg.Scene,
		SceneFile: e.cfg.SceneFile,
		Seed:      e.cfg.Seed,
		FixedStep: e.cfg.Engine.FixedStep,
		Duration:  e.cfg.Duration,
		FrameRate: e.cfg.FrameRate,
	}
}
