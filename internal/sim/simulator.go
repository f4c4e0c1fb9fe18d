package sim

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/logging"
	"github.com/san-kum/scenecore/internal/loop"
	"github.com/san-kum/scenecore/internal/scene"
)

// Simulator orders one fixed step: physics, then per-entity animation,
// components and bounds, then metrics and observers.
type Simulator struct {
	world     *scene.Scene
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger

	time  float64
	steps int
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.logger = logging.OrNop(l) }
}

func New(world *scene.Scene, opts ...Option) *Simulator {
	s := &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scene() *scene.Scene { return s.world }

// Time is the simulated time covered by the steps taken so far.
func (s *Simulator) Time() float64 { return s.time }

func (s *Simulator) Steps() int { return s.steps }

// Step advances the world by dt. Component failures are returned but the
// step still completes.
func (s *Simulator) Step(dt float64) error {
	err := s.world.Step(dt)
	s.time += dt
	s.steps++

	for _, m := range s.metrics {
		m.Observe(s.world, s.time)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.world, s.time)
	}
	return err
}

var errDone = errors.New("sim: run complete")

// Run steps the world headlessly for cfg.Duration of simulated time. A
// manual clock advances by one render interval per tick and a loop.Driver
// turns that into fixed steps, so the step cap and backlog dropping behave
// exactly as they would in real time.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	target := int(math.Round(cfg.Duration / cfg.FixedStep))
	result := &Result{
		Times:   make([]float64, 0, target+1),
		Frames:  make([]Frame, 0, target+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.world.RefreshBounds()
	result.Times = append(result.Times, s.time)
	result.Frames = append(result.Frames, Capture(s.world, s.time))

	fixed := func(dt float64) error {
		if result.Steps >= target {
			return errDone
		}
		step := result.Steps
		if err := s.Step(dt); err != nil {
			result.Errors = append(result.Errors, &StepError{Step: step, Time: s.time, Wrapped: err})
		}
		result.Steps++

		frame := Capture(s.world, s.time)
		if cfg.ValidateState {
			for _, es := range frame.Entities {
				if !es.Position.IsFinite() {
					return &StepError{Step: step, Time: s.time, Wrapped: ErrUnstable}
				}
			}
		}
		result.Times = append(result.Times, s.time)
		result.Frames = append(result.Frames, frame)
		return nil
	}

	clock := loop.NewManualClock(time.Unix(0, 0))
	driver, err := loop.New(cfg.loopConfig(), fixed, loop.WithClock(clock), loop.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	driver.Start()

	// Round the interval up so a frame is never a hair shorter than the
	// fixed step it is meant to cover.
	interval := time.Duration(math.Ceil(float64(time.Second) / cfg.FrameRate))

	for result.Steps < target {
		select {
		case <-ctx.Done():
			result.Dropped = driver.Stats().Dropped
			return result, ctx.Err()
		default:
		}

		clock.Advance(interval)
		if _, err := driver.Tick(); err != nil {
			if errors.Is(err, errDone) {
				break
			}
			result.Dropped = driver.Stats().Dropped
			return result, err
		}
	}

	result.Dropped = driver.Stats().Dropped
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete",
		zap.Int("steps", result.Steps),
		zap.Uint64("dropped", result.Dropped),
		zap.Int("component_errors", len(result.Errors)))
	return result, nil
}
