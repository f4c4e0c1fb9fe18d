package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/scenecore/internal/loop"
	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/vmath"
)

var (
	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrUnstable is returned when a position stops being finite.
	ErrUnstable = errors.New("sim: simulation unstable (non-finite position)")
)

// Metric is fed the world after every fixed step.
type Metric interface {
	Name() string
	Observe(w *scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *scene.Scene, t float64)
}

type ObserverFunc func(w *scene.Scene, t float64)

func (f ObserverFunc) OnStep(w *scene.Scene, t float64) { f(w, t) }

type Config struct {
	FixedStep float64
	Duration  float64
	FrameRate float64 // render ticks per second of simulated wall clock
	MaxDelta  float64
	MaxSteps  int
	Seed      int64

	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		FixedStep:     loop.DefaultFixedStep,
		Duration:      5,
		FrameRate:     60,
		MaxDelta:      loop.DefaultMaxDelta,
		MaxSteps:      loop.DefaultMaxSteps,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.FixedStep <= 0 {
		return fmt.Errorf("%w: fixed step must be positive, got %f", ErrInvalidConfig, c.FixedStep)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate must be positive, got %f", ErrInvalidConfig, c.FrameRate)
	}
	if c.MaxDelta < 0 || c.MaxSteps < 0 {
		return fmt.Errorf("%w: max delta and max steps must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c Config) loopConfig() loop.Config {
	lc := loop.Config{FixedStep: c.FixedStep, MaxDelta: c.MaxDelta, MaxSteps: c.MaxSteps}
	if lc.MaxDelta == 0 {
		lc.MaxDelta = loop.DefaultMaxDelta
	}
	if lc.MaxSteps == 0 {
		lc.MaxSteps = loop.DefaultMaxSteps
	}
	return lc
}

// EntityState is one entity's sampled state.
type EntityState struct {
	ID       scene.ID
	Name     string
	Position vmath.Vec3
	Velocity vmath.Vec3
}

// Frame is the world after one fixed step.
type Frame struct {
	Time     float64
	Entities []EntityState
}

// Capture samples every entity in creation order.
func Capture(w *scene.Scene, t float64) Frame {
	ents := w.Entities()
	f := Frame{Time: t, Entities: make([]EntityState, 0, len(ents))}
	for _, e := range ents {
		es := EntityState{ID: e.ID, Name: e.Name, Position: e.WorldPosition()}
		if rb, ok := scene.Get[*scene.RigidBody](e); ok {
			es.Velocity = rb.Body.Velocity
		}
		f.Entities = append(f.Entities, es)
	}
	return f
}

// StepError locates a failure within a run.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
