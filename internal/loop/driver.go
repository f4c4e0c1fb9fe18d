package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/logging"
)

const (
	DefaultFixedStep = 1.0 / 60
	DefaultMaxDelta  = 0.25
	DefaultMaxSteps  = 5
)

// FixedFunc runs one simulation step of exactly dt seconds.
type FixedFunc func(dt float64) error

// RenderFunc runs once per tick with the clamped frame delta and the
// fraction of a fixed step left in the accumulator.
type RenderFunc func(dt, alpha float64)

type Config struct {
	FixedStep float64 // seconds
	MaxDelta  float64 // clamp on a single frame delta, seconds
	MaxSteps  int     // fixed steps per tick before the backlog is dropped
}

func DefaultConfig() Config {
	return Config{
		FixedStep: DefaultFixedStep,
		MaxDelta:  DefaultMaxDelta,
		MaxSteps:  DefaultMaxSteps,
	}
}

func (c Config) Validate() error {
	if c.FixedStep <= 0 {
		return fmt.Errorf("fixed step must be positive, got %v", c.FixedStep)
	}
	if c.MaxDelta <= 0 {
		return fmt.Errorf("max delta must be positive, got %v", c.MaxDelta)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// Stats are cumulative counters since the driver was created.
type Stats struct {
	Frames      uint64
	FixedSteps  uint64
	Dropped     uint64 // ticks that hit MaxSteps and discarded their backlog
	DroppedTime float64
	FPS         int
	Elapsed     float64 // simulated seconds
}

// Driver separates a fixed simulation step from a variable render step.
type Driver struct {
	cfg    Config
	clock  Clock
	fixed  FixedFunc
	render RenderFunc
	logger *zap.Logger

	mu          sync.Mutex
	last        time.Time
	started     bool
	paused      bool
	accumulator float64
	stats       Stats
	frameCount  int
	fpsTime     float64

	stopCh   chan struct{}
	stopOnce sync.Once
}

type Option func(*Driver)

func WithClock(c Clock) Option { return func(d *Driver) { d.clock = c } }

func WithRender(fn RenderFunc) Option { return func(d *Driver) { d.render = fn } }

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = logging.OrNop(l) }
}

func New(cfg Config, fixed FixedFunc, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:    cfg,
		clock:  SystemClock{},
		fixed:  fixed,
		logger: logging.Nop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) Config() Config { return d.cfg }

// Start takes the current clock reading as the reference for the first
// delta. Tick calls it implicitly.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = d.clock.Now()
	d.started = true
}

// Tick measures the delta since the previous tick, runs as many fixed steps
// as the accumulator allows (at most MaxSteps) and then one render pass. It
// returns the number of fixed steps run. A fixed step error ends the tick.
//
// The callbacks run without the driver lock held, so they may call Pause,
// Stats and the other accessors. A pause from inside a fixed step ends the
// tick after that step and keeps the remaining backlog. Tick itself must
// not be called concurrently.
func (d *Driver) Tick() (int, error) {
	d.mu.Lock()
	now := d.clock.Now()
	if !d.started {
		d.last = now
		d.started = true
		d.mu.Unlock()
		return 0, nil
	}
	if d.paused {
		d.mu.Unlock()
		return 0, nil
	}

	delta := now.Sub(d.last).Seconds()
	d.last = now
	if delta < 0 {
		delta = 0
	}
	if delta > d.cfg.MaxDelta {
		delta = d.cfg.MaxDelta
	}
	d.accumulator += delta

	d.stats.Frames++
	d.frameCount++
	d.fpsTime += delta
	if d.fpsTime >= 1 {
		d.stats.FPS = d.frameCount
		d.frameCount = 0
		d.fpsTime = 0
	}
	d.mu.Unlock()

	step := d.cfg.FixedStep
	steps := 0
	for {
		d.mu.Lock()
		more := !d.paused && d.accumulator >= step && steps < d.cfg.MaxSteps
		d.mu.Unlock()
		if !more {
			break
		}

		if d.fixed != nil {
			if err := d.fixed(step); err != nil {
				return steps, err
			}
		}

		d.mu.Lock()
		d.accumulator -= step
		d.stats.FixedSteps++
		d.stats.Elapsed += step
		d.mu.Unlock()
		steps++
	}

	d.mu.Lock()
	if !d.paused && steps == d.cfg.MaxSteps && d.accumulator >= step {
		d.stats.Dropped++
		d.stats.DroppedTime += d.accumulator
		d.logger.Debug("dropping fixed step backlog",
			zap.Float64("seconds", d.accumulator), zap.Int("steps", steps))
		d.accumulator = 0
	}
	alpha := d.accumulator / step
	d.mu.Unlock()

	if d.render != nil {
		d.render(delta, alpha)
	}
	return steps, nil
}

// Pause stops accumulation until Resume.
func (d *Driver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
}

// Resume restarts accumulation from the current clock reading so the time
// spent paused is never simulated.
func (d *Driver) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
	d.last = d.clock.Now()
	d.started = true
}

func (d *Driver) TogglePause() bool {
	d.mu.Lock()
	paused := d.paused
	d.mu.Unlock()
	if paused {
		d.Resume()
	} else {
		d.Pause()
	}
	return !paused
}

func (d *Driver) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Accumulator returns the unsimulated time carried to the next tick.
func (d *Driver) Accumulator() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accumulator
}

func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Stop ends Run. It is safe to call more than once and from any goroutine.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Run ticks every interval until ctx is done, Stop is called or a fixed
// step fails.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.stopCh:
			return nil
		case <-ticker.C:
			if _, err := d.Tick(); err != nil {
				return err
			}
		}
	}
}

// Done is closed once Stop has been called.
func (d *Driver) Done() <-chan struct{} { return d.stopCh }
