package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/scenecore/internal/physics"
)

const (
	DefaultScene     = "drop"
	DefaultDuration  = 5.0
	DefaultFrameRate = 60.0
	DefaultFixedStep = 1.0 / 60
	DefaultMaxDelta  = 0.25
	DefaultMaxSteps  = 5
	DefaultCount     = 8
	DefaultGravityY  = -9.81
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

type Config struct {
	Scene     string        `yaml:"scene"`
	SceneFile string        `yaml:"scene_file,omitempty"`
	Duration  float64       `yaml:"duration"`
	FrameRate float64       `yaml:"frame_rate"`
	Seed      int64         `yaml:"seed"`
	Count     int           `yaml:"count"`
	Engine    EngineConfig  `yaml:"engine"`
	Physics   PhysicsConfig `yaml:"physics"`
	Log       LogConfig     `yaml:"log"`
}

type EngineConfig struct {
	FixedStep float64 `yaml:"fixed_step"`
	MaxDelta  float64 `yaml:"max_delta"`
	MaxSteps  int     `yaml:"max_steps"`
}

type PhysicsConfig struct {
	Gravity [3]float64 `yaml:"gravity,flow"`
	Damping float64    `yaml:"damping"`
	// Method is "euler" (the default when empty) or "verlet".
	Method string `yaml:"method,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:     DefaultScene,
		Duration:  DefaultDuration,
		FrameRate: DefaultFrameRate,
		Count:     DefaultCount,
		Engine: EngineConfig{
			FixedStep: DefaultFixedStep,
			MaxDelta:  DefaultMaxDelta,
			MaxSteps:  DefaultMaxSteps,
		},
		Physics: PhysicsConfig{
			Gravity: [3]float64{0, DefaultGravityY, 0},
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scene == "" && c.SceneFile == "" {
		return fmt.Errorf("config: scene or scene_file is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("config: frame_rate must be positive, got %f", c.FrameRate)
	}
	if c.Engine.FixedStep <= 0 {
		return fmt.Errorf("config: engine.fixed_step must be positive, got %f", c.Engine.FixedStep)
	}
	if c.Engine.MaxDelta <= 0 {
		return fmt.Errorf("config: engine.max_delta must be positive, got %f", c.Engine.MaxDelta)
	}
	if c.Engine.MaxSteps <= 0 {
		return fmt.Errorf("config: engine.max_steps must be positive, got %d", c.Engine.MaxSteps)
	}
	if c.Physics.Damping < 0 {
		return fmt.Errorf("config: physics.damping must not be negative, got %f", c.Physics.Damping)
	}
	if _, err := physics.ParseMethod(c.Physics.Method); err != nil {
		return fmt.Errorf("config: physics.method: %w", err)
	}
	if c.Count < 0 {
		return fmt.Errorf("config: count must not be negative, got %d", c.Count)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
