package config

import (
	"fmt"
	"math"
	"sort"
)

var params = map[string]func(c *Config, v float64){
	"duration":   func(c *Config, v float64) { c.Duration = v },
	"frame_rate": func(c *Config, v float64) { c.FrameRate = v },
	"fixed_step": func(c *Config, v float64) { c.Engine.FixedStep = v },
	"max_delta":  func(c *Config, v float64) { c.Engine.MaxDelta = v },
	"max_steps":  func(c *Config, v float64) { c.Engine.MaxSteps = int(math.Round(v)) },
	"count":      func(c *Config, v float64) { c.Count = int(math.Round(v)) },
	"gravity":    func(c *Config, v float64) { c.Physics.Gravity[1] = v },
	"damping":    func(c *Config, v float64) { c.Physics.Damping = v },
}

// SetParam sets a numeric setting by name. Integer settings are rounded.
// "gravity" is the vertical component.
func (c *Config) SetParam(name string, value float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("config: unknown param %q (available: %v)", name, ParamNames())
	}
	set(c, value)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
