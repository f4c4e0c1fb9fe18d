package config

import "sort"

var Presets = map[string]map[string]*Config{
	"drop": {
		"moon": {
			Scene: "drop", Duration: 5.0, FrameRate: 60, Count: 1,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -1.62, 0}},
		},
		"jupiter": {
			Scene: "drop", Duration: 2.0, FrameRate: 60, Count: 1,
			Engine:  EngineConfig{FixedStep: 1.0 / 120, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -24.79, 0}},
		},
		"feather": {
			Scene: "drop", Duration: 8.0, FrameRate: 60, Count: 1,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}, Damping: 2.0},
		},
	},
	"rain": {
		"drizzle": {
			Scene: "rain", Duration: 5.0, FrameRate: 60, Count: 16, Seed: 1,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}, Damping: 0.5},
		},
		"storm": {
			Scene: "rain", Duration: 5.0, FrameRate: 60, Count: 128, Seed: 7,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}},
		},
	},
	"orbit": {
		"solar": {
			Scene: "orbit", Duration: 10.0, FrameRate: 30, Count: 4,
			Engine: EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
		},
	},
	"hover": {
		"mars": {
			Scene: "hover", Duration: 10.0, FrameRate: 60, Count: 3,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -3.71, 0}, Method: "verlet"},
		},
	},
	"stack": {
		"tower": {
			Scene: "stack", Duration: 3.0, FrameRate: 60, Count: 10,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}},
		},
		"slow_frames": {
			Scene: "stack", Duration: 3.0, FrameRate: 5, Count: 10,
			Engine:  EngineConfig{FixedStep: 1.0 / 60, MaxDelta: 0.25, MaxSteps: 5},
			Physics: PhysicsConfig{Gravity: [3]float64{0, -9.81, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil. Presets carry no
// log settings, so the defaults fill them in.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	if out.Log == (LogConfig{}) {
		out.Log = DefaultConfig().Log
	}
	return out
}

// ListPresets returns the preset names for a scene in sorted order.
func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenes lists the scenes that have presets, sorted.
func Scenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
