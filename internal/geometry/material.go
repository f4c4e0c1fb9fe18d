package geometry

import "fmt"

// Color is linear RGB in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Material is an opaque tag plus a base color. Textures and shading belong
// to the renderer.
type Material struct {
	Name  string
	Color Color
}

var DefaultColor = Color{R: 0, G: 1, B: 0.8}

func DefaultMaterial() Material {
	return Material{Name: "Default", Color: DefaultColor}
}

// Hex formats the color as #rrggbb for terminal styling.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return int(v * 255)
	}
}
