// Package geometry describes the procedural meshes an entity can carry and
// the material tag the renderer resolves. Only vertex positions matter to
// the core: they define the local bounding box.
package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/scenecore/internal/vmath"
)

type Kind string

const (
	Box      Kind = "box"
	Sphere   Kind = "sphere"
	Cylinder Kind = "cylinder"
	Plane    Kind = "plane"
	Pyramid  Kind = "pyramid"
	Empty    Kind = "empty"
)

// Params holds the shape dimensions. Zero values fall back to defaults.
type Params struct {
	Size     float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Depth    float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Segments int     `json:"segments,omitempty" yaml:"segments,omitempty"`
}

type Geometry struct {
	Kind     Kind
	Params   Params
	Vertices []vmath.Vec3
	Indices  []int
}

// New generates the vertices for kind. Unknown kinds produce an empty mesh.
func New(kind Kind, p Params) *Geometry {
	g := &Geometry{Kind: kind, Params: p}
	g.generate()
	return g
}

// ParseKind validates a kind name from a scene file.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Box, Sphere, Cylinder, Plane, Pyramid, Empty:
		return k, nil
	case "":
		return Box, nil
	default:
		return "", fmt.Errorf("unknown geometry kind: %s", s)
	}
}

func or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func (g *Geometry) generate() {
	switch g.Kind {
	case Box:
		s := or(g.Params.Size, 1) / 2
		g.Vertices = []vmath.Vec3{
			{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s},
			{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s},
		}
		g.Indices = []int{0, 1, 2, 0, 2, 3, 4, 6, 5, 4, 7, 6, 0, 4, 5, 0, 5, 1, 2, 6, 7, 2, 7, 3, 0, 3, 7, 0, 7, 4, 1, 5, 6, 1, 6, 2}
	case Sphere:
		r := or(g.Params.Radius, 1)
		seg := g.segments()
		for i := 0; i <= seg; i++ {
			phi := math.Pi * float64(i) / float64(seg)
			for j := 0; j <= seg; j++ {
				theta := 2 * math.Pi * float64(j) / float64(seg)
				g.Vertices = append(g.Vertices, vmath.Vec3{
					X: r * math.Sin(phi) * math.Cos(theta),
					Y: r * math.Cos(phi),
					Z: r * math.Sin(phi) * math.Sin(theta),
				})
			}
		}
		for i := 0; i < seg; i++ {
			for j := 0; j < seg; j++ {
				a := i*(seg+1) + j
				b := a + seg + 1
				g.Indices = append(g.Indices, a, b, a+1, b, b+1, a+1)
			}
		}
	case Cylinder:
		r := or(g.Params.Radius, 1)
		h := or(g.Params.Height, 2)
		seg := g.segments()
		for i := 0; i <= seg; i++ {
			t := 2 * math.Pi * float64(i) / float64(seg)
			x, z := math.Cos(t)*r, math.Sin(t)*r
			g.Vertices = append(g.Vertices, vmath.Vec3{X: x, Y: h / 2, Z: z}, vmath.Vec3{X: x, Y: -h / 2, Z: z})
		}
		for i := 0; i < seg; i++ {
			base := i * 2
			g.Indices = append(g.Indices, base, base+1, base+2, base+1, base+3, base+2)
		}
	case Plane:
		w := or(g.Params.Width, 1) / 2
		d := or(g.Params.Depth, 1) / 2
		g.Vertices = []vmath.Vec3{{X: -w, Z: -d}, {X: w, Z: -d}, {X: w, Z: d}, {X: -w, Z: d}}
		g.Indices = []int{0, 1, 2, 0, 2, 3}
	case Pyramid:
		s := or(g.Params.Size, 1)
		g.Vertices = []vmath.Vec3{
			{X: -s / 2, Z: -s / 2}, {X: s / 2, Z: -s / 2}, {X: s / 2, Z: s / 2}, {X: -s / 2, Z: s / 2},
			{Y: s},
		}
		g.Indices = []int{0, 1, 4, 1, 2, 4, 2, 3, 4, 3, 0, 4, 0, 2, 1, 0, 3, 2}
	}
}

func (g *Geometry) segments() int {
	if g.Params.Segments > 0 {
		return g.Params.Segments
	}
	return 16
}

// LocalBounds returns the min/max corners of the vertex cloud. ok is false
// for an empty mesh.
func (g *Geometry) LocalBounds() (min, max vmath.Vec3, ok bool) {
	if g == nil || len(g.Vertices) == 0 {
		return vmath.Vec3{}, vmath.Vec3{}, false
	}
	min, max = g.Vertices[0], g.Vertices[0]
	for _, v := range g.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max, true
}

// Clone regenerates the mesh from its kind and params.
func (g *Geometry) Clone() *Geometry {
	return New(g.Kind, g.Params)
}
