// Package spatial holds the bounding volumes and ray used for intersection
// queries. All tests use closed intervals: touching volumes intersect.
package spatial

import (
	"github.com/san-kum/scenecore/internal/vmath"
)

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max vmath.Vec3
}

// FromPoints returns the smallest box enclosing pts. It returns the zero box
// for an empty slice.
func FromPoints(pts ...vmath.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Intersects is the per-axis overlap test.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// IntersectsSphere tests the closest point of the box against the sphere.
func (b AABB) IntersectsSphere(s Sphere) bool {
	closest := s.Center.Max(b.Min).Min(b.Max)
	return closest.Sub(s.Center).LengthSq() <= s.Radius*s.Radius
}

func (b AABB) Contains(p vmath.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b AABB) Center() vmath.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b AABB) Size() vmath.Vec3   { return b.Max.Sub(b.Min) }

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]vmath.Vec3 {
	return [8]vmath.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the box enclosing b's corners after m is applied.
func (b AABB) Transform(m vmath.Mat4) AABB {
	corners := b.Corners()
	for i, c := range corners {
		corners[i] = m.TransformPoint(c)
	}
	return FromPoints(corners[:]...)
}

// BoundingSphere returns the sphere through the box corners.
func (b AABB) BoundingSphere() Sphere {
	c := b.Center()
	return Sphere{Center: c, Radius: vmath.Distance(c, b.Max)}
}
