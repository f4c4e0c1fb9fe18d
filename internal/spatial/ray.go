package spatial

import (
	"math"

	"github.com/san-kum/scenecore/internal/vmath"
)

// Ray has a unit direction; a zero direction stays zero.
type Ray struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
}

func NewRay(origin, direction vmath.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) vmath.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectsAABB reports whether the ray enters b.
func (r Ray) IntersectsAABB(b AABB) bool {
	_, _, ok := r.IntersectAABB(b)
	return ok
}

// IntersectAABB runs the slab test and returns the entry and exit distances.
// A zero direction component divides to ±Inf, which the interval logic
// handles for axis-aligned rays. Boxes entirely behind the origin miss; when
// the origin is inside the box, tEnter is negative.
func (r Ray) IntersectAABB(b AABB) (tEnter, tExit float64, ok bool) {
	tEnter, tExit = math.Inf(-1), math.Inf(1)

	origins := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dirs := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := range 3 {
		t0 := (mins[i] - origins[i]) / dirs[i]
		t1 := (maxs[i] - origins[i]) / dirs[i]
		// 0/0: the ray runs inside the slab's boundary plane
		if math.IsNaN(t0) {
			t0 = math.Inf(-1)
		}
		if math.IsNaN(t1) {
			t1 = math.Inf(1)
		}
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tExit || t1 < tEnter {
			return 0, 0, false
		}
		tEnter = math.Max(tEnter, t0)
		tExit = math.Min(tExit, t1)
	}

	if tExit < 0 || math.IsInf(tEnter, 1) {
		return 0, 0, false
	}
	return tEnter, tExit, true
}
