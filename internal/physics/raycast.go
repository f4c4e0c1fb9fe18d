package physics

import (
	"math"

	"github.com/san-kum/scenecore/internal/spatial"
)

// Bounded is anything with an optional world-space box.
type Bounded interface {
	Bounds() (spatial.AABB, bool)
}

// Raycast returns the first item, in slice order, whose box the ray hits.
// This is not the nearest hit; use RaycastNearest for that.
func Raycast[T Bounded](ray spatial.Ray, items []T) (T, bool) {
	for _, it := range items {
		box, ok := it.Bounds()
		if ok && ray.IntersectsAABB(box) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Hit is a ray query result with its entry distance.
type Hit[T Bounded] struct {
	Item     T
	Distance float64
}

// RaycastNearest returns the hit with the smallest entry distance. A ray
// starting inside a box reports distance 0. Ties keep slice order.
func RaycastNearest[T Bounded](ray spatial.Ray, items []T) (Hit[T], bool) {
	best := Hit[T]{Distance: math.Inf(1)}
	found := false
	for _, it := range items {
		box, ok := it.Bounds()
		if !ok {
			continue
		}
		tEnter, _, hit := ray.IntersectAABB(box)
		if !hit {
			continue
		}
		d := math.Max(tEnter, 0)
		if d < best.Distance {
			best = Hit[T]{Item: it, Distance: d}
			found = true
		}
	}
	return best, found
}
