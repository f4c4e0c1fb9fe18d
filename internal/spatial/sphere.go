package spatial

import "github.com/san-kum/scenecore/internal/vmath"

type Sphere struct {
	Center vmath.Vec3
	Radius float64
}

// Intersects reports whether center distance <= sum of radii.
func (s Sphere) Intersects(o Sphere) bool {
	return vmath.Distance(s.Center, o.Center) <= s.Radius+o.Radius
}

func (s Sphere) Contains(p vmath.Vec3) bool {
	return vmath.Distance(s.Center, p) <= s.Radius
}
