package metrics

import (
	"github.com/san-kum/scenecore/internal/scene"
)

// Containment is the fraction of samples in which every entity stayed
// within radius of the origin.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *scene.Scene, t float64) {
	c.samples++
	for _, e := range w.Entities() {
		if e.WorldPosition().Length() > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
