package metrics

import (
	"github.com/san-kum/scenecore/internal/scene"
)

// Speed is the mean body speed across all samples.
type Speed struct {
	name    string
	sum     float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{
		name: "mean_speed",
	}
}

func (s *Speed) Name() string {
	return s.name
}

func (s *Speed) Observe(w *scene.Scene, t float64) {
	in := w.Physics()
	if in == nil {
		return
	}
	for _, b := range in.Bodies() {
		s.sum += b.Velocity.Length()
		s.samples++
	}
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.sum = 0
	s.samples = 0
}
