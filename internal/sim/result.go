package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/vmath"
)

type Result struct {
	Times   []float64
	Frames  []Frame
	Metrics map[string]float64
	Steps   int
	// Dropped is the number of render ticks that discarded a step backlog.
	Dropped uint64
	// Errors holds component failures that did not stop the run.
	Errors []error
}

func (r *Result) Final() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Trajectory returns the positions of one entity across all frames.
func (r *Result) Trajectory(id scene.ID) []vmath.Vec3 {
	out := make([]vmath.Vec3, 0, len(r.Frames))
	for _, f := range r.Frames {
		for _, es := range f.Entities {
			if es.ID == id {
				out = append(out, es.Position)
				break
			}
		}
	}
	return out
}

// Checksum fingerprints the recorded trajectory. Identical scenes run with
// identical configs produce identical checksums.
func (r *Result) Checksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)
	put := func(v float64) {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	for _, f := range r.Frames {
		buf = buf[:0]
		put(f.Time)
		for _, es := range f.Entities {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(es.ID))
			put(es.Position.X)
			put(es.Position.Y)
			put(es.Position.Z)
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
