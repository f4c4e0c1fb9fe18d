package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/scenecore/internal/geometry"
	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/vmath"
)

type View int

const (
	ViewSide View = iota
	ViewTop
	ViewOrbit
	numViews
)

func (v View) String() string {
	switch v {
	case ViewSide:
		return "side"
	case ViewTop:
		return "top"
	case ViewOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

func ParseView(s string) (View, error) {
	for v := ViewSide; v < numViews; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("viz: unknown view %q", s)
}

// Camera is an orthographic camera. Side looks down -Z, Top looks down -Y
// and Orbit uses Yaw and Pitch.
type Camera struct {
	View       View
	Yaw, Pitch float64
	Center     vmath.Vec3
	// Extent is the half height of the visible region in world units.
	Extent float64
}

func NewCamera() *Camera {
	return &Camera{View: ViewSide, Yaw: math.Pi / 6, Pitch: math.Pi / 8, Center: vmath.V3(0, 5, 0), Extent: 12}
}

func (c *Camera) Next()               { c.View = (c.View + 1) % numViews }
func (c *Camera) RotateYaw(a float64) { c.Yaw += a }
func (c *Camera) RotatePitch(a float64) {
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+a))
}
func (c *Camera) ZoomIn()  { c.Extent = math.Max(1, c.Extent/1.2) }
func (c *Camera) ZoomOut() { c.Extent = math.Min(1000, c.Extent*1.2) }

func (c *Camera) angles() (yaw, pitch float64) {
	switch c.View {
	case ViewTop:
		return 0, math.Pi / 2
	case ViewOrbit:
		return c.Yaw, c.Pitch
	default:
		return 0, 0
	}
}

// Matrix maps world space to normalized device coordinates.
func (c *Camera) Matrix(aspect float64) vmath.Mat4 {
	yaw, pitch := c.angles()
	view := vmath.Identity()
	view.RotateX(pitch).RotateY(-yaw).Translate(c.Center.Scale(-1))

	e := c.Extent
	proj := vmath.Orthographic(-e*aspect, e*aspect, -e, e, -1000, 1000)
	return vmath.Mul(proj, view)
}

// Projector converts world points to canvas sub-pixels.
type Projector struct {
	m      vmath.Mat4
	sw, sh int
}

func (c *Camera) Projector(cv *Canvas) Projector {
	sw, sh := cv.Size()
	return Projector{m: c.Matrix(float64(sw) / float64(sh)), sw: sw, sh: sh}
}

func (p Projector) Project(v vmath.Vec3) (int, int) {
	ndc := p.m.TransformPoint(v)
	x := (ndc.X + 1) / 2 * float64(p.sw)
	y := (1 - ndc.Y) / 2 * float64(p.sh)
	return int(math.Floor(x)), int(math.Floor(y))
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawEntity draws the entity's local box through its display matrix, so a
// playing animation pose is what shows up. Entities without vertices draw
// as a single dot.
func DrawEntity(cv *Canvas, p Projector, e *scene.Entity) {
	pen := e.Material.Color.Hex()
	if e.Material.Color == (geometry.Color{}) {
		pen = CurrentTheme.Ink
	}
	cv.SetPen(pen)
	defer cv.SetPen("")

	m := e.DisplayMatrix()
	lo, hi, ok := e.Geometry.LocalBounds()
	if !ok {
		cv.Set(p.Project(m.Translation()))
		return
	}

	var pts [8][2]int
	for i := range pts {
		corner := lo
		if i&1 != 0 {
			corner.X = hi.X
		}
		if i&2 != 0 {
			corner.Y = hi.Y
		}
		if i&4 != 0 {
			corner.Z = hi.Z
		}
		x, y := p.Project(m.TransformPoint(corner))
		pts[i] = [2]int{x, y}
	}
	for _, edge := range boxEdges {
		a, b := pts[edge[0]], pts[edge[1]]
		cv.DrawLine(a[0], a[1], b[0], b[1])
	}
}

// DrawScene clears the canvas and draws every entity.
func DrawScene(cv *Canvas, cam *Camera, w *scene.Scene) {
	cv.Clear()
	p := cam.Projector(cv)
	for _, e := range w.Entities() {
		if e.Geometry == nil {
			continue
		}
		if mr, ok := scene.Get[*scene.MeshRenderer](e); ok && !mr.Visible {
			continue
		}
		DrawEntity(cv, p, e)
	}
}
