package experiment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/control"
	"github.com/san-kum/scenecore/internal/geometry"
	"github.com/san-kum/scenecore/internal/metrics"
	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/sim"
	"github.com/san-kum/scenecore/internal/vmath"
)

var ErrUnknownScene = errors.New("experiment: unknown scene")

// SceneBuilder populates an empty scene. count is the requested number of
// dynamic entities; builders pick their own default when it is zero.
type SceneBuilder func(w *scene.Scene, count int, rng *rand.Rand) error

type entry struct {
	build       SceneBuilder
	description string
}

type Registry struct {
	scenes map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]entry)}

	r.Register("drop", "balls falling onto a ground plane", buildDrop)
	r.Register("stack", "a parented tower of boxes bouncing on the floor", buildStack)
	r.Register("rain", "seeded drops that respawn above the ground", buildRain)
	r.Register("orbit", "satellites parented to a spinning hub", buildOrbit)
	r.Register("hover", "PID-driven drones holding their altitude", buildHover)

	return r
}

func (r *Registry) Register(name, description string, b SceneBuilder) {
	r.scenes[name] = entry{build: b, description: description}
}

// Build populates w with the named scene, seeding its random source.
func (r *Registry) Build(name string, w *scene.Scene, count int, seed int64) error {
	e, ok := r.scenes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return e.build(w, count, rand.New(rand.NewSource(seed)))
}

func (r *Registry) Has(name string) bool {
	_, ok := r.scenes[name]
	return ok
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].description
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one run.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewContainment(100),
		metrics.NewSpeed(),
	}
}

func or(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func addGround(w *scene.Scene, size float64) *scene.Entity {
	g := w.CreateEntity("ground")
	g.SetMesh(
		geometry.New(geometry.Plane, geometry.Params{Width: size, Depth: size}),
		geometry.Material{Name: "ground", Color: geometry.Color{R: 0.3, G: 0.3, B: 0.3}},
	)
	g.Attach(scene.NewCollider(scene.ShapeAABB))
	return g
}

// bounce reflects the vertical velocity when the entity drops below floor.
func bounce(floor, restitution float64) func(e *scene.Entity, dt float64) error {
	return func(e *scene.Entity, dt float64) error {
		rb, ok := scene.Get[*scene.RigidBody](e)
		if !ok {
			return nil
		}
		p := e.Transform.Position
		if p.Y < floor && rb.Body.Velocity.Y < 0 {
			e.Transform.Position = vmath.V3(p.X, floor, p.Z)
			rb.Body.Velocity.Y = -rb.Body.Velocity.Y * restitution
		}
		return nil
	}
}

func buildDrop(w *scene.Scene, count int, rng *rand.Rand) error {
	n := or(count, 1)
	addGround(w, 4*float64(n)+4)

	for i := 0; i < n; i++ {
		ball := w.CreateEntity(fmt.Sprintf("ball-%d", i))
		ball.SetMesh(
			geometry.New(geometry.Sphere, geometry.Params{Radius: 0.5}),
			geometry.Material{Name: "ball", Color: geometry.Color{R: 1, G: 0.4, B: 0.2}},
		)
		x := (float64(i) - float64(n-1)/2) * 2
		ball.Transform.Position = vmath.V3(x, 10+float64(i), 0)
		ball.Attach(scene.NewCollider(scene.ShapeSphere))
		ball.Attach(scene.NewRigidBody(1))
	}
	return nil
}

func buildStack(w *scene.Scene, count int, rng *rand.Rand) error {
	n := or(count, 5)
	addGround(w, 10)

	base := w.CreateEntity("box-0")
	base.Transform.Position = vmath.V3(0, 5, 0)
	base.Attach(scene.NewCollider(scene.ShapeAABB))
	base.Attach(scene.NewRigidBody(float64(n)))
	script := scene.NewScript()
	script.Update = bounce(0.5, 0.6)
	base.Attach(script)

	parent := base
	for i := 1; i < n; i++ {
		box := w.CreateEntity(fmt.Sprintf("box-%d", i))
		box.Transform.Position = vmath.V3(0, 1, 0)
		box.Transform.Scale = vmath.V3(0.9, 0.9, 0.9)
		box.Attach(scene.NewCollider(scene.ShapeAABB))
		if err := w.SetParent(box, parent); err != nil {
			return err
		}
		parent = box
	}
	return nil
}

func buildRain(w *scene.Scene, count int, rng *rand.Rand) error {
	n := or(count, 32)
	const (
		spread = 10.0
		top    = 20.0
	)
	addGround(w, 2*spread)

	for i := 0; i < n; i++ {
		drop := w.CreateEntity(fmt.Sprintf("drop-%d", i))
		drop.SetMesh(
			geometry.New(geometry.Sphere, geometry.Params{Radius: 0.1, Segments: 6}),
			geometry.Material{Name: "water", Color: geometry.Color{R: 0.3, G: 0.5, B: 1}},
		)
		drop.Transform.Position = vmath.V3(
			(rng.Float64()*2-1)*spread,
			top*(0.25+0.75*rng.Float64()),
			(rng.Float64()*2-1)*spread,
		)
		rb := scene.NewRigidBody(0.01)
		rb.Body.Velocity = vmath.V3(rng.NormFloat64()*0.2, 0, rng.NormFloat64()*0.2)
		drop.Attach(rb)

		script := scene.NewScript()
		script.Update = func(e *scene.Entity, dt float64) error {
			if e.Transform.Position.Y > 0 {
				return nil
			}
			e.Transform.Position = vmath.V3((rng.Float64()*2-1)*spread, top, (rng.Float64()*2-1)*spread)
			rb.Body.Velocity = vmath.Zero3
			return nil
		}
		drop.Attach(script)
	}
	return nil
}

func buildOrbit(w *scene.Scene, count int, rng *rand.Rand) error {
	n := or(count, 4)
	const omega = 0.5

	hub := w.CreateEntity("hub")
	hub.SetMesh(
		geometry.New(geometry.Sphere, geometry.Params{Radius: 1}),
		geometry.Material{Name: "sun", Color: geometry.Color{R: 1, G: 0.9, B: 0.2}},
	)
	spin := scene.NewScript()
	spin.Update = func(e *scene.Entity, dt float64) error {
		e.Transform.Rotation.Y = math.Mod(e.Transform.Rotation.Y+omega*dt, 2*math.Pi)
		return nil
	}
	hub.Attach(spin)

	for i := 0; i < n; i++ {
		sat := w.CreateEntity(fmt.Sprintf("satellite-%d", i))
		sat.SetMesh(
			geometry.New(geometry.Box, geometry.Params{Size: 0.4}),
			geometry.Material{Name: "rock", Color: geometry.Color{R: 0.6, G: 0.6, B: 0.7}},
		)
		angle := 2 * math.Pi * float64(i) / float64(n)
		radius := 3 + 1.5*float64(i)
		sat.Transform.Position = vmath.V3(radius*math.Cos(angle), 0, radius*math.Sin(angle))
		sat.Attach(scene.NewCollider(scene.ShapeSphere))
		if err := w.SetParent(sat, hub); err != nil {
			return err
		}

		clip := animation.NewClip("bob")
		clip.AddKeyframe(animation.PosY, 0, 0)
		clip.AddKeyframe(animation.PosY, 1, 0.5)
		clip.AddKeyframe(animation.PosY, 2, 0)
		clip.AddKeyframe(animation.RotY, 0, 0)
		clip.AddKeyframe(animation.RotY, 2, 2*math.Pi)
		sat.Animation.AddClip(clip)
		sat.Animation.Play("bob")
	}
	return nil
}

// HoverAltitude is the height the hover scene's i-th drone holds.
func HoverAltitude(i int) float64 { return 2 + 2*float64(i) }

func buildHover(w *scene.Scene, count int, rng *rand.Rand) error {
	n := or(count, 3)
	addGround(w, 4*float64(n)+4)

	for i := 0; i < n; i++ {
		drone := w.CreateEntity(fmt.Sprintf("drone-%d", i))
		drone.SetMesh(
			geometry.New(geometry.Box, geometry.Params{Size: 0.8}),
			geometry.Material{Name: "drone", Color: geometry.Color{R: 0.2, G: 0.9, B: 0.6}},
		)
		drone.Transform.Position = vmath.V3((float64(i)-float64(n-1)/2)*2, 0.5, 0)
		drone.Transform.Scale = vmath.V3(1, 0.25, 1)
		drone.Attach(scene.NewCollider(scene.ShapeAABB))
		rb := scene.NewRigidBody(1)
		drone.Attach(rb)

		pid := control.NewPID(16, 0.5, 8, HoverAltitude(i))
		pid.Limit = 40
		script := scene.NewScript()
		script.Update = func(e *scene.Entity, dt float64) error {
			// Thrust cancels gravity and the controller closes the gap.
			thrust := -w.Physics().Gravity.Y + pid.Update(e.Transform.Position.Y, dt)
			rb.Body.ApplyImpulse(vmath.V3(0, rb.Body.Mass*thrust*dt, 0))
			return nil
		}
		drone.Attach(script)
	}
	return nil
}
