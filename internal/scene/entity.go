package scene

import (
	"errors"
	"slices"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/geometry"
	"github.com/san-kum/scenecore/internal/spatial"
	"github.com/san-kum/scenecore/internal/transform"
	"github.com/san-kum/scenecore/internal/vmath"
)

// ID identifies an entity within its scene. The root is always 0.
type ID uint64

const RootID ID = 0

type slot struct {
	c       Component
	enabled bool
}

type Entity struct {
	ID        ID
	Name      string
	Transform *transform.Transform
	Geometry  *geometry.Geometry
	Material  geometry.Material
	Animation *animation.Controller

	scene    *Scene
	parent   *Entity
	children []*Entity

	slots [numKinds]slot
	order []Kind

	bounds    spatial.AABB
	sphere    spatial.Sphere
	hasBounds bool
}

func newEntity(s *Scene, id ID, name string) *Entity {
	return &Entity{
		ID:        id,
		Name:      name,
		Transform: transform.New(),
		Geometry:  geometry.New(geometry.Box, geometry.Params{Size: 1}),
		Material:  geometry.DefaultMaterial(),
		Animation: animation.NewController(),
		scene:     s,
	}
}

func (e *Entity) Scene() *Scene { return e.scene }

func (e *Entity) Parent() *Entity { return e.parent }

func (e *Entity) Children() []*Entity { return slices.Clone(e.children) }

func (e *Entity) IsRoot() bool { return e.scene != nil && e.scene.root == e }

// SetMesh replaces geometry and material and refreshes the bounds.
func (e *Entity) SetMesh(g *geometry.Geometry, m geometry.Material) {
	e.Geometry = g
	e.Material = m
	e.UpdateBounds()
}

// AddComponent returns the existing component of kind k, or creates one,
// enables it and appends it to the update order.
func (e *Entity) AddComponent(k Kind) Component {
	if c, ok := e.GetComponent(k); ok {
		return c
	}
	c := newComponent(k)
	if c == nil {
		return nil
	}
	return e.Attach(c)
}

// Attach installs a pre-built component. If the slot for its kind is taken
// the existing component is returned and c is left untouched.
func (e *Entity) Attach(c Component) Component {
	if c == nil {
		return nil
	}
	k := c.Kind()
	if k < 0 || k >= numKinds {
		return nil
	}
	if cur := e.slots[k].c; cur != nil {
		return cur
	}
	if b, ok := c.(binder); ok {
		b.bind(e)
	}
	e.slots[k] = slot{c: c, enabled: true}
	e.order = append(e.order, k)
	e.callGuarded(k, "enable", c.OnEnable)
	return c
}

func (e *Entity) GetComponent(k Kind) (Component, bool) {
	if k < 0 || k >= numKinds || e.slots[k].c == nil {
		return nil, false
	}
	return e.slots[k].c, true
}

// Get returns the component of type T, if attached.
func Get[T Component](e *Entity) (T, bool) {
	for _, k := range e.order {
		if c, ok := e.slots[k].c.(T); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// RemoveComponent destroys and detaches the component of kind k.
func (e *Entity) RemoveComponent(k Kind) bool {
	c, ok := e.GetComponent(k)
	if !ok {
		return false
	}
	e.slots[k] = slot{}
	e.order = slices.DeleteFunc(e.order, func(o Kind) bool { return o == k })
	e.callGuarded(k, "destroy", c.OnDestroy)
	return true
}

// callGuarded runs a lifecycle hook, logging a panic instead of letting it
// reach the caller.
func (e *Entity) callGuarded(k Kind, phase string, hook func()) {
	if err := guard(func() error { hook(); return nil }); err != nil {
		e.logComponentError(&ComponentError{Entity: e.ID, Kind: k, Phase: phase, Wrapped: err})
	}
}

// SetEnabled toggles a component. Disabled components keep their slot and
// order but are skipped by Update.
func (e *Entity) SetEnabled(k Kind, enabled bool) bool {
	c, ok := e.GetComponent(k)
	if !ok {
		return false
	}
	if e.slots[k].enabled == enabled {
		return true
	}
	e.slots[k].enabled = enabled
	if enabled {
		e.callGuarded(k, "enable", c.OnEnable)
	} else {
		e.callGuarded(k, "disable", c.OnDisable)
	}
	return true
}

func (e *Entity) Enabled(k Kind) bool {
	return k >= 0 && k < numKinds && e.slots[k].c != nil && e.slots[k].enabled
}

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.slots[k].c)
	}
	return out
}

// Update advances the animation controller, runs every enabled component in
// attach order and refreshes the bounds. Component failures do not stop the
// remaining components; they are returned joined.
func (e *Entity) Update(dt float64) error {
	e.Animation.Update(dt)

	var errs []error
	for _, k := range slices.Clone(e.order) {
		s := e.slots[k]
		if s.c == nil || !s.enabled {
			continue
		}
		if err := guard(func() error { return s.c.OnUpdate(dt) }); err != nil {
			errs = append(errs, &ComponentError{Entity: e.ID, Kind: k, Phase: "update", Wrapped: err})
		}
	}

	e.UpdateBounds()
	return errors.Join(errs...)
}

func (e *Entity) destroyComponents() {
	for _, k := range slices.Clone(e.order) {
		e.RemoveComponent(k)
	}
}

func (e *Entity) logComponentError(err *ComponentError) {
	if e.scene != nil {
		e.scene.logComponentError(err)
	}
}

// UpdateBounds transforms the local geometry box by the world matrix. An
// entity without vertices has no bounds.
func (e *Entity) UpdateBounds() {
	lo, hi, ok := e.Geometry.LocalBounds()
	if !ok {
		e.hasBounds = false
		return
	}
	e.bounds = spatial.AABB{Min: lo, Max: hi}.Transform(e.Transform.WorldMatrix())
	e.sphere = e.bounds.BoundingSphere()
	e.hasBounds = true
}

// Bounds returns the box cached by the last UpdateBounds.
func (e *Entity) Bounds() (spatial.AABB, bool) { return e.bounds, e.hasBounds }

func (e *Entity) BoundingSphere() (spatial.Sphere, bool) { return e.sphere, e.hasBounds }

func (e *Entity) WorldPosition() vmath.Vec3 { return e.Transform.WorldPosition() }

// Pose returns the sampled animation pose and whether a clip is playing.
func (e *Entity) Pose() (animation.Pose, bool) {
	return e.Animation.Pose(), e.Animation.IsPlaying()
}

// DisplayMatrix is the world matrix a renderer should draw with: the pose
// replaces the local transform while a clip plays.
func (e *Entity) DisplayMatrix() vmath.Mat4 {
	pose, playing := e.Pose()
	if !playing {
		return e.Transform.WorldMatrix()
	}
	local := vmath.Identity()
	local.Translate(pose.Position).RotateY(pose.RotationY).Scale(pose.Scale)
	if p := e.Transform.Parent(); p != nil {
		return vmath.Mul(p.WorldMatrix(), local)
	}
	return local
}
