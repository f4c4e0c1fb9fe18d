package scene

import (
	"fmt"

	"github.com/san-kum/scenecore/internal/physics"
)

// Kind identifies a component slot. An entity holds at most one component
// per kind.
type Kind int

const (
	KindMeshRenderer Kind = iota
	KindCollider
	KindRigidBody
	KindScript

	numKinds
)

var kindNames = [numKinds]string{"meshRenderer", "collider", "rigidBody", "script"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("scene: unknown component kind %q", s)
}

// Component is a capability attached to an entity. OnEnable runs on attach,
// OnUpdate once per fixed step while enabled and OnDestroy on detach or
// entity deletion.
type Component interface {
	Kind() Kind
	OnEnable()
	OnDisable()
	OnUpdate(dt float64) error
	OnDestroy()
}

type binder interface {
	bind(e *Entity)
}

// base carries the owning entity and no-op callbacks.
type base struct {
	entity *Entity
}

func (b *base) bind(e *Entity)            { b.entity = e }
func (b *base) Entity() *Entity           { return b.entity }
func (b *base) OnEnable()                 {}
func (b *base) OnDisable()                {}
func (b *base) OnUpdate(dt float64) error { return nil }
func (b *base) OnDestroy()                {}

// MeshRenderer marks an entity as drawable. The renderer reads Visible and
// Layer; the core never draws.
type MeshRenderer struct {
	base
	Visible bool
	Layer   int
}

func NewMeshRenderer() *MeshRenderer { return &MeshRenderer{Visible: true} }

func (*MeshRenderer) Kind() Kind { return KindMeshRenderer }

type Shape int

const (
	ShapeAABB Shape = iota
	ShapeSphere
)

func (s Shape) String() string {
	if s == ShapeSphere {
		return "sphere"
	}
	return "aabb"
}

func ParseShape(s string) (Shape, error) {
	switch s {
	case "", "aabb":
		return ShapeAABB, nil
	case "sphere":
		return ShapeSphere, nil
	default:
		return 0, fmt.Errorf("scene: unknown collider shape %q", s)
	}
}

// Collider selects which cached bounding volume takes part in overlap
// queries.
type Collider struct {
	base
	Shape Shape
}

func NewCollider(shape Shape) *Collider { return &Collider{Shape: shape} }

func (*Collider) Kind() Kind { return KindCollider }

// Overlaps tests the two colliders' entity bounds. Entities without bounds
// never overlap.
func (c *Collider) Overlaps(o *Collider) bool {
	if c.entity == nil || o.entity == nil {
		return false
	}
	a, ok := c.entity.Bounds()
	if !ok {
		return false
	}
	b, ok := o.entity.Bounds()
	if !ok {
		return false
	}
	as, _ := c.entity.BoundingSphere()
	bs, _ := o.entity.BoundingSphere()

	switch {
	case c.Shape == ShapeSphere && o.Shape == ShapeSphere:
		return as.Intersects(bs)
	case c.Shape == ShapeSphere:
		return b.IntersectsSphere(as)
	case o.Shape == ShapeSphere:
		return a.IntersectsSphere(bs)
	default:
		return a.Intersects(b)
	}
}

// RigidBody binds a physics body to the entity transform. While enabled the
// body is registered with the scene integrator.
type RigidBody struct {
	base
	Body *physics.Body
}

func NewRigidBody(mass float64) *RigidBody {
	return &RigidBody{Body: physics.NewBody(mass, nil)}
}

func (*RigidBody) Kind() Kind { return KindRigidBody }

func (rb *RigidBody) bind(e *Entity) {
	rb.entity = e
	if rb.Body == nil {
		rb.Body = physics.NewBody(1, nil)
	}
	if e != nil {
		rb.Body.Bind(e.Transform)
	}
}

func (rb *RigidBody) integrator() *physics.Integrator {
	if rb.entity == nil || rb.entity.scene == nil {
		return nil
	}
	return rb.entity.scene.physics
}

func (rb *RigidBody) OnEnable() {
	if in := rb.integrator(); in != nil {
		in.RegisterBody(rb.Body)
	}
}

func (rb *RigidBody) OnDisable() {
	if in := rb.integrator(); in != nil {
		in.UnregisterBody(rb.Body)
	}
}

func (rb *RigidBody) OnDestroy() { rb.OnDisable() }

// Script runs user hooks. Start runs before the first update after each
// enable.
type Script struct {
	base
	Start   func(e *Entity) error
	Update  func(e *Entity, dt float64) error
	Destroy func(e *Entity)

	started bool
}

func NewScript() *Script { return &Script{} }

func (*Script) Kind() Kind { return KindScript }

func (s *Script) OnEnable() { s.started = false }

func (s *Script) OnUpdate(dt float64) error {
	if !s.started {
		s.started = true
		if s.Start != nil {
			if err := s.Start(s.entity); err != nil {
				return err
			}
		}
	}
	if s.Update != nil {
		return s.Update(s.entity, dt)
	}
	return nil
}

func (s *Script) OnDestroy() {
	if s.Destroy != nil {
		s.Destroy(s.entity)
	}
}

func newComponent(k Kind) Component {
	switch k {
	case KindMeshRenderer:
		return NewMeshRenderer()
	case KindCollider:
		return NewCollider(ShapeAABB)
	case KindRigidBody:
		return NewRigidBody(1)
	case KindScript:
		return NewScript()
	default:
		return nil
	}
}

var _ physics.Bounded = (*Entity)(nil)
