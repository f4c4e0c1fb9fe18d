package physics

import "github.com/san-kum/scenecore/internal/vmath"

// Positioner is the position a body drives, usually an entity transform.
type Positioner interface {
	GetPosition() vmath.Vec3
	SetPosition(vmath.Vec3)
}

type Body struct {
	Mass       float64
	Velocity   vmath.Vec3
	UseGravity bool

	target Positioner
}

// NewBody returns a gravity-affected body at rest.
func NewBody(mass float64, target Positioner) *Body {
	return &Body{Mass: mass, UseGravity: true, target: target}
}

func (b *Body) Target() Positioner { return b.target }

// Bind points the body at a new position target.
func (b *Body) Bind(target Positioner) { b.target = target }

func (b *Body) Position() vmath.Vec3 {
	if b.target == nil {
		return vmath.Vec3{}
	}
	return b.target.GetPosition()
}

// ApplyImpulse changes velocity by j/m. Bodies with non-positive mass are
// immovable and ignore impulses.
func (b *Body) ApplyImpulse(j vmath.Vec3) {
	if b.Mass <= 0 {
		return
	}
	b.Velocity = b.Velocity.Add(j.Scale(1 / b.Mass))
}

// KineticEnergy is ½mv².
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LengthSq()
}
