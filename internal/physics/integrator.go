package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/scenecore/internal/vmath"
)

var DefaultGravity = vmath.V3(0, -9.81, 0)

// Method selects how Update advances positions.
type Method int

const (
	// SemiImplicitEuler updates velocity first and moves by the new velocity.
	SemiImplicitEuler Method = iota
	// Verlet moves by v·dt + ½a·dt² and then updates velocity.
	Verlet
)

func (m Method) String() string {
	switch m {
	case SemiImplicitEuler:
		return "euler"
	case Verlet:
		return "verlet"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "euler":
		return SemiImplicitEuler, nil
	case "verlet":
		return Verlet, nil
	}
	return 0, fmt.Errorf("physics: unknown method %q", s)
}

type Integrator struct {
	Gravity vmath.Vec3
	Method  Method
	// Damping is a linear drag rate; each step scales velocity by
	// max(0, 1-Damping*dt). Zero disables it.
	Damping float64

	bodies []*Body
}

func NewIntegrator(gravity vmath.Vec3) *Integrator {
	return &Integrator{
		Gravity: gravity,
		bodies:  make([]*Body, 0),
	}
}

// RegisterBody appends b. Registering the same body twice is a no-op.
func (in *Integrator) RegisterBody(b *Body) {
	if b == nil || slices.Contains(in.bodies, b) {
		return
	}
	in.bodies = append(in.bodies, b)
}

func (in *Integrator) UnregisterBody(b *Body) bool {
	idx := slices.Index(in.bodies, b)
	if idx == -1 {
		return false
	}
	in.bodies = slices.Delete(in.bodies, idx, idx+1)
	return true
}

// Bodies returns the registered bodies in insertion order.
func (in *Integrator) Bodies() []*Body { return slices.Clone(in.bodies) }

func (in *Integrator) Len() int { return len(in.bodies) }

// Update advances every body by dt. With SemiImplicitEuler velocity is
// updated first and then position; with Verlet the order is reversed and the
// position picks up the ½a·dt² term.
func (in *Integrator) Update(dt float64) {
	damp := 1.0
	if in.Damping > 0 {
		damp = math.Max(0, 1-in.Damping*dt)
	}
	g := in.Gravity.Scale(dt)
	halfDt2 := 0.5 * dt * dt

	for _, b := range in.bodies {
		if in.Method == Verlet {
			if b.target != nil {
				step := b.Velocity.Scale(dt)
				if b.UseGravity {
					step = step.Add(in.Gravity.Scale(halfDt2))
				}
				b.target.SetPosition(b.target.GetPosition().Add(step))
			}
			if b.UseGravity {
				b.Velocity = b.Velocity.Add(g)
			}
			if damp != 1 {
				b.Velocity = b.Velocity.Scale(damp)
			}
			continue
		}

		if b.UseGravity {
			b.Velocity = b.Velocity.Add(g)
		}
		if damp != 1 {
			b.Velocity = b.Velocity.Scale(damp)
		}
		if b.target != nil {
			b.target.SetPosition(b.target.GetPosition().Add(b.Velocity.Scale(dt)))
		}
	}
}

// PotentialEnergy sums m·(-g)·p over bodies, taking the origin as zero.
func (in *Integrator) PotentialEnergy() float64 {
	total := 0.0
	for _, b := range in.bodies {
		total -= b.Mass * vmath.Dot(in.Gravity, b.Position())
	}
	return total
}
