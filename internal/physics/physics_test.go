package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/scenecore/internal/spatial"
	"github.com/san-kum/scenecore/internal/vmath"
)

type point struct{ p vmath.Vec3 }

func (pt *point) GetPosition() vmath.Vec3  { return pt.p }
func (pt *point) SetPosition(v vmath.Vec3) { pt.p = v }

type boxed struct {
	name string
	box  spatial.AABB
	ok   bool
}

func (b boxed) Bounds() (spatial.AABB, bool) { return b.box, b.ok }

func TestGravityStep(t *testing.T) {
	target := &point{p: vmath.V3(0, 10, 0)}
	b := NewBody(1, target)

	in := NewIntegrator(DefaultGravity)
	in.RegisterBody(b)
	in.Update(1.0 / 60)

	assert.InDelta(t, -0.1635, b.Velocity.Y, 1e-4)
	assert.InDelta(t, 10-0.1635/60, target.p.Y, 1e-6)
	assert.Zero(t, target.p.X)
	assert.Zero(t, target.p.Z)
}

func TestNoGravityKeepsVelocity(t *testing.T) {
	target := &point{}
	b := NewBody(2, target)
	b.UseGravity = false
	b.Velocity = vmath.V3(1, 0, 0)

	in := NewIntegrator(DefaultGravity)
	in.RegisterBody(b)
	for i := 0; i < 10; i++ {
		in.Update(0.1)
	}

	assert.Equal(t, vmath.V3(1, 0, 0), b.Velocity)
	assert.InDelta(t, 1, target.p.X, 1e-9)
}

func TestDamping(t *testing.T) {
	b := NewBody(1, &point{})
	b.UseGravity = false
	b.Velocity = vmath.V3(10, 0, 0)

	in := NewIntegrator(vmath.Vec3{})
	in.Damping = 0.5
	in.RegisterBody(b)
	in.Update(0.1)
	assert.InDelta(t, 9.5, b.Velocity.X, 1e-12)

	// A drag rate larger than 1/dt clamps to a full stop instead of reversing.
	in.Damping = 100
	in.Update(0.1)
	assert.Zero(t, b.Velocity.X)
}

func TestRegisterIdempotent(t *testing.T) {
	in := NewIntegrator(DefaultGravity)
	b := NewBody(1, &point{})

	in.RegisterBody(b)
	in.RegisterBody(b)
	in.RegisterBody(nil)
	require.Equal(t, 1, in.Len())

	assert.True(t, in.UnregisterBody(b))
	assert.False(t, in.UnregisterBody(b))
	assert.Zero(t, in.Len())
}

func TestUnregisteredBodyDoesNotMove(t *testing.T) {
	target := &point{p: vmath.V3(0, 5, 0)}
	b := NewBody(1, target)

	in := NewIntegrator(DefaultGravity)
	in.Update(1)

	assert.Equal(t, vmath.V3(0, 5, 0), target.p)
	assert.Equal(t, vmath.Vec3{}, b.Velocity)
}

func TestApplyImpulse(t *testing.T) {
	b := NewBody(2, &point{})
	b.ApplyImpulse(vmath.V3(4, 0, 0))
	assert.Equal(t, vmath.V3(2, 0, 0), b.Velocity)

	static := NewBody(0, &point{})
	static.ApplyImpulse(vmath.V3(4, 0, 0))
	assert.Equal(t, vmath.Vec3{}, static.Velocity)
}

func TestEnergy(t *testing.T) {
	b := NewBody(2, &point{p: vmath.V3(0, 3, 0)})
	b.Velocity = vmath.V3(0, 1, 0)

	in := NewIntegrator(vmath.V3(0, -10, 0))
	in.RegisterBody(b)

	assert.InDelta(t, 1, b.KineticEnergy(), 1e-12)
	assert.InDelta(t, 60, in.PotentialEnergy(), 1e-12)
}

func TestRaycastFirstHitOrder(t *testing.T) {
	near := boxed{name: "near", ok: true, box: spatial.AABB{Min: vmath.V3(-1, -1, 2), Max: vmath.V3(1, 1, 3)}}
	far := boxed{name: "far", ok: true, box: spatial.AABB{Min: vmath.V3(-1, -1, -3), Max: vmath.V3(1, 1, -2)}}
	none := boxed{name: "none"}

	ray := spatial.NewRay(vmath.V3(0, 0, 10), vmath.V3(0, 0, -1))
	items := []boxed{none, far, near}

	hit, ok := Raycast(ray, items)
	require.True(t, ok)
	assert.Equal(t, "far", hit.name)

	nearest, ok := RaycastNearest(ray, items)
	require.True(t, ok)
	assert.Equal(t, "near", nearest.Item.name)
	assert.InDelta(t, 7, nearest.Distance, 1e-12)
}

func TestRaycastMiss(t *testing.T) {
	box := boxed{ok: true, box: spatial.AABB{Min: vmath.V3(-1, -1, -1), Max: vmath.V3(1, 1, 1)}}
	ray := spatial.NewRay(vmath.V3(5, 5, 5), vmath.V3(1, 0, 0))

	_, ok := Raycast(ray, []boxed{box})
	assert.False(t, ok)
	_, ok = RaycastNearest(ray, []boxed{box})
	assert.False(t, ok)
	_, ok = Raycast[boxed](ray, nil)
	assert.False(t, ok)
}

func TestRaycastNearestFromInside(t *testing.T) {
	box := boxed{name: "room", ok: true, box: spatial.AABB{Min: vmath.V3(-5, -5, -5), Max: vmath.V3(5, 5, 5)}}
	hit, ok := RaycastNearest(spatial.NewRay(vmath.Vec3{}, vmath.V3(0, 1, 0)), []boxed{box})
	require.True(t, ok)
	assert.Zero(t, hit.Distance)
}

func TestVerletMatchesFreeFall(t *testing.T) {
	target := &point{p: vmath.V3(0, 100, 0)}
	b := NewBody(1, target)
	b.Velocity = vmath.V3(2, 0, 0)

	in := NewIntegrator(DefaultGravity)
	in.Method = Verlet
	in.RegisterBody(b)

	dt := 0.05
	for i := 0; i < 40; i++ {
		in.Update(dt)
	}

	// Constant acceleration is integrated exactly.
	assert.InDelta(t, 100-0.5*9.81*4, target.p.Y, 1e-9)
	assert.InDelta(t, 4, target.p.X, 1e-9)
	assert.InDelta(t, -9.81*2, b.Velocity.Y, 1e-9)
}

func TestEulerUndershootsFreeFall(t *testing.T) {
	target := &point{p: vmath.V3(0, 100, 0)}
	in := NewIntegrator(DefaultGravity)
	in.RegisterBody(NewBody(1, target))

	for i := 0; i < 40; i++ {
		in.Update(0.05)
	}
	assert.Less(t, target.p.Y, 100-0.5*9.81*4)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("verlet")
	require.NoError(t, err)
	assert.Equal(t, Verlet, m)
	assert.Equal(t, "verlet", m.String())

	m, err = ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, SemiImplicitEuler, m)

	_, err = ParseMethod("rk4")
	assert.Error(t, err)
}
