package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/geometry"
	"github.com/san-kum/scenecore/internal/spatial"
	"github.com/san-kum/scenecore/internal/vmath"
)

// recorder records lifecycle calls in a shared log.
type recorder struct {
	base
	kind Kind
	name string
	log  *[]string
	err  error
	boom bool
	// panicOn names a lifecycle hook that panics after logging.
	panicOn string
}

func (p *recorder) Kind() Kind { return p.kind }
func (p *recorder) OnEnable()  { p.record("enable") }
func (p *recorder) OnDisable() { p.record("disable") }
func (p *recorder) OnDestroy() { p.record("destroy") }

func (p *recorder) record(phase string) {
	*p.log = append(*p.log, p.name+":"+phase)
	if p.panicOn == phase {
		panic(phase + " failed")
	}
}

func (p *recorder) OnUpdate(dt float64) error {
	*p.log = append(*p.log, p.name+":update")
	if p.boom {
		panic("boom")
	}
	return p.err
}

func TestCreateEntityIDs(t *testing.T) {
	s := New()
	a := s.CreateEntity("a")
	b := s.CreateEntity("")

	assert.Equal(t, RootID, s.Root().ID)
	assert.Equal(t, ID(1), a.ID)
	assert.Equal(t, ID(2), b.ID)
	assert.Equal(t, "Entity", b.Name)
	assert.Same(t, s.Root(), a.Parent())
	assert.Same(t, s.Root().Transform, a.Transform.Parent())

	// Ids are per scene.
	other := New()
	assert.Equal(t, ID(1), other.CreateEntity("x").ID)
}

func TestAddComponentIdempotent(t *testing.T) {
	s := New()
	e := s.CreateEntity("e")

	c1 := e.AddComponent(KindCollider)
	c2 := e.AddComponent(KindCollider)
	require.NotNil(t, c1)
	assert.Same(t, c1, c2)

	var log []string
	existing := e.Attach(&recorder{kind: KindCollider, name: "p", log: &log})
	assert.Same(t, c1, existing)
	assert.Empty(t, log)

	got, ok := e.GetComponent(KindCollider)
	require.True(t, ok)
	assert.Same(t, c1, got)

	col, ok := Get[*Collider](e)
	require.True(t, ok)
	assert.Same(t, e, col.Entity())

	_, ok = e.GetComponent(KindScript)
	assert.False(t, ok)
}

func TestComponentLifecycleOrder(t *testing.T) {
	s := New()
	e := s.CreateEntity("e")
	var log []string

	e.Attach(&recorder{kind: KindScript, name: "script", log: &log})
	e.Attach(&recorder{kind: KindMeshRenderer, name: "mesh", log: &log})

	require.NoError(t, e.Update(0.1))
	e.SetEnabled(KindScript, false)
	require.NoError(t, e.Update(0.1))
	e.SetEnabled(KindScript, true)
	assert.True(t, e.RemoveComponent(KindMeshRenderer))
	assert.False(t, e.RemoveComponent(KindMeshRenderer))

	assert.Equal(t, []string{
		"script:enable", "mesh:enable",
		"script:update", "mesh:update",
		"script:disable",
		"mesh:update",
		"script:enable",
		"mesh:destroy",
	}, log)
}

func TestFailingComponentDoesNotStopSiblings(t *testing.T) {
	s := New()
	e := s.CreateEntity("e")
	var log []string
	errBad := errors.New("bad script")

	e.Attach(&recorder{kind: KindScript, name: "script", log: &log, err: errBad})
	e.Attach(&recorder{kind: KindCollider, name: "panicky", log: &log, boom: true})
	e.Attach(&recorder{kind: KindMeshRenderer, name: "mesh", log: &log})

	err := s.Update(0.1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBad)

	var ce *ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, e.ID, ce.Entity)

	assert.Contains(t, err.Error(), "panic: boom")
	assert.Equal(t, []string{
		"script:enable", "panicky:enable", "mesh:enable",
		"script:update", "panicky:update", "mesh:update",
	}, log)
}

func TestLifecyclePanicsAreContained(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := New(WithLogger(zap.New(core)))
	e := s.CreateEntity("e")
	var log []string

	c := &recorder{kind: KindScript, name: "script", log: &log, panicOn: "enable"}
	require.NotPanics(t, func() { e.Attach(c) })
	got, ok := e.GetComponent(KindScript)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.True(t, e.Enabled(KindScript))

	c.panicOn = "disable"
	require.NotPanics(t, func() { e.SetEnabled(KindScript, false) })
	assert.False(t, e.Enabled(KindScript))

	c.panicOn = "enable"
	require.NotPanics(t, func() { e.SetEnabled(KindScript, true) })

	c.panicOn = "destroy"
	require.NotPanics(t, func() { s.DeleteEntity(e) })

	assert.Equal(t, []string{"script:enable", "script:disable", "script:enable", "script:destroy"}, log)

	entries := logs.All()
	require.Len(t, entries, 4)
	var phases []string
	for _, entry := range entries {
		var ce *ComponentError
		require.ErrorAs(t, entry.Context[0].Interface.(error), &ce)
		phases = append(phases, ce.Phase)
	}
	assert.Equal(t, []string{"enable", "disable", "enable", "destroy"}, phases)
}

func TestScriptHooks(t *testing.T) {
	s := New()
	e := s.CreateEntity("spinner")

	var starts, updates, destroys int
	sc := NewScript()
	sc.Start = func(*Entity) error { starts++; return nil }
	sc.Update = func(e *Entity, dt float64) error {
		updates++
		e.Transform.Rotation.Y += dt
		return nil
	}
	sc.Destroy = func(*Entity) { destroys++ }
	e.Attach(sc)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(0.5))
	}
	require.NoError(t, s.DeleteEntity(e))

	assert.Equal(t, 1, starts)
	assert.Equal(t, 3, updates)
	assert.Equal(t, 1, destroys)
	assert.InDelta(t, 1.5, e.Transform.Rotation.Y, 1e-12)
}

func TestRigidBodyRegistration(t *testing.T) {
	s := New()
	e := s.CreateEntity("ball")
	e.Transform.Position = vmath.V3(0, 10, 0)

	rb := e.AddComponent(KindRigidBody).(*RigidBody)
	assert.Equal(t, 1, s.Physics().Len())

	require.NoError(t, s.Step(1.0/60))
	assert.InDelta(t, -0.1635, rb.Body.Velocity.Y, 1e-4)
	assert.Less(t, e.Transform.Position.Y, 10.0)

	e.SetEnabled(KindRigidBody, false)
	assert.Zero(t, s.Physics().Len())
	e.SetEnabled(KindRigidBody, true)
	assert.Equal(t, 1, s.Physics().Len())

	require.NoError(t, s.DeleteEntity(e))
	assert.Zero(t, s.Physics().Len())
}

func TestBoundsFollowWorldMatrix(t *testing.T) {
	s := New()
	parent := s.CreateEntity("parent")
	child := s.CreateEntity("child")
	require.NoError(t, s.SetParent(child, parent))

	parent.Transform.Position = vmath.V3(10, 0, 0)
	child.Transform.Position = vmath.V3(0, 5, 0)
	child.Transform.Scale = vmath.V3(2, 2, 2)
	require.NoError(t, s.Update(0))

	b, ok := child.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 9, b.Min.X, 1e-9)
	assert.InDelta(t, 11, b.Max.X, 1e-9)
	assert.InDelta(t, 4, b.Min.Y, 1e-9)
	assert.InDelta(t, 6, b.Max.Y, 1e-9)

	sp, ok := child.BoundingSphere()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(3), sp.Radius, 1e-9)

	child.SetMesh(geometry.New(geometry.Empty, geometry.Params{}), geometry.DefaultMaterial())
	_, ok = child.Bounds()
	assert.False(t, ok)
}

func TestSetParent(t *testing.T) {
	s := New()
	a := s.CreateEntity("a")
	b := s.CreateEntity("b")
	c := s.CreateEntity("c")

	require.NoError(t, s.SetParent(b, a))
	require.NoError(t, s.SetParent(c, b))
	assert.ErrorIs(t, s.SetParent(a, c), ErrCyclicParent)
	assert.ErrorIs(t, s.SetParent(a, a), ErrCyclicParent)

	// Reparent keeps a single parent in both trees.
	require.NoError(t, s.SetParent(c, a))
	assert.Len(t, b.Children(), 0)
	assert.Empty(t, b.Transform.Children())
	assert.Len(t, a.Children(), 2)
	assert.Same(t, a.Transform, c.Transform.Parent())

	require.NoError(t, s.SetParent(c, nil))
	assert.Same(t, s.Root(), c.Parent())

	foreign := New().CreateEntity("x")
	assert.ErrorIs(t, s.SetParent(foreign, a), ErrNotInScene)
	assert.ErrorIs(t, s.SetParent(a, foreign), ErrNotInScene)
}

func TestDeleteEntityReparentsChildren(t *testing.T) {
	s := New()
	a := s.CreateEntity("a")
	b := s.CreateEntity("b")
	require.NoError(t, s.SetParent(b, a))
	b.Transform.Position = vmath.V3(1, 2, 3)

	require.NoError(t, s.DeleteEntity(a))
	assert.Equal(t, 1, s.Len())
	assert.Same(t, s.Root(), b.Parent())
	assert.Equal(t, vmath.V3(1, 2, 3), b.Transform.Position)
	assert.NotContains(t, s.Root().Children(), a)

	_, ok := s.Entity(a.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeleteEntity(a), ErrNotInScene)
	assert.ErrorIs(t, s.DeleteEntity(s.Root()), ErrNotInScene)

	// Deleted ids are not reused.
	assert.Equal(t, ID(3), s.CreateEntity("c").ID)
}

func TestRaycast(t *testing.T) {
	s := New()
	far := s.CreateEntity("far")
	far.Transform.Position = vmath.V3(0, 0, -10)
	near := s.CreateEntity("near")
	near.Transform.Position = vmath.V3(0, 0, -3)
	require.NoError(t, s.Update(0))

	ray := spatial.NewRay(vmath.Vec3{}, vmath.V3(0, 0, -1))

	first, ok := s.RaycastFirst(ray)
	require.True(t, ok)
	assert.Same(t, far, first)

	hit, dist, ok := s.Raycast(ray)
	require.True(t, ok)
	assert.Same(t, near, hit)
	assert.InDelta(t, 2.5, dist, 1e-9)

	_, _, ok = s.Raycast(spatial.NewRay(vmath.Vec3{}, vmath.V3(0, 1, 0)))
	assert.False(t, ok)
}

func TestOverlaps(t *testing.T) {
	s := New()
	a := s.CreateEntity("a")
	b := s.CreateEntity("b")
	c := s.CreateEntity("c")
	b.Transform.Position = vmath.V3(0.9, 0, 0)
	c.Transform.Position = vmath.V3(5, 0, 0)

	a.AddComponent(KindCollider)
	b.Attach(NewCollider(ShapeSphere))
	c.AddComponent(KindCollider)
	require.NoError(t, s.Update(0))

	pairs := s.Overlaps()
	require.Len(t, pairs, 1)
	assert.Same(t, a, pairs[0].A)
	assert.Same(t, b, pairs[0].B)

	b.SetEnabled(KindCollider, false)
	assert.Empty(t, s.Overlaps())
}

func TestPoseIsAdvisory(t *testing.T) {
	s := New()
	e := s.CreateEntity("bob")
	clip := animation.NewClip("up")
	clip.AddKeyframe(animation.PosY, 0, 0)
	clip.AddKeyframe(animation.PosY, 1, 4)
	e.Animation.AddClip(clip)
	require.True(t, e.Animation.Play("up"))

	require.NoError(t, s.Update(0.5))
	pose, playing := e.Pose()
	require.True(t, playing)
	assert.InDelta(t, 2, pose.Position.Y, 1e-12)
	assert.Equal(t, vmath.Vec3{}, e.Transform.Position)
	assert.InDelta(t, 2, e.DisplayMatrix().Translation().Y, 1e-12)
}

func TestSerializeRoundTrip(t *testing.T) {
	s := New()
	a := s.CreateEntity("a")
	a.Transform.Position = vmath.V3(1, 2, 3)
	a.Transform.Rotation = vmath.V3(0.1, 0.2, 0.3)
	a.Material = geometry.Material{Name: "Red", Color: geometry.Color{R: 1}}
	b := s.CreateEntity("b")
	b.SetMesh(geometry.New(geometry.Sphere, geometry.Params{Radius: 2}), geometry.DefaultMaterial())
	b.Transform.Scale = vmath.V3(2, 2, 2)
	require.NoError(t, s.SetParent(b, a))
	c := s.CreateEntity("c")
	require.NoError(t, s.SetParent(c, b))
	rb := c.AddComponent(KindRigidBody).(*RigidBody)
	rb.Body.Mass = 3
	rb.Body.Velocity = vmath.V3(1, 0, 0)
	c.Attach(NewCollider(ShapeSphere))
	clip := animation.NewClip("spin")
	clip.AddKeyframe(animation.RotY, 0, 0)
	clip.AddKeyframe(animation.RotY, 2, math.Pi)
	c.Animation.AddClip(clip)
	c.Animation.Play("spin")

	snap := s.Serialize()
	require.Len(t, snap.Entities, 3)
	assert.Equal(t, ID(0), snap.Entities[0].ParentID)
	assert.Equal(t, a.ID, snap.Entities[1].ParentID)

	restored := New()
	require.NoError(t, restored.Deserialize(snap))
	require.Equal(t, s.Len(), restored.Len())

	for _, orig := range s.Entities() {
		got, ok := restored.Entity(orig.ID)
		require.True(t, ok, "entity %d", orig.ID)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Transform.Position, got.Transform.Position)
		assert.Equal(t, orig.Transform.Rotation, got.Transform.Rotation)
		assert.Equal(t, orig.Transform.Scale, got.Transform.Scale)
		assert.Equal(t, orig.Parent().ID, got.Parent().ID)
		assert.Equal(t, orig.Material, got.Material)
		assert.Equal(t, orig.Geometry.Kind, got.Geometry.Kind)
		assert.Same(t, got.Parent().Transform, got.Transform.Parent())
	}

	rc, _ := restored.Entity(c.ID)
	rrb, ok := Get[*RigidBody](rc)
	require.True(t, ok)
	assert.Equal(t, 3.0, rrb.Body.Mass)
	assert.Equal(t, vmath.V3(1, 0, 0), rrb.Body.Velocity)
	assert.Equal(t, 1, restored.Physics().Len())
	col, ok := Get[*Collider](rc)
	require.True(t, ok)
	assert.Equal(t, ShapeSphere, col.Shape)
	assert.Equal(t, "spin", rc.Animation.Current())
	assert.True(t, rc.Animation.IsPlaying())

	assert.Equal(t, ID(4), restored.CreateEntity("d").ID)
	assert.Equal(t, snap, restored.Serialize().withoutEntity(4))
}

func (s Snapshot) withoutEntity(id ID) Snapshot {
	out := Snapshot{Version: s.Version}
	for _, r := range s.Entities {
		if r.ID != id {
			out.Entities = append(out.Entities, r)
		}
	}
	return out
}

func TestDeserializeParents(t *testing.T) {
	s := New()
	stale := s.CreateEntity("stale")

	snap := Snapshot{Version: SnapshotVersion, Entities: []Record{
		{ID: 7, Name: "child", ParentID: 9, Scale: [3]float64{1, 1, 1}},
		{ID: 9, Name: "parent"},
		{ID: 3, Name: "orphan", ParentID: 42},
		{ID: 4, Name: "self", ParentID: 4},
	}}
	require.NoError(t, s.Deserialize(snap))

	_, ok := s.Entity(stale.ID)
	assert.False(t, ok)
	assert.Equal(t, 4, s.Len())

	child, _ := s.Entity(7)
	parent, _ := s.Entity(9)
	orphan, _ := s.Entity(3)
	self, _ := s.Entity(4)
	assert.Same(t, parent, child.Parent())
	assert.Same(t, s.Root(), parent.Parent())
	assert.Same(t, s.Root(), orphan.Parent())
	assert.Same(t, s.Root(), self.Parent())
	assert.Equal(t, vmath.V3(1, 1, 1), parent.Transform.Scale)
	assert.Equal(t, geometry.Box, parent.Geometry.Kind)

	assert.Equal(t, ID(10), s.CreateEntity("next").ID)
}

func TestDeserializeBreaksCycles(t *testing.T) {
	s := New()
	require.NoError(t, s.Deserialize(Snapshot{Entities: []Record{
		{ID: 1, Name: "a", ParentID: 2},
		{ID: 2, Name: "b", ParentID: 1},
	}}))

	a, _ := s.Entity(1)
	b, _ := s.Entity(2)
	assert.Same(t, b, a.Parent())
	assert.Same(t, s.Root(), b.Parent())
}

func TestDeserializeRejectsBadSnapshots(t *testing.T) {
	tests := []struct {
		name string
		recs []Record
		want error
	}{
		{"root id", []Record{{ID: 0, Name: "r"}}, ErrDuplicateID},
		{"duplicate id", []Record{{ID: 1}, {ID: 1}}, ErrDuplicateID},
		{"bad geometry", []Record{{ID: 1, Geometry: "torus"}}, nil},
		{"bad collider", []Record{{ID: 1, Collider: "capsule"}}, nil},
		{"bad channel", []Record{{ID: 1, Clips: []ClipRecord{{Name: "c", Channels: map[string][]animation.Keyframe{"rotX": nil}}}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			keep := s.CreateEntity("keep")

			err := s.Deserialize(Snapshot{Entities: tt.recs})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}

			got, ok := s.Entity(keep.ID)
			require.True(t, ok, "a rejected snapshot leaves the scene untouched")
			assert.Same(t, keep, got)
		})
	}
}

func TestWithPhysicsNil(t *testing.T) {
	s := New(WithPhysics(nil), WithLogger(nil))
	e := s.CreateEntity("e")
	e.AddComponent(KindRigidBody)
	assert.NoError(t, s.Step(0.1))
	assert.Nil(t, s.Physics())
}
