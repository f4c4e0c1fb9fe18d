package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/scenecore/internal/vmath"
)

func TestLocalMatrixOrder(t *testing.T) {
	tr := New()
	tr.Position = vmath.V3(5, 0, 0)
	tr.Rotation = vmath.V3(0, 0, math.Pi/2)
	tr.Scale = vmath.V3(2, 2, 2)

	// scale, then rotate about Z, then translate
	p := tr.LocalMatrix().TransformPoint(vmath.V3(1, 0, 0))
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestWorldMatrixComposesParent(t *testing.T) {
	parent := New()
	parent.Position = vmath.V3(1, 2, 3)
	parent.Rotation = vmath.V3(0.2, 0.4, -0.3)
	parent.Scale = vmath.V3(1, 2, 1)

	child := New()
	child.Position = vmath.V3(-1, 0.5, 4)
	child.Rotation = vmath.V3(1, 0, 0.5)
	parent.AddChild(child)

	want := vmath.Mul(parent.WorldMatrix(), child.LocalMatrix())
	require.True(t, child.WorldMatrix().ApproxEqual(want, 1e-12))

	grand := New()
	grand.Position = vmath.V3(0, 0, 1)
	child.AddChild(grand)
	want = vmath.Mul(child.WorldMatrix(), grand.LocalMatrix())
	require.True(t, grand.WorldMatrix().ApproxEqual(want, 1e-12))
	assert.Equal(t, 2, grand.Depth())
	assert.Same(t, parent, grand.Root())
}

func TestWorldMatrixTracksMutation(t *testing.T) {
	parent := New()
	child := New()
	parent.AddChild(child)

	parent.Position = vmath.V3(0, 10, 0)
	assert.Equal(t, vmath.V3(0, 10, 0), child.WorldPosition())
}

func TestReparentKeepsSingleParent(t *testing.T) {
	a := New()
	b := New()
	c := New()

	a.AddChild(c)
	b.AddChild(c)

	assert.Same(t, b, c.Parent())
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Transform{c}, b.Children())

	require.True(t, b.RemoveChild(c))
	assert.Nil(t, c.Parent())
	assert.False(t, b.RemoveChild(c))
}

func TestWorldLocalRoundTrip(t *testing.T) {
	parent := New()
	parent.Position = vmath.V3(3, -1, 2)
	parent.Rotation = vmath.V3(0, math.Pi/4, 0)
	child := New()
	child.Scale = vmath.V3(2, 2, 2)
	parent.AddChild(child)

	p := vmath.V3(1, 1, 1)
	back := child.WorldToLocal(child.LocalToWorld(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, p.Z, back.Z, 1e-9)
}

func TestAncestry(t *testing.T) {
	a, b, c := New(), New(), New()
	a.AddChild(b)
	b.AddChild(c)

	assert.True(t, a.IsAncestorOf(c))
	assert.False(t, c.IsAncestorOf(a))
	assert.False(t, a.IsAncestorOf(a))
}

func TestCloneDropsLinks(t *testing.T) {
	a, b := New(), New()
	b.Position = vmath.V3(1, 2, 3)
	a.AddChild(b)

	c := b.Clone()
	assert.Nil(t, c.Parent())
	assert.Equal(t, b.Position, c.Position)
	assert.Equal(t, vmath.One3, c.Scale)
}
