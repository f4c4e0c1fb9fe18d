// Package transform implements the local/world transform hierarchy.
//
// A Transform owns its children and holds a non-owning pointer to its
// parent. World matrices are recomputed on every call by walking the parent
// chain, so they are always consistent with the latest local values.
package transform

import (
	"slices"

	"github.com/san-kum/scenecore/internal/vmath"
)

type Transform struct {
	Position vmath.Vec3
	Rotation vmath.Vec3 // Euler radians, applied X then Y then Z
	Scale    vmath.Vec3

	parent   *Transform
	children []*Transform
}

// New returns a transform at the origin with unit scale.
func New() *Transform {
	return &Transform{Scale: vmath.One3}
}

// Clone copies position, rotation and scale. The copy has no parent and no
// children.
func (t *Transform) Clone() *Transform {
	return &Transform{
		Position: t.Position,
		Rotation: t.Rotation,
		Scale:    t.Scale,
	}
}

func (t *Transform) Parent() *Transform { return t.parent }

// Children returns a copy of the ordered child list.
func (t *Transform) Children() []*Transform {
	return slices.Clone(t.children)
}

// AddChild attaches child under t, detaching it from its previous parent
// first. Cycles are not checked here.
func (t *Transform) AddChild(child *Transform) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = t
	t.children = append(t.children, child)
}

// RemoveChild detaches child if it is a direct child of t.
func (t *Transform) RemoveChild(child *Transform) bool {
	idx := slices.Index(t.children, child)
	if idx == -1 {
		return false
	}
	t.children = slices.Delete(t.children, idx, idx+1)
	child.parent = nil
	return true
}

// IsAncestorOf reports whether t appears on other's parent chain.
func (t *Transform) IsAncestorOf(other *Transform) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}
	return false
}

// Root returns the top of t's parent chain.
func (t *Transform) Root() *Transform {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth is the number of ancestors.
func (t *Transform) Depth() int {
	d := 0
	for p := t.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// LocalMatrix composes T·Rx·Ry·Rz·S.
func (t *Transform) LocalMatrix() vmath.Mat4 {
	m := vmath.Identity()
	m.Translate(t.Position).
		RotateX(t.Rotation.X).
		RotateY(t.Rotation.Y).
		RotateZ(t.Rotation.Z).
		Scale(t.Scale)
	return m
}

// WorldMatrix left-multiplies each ancestor's local matrix onto t's.
func (t *Transform) WorldMatrix() vmath.Mat4 {
	m := t.LocalMatrix()
	for p := t.parent; p != nil; p = p.parent {
		m = vmath.Mul(p.LocalMatrix(), m)
	}
	return m
}

// WorldPosition is the world-space origin of t.
func (t *Transform) WorldPosition() vmath.Vec3 {
	return t.WorldMatrix().Translation()
}

func (t *Transform) LocalToWorld(p vmath.Vec3) vmath.Vec3 {
	return t.WorldMatrix().TransformPoint(p)
}

func (t *Transform) WorldToLocal(p vmath.Vec3) vmath.Vec3 {
	return t.WorldMatrix().Inverse().TransformPoint(p)
}

// GetPosition and SetPosition let physics bodies drive the transform.
func (t *Transform) GetPosition() vmath.Vec3  { return t.Position }
func (t *Transform) SetPosition(p vmath.Vec3) { t.Position = p }
