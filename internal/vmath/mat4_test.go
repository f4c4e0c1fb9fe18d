package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func trs() Mat4 {
	m := Identity()
	m.Translate(V3(1, -2, 3)).RotateX(0.3).RotateY(-1.1).RotateZ(0.7).Scale(V3(2, 0.5, 1.5))
	return m
}

func TestIdentityDefault(t *testing.T) {
	m := Identity()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			assert.Equal(t, want, m.At(r, c))
		}
	}
}

func TestRowMajorElements(t *testing.T) {
	m := Identity()
	m.Translate(V3(7, 8, 9))
	e := m.Elements()
	assert.Equal(t, 7.0, e[3])
	assert.Equal(t, 8.0, e[7])
	assert.Equal(t, 9.0, e[11])
	assert.Equal(t, m, FromRows(e))
}

func TestMultiplyOrder(t *testing.T) {
	tr := Identity()
	tr.Translate(V3(10, 0, 0))
	sc := Identity()
	sc.Scale(V3(2, 2, 2))

	// T·S scales first, then translates
	ts := tr
	ts.Multiply(sc)
	assert.Equal(t, V3(12, 2, 2), ts.TransformPoint(V3(1, 1, 1)))

	// S·T translates first
	st := sc
	st.Multiply(tr)
	assert.Equal(t, V3(22, 2, 2), st.TransformPoint(V3(1, 1, 1)))

	assert.Equal(t, ts, Mul(tr, sc))
}

func TestRotations(t *testing.T) {
	m := Identity()
	m.RotateZ(math.Pi / 2)
	p := m.TransformPoint(V3(1, 0, 0))
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 1, p.Y, eps)

	m = Identity()
	m.RotateY(math.Pi / 2)
	p = m.TransformPoint(V3(0, 0, 1))
	assert.InDelta(t, 1, p.X, eps)
	assert.InDelta(t, 0, p.Z, eps)

	m = Identity()
	m.RotateX(math.Pi / 2)
	p = m.TransformPoint(V3(0, 1, 0))
	assert.InDelta(t, 1, p.Z, eps)
}

func TestInvert(t *testing.T) {
	m := trs()
	inv := m.Inverse()

	require.True(t, Mul(m, inv).ApproxEqual(Identity(), eps))
	require.True(t, Mul(inv, m).ApproxEqual(Identity(), eps))

	p := V3(0.25, -4, 9)
	back := inv.TransformPoint(m.TransformPoint(p))
	assert.InDelta(t, p.X, back.X, eps)
	assert.InDelta(t, p.Y, back.Y, eps)
	assert.InDelta(t, p.Z, back.Z, eps)

	assert.InDelta(t, 2*0.5*1.5, m.Determinant(), eps)
}

func TestInvertSingularIsZero(t *testing.T) {
	m := Identity()
	m.Scale(V3(1, 0, 1))
	require.Equal(t, 0.0, m.Determinant())

	m.Invert()
	for _, v := range m.Elements() {
		assert.Equal(t, 0.0, v)
	}
}

func TestProjectionDegenerate(t *testing.T) {
	p := Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	assert.Equal(t, -1.0, p.At(3, 2))
	assert.Equal(t, 0.0, p.At(3, 3))

	assert.NotPanics(t, func() {
		d := Perspective(math.Pi/3, 1, 5, 5)
		_ = d.Elements()
		d = Perspective(math.Pi/3, 1, 0, 0)
		_ = d.Inverse()
	})

	o := Orthographic(-2, 2, -1, 1, 0.1, 10)
	c := o.TransformPoint(V3(2, 1, -0.1))
	assert.InDelta(t, 1, c.X, eps)
	assert.InDelta(t, 1, c.Y, eps)
	assert.InDelta(t, -1, c.Z, eps)
}
