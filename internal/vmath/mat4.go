package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix. Composition methods mutate the receiver and return
// it so transform builders can chain: m.Translate(p).RotateX(a).Scale(s).
type Mat4 struct {
	m mgl64.Mat4
}

// Identity returns the identity matrix.
func Identity() Mat4 { return Mat4{m: mgl64.Ident4()} }

// FromRows builds a matrix from 16 row-major values.
func FromRows(e [16]float64) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.m[c*4+r] = e[r*4+c]
		}
	}
	return out
}

// At returns the entry at row r, column c.
func (a Mat4) At(r, c int) float64 { return a.m[c*4+r] }

// Elements returns the 16 entries in row-major order.
func (a Mat4) Elements() [16]float64 {
	var e [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			e[r*4+c] = a.m[c*4+r]
		}
	}
	return e
}

// SetIdentity resets a to the identity.
func (a *Mat4) SetIdentity() *Mat4 {
	a.m = mgl64.Ident4()
	return a
}

// Copy overwrites a with b.
func (a *Mat4) Copy(b Mat4) *Mat4 {
	a.m = b.m
	return a
}

// Multiply sets a to a·b.
func (a *Mat4) Multiply(b Mat4) *Mat4 {
	a.m = a.m.Mul4(b.m)
	return a
}

// Mul returns a·b without touching either operand.
func Mul(a, b Mat4) Mat4 { return Mat4{m: a.m.Mul4(b.m)} }

func (a *Mat4) Translate(v Vec3) *Mat4 {
	return a.Multiply(Mat4{m: mgl64.Translate3D(v.X, v.Y, v.Z)})
}

func (a *Mat4) Scale(v Vec3) *Mat4 {
	return a.Multiply(Mat4{m: mgl64.Scale3D(v.X, v.Y, v.Z)})
}

func (a *Mat4) RotateX(rad float64) *Mat4 {
	return a.Multiply(Mat4{m: mgl64.HomogRotate3DX(rad)})
}

func (a *Mat4) RotateY(rad float64) *Mat4 {
	return a.Multiply(Mat4{m: mgl64.HomogRotate3DY(rad)})
}

func (a *Mat4) RotateZ(rad float64) *Mat4 {
	return a.Multiply(Mat4{m: mgl64.HomogRotate3DZ(rad)})
}

// Determinant returns det(a).
func (a Mat4) Determinant() float64 {
	_, det := a.adjugate()
	return det
}

// Invert replaces a with its inverse. The adjugate is scaled by 1/det, and
// by 0 when det is exactly zero, so a singular matrix becomes all zeros.
func (a *Mat4) Invert() *Mat4 {
	adj, det := a.adjugate()
	inv := 0.0
	if det != 0 {
		inv = 1.0 / det
	}
	for i := range adj.m {
		adj.m[i] *= inv
	}
	a.m = adj.m
	return a
}

// Inverse returns a copy of a, inverted.
func (a Mat4) Inverse() Mat4 {
	out := a
	out.Invert()
	return out
}

// adjugate computes the transposed cofactor matrix and the determinant
// from 2x2 sub-determinants of the upper and lower row pairs.
func (a Mat4) adjugate() (Mat4, float64) {
	a00, a01, a02, a03 := a.At(0, 0), a.At(0, 1), a.At(0, 2), a.At(0, 3)
	a10, a11, a12, a13 := a.At(1, 0), a.At(1, 1), a.At(1, 2), a.At(1, 3)
	a20, a21, a22, a23 := a.At(2, 0), a.At(2, 1), a.At(2, 2), a.At(2, 3)
	a30, a31, a32, a33 := a.At(3, 0), a.At(3, 1), a.At(3, 2), a.At(3, 3)

	s0 := a00*a11 - a10*a01
	s1 := a00*a12 - a10*a02
	s2 := a00*a13 - a10*a03
	s3 := a01*a12 - a11*a02
	s4 := a01*a13 - a11*a03
	s5 := a02*a13 - a12*a03

	c5 := a22*a33 - a32*a23
	c4 := a21*a33 - a31*a23
	c3 := a21*a32 - a31*a22
	c2 := a20*a33 - a30*a23
	c1 := a20*a32 - a30*a22
	c0 := a20*a31 - a30*a21

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0

	adj := FromRows([16]float64{
		a11*c5 - a12*c4 + a13*c3,
		-a01*c5 + a02*c4 - a03*c3,
		a31*s5 - a32*s4 + a33*s3,
		-a21*s5 + a22*s4 - a23*s3,

		-a10*c5 + a12*c2 - a13*c1,
		a00*c5 - a02*c2 + a03*c1,
		-a30*s5 + a32*s2 - a33*s1,
		a20*s5 - a22*s2 + a23*s1,

		a10*c4 - a11*c2 + a13*c0,
		-a00*c4 + a01*c2 - a03*c0,
		a30*s4 - a31*s2 + a33*s0,
		-a20*s4 + a21*s2 - a23*s0,

		-a10*c3 + a11*c1 - a12*c0,
		a00*c3 - a01*c1 + a02*c0,
		-a30*s3 + a31*s1 - a32*s0,
		a20*s3 - a21*s1 + a22*s0,
	})
	return adj, det
}

// TransformPoint applies a to p as (x, y, z, 1) and drops w.
func (a Mat4) TransformPoint(p Vec3) Vec3 {
	r := a.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return fromMgl(r.Vec3())
}

// TransformDirection applies a to d as (x, y, z, 0).
func (a Mat4) TransformDirection(d Vec3) Vec3 {
	r := a.m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return fromMgl(r.Vec3())
}

// Translation returns the translation column.
func (a Mat4) Translation() Vec3 {
	return Vec3{a.At(0, 3), a.At(1, 3), a.At(2, 3)}
}

// ApproxEqual compares entry-wise within eps.
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a.m {
		if math.Abs(a.m[i]-b.m[i]) > eps {
			return false
		}
	}
	return true
}

// Perspective builds a right-handed projection with a vertical field of view
// in radians. far == near or near == 0 yields Inf/NaN entries, not a panic.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	return Mat4{m: mgl64.Perspective(fovY, aspect, near, far)}
}

// Orthographic builds an orthographic projection for the given clip box.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	return Mat4{m: mgl64.Ortho(left, right, bottom, top, near, far)}
}
