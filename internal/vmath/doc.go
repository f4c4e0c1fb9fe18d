// Package vmath provides the vector and matrix primitives the scene core is
// built on.
//
//   - [Vec3]: immutable 3-vector with value-semantics arithmetic
//   - [Mat4]: 4x4 matrix with in-place composition for transform builders
//
// No operation returns an error or panics. Degenerate input collapses to a
// sentinel instead: normalizing the zero vector yields the zero vector and
// inverting a singular matrix yields the zero matrix.
//
// # Conventions
//
// Matrices are read and written in row-major order through [Mat4.At] and
// [Mat4.Elements]; points are column vectors, so [Mat4.Multiply] applies the
// argument first when the result transforms a point:
//
//	m := vmath.Identity()
//	m.Translate(pos).RotateY(yaw).Scale(s) // T * Ry * S
//	world := m.TransformPoint(local)
package vmath
