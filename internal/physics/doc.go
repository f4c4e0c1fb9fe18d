// Package physics integrates gravity and velocity for registered bodies and
// answers ray queries over bounded items.
//
//   - [Body]: mass, velocity and gravity flag bound to a position target
//   - [Integrator]: fixed-step semi-implicit Euler or Verlet over registered bodies
//   - [Raycast]: first hit in iteration order
//   - [RaycastNearest]: hit with the smallest entry distance
//
// There is no collision response, constraint solving or continuous
// detection. Bodies never interact, so the order in which they are stepped
// only affects observers.
//
// # Example
//
//	integ := physics.NewIntegrator(vmath.V3(0, -9.81, 0))
//	integ.RegisterBody(physics.NewBody(1, tr))
//	integ.Update(1.0 / 60)
package physics
