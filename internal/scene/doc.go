// Package scene owns entities, their components and the scene graph.
//
// A [Scene] allocates entity ids (the root is 0), keeps the entity tree and
// the transform tree in step, and runs one fixed step per [Scene.Step]:
// physics first, then for each entity in creation order its animation, its
// enabled components in attach order, and finally its bounds.
//
//   - [MeshRenderer]: visibility flag and layer for the renderer
//   - [Collider]: box or sphere shape used by [Scene.Overlaps]
//   - [RigidBody]: physics body registered with the scene integrator
//   - [Script]: user start/update/destroy hooks
//
// # Persistence
//
// [Scene.Serialize] produces a flat [Snapshot] with parents referenced by
// id; [Scene.Deserialize] rebuilds the tree in two passes:
//
//	snap := s.Serialize()
//	restored := scene.New()
//	err := restored.Deserialize(snap)
package scene
