// Package viz renders a running scene in the terminal.
//
// The viewer is a Bubble Tea program:
//
//   - [Model]: live view driven by a loop.Driver on the system clock
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [Camera]: orthographic side, top and orbit projections
//   - [RunPicker]: scene menu that launches a live view
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single fixed step while paused
//	R     - Rebuild the scene
//	V     - Cycle side/top/orbit
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Entities are drawn from their display matrix, so a playing animation clip
// shows its pose even though the transform itself is untouched.
package viz
