// Package animation provides keyframe curves, seven-channel clips and a
// looping playback controller.
//
// A [Controller] owns named [Clip]s and samples the playing one into a
// [Pose]. The pose is advisory: nothing here writes it back into a
// transform.
package animation
