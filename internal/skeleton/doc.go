// Package skeleton holds the rig data model and the pose solvers.
//
// Setup data (BoneData, SlotData, constraint data, skins, attachments,
// animations) is immutable once decoded and may be shared between any
// number of Skeleton instances. A Skeleton is the mutable runtime pose:
// bones, slots and constraints indexed by the same positions as their
// setup records. Parent and owner links are slice indices into the
// Skeleton, never separately owned objects.
//
// A frame is computed in three steps:
//
//	// 1. write local pose values (animation playback lives outside this package)
//	skel.FindBone("arm").Rotation = 30
//	// 2. propagate world transforms and run constraints in order
//	skel.UpdateWorldTransform()
//	// 3. read world vertices from attachments for rendering
//
// A Skeleton is not safe for concurrent use.
package skeleton
