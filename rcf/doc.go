// Package rcf implements the interior-node store, update protocol, and
// scoring/visitor traversal of a single Random Cut Forest tree.
//
// A tree holds interior nodes in a bounded, column-oriented arena with an
// explicit free list rather than individually allocating nodes. Leaves are
// addressed through a combined index space shared with interior slots (see
// [Tree.IsLeaf], [Tree.IsInternal]). Mutations (insert/delete) walk a path
// from the root, splice or unsplice a single edge, and fix up ancestor
// bounding-box caches and mass counters on the way back up.
//
// Basic usage:
//
//	cfg := rcf.NewConfig().
//		WithDimensions(4).
//		WithCapacity(256).
//		WithPointStoreView(points)
//	tree, err := rcf.NewTree(cfg)
//	leaf, err := tree.Update(pointIndex, sequenceIndex)
//	score := tree.Score(point, 0, scoreSeen, scoreUnseen, treeDamp)
//
// The point store, cut-drawing policy, and any forest-level coordination
// across multiple trees are external collaborators reached through the
// [PointStoreView], [CutPolicy], and [Coordinator] interfaces. This package
// ships [UniformCutPolicy] as the reference cut policy; the module's
// pointstore package holds the reference point store, and multi-tree
// coordination is left to callers.
package rcf
