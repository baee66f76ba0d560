package rcf

import (
	"math/rand"
)

// NULL is the absent-index sentinel used throughout the tree: an empty
// tree's root and a node with no parent both use it, matching spec.md §1's
// combined index space.
const NULL = -1

// Tree is a single random cut tree over a shared point store: interior
// nodes live in a fixed-capacity, column-oriented arena, leaves are
// encoded as capacity+1+pointIndex, and Update/Delete maintain the
// structure under the combined index space described in spec.md §1-§5.
type Tree struct {
	capacity   int
	dimensions int

	arena  nodeArena
	cutVal []float32

	storeParent bool
	parent      []int32

	free *freeList
	root int

	leaves *leafStore
	boxes  *boxCache
	mass   []int // subtree occurrence count per interior slot; leaves use leafStore.getMass

	centerOfMass bool
	pointSum     [][]float64

	points PointStoreView
	cuts   CutPolicy
	rng    *rand.Rand
}

// NewTree validates cfg and constructs a Tree, either empty or
// reconstructed from cfg's pre-filled columns (spec.md §6.3).
func NewTree(cfg *Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	t := &Tree{
		capacity:     cfg.Capacity,
		dimensions:   cfg.Dimensions,
		arena:        newNodeArena(cfg.Capacity, cfg.PointStoreView.Capacity(), cfg.Dimensions),
		cutVal:       make([]float32, cfg.Capacity),
		storeParent:  cfg.StoreParent,
		free:         newFreeList(cfg.Capacity),
		root:         NULL,
		leaves:       newLeafStore(cfg.StoreSequencesEnabled),
		boxes:        newBoxCache(cfg.Capacity, cfg.Dimensions, cfg.BoundingBoxCacheFraction),
		mass:         make([]int, cfg.Capacity),
		centerOfMass: cfg.CenterOfMassEnabled,
		points:       cfg.PointStoreView,
		cuts:         cfg.CutPolicy,
		rng:          rng,
	}
	if t.storeParent {
		t.parent = make([]int32, cfg.Capacity)
		for i := range t.parent {
			t.parent[i] = NULL
		}
	}
	if t.centerOfMass {
		t.pointSum = make([][]float64, cfg.Capacity)
	}

	if cfg.hasColumns {
		t.loadColumns(cfg)
		if t.root != NULL {
			t.computeMass(t.root)
		}
	}

	return t, nil
}

// subtreeMass returns the number of leaf occurrences under index: a
// leaf's own mass, or an interior slot's incrementally maintained count.
func (t *Tree) subtreeMass(index int) int {
	if t.isLeaf(index) {
		return t.leaves.getMass(leafPointIndex(index, t.capacity))
	}
	return t.mass[index]
}

// computeMass recomputes interior slot s's mass bottom-up from its
// children, used once after reconstructing a tree from persisted columns
// (spec.md §6.3), where leaf occurrence counts default to 1 until the
// caller replays any duplicate occurrences.
func (t *Tree) computeMass(s int) int {
	if t.isLeaf(s) {
		return t.leaves.getMass(leafPointIndex(s, t.capacity))
	}
	total := t.computeMass(t.left(s)) + t.computeMass(t.right(s))
	t.mass[s] = total
	return total
}

// loadColumns reconstructs interior-node state from pre-filled columns. The
// columns themselves carry no occupancy information — an unused slot's
// entries are indistinguishable from a used slot's by value alone — so
// occupancy is instead reconstructed by walking from root: every slot
// actually reachable this way is marked in-use, and everything else stays
// on the free list. Leaf bookkeeping (mass, sequences) is the caller's
// responsibility to rebuild by replaying Update afterward, since the
// columns alone do not carry occurrence counts.
func (t *Tree) loadColumns(cfg *Config) {
	t.root = cfg.Root
	for s := 0; s < cfg.Capacity; s++ {
		t.arena.setLeft(s, cfg.LeftIndex[s])
		t.arena.setRight(s, cfg.RightIndex[s])
		t.arena.setCutDimension(s, cfg.CutDimension[s])
		t.cutVal[s] = cfg.CutValues[s]
	}
	t.markReachable(t.root)
}

// markReachable walks the subtree rooted at index, removing every interior
// slot it visits from the free list and, when enabled, wiring parent
// pointers. It is a no-op once index names a leaf or NULL.
func (t *Tree) markReachable(index int) {
	if !t.isInternal(index) {
		return
	}
	t.free.takeSpecific(index)
	left, right := t.left(index), t.right(index)
	if t.storeParent {
		if t.isInternal(left) {
			t.parent[left] = int32(index)
		}
		if t.isInternal(right) {
			t.parent[right] = int32(index)
		}
	}
	t.markReachable(left)
	t.markReachable(right)
}

// Size returns the number of interior slots currently in use.
func (t *Tree) Size() int {
	return t.capacity - t.free.size()
}

// Capacity returns the tree's fixed interior-node capacity.
func (t *Tree) Capacity() int { return t.capacity }

// isLeaf reports whether index encodes a leaf (a point-store index),
// per spec.md §1.
func (t *Tree) isLeaf(index int) bool {
	return index > t.capacity
}

// isInternal reports whether index lies in the interior-slot range
// [0, capacity). It does not check whether the slot is in use.
func (t *Tree) isInternal(index int) bool {
	return index >= 0 && index < t.capacity
}

// leafPointIndex converts a leaf-encoded index back to its point-store
// index.
func leafPointIndex(index, capacity int) int {
	return index - capacity - 1
}

// encodeLeaf converts a point-store index into its leaf-encoded form.
func encodeLeaf(pointIndex, capacity int) int {
	return capacity + 1 + pointIndex
}

func (t *Tree) left(s int) int  { return t.arena.left(s) }
func (t *Tree) right(s int) int { return t.arena.right(s) }

// siblingOf returns the child of parent that is not child, ported from the
// Java getSibling helper used during delete's ancestor fix-up.
func (t *Tree) siblingOf(parentSlot, child int) int {
	if t.left(parentSlot) == child {
		return t.right(parentSlot)
	}
	return t.left(parentSlot)
}

// getPath walks from the root toward the leaf position point descends to,
// returning the sequence of interior slots visited in root-to-leaf order.
// Ties (point falls exactly on a cut) always descend left, matching the
// side convention Update uses when it places a new leaf.
func (t *Tree) getPath(point []float32) []int {
	if t.root == NULL {
		return nil
	}
	var path []int
	cur := t.root
	for t.isInternal(cur) {
		path = append(path, cur)
		dim := t.arena.cutDimension(cur)
		if point[dim] <= t.cutVal[cur] {
			cur = t.left(cur)
		} else {
			cur = t.right(cur)
		}
	}
	return path
}

// Update inserts point at sequenceIndex, returning the resulting leaf's
// point-store index (spec.md §5's single-tree Update). If an equal point
// already exists at a leaf, its mass is incremented and no new interior
// slot is consumed.
func (t *Tree) Update(pointIndex int, sequenceIndex int64) (int, error) {
	point := t.points.Get(pointIndex)

	if t.root == NULL {
		leaf := encodeLeaf(pointIndex, t.capacity)
		t.root = leaf
		t.leaves.addSequence(pointIndex, sequenceIndex)
		if t.centerOfMass {
			t.setPointSum(leaf, point, 1)
		}
		return pointIndex, nil
	}

	path := t.getPath(point)
	leafCandidate := t.root
	if len(path) > 0 {
		last := path[len(path)-1]
		dim := t.arena.cutDimension(last)
		if point[dim] <= t.cutVal[last] {
			leafCandidate = t.left(last)
		} else {
			leafCandidate = t.right(last)
		}
	}

	if t.isLeaf(leafCandidate) {
		existingPoint := t.points.Get(leafPointIndex(leafCandidate, t.capacity))
		if equalPoints(existingPoint, point) {
			t.leaves.increaseMass(leafPointIndex(leafCandidate, t.capacity))
			t.leaves.addSequence(leafPointIndex(leafCandidate, t.capacity), sequenceIndex)
			t.manageAncestorsAdd(path, point)
			return leafPointIndex(leafCandidate, t.capacity), nil
		}
	}

	newSlot, ok := t.free.take()
	if !ok {
		return 0, ErrOutOfCapacity
	}

	box := t.getBoundingBoxOf(leafCandidate)
	box.AddPoint(point)
	dim, val := t.cuts.DrawCut(box, t.rng)

	newLeaf := encodeLeaf(pointIndex, t.capacity)
	var leftChild, rightChild int
	existingPointVal := t.pointValueAt(leafCandidate, dim)
	if existingPointVal <= val {
		leftChild, rightChild = leafCandidate, newLeaf
	} else {
		leftChild, rightChild = newLeaf, leafCandidate
	}

	t.arena.setLeft(newSlot, leftChild)
	t.arena.setRight(newSlot, rightChild)
	t.arena.setCutDimension(newSlot, dim)
	t.cutVal[newSlot] = val
	t.mass[newSlot] = t.subtreeMass(leafCandidate) + 1

	t.spliceEdge(path, leafCandidate, newSlot)

	if t.storeParent {
		t.parent[newSlot] = t.parentOf(path)
		if t.isInternal(leftChild) {
			t.parent[leftChild] = int32(newSlot)
		}
		if t.isInternal(rightChild) {
			t.parent[rightChild] = int32(newSlot)
		}
	}

	childBox := t.getBoundingBoxOf(leafCandidate)
	childBox.AddPoint(point)
	t.boxes.initBox(newSlot, childBox, point)

	t.leaves.addSequence(pointIndex, sequenceIndex)
	if t.centerOfMass {
		t.setPointSum(newLeaf, point, 1)
		t.recomputePointSum(newSlot)
	}

	t.manageAncestorsAdd(path, point)
	return pointIndex, nil
}

// parentOf returns the parent slot implied by path (the last entry, or
// NULL for the root).
func (t *Tree) parentOf(path []int) int32 {
	if len(path) == 0 {
		return NULL
	}
	return int32(path[len(path)-1])
}

// spliceEdge replaces the edge from path's last entry (or the root pointer,
// if path is empty) that targeted oldChild with newSlot, per spec.md §5's
// spliceEdge.
func (t *Tree) spliceEdge(path []int, oldChild, newSlot int) {
	if len(path) == 0 {
		t.root = newSlot
		return
	}
	parentSlot := path[len(path)-1]
	if t.left(parentSlot) == oldChild {
		t.arena.setLeft(parentSlot, newSlot)
	} else {
		t.arena.setRight(parentSlot, newSlot)
	}
}

// manageAncestorsAdd walks path from leaf to root after an insertion,
// incrementing each ancestor's mass, recomputing pointSum when enabled,
// and — when caching is on — first rebuilding the cached box (correcting
// any stale shape) and then folding the new point in, per spec.md §5.
func (t *Tree) manageAncestorsAdd(path []int, point []float32) {
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		t.mass[s]++
		t.boxes.checkContainsAndRebuildBox(s, point, func() BoundingBox {
			return t.reconstructBox(s)
		})
		t.boxes.checkContainsAndAddPoint(s, point)
		if t.centerOfMass {
			t.recomputePointSum(s)
		}
	}
}

// Delete removes one occurrence of pointIndex (as recorded at
// sequenceIndex) from the tree. When the occurrence's mass reaches zero,
// the leaf is unlinked and its slot's sibling is promoted into its
// grandparent's place, per spec.md §5's delete semantics.
func (t *Tree) Delete(pointIndex int, sequenceIndex int64) error {
	point := t.points.Get(pointIndex)
	path := t.getPath(point)
	leaf := t.leafSlot(path, point)
	if !t.isLeaf(leaf) || leafPointIndex(leaf, t.capacity) != pointIndex {
		return ErrMissingLeaf
	}

	if err := t.leaves.removeSequence(pointIndex, sequenceIndex); err != nil {
		return err
	}

	remaining := t.leaves.decreaseMass(pointIndex)
	if remaining > 0 {
		// A duplicate remains at this leaf; the point still occupies its
		// spot and every ancestor box already contains it, so only the
		// ancestors' mass (and point sums) change.
		for i := len(path) - 1; i >= 0; i-- {
			t.mass[path[i]]--
			if t.centerOfMass {
				t.recomputePointSum(path[i])
			}
		}
		return nil
	}

	if len(path) == 0 {
		t.root = NULL
		return nil
	}

	parentSlot := path[len(path)-1]
	sibling := t.siblingOf(parentSlot, leaf)
	grandparentPath := path[:len(path)-1]
	t.spliceEdge(grandparentPath, parentSlot, sibling)

	if t.storeParent {
		if t.isInternal(sibling) {
			t.parent[sibling] = t.parentOf(grandparentPath)
		}
	}

	t.free.release(parentSlot)
	t.manageAncestorsDelete(grandparentPath, point)
	return nil
}

// leafSlot returns the leaf-encoded index at the end of path for point,
// i.e. the same descent getPath performs, one step further.
func (t *Tree) leafSlot(path []int, point []float32) int {
	if len(path) == 0 {
		return t.root
	}
	last := path[len(path)-1]
	dim := t.arena.cutDimension(last)
	if point[dim] <= t.cutVal[last] {
		return t.left(last)
	}
	return t.right(last)
}

// manageAncestorsDelete walks path from the removal point to the root,
// rebuilding each ancestor's cached box when the box can no longer be
// trusted to already contain the deleted point's neighborhood, stopping
// early once checkContainsAndRebuildBox reports the box is still valid.
func (t *Tree) manageAncestorsDelete(path []int, point []float32) {
	rebuilding := true
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		t.mass[s]--
		if rebuilding {
			still := t.boxes.checkContainsAndRebuildBox(s, point, func() BoundingBox {
				return t.reconstructBox(s)
			})
			if still {
				rebuilding = false
			}
		}
		if t.centerOfMass {
			t.recomputePointSum(s)
		}
	}
}

// getBoundingBoxOf returns the bounding box of the subtree rooted at
// index: a point's tight box if index is a leaf, otherwise the cached or
// reconstructed box of an interior slot.
func (t *Tree) getBoundingBoxOf(index int) BoundingBox {
	if t.isLeaf(index) {
		return NewBoundingBox(t.points.Get(leafPointIndex(index, t.capacity)))
	}
	return t.getBox(index)
}

// getBox returns interior slot s's bounding box, from the cache if
// present, otherwise by reconstruction (which opportunistically repopulates
// the cache), per spec.md §4.3.
func (t *Tree) getBox(s int) BoundingBox {
	idx, ok := t.boxes.translate(s)
	if ok && !t.boxes.isEmpty(idx) {
		return t.boxes.getBoxFromData(idx)
	}
	box := t.reconstructBox(s)
	if ok {
		t.boxes.copyBoxToData(idx, box)
	}
	return box
}

// reconstructBox recomputes interior slot s's bounding box from scratch by
// merging its two children's boxes (spec.md §4.3's reconstructBox), without
// consulting or writing the cache itself.
func (t *Tree) reconstructBox(s int) BoundingBox {
	left := t.getBoundingBoxOf(t.left(s))
	right := t.getBoundingBoxOf(t.right(s))
	box := left.Clone()
	box.AddBox(right)
	return box
}

// growNodeBox extends box in place to include the bounding box of index,
// used while walking toward a leaf when a running accumulator (rather than
// a fresh box) is threaded through recursion, per spec.md §4.6.
func (t *Tree) growNodeBox(index int, box *BoundingBox) {
	box.AddBox(t.getBoundingBoxOf(index))
}

// pointValueAt returns the dim-th coordinate used for the insertion
// side-decision at index: for a leaf, the point's own coordinate; for an
// interior slot, the minimum of its bounding box along dim.
func (t *Tree) pointValueAt(index int, dim int) float32 {
	if t.isLeaf(index) {
		return t.points.Get(leafPointIndex(index, t.capacity))[dim]
	}
	box := t.getBox(index)
	return box.Min[dim]
}

func equalPoints(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ResizeBoxCache changes the fraction of interior slots kept in the
// bounding-box cache, per spec.md §4.3's resizeCache.
func (t *Tree) ResizeBoxCache(fraction float64) {
	t.boxes.resize(fraction)
}

// LeftColumn, RightColumn, CutDimensionColumn, and CutValueColumn expose
// the interior-node arena's persisted columns for round-tripping a tree
// through Config.WithColumns (spec.md §6.3's reconstruction property).
func (t *Tree) LeftColumn() []int         { return t.arena.leftColumn() }
func (t *Tree) RightColumn() []int        { return t.arena.rightColumn() }
func (t *Tree) CutDimensionColumn() []int { return t.arena.cutDimensionColumn() }
func (t *Tree) CutValueColumn() []float32 {
	out := make([]float32, len(t.cutVal))
	copy(out, t.cutVal)
	return out
}

// Root returns the tree's current root index (NULL if empty).
func (t *Tree) Root() int { return t.root }

// LeafMass returns pointIndex's current occurrence count.
func (t *Tree) LeafMass(pointIndex int) int {
	return t.leaves.getMass(pointIndex)
}

// Mass returns the total number of leaf occurrences in the tree.
func (t *Tree) Mass() int {
	if t.root == NULL {
		return 0
	}
	return t.subtreeMass(t.root)
}

// GetBox returns the bounding box of the subtree rooted at index — a
// leaf's tight point box, or an interior slot's cached/reconstructed box.
func (t *Tree) GetBox(index int) BoundingBox {
	return t.getBoundingBoxOf(index)
}
