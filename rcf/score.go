package rcf

// switchFraction is the bounding-box cache fraction below which scoring
// threads a single reusable box accumulator through the traversal instead
// of reconstructing sibling boxes on demand at every ancestor, per
// spec.md §4.6.
const switchFraction = 0.499

// ScalarScore is a pluggable scoring policy: scoreSeen contributes when a
// traversal reaches a leaf whose coordinates match the query point,
// scoreUnseen otherwise, and treeDamp scales the seen contribution by
// duplicate count.
type ScalarScore func(depth, mass float64) float64

// DampingFunc scales a seen-leaf's score contribution by its mass.
type DampingFunc func(mass float64) float64

// Score evaluates point against the tree using scoreSeen/scoreUnseen/
// treeDamp, ignoring any leaf match whose mass is at or below ignoreMass
// (spec.md §4.6). Returns 0 for an empty tree.
func (t *Tree) Score(point []float32, ignoreMass int, scoreSeen, scoreUnseen ScalarScore, treeDamp DampingFunc) float64 {
	if t.root == NULL {
		return 0
	}
	return t.dynamicScore(point, ignoreMass, scoreSeen, scoreUnseen, treeDamp)
}

// dynamicScore decides whether to thread a mutable box accumulator through
// the traversal: a sparse cache makes repeated reconstruction expensive, so
// below switchFraction (or whenever ignoreMass is active, which needs the
// leaf's own box to detect containment) a single box is reused and mutated
// in place as the traversal ascends.
func (t *Tree) dynamicScore(point []float32, ignoreMass int, scoreSeen, scoreUnseen ScalarScore, treeDamp DampingFunc) float64 {
	var box *BoundingBox
	if t.boxes.fraction < switchFraction || ignoreMass > 0 {
		b := NewEmptyBoundingBox(t.dimensions)
		box = &b
	}
	_, score, _ := t.scoreScalar(t.root, 0, box, ignoreMass, point, scoreSeen, scoreUnseen, treeDamp)
	return score
}

// scoreScalar is the recursive traversal of spec.md §4.6. It returns the
// probability that the subtree rooted at index still induces a new cut
// for point (0 once an exact, unignored leaf match has been found — at
// which point the result is final and propagates to the root unchanged),
// the accumulated score, and whether the box accumulator already holds a
// live (non-ignored) leaf, so that ancestors grow it by their sibling
// rather than overwrite it.
func (t *Tree) scoreScalar(index int, depth int, box *BoundingBox, ignoreMass int, point []float32,
	scoreSeen, scoreUnseen ScalarScore, treeDamp DampingFunc) (prob float64, score float64, ignoreFlag bool) {

	if t.isLeaf(index) {
		pointIndex := leafPointIndex(index, t.capacity)
		mass := t.leaves.getMass(pointIndex)
		leafPoint := t.points.Get(pointIndex)
		if box != nil {
			box.ReplaceBox(leafPoint)
		}
		if mass > ignoreMass {
			if equalPoints(leafPoint, point) {
				return 0, treeDamp(float64(mass)) * scoreSeen(float64(depth), float64(mass)), true
			}
			return 1, scoreUnseen(float64(depth), float64(mass)), true
		}
		return 1, scoreUnseen(float64(depth), float64(mass)), false
	}

	dim := t.arena.cutDimension(index)
	var nextIndex, siblingIndex int
	if point[dim] <= t.cutVal[index] {
		nextIndex, siblingIndex = t.left(index), t.right(index)
	} else {
		nextIndex, siblingIndex = t.right(index), t.left(index)
	}

	childProb, childScore, childIgnoreFlag := t.scoreScalar(nextIndex, depth+1, box, ignoreMass, point, scoreSeen, scoreUnseen, treeDamp)

	if childProb > 0 && box != nil {
		if childIgnoreFlag {
			t.growNodeBox(siblingIndex, box)
		} else {
			box.CopyFrom(t.getBoundingBoxOf(siblingIndex))
			childIgnoreFlag = true
		}
	}

	if childProb == 0 {
		return 0, childScore, childIgnoreFlag
	}

	p := t.probabilityOfCutAt(index, point, box)
	mass := t.subtreeMass(index)
	newScore := childScore*(1-p) + p*scoreUnseen(float64(depth), float64(mass))
	return childProb, newScore, childIgnoreFlag
}

// probabilityOfCutAt computes the probability that a random cut over
// interior slot s's box separates point from its contents, preferring a
// cached box, then a supplied accumulator box, and only materializing via
// getBox as a last resort, per spec.md §4.6.
func (t *Tree) probabilityOfCutAt(s int, point []float32, box *BoundingBox) float64 {
	if idx, ok := t.boxes.translate(s); ok && !t.boxes.isEmpty(idx) {
		return t.boxes.getBoxFromData(idx).ProbabilityOfCut(point)
	}
	if box != nil {
		return box.ProbabilityOfCut(point)
	}
	return t.getBox(s).ProbabilityOfCut(point)
}
