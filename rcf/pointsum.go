package rcf

// Center-of-mass maintenance, spec.md §4.8: pointSum[s] is the vector sum
// of every point under interior slot s, each scaled by its leaf's mass.
// It is optional bookkeeping, off by default, kept current incrementally
// during insert/delete rather than recomputed from scratch on every query.

// setPointSum seeds index's center-of-mass accumulator with point scaled
// by weight. Leaves carry no stored accumulator of their own — their
// contribution is derived on demand from the point store and leaf mass.
func (t *Tree) setPointSum(index int, point []float32, weight float64) {
	if t.isLeaf(index) {
		return
	}
	sum := make([]float64, t.dimensions)
	for i, v := range point {
		sum[i] = float64(v) * weight
	}
	t.pointSum[index] = sum
}

// invalidatePointSum zeroes interior slot s's accumulator, forcing the
// next getPointSum to recompute it.
func (t *Tree) invalidatePointSum(s int) {
	if t.centerOfMass && t.isInternal(s) {
		t.pointSum[s] = nil
	}
}

// recomputePointSum rebuilds interior slot s's center-of-mass accumulator
// from its two children's contributions.
func (t *Tree) recomputePointSum(s int) {
	if !t.centerOfMass || !t.isInternal(s) {
		return
	}
	t.invalidatePointSum(s)
	sum := make([]float64, t.dimensions)
	addChild := func(child int) {
		if t.isLeaf(child) {
			pointIndex := leafPointIndex(child, t.capacity)
			mass := float64(t.leaves.getMass(pointIndex))
			scaled := t.points.GetScaledPoint(pointIndex, mass)
			for i, v := range scaled {
				sum[i] += float64(v)
			}
			return
		}
		childSum := t.getPointSum(child)
		for i, v := range childSum {
			sum[i] += v
		}
	}
	addChild(t.left(s))
	addChild(t.right(s))
	t.pointSum[s] = sum
}

// getPointSum returns interior slot s's center-of-mass accumulator,
// recomputing it first if invalidated, or a leaf's own scaled point.
func (t *Tree) getPointSum(s int) []float64 {
	if t.isLeaf(s) {
		pointIndex := leafPointIndex(s, t.capacity)
		mass := float64(t.leaves.getMass(pointIndex))
		return float32SliceToFloat64(t.points.GetScaledPoint(pointIndex, mass))
	}
	if t.pointSum[s] == nil {
		t.recomputePointSum(s)
	}
	return t.pointSum[s]
}

func float32SliceToFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
