package rcf

import "math/rand"

// CutPolicy chooses a random cut (dimension, value) within a bounding box.
// Drawing the cut and the underlying random-number policy are external
// collaborators per spec.md §1; UniformCutPolicy is the one reference
// implementation this package ships, in the same "interface plus one
// default" shape as the teacher's DistanceMetric/DistanceFunc pair.
type CutPolicy interface {
	DrawCut(box BoundingBox, rng *rand.Rand) (dim int, val float32)
}

// UniformCutPolicy draws a cut dimension with probability proportional to
// that dimension's span, then a cut value uniformly within the span, which
// is the standard random-cut-forest cut distribution.
type UniformCutPolicy struct{}

// DrawCut implements CutPolicy.
func (UniformCutPolicy) DrawCut(box BoundingBox, rng *rand.Rand) (int, float32) {
	dims := len(box.Min)
	if dims == 0 {
		contractViolation("cannot draw a cut on a zero-dimensional box")
	}

	rangeSum := box.RangeSum()
	if rangeSum <= 0 {
		// Degenerate (point) box: every dimension has zero span. Any
		// dimension is equally uninformative; pick the first.
		return 0, box.Min[0]
	}

	target := rng.Float64() * rangeSum
	var cumulative float64
	for i := 0; i < dims; i++ {
		span := float64(box.Max[i] - box.Min[i])
		cumulative += span
		if target <= cumulative {
			val := box.Min[i] + float32(rng.Float64())*(box.Max[i]-box.Min[i])
			return i, val
		}
	}

	// Floating point rounding may leave target just past the last
	// cumulative boundary; fall back to the last dimension with spread.
	for i := dims - 1; i >= 0; i-- {
		if box.Max[i] > box.Min[i] {
			return i, box.Min[i]
		}
	}
	return 0, box.Min[0]
}
