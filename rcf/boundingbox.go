package rcf

import "gonum.org/v1/gonum/floats"

// BoundingBox is an axis-aligned min/max box over a d-dimensional point.
// It is a mutable value type: scoring and reconstruction pass a BoundingBox
// around and grow or overwrite it in place, mirroring spec.md §4.6's
// "mutable accumulator" semantics rather than reallocating on every step.
type BoundingBox struct {
	Min []float32
	Max []float32
}

// NewBoundingBox returns the tight box [point, point].
func NewBoundingBox(point []float32) BoundingBox {
	min := make([]float32, len(point))
	max := make([]float32, len(point))
	copy(min, point)
	copy(max, point)
	return BoundingBox{Min: min, Max: max}
}

// NewEmptyBoundingBox allocates a zero-valued box of the given dimension,
// used as a reusable accumulator before its first ReplaceBox/CopyFrom/AddBox.
func NewEmptyBoundingBox(dimensions int) BoundingBox {
	return BoundingBox{Min: make([]float32, dimensions), Max: make([]float32, dimensions)}
}

// RangeSum returns sum_k (Max[k] - Min[k]), the normalizer for
// probability-of-cut. Computed in float64 via gonum/floats.Sum to keep
// summation order stable relative to boxCache's own inline recomputation
// (see DESIGN.md Open Question 2).
func (b BoundingBox) RangeSum() float64 {
	dims := len(b.Min)
	diffs := make([]float64, dims)
	for i := 0; i < dims; i++ {
		diffs[i] = float64(b.Max[i] - b.Min[i])
	}
	return floats.Sum(diffs)
}

// Contains reports whether x[k] is within [Min[k], Max[k]] for every k.
func (b BoundingBox) Contains(x []float32) bool {
	for i := range x {
		if x[i] < b.Min[i] || x[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// StrictlyContains reports whether x[k] is strictly between Min[k] and
// Max[k] for every k (spec.md §4.3 checkStrictlyContains).
func (b BoundingBox) StrictlyContains(x []float32) bool {
	for i := range x {
		if x[i] <= b.Min[i] || x[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// AddPoint grows the box in place to contain x.
func (b *BoundingBox) AddPoint(x []float32) {
	for i := range x {
		if x[i] < b.Min[i] {
			b.Min[i] = x[i]
		}
		if x[i] > b.Max[i] {
			b.Max[i] = x[i]
		}
	}
}

// AddBox grows the box in place to contain other.
func (b *BoundingBox) AddBox(other BoundingBox) {
	for i := range other.Min {
		if other.Min[i] < b.Min[i] {
			b.Min[i] = other.Min[i]
		}
		if other.Max[i] > b.Max[i] {
			b.Max[i] = other.Max[i]
		}
	}
}

// CopyFrom overwrites the box's contents with other's, in place.
func (b *BoundingBox) CopyFrom(other BoundingBox) {
	copy(b.Min, other.Min)
	copy(b.Max, other.Max)
}

// ReplaceBox resets the box in place to the tight box [point, point].
func (b *BoundingBox) ReplaceBox(point []float32) {
	copy(b.Min, point)
	copy(b.Max, point)
}

// Clone returns an independent deep copy.
func (b BoundingBox) Clone() BoundingBox {
	min := make([]float32, len(b.Min))
	max := make([]float32, len(b.Max))
	copy(min, b.Min)
	copy(max, b.Max)
	return BoundingBox{Min: min, Max: max}
}

// ProbabilityOfCut returns the likelihood that a random cut on this box
// separates x from the box's contents: (minExcess+maxExcess) /
// (rangeSum+minExcess+maxExcess), or 0 when x is already contained.
func (b BoundingBox) ProbabilityOfCut(x []float32) float64 {
	var minExcess, maxExcess float64
	for i := range x {
		if d := float64(b.Min[i]) - float64(x[i]); d > 0 {
			minExcess += d
		}
		if d := float64(x[i]) - float64(b.Max[i]); d > 0 {
			maxExcess += d
		}
	}
	sum := minExcess + maxExcess
	if sum == 0 {
		return 0
	}
	return sum / (b.RangeSum() + sum)
}
