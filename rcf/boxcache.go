package rcf

import (
	"log"

	"gonum.org/v1/gonum/floats"
)

// boxCache is the partial bounding-box cache of spec.md §4.3: a fraction f
// of interior slots keep a live min/max/range-sum triple; the rest always
// miss and fall back to reconstruction. Backing storage is two flat slices
// indexed by the *translated* cache slot, not the raw interior-node slot —
// translate(s) is the boundary between the two index spaces.
type boxCache struct {
	dims     int
	capacity int
	fraction float64
	limit    int
	boxData  []float32 // len 2*dims*limit: [min(dims) max(dims)] per cached slot
	rangeSum []float64 // len limit; 0 marks an empty cache slot
}

func newBoxCache(capacity, dims int, fraction float64) *boxCache {
	limit := int(fraction * float64(capacity))
	return &boxCache{
		dims:     dims,
		capacity: capacity,
		fraction: fraction,
		limit:    limit,
		boxData:  make([]float32, 2*dims*limit),
		rangeSum: make([]float64, limit),
	}
}

// translate maps an interior-node slot to its cache slot, or reports a miss
// when the slot falls outside the cached range. Per DESIGN.md Open Question
// 1, slots outside [0, limit) are structurally uncacheable for the tree's
// lifetime when fraction < 1; this is intended, not a remapping bug.
func (c *boxCache) translate(s int) (idx int, ok bool) {
	if s < c.limit {
		return s, true
	}
	return 0, false
}

// isEmpty reports whether the given already-translated cache slot has no
// live box (rangeSum == 0 is the empty marker, per spec.md §3).
func (c *boxCache) isEmpty(idx int) bool {
	return c.rangeSum[idx] == 0
}

// copyBoxToData writes box into an already-translated cache slot.
func (c *boxCache) copyBoxToData(idx int, box BoundingBox) {
	base := 2 * idx * c.dims
	mid := base + c.dims
	copy(c.boxData[base:mid], box.Min)
	copy(c.boxData[mid:mid+c.dims], box.Max)
	c.rangeSum[idx] = box.RangeSum()
}

// getBoxFromData reads the box stored at an already-translated cache slot.
func (c *boxCache) getBoxFromData(idx int) BoundingBox {
	base := 2 * idx * c.dims
	mid := base + c.dims
	min := make([]float32, c.dims)
	max := make([]float32, c.dims)
	copy(min, c.boxData[base:mid])
	copy(max, c.boxData[mid:mid+c.dims])
	return BoundingBox{Min: min, Max: max}
}

// checkContainsAndAddPoint folds point into the cached box at slot index (if
// cached and nonempty), recomputing the range sum, and reports whether the
// updated range sum equals the value stored before the update — i.e.
// whether point was already contained. The ancestor fix-up on delete relies
// on this dual-purpose return to stop rebuilding early (spec.md §4.3).
func (c *boxCache) checkContainsAndAddPoint(index int, point []float32) bool {
	idx, ok := c.translate(index)
	if !ok || c.rangeSum[idx] == 0 {
		return false
	}
	base := 2 * idx * c.dims
	mid := base + c.dims
	for i := 0; i < c.dims; i++ {
		if point[i] < c.boxData[base+i] {
			c.boxData[base+i] = point[i]
		}
	}
	for i := 0; i < c.dims; i++ {
		if point[i] > c.boxData[mid+i] {
			c.boxData[mid+i] = point[i]
		}
	}
	diffs := make([]float64, c.dims)
	for i := 0; i < c.dims; i++ {
		diffs[i] = float64(c.boxData[mid+i] - c.boxData[base+i])
	}
	rangeSum := floats.Sum(diffs)
	contained := c.rangeSum[idx] == rangeSum
	c.rangeSum[idx] = rangeSum
	return contained
}

// checkStrictlyContains reports whether point is strictly interior to the
// cached box at slot index (false on a cache miss).
func (c *boxCache) checkStrictlyContains(index int, point []float32) bool {
	idx, ok := c.translate(index)
	if !ok {
		return false
	}
	base := 2 * idx * c.dims
	mid := base + c.dims
	for i := 0; i < c.dims; i++ {
		if point[i] <= c.boxData[base+i] || point[i] >= c.boxData[mid+i] {
			return false
		}
	}
	return true
}

// checkContainsAndRebuildBox reports whether the cached box at slot index
// already strictly contains point. When it does not (and the slot is
// cached and nonempty), it reconstructs the box via rebuild and writes it
// back, returning false. rebuild is supplied by the caller (Tree) since
// reconstruction needs the tree's children/point-store access.
func (c *boxCache) checkContainsAndRebuildBox(index int, point []float32, rebuild func() BoundingBox) bool {
	idx, ok := c.translate(index)
	if !ok || c.rangeSum[idx] == 0 {
		return false
	}
	if !c.checkStrictlyContains(index, point) {
		box := rebuild()
		c.copyBoxToData(idx, box)
		return false
	}
	return true
}

// initBox writes box into slot index's cache entry (if cached) and then
// folds point into it, mirroring the Java addBox helper used when a freshly
// split interior node's box is first populated.
func (c *boxCache) initBox(index int, box BoundingBox, point []float32) {
	idx, ok := c.translate(index)
	if !ok {
		return
	}
	c.copyBoxToData(idx, box)
	c.checkContainsAndAddPoint(index, point)
}

// resize reallocates the cache to a new fraction, preserving existing
// entries up to the new limit (spec.md §4.3's resizeCache). Shrinking drops
// any cached entries at or beyond the new limit; when any of those held a
// live box, the drop is logged since reconstruction will have to redo that
// work on the next access.
func (c *boxCache) resize(fraction float64) {
	newLimit := int(fraction * float64(c.capacity))
	newBoxData := make([]float32, 2*c.dims*newLimit)
	newRangeSum := make([]float64, newLimit)

	copyLimit := c.limit
	if newLimit < copyLimit {
		copyLimit = newLimit
	}
	copy(newRangeSum[:copyLimit], c.rangeSum[:copyLimit])
	copy(newBoxData[:2*c.dims*copyLimit], c.boxData[:2*c.dims*copyLimit])

	if dropped := droppedLiveEntries(c.rangeSum, newLimit, c.limit); dropped > 0 {
		log.Printf("rcf: resizeCache dropping %d live cached box(es) while shrinking fraction %f -> %f", dropped, c.fraction, fraction)
	}

	c.boxData = newBoxData
	c.rangeSum = newRangeSum
	c.limit = newLimit
	c.fraction = fraction
}

// droppedLiveEntries counts the nonempty (rangeSum != 0) slots in
// rangeSum[newLimit:oldLimit], the range resize is about to discard.
func droppedLiveEntries(rangeSum []float64, newLimit, oldLimit int) int {
	dropped := 0
	for i := newLimit; i < oldLimit && i < len(rangeSum); i++ {
		if rangeSum[i] != 0 {
			dropped++
		}
	}
	return dropped
}
