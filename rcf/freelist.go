package rcf

import "sort"

// freeList tracks free interior-node slot indices as a set of sorted,
// disjoint half-open intervals [lo, hi). take always consumes the first
// interval. release and takeSpecific find their interval by binary search
// over interval starts in O(log k) for k intervals, but inserting or
// removing an interval shifts the slice, so those two are O(k) in the
// worst case (spec.md §4.1). The teacher's style of leaning on plain slices rather than a tree
// structure for small auxiliary indices (see unionfind.go) carries over
// here.
type freeList struct {
	intervals [][2]int // sorted by lo, disjoint
	free      int
}

// newFreeList returns a manager with every slot in [0, capacity) free.
func newFreeList(capacity int) *freeList {
	if capacity <= 0 {
		return &freeList{}
	}
	return &freeList{intervals: [][2]int{{0, capacity}}, free: capacity}
}

// size returns the number of free slots.
func (f *freeList) size() int {
	return f.free
}

// take returns the smallest free index, or ok=false if none remain.
func (f *freeList) take() (index int, ok bool) {
	if len(f.intervals) == 0 {
		return 0, false
	}
	iv := &f.intervals[0]
	index = iv[0]
	iv[0]++
	if iv[0] >= iv[1] {
		f.intervals = f.intervals[1:]
	}
	f.free--
	return index, true
}

// takeSpecific removes s from the free set regardless of position,
// splitting its containing interval as needed. Used when reconstructing a
// tree from persisted columns, where slot occupancy is dictated by the
// columns rather than by insertion order. Panics if s is not free.
func (f *freeList) takeSpecific(s int) {
	idx := sort.Search(len(f.intervals), func(i int) bool { return f.intervals[i][1] > s })
	if idx >= len(f.intervals) || s < f.intervals[idx][0] {
		contractViolation("takeSpecific of already-taken slot")
	}
	lo, hi := f.intervals[idx][0], f.intervals[idx][1]
	switch {
	case lo == s && hi == s+1:
		f.intervals = append(f.intervals[:idx], f.intervals[idx+1:]...)
	case lo == s:
		f.intervals[idx][0] = s + 1
	case hi == s+1:
		f.intervals[idx][1] = s
	default:
		f.intervals = append(f.intervals, [2]int{})
		copy(f.intervals[idx+2:], f.intervals[idx+1:])
		f.intervals[idx] = [2]int{lo, s}
		f.intervals[idx+1] = [2]int{s + 1, hi}
	}
	f.free--
}

// release returns s to the free set, merging it into an adjacent interval
// where possible. Panics if s is already free, per spec.md §4.1's "failing
// if already free" — the free set and in-use set partition [0, capacity)
// exactly, so a double release indicates a bookkeeping bug in the caller.
func (f *freeList) release(s int) {
	idx := sort.Search(len(f.intervals), func(i int) bool { return f.intervals[i][0] > s })

	if idx > 0 {
		prev := f.intervals[idx-1]
		if s >= prev[0] && s < prev[1] {
			contractViolation("release of already-free slot")
		}
	}

	mergedWithPrev := idx > 0 && f.intervals[idx-1][1] == s
	mergedWithNext := idx < len(f.intervals) && f.intervals[idx][0] == s+1

	switch {
	case mergedWithPrev && mergedWithNext:
		f.intervals[idx-1][1] = f.intervals[idx][1]
		f.intervals = append(f.intervals[:idx], f.intervals[idx+1:]...)
	case mergedWithPrev:
		f.intervals[idx-1][1] = s + 1
	case mergedWithNext:
		f.intervals[idx][0] = s
	default:
		f.intervals = append(f.intervals, [2]int{})
		copy(f.intervals[idx+1:], f.intervals[idx:])
		f.intervals[idx] = [2]int{s, s + 1}
	}
	f.free++
}
