package rcf

import "testing"

func TestFreeList_TakeReturnsSmallestFirst(t *testing.T) {
	f := newFreeList(4)
	for want := 0; want < 4; want++ {
		got, ok := f.take()
		if !ok {
			t.Fatalf("take() reported exhausted at %d", want)
		}
		if got != want {
			t.Errorf("take() = %d, want %d", got, want)
		}
	}
	if _, ok := f.take(); ok {
		t.Error("take() on an empty free list should report ok=false")
	}
}

func TestFreeList_ReleaseMergesAdjacentIntervals(t *testing.T) {
	f := newFreeList(5)
	for i := 0; i < 5; i++ {
		f.take()
	}
	if f.size() != 0 {
		t.Fatalf("size() = %d, want 0", f.size())
	}

	f.release(2)
	f.release(1)
	f.release(3)

	if f.size() != 3 {
		t.Fatalf("size() = %d, want 3", f.size())
	}
	if len(f.intervals) != 1 || f.intervals[0] != [2]int{1, 4} {
		t.Errorf("intervals = %v, want [[1 4]]", f.intervals)
	}
}

func TestFreeList_ReleaseOfAlreadyFreeSlotPanics(t *testing.T) {
	f := newFreeList(2)
	defer func() {
		if recover() == nil {
			t.Error("expected release of an already-free slot to panic")
		}
	}()
	f.release(0)
}

func TestFreeList_TakeSpecificSplitsInterval(t *testing.T) {
	f := newFreeList(5)
	f.takeSpecific(2)

	if f.size() != 4 {
		t.Fatalf("size() = %d, want 4", f.size())
	}
	want := [][2]int{{0, 2}, {3, 5}}
	if len(f.intervals) != len(want) {
		t.Fatalf("intervals = %v, want %v", f.intervals, want)
	}
	for i := range want {
		if f.intervals[i] != want[i] {
			t.Errorf("intervals[%d] = %v, want %v", i, f.intervals[i], want[i])
		}
	}
}

func TestFreeList_TakeThenReleaseRoundTrips(t *testing.T) {
	f := newFreeList(8)
	var taken []int
	for i := 0; i < 8; i++ {
		idx, _ := f.take()
		taken = append(taken, idx)
	}
	for _, idx := range taken {
		f.release(idx)
	}
	if f.size() != 8 {
		t.Fatalf("size() = %d, want 8", f.size())
	}
	if len(f.intervals) != 1 || f.intervals[0] != [2]int{0, 8} {
		t.Errorf("intervals = %v, want a single [0 8) interval", f.intervals)
	}
}
