package coordinator

import (
	"math/rand"
	"testing"

	"github.com/dblock/random-cut-forest-by-aws/pointstore"
	"github.com/dblock/random-cut-forest-by-aws/rcf"
)

func TestSingle_InitUpdateStoresPointOnce(t *testing.T) {
	store := pointstore.NewStore(1, 4)
	c := New(store)

	idx, err := c.InitUpdate([]float32{5})
	if err != nil {
		t.Fatalf("InitUpdate() = %v", err)
	}
	if store.RefCount(idx) != 1 {
		t.Errorf("RefCount() after InitUpdate = %d, want 1", store.RefCount(idx))
	}
}

func TestSingle_CompleteUpdateSettlesRefCounts(t *testing.T) {
	store := pointstore.NewStore(1, 4)
	c := New(store)

	inputIndex, err := c.InitUpdate([]float32{5})
	if err != nil {
		t.Fatalf("InitUpdate() = %v", err)
	}

	c.CompleteUpdate([]rcf.UpdateResult{{Inserted: inputIndex}}, inputIndex)

	// One tree inserted (ref+1 from CompleteUpdate), then the input
	// handle itself is released (ref-1): net unchanged from InitUpdate's
	// own +1, leaving a single tree-owned reference.
	if got := store.RefCount(inputIndex); got != 1 {
		t.Errorf("RefCount() after CompleteUpdate = %d, want 1", got)
	}
}

func TestSingle_CompleteUpdateHandlesEviction(t *testing.T) {
	store := pointstore.NewStore(1, 4)
	c := New(store)

	evictedIndex, err := c.InitUpdate([]float32{1})
	if err != nil {
		t.Fatalf("InitUpdate() = %v", err)
	}
	c.CompleteUpdate([]rcf.UpdateResult{{Inserted: evictedIndex}}, evictedIndex)

	newIndex, err := c.InitUpdate([]float32{2})
	if err != nil {
		t.Fatalf("InitUpdate() = %v", err)
	}
	c.CompleteUpdate([]rcf.UpdateResult{{Inserted: newIndex, Evicted: evictedIndex, HasEvict: true}}, newIndex)

	if got := store.RefCount(evictedIndex); got != 0 {
		t.Errorf("RefCount() of the evicted point = %d, want 0", got)
	}
}

// spec.md §6.4: once the arena runs out of capacity, update evicts the
// oldest sample to make room rather than failing outright.
func TestSingle_UpdateEvictsOldestSampleOnceArenaIsFull(t *testing.T) {
	store := pointstore.NewStore(1, 10)
	tree, err := rcf.NewTree(rcf.NewConfig().
		WithDimensions(1).
		WithCapacity(1).
		WithPointStoreView(store).
		WithStoreSequencesEnabled(true).
		WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("rcf.NewTree() = %v", err)
	}
	c := New(store)

	first, err := c.Update(tree, []float32{1})
	if err != nil {
		t.Fatalf("Update(1) = %v", err)
	}
	if _, err := c.Update(tree, []float32{2}); err != nil {
		t.Fatalf("Update(2) = %v", err)
	}

	third, err := c.Update(tree, []float32{3})
	if err != nil {
		t.Fatalf("Update(3) = %v", err)
	}
	if !third.HasEvict {
		t.Fatalf("Update(3).HasEvict = false, want true once the one-slot arena is full")
	}
	if third.Evicted != first.Inserted {
		t.Errorf("Update(3).Evicted = %d, want the first point's index %d", third.Evicted, first.Inserted)
	}
	if got := store.RefCount(first.Inserted); got != 0 {
		t.Errorf("RefCount() of the evicted point = %d, want 0", got)
	}
}
