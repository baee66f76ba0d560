package rcf

import (
	"math/rand"
	"testing"
)

// Exact matches contribute no anomaly; only novel coordinates do. This
// mirrors the conventional random-cut-forest scoring policy and is what
// makes S2's "damping branch gives score 0" scenario meaningful.
func zeroScoreSeen(depth, mass float64) float64   { return 0 }
func constScoreUnseen(depth, mass float64) float64 { return 1 }
func noDamp(mass float64) float64                  { return 1 }

func TestTree_S2_ExactMatchScoresZeroUnlessIgnored(t *testing.T) {
	tree, store := newTestTree(t, 2, 4, 1.0, 3)
	p := store.add([]float32{0, 0})
	if _, err := tree.Update(p, 0); err != nil {
		t.Fatalf("Update #1 = %v", err)
	}
	if _, err := tree.Update(p, 1); err != nil {
		t.Fatalf("Update #2 = %v", err)
	}
	if got := tree.LeafMass(p); got != 2 {
		t.Fatalf("LeafMass() = %d, want 2", got)
	}

	if got := tree.Score([]float32{0, 0}, 0, zeroScoreSeen, constScoreUnseen, noDamp); got != 0 {
		t.Errorf("Score(ignoreMass=0) = %f, want 0", got)
	}
	if got := tree.Score([]float32{0, 0}, 2, zeroScoreSeen, constScoreUnseen, noDamp); got == 0 {
		t.Errorf("Score(ignoreMass=2) = %f, want nonzero (the match should be ignored)", got)
	}
}

func TestTree_ScoreOfEmptyTreeIsZero(t *testing.T) {
	store := newFakeStore(2, 4)
	cfg := NewConfig().WithDimensions(2).WithCapacity(4).WithPointStoreView(store).
		WithRand(rand.New(rand.NewSource(1)))
	tree, err := NewTree(cfg)
	if err != nil {
		t.Fatalf("NewTree() = %v", err)
	}
	if got := tree.Score([]float32{0, 0}, 0, zeroScoreSeen, constScoreUnseen, noDamp); got != 0 {
		t.Errorf("Score() on an empty tree = %f, want 0", got)
	}
}

func TestTree_ScoreIsNonNegativeForNovelPoints(t *testing.T) {
	tree, store := newTestTree(t, 1, 16, 1.0, 21)
	for i, v := range []float32{1, 2, 3, 4, 5} {
		idx := store.add([]float32{v})
		if _, err := tree.Update(idx, int64(i)); err != nil {
			t.Fatalf("Update(%v) = %v", v, err)
		}
	}

	for _, query := range []float32{0, 2.5, 100, -50} {
		if got := tree.Score([]float32{query}, 0, zeroScoreSeen, constScoreUnseen, noDamp); got < 0 {
			t.Errorf("Score(%f) = %f, want >= 0", query, got)
		}
	}
}

func TestTree_ResizeBoxCacheThenResetGivesSameScore(t *testing.T) {
	build := func() (*Tree, *fakeStore) {
		return newTestTree(t, 1, 8, 1.0, 55)
	}
	insertAll := func(tree *Tree, store *fakeStore) {
		for i, v := range []float32{1, 2, 3, 4, 5, 6} {
			idx := store.add([]float32{v})
			if _, err := tree.Update(idx, int64(i)); err != nil {
				t.Fatalf("Update(%v) = %v", v, err)
			}
		}
	}

	baseline, baseStore := build()
	insertAll(baseline, baseStore)
	want := baseline.Score([]float32{42}, 0, zeroScoreSeen, constScoreUnseen, noDamp)

	resized, resizedStore := build()
	insertAll(resized, resizedStore)
	resized.ResizeBoxCache(0)
	resized.ResizeBoxCache(1)
	got := resized.Score([]float32{42}, 0, zeroScoreSeen, constScoreUnseen, noDamp)

	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Score after resizeCache(0) then resizeCache(1) = %f, want %f", got, want)
	}
}
