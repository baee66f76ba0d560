package rcf

import (
	"math/rand"
	"testing"
)

type countingVisitor struct {
	leaves    int
	internals []int
}

func (v *countingVisitor) AcceptLeaf(view *NodeView) {
	v.leaves++
}

func (v *countingVisitor) Accept(view *NodeView) {
	v.internals = append(v.internals, view.Depth())
}

func (v *countingVisitor) Result() interface{} {
	return v
}

func TestTree_TraverseVisitsOneLeafAndEveryAncestor(t *testing.T) {
	tree, store := newTestTree(t, 2, 16, 1.0, 3)
	pts := [][]float32{{0, 0}, {5, 5}, {-5, -5}, {10, 0}}
	for i, p := range pts {
		idx := store.add(p)
		if _, err := tree.Update(idx, int64(i)); err != nil {
			t.Fatalf("Update(%v) = %v", p, err)
		}
	}

	v := &countingVisitor{}
	tree.Traverse([]float32{0, 0}, v)

	if v.leaves != 1 {
		t.Errorf("leaves visited = %d, want 1", v.leaves)
	}
	if len(v.internals) == 0 {
		t.Error("Accept should have been called for at least the root")
	}
}

type triggerAllVisitor struct {
	leafCount int
}

func (v *triggerAllVisitor) AcceptLeaf(view *NodeView) { v.leafCount++ }
func (v *triggerAllVisitor) Trigger(view *NodeView) bool { return true }
func (v *triggerAllVisitor) Accept(view *NodeView)       {}
func (v *triggerAllVisitor) Combine(right MultiVisitor) {
	v.leafCount += right.(*triggerAllVisitor).leafCount
}
func (v *triggerAllVisitor) Clone() MultiVisitor { return &triggerAllVisitor{} }
func (v *triggerAllVisitor) Result() interface{} { return v }

func TestTree_TraverseMultiWithAlwaysTriggerVisitsEveryLeaf(t *testing.T) {
	tree, store := newTestTree(t, 1, 16, 1.0, 9)
	var inserted int
	for i, v := range []float32{1, 2, 3, 4, 5} {
		idx := store.add([]float32{v})
		if _, err := tree.Update(idx, int64(i)); err != nil {
			t.Fatalf("Update(%v) = %v", v, err)
		}
		inserted++
	}

	result := tree.TraverseMulti([]float32{3}, &triggerAllVisitor{}).(*triggerAllVisitor)
	if result.leafCount != inserted {
		t.Errorf("leafCount = %d, want %d (every leaf visited when Trigger always forks)", result.leafCount, inserted)
	}
}

func TestTree_TraverseOnEmptyTreeReturnsZeroValueResult(t *testing.T) {
	store := newFakeStore(1, 4)
	cfg := NewConfig().WithDimensions(1).WithCapacity(4).WithPointStoreView(store).
		WithRand(rand.New(rand.NewSource(1)))
	tree, err := NewTree(cfg)
	if err != nil {
		t.Fatalf("NewTree() = %v", err)
	}

	v := &countingVisitor{}
	tree.Traverse([]float32{0}, v)
	if v.leaves != 0 {
		t.Errorf("leaves visited on an empty tree = %d, want 0", v.leaves)
	}
}
