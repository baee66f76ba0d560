// Package coordinator implements rcf.Coordinator over one point store:
// InitUpdate stores the incoming point once,
// CompleteUpdate reconciles per-tree insert/evict results into reference
// counts, ported from the ordering rules of PointStoreCoordinator in the
// original Java implementation.
package coordinator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dblock/random-cut-forest-by-aws/rcf"
)

// pointAdder is the minimal surface coordinator needs from a point store:
// rcf.PointStoreView plus the ability to add a new point. pointstore.Store
// satisfies it.
type pointAdder interface {
	rcf.PointStoreView
	Add(point []float32) (int, error)
}

// fifoEntry records one occurrence inserted via Update, so the sliding
// window can evict it later: Tree.Delete identifies an occurrence by the
// same (pointIndex, sequence) pair it was inserted at.
type fifoEntry struct {
	pointIndex int
	sequence   int64
}

// Single coordinates updates over one point store. InitUpdate and
// CompleteUpdate accept results from any number of trees, but Update and
// its FIFO window drive one tree. Its ID appears in the errors InitUpdate
// returns. It also drives the sliding-window eviction spec.md §6.4
// describes: a FIFO queue of every occurrence inserted through Update,
// oldest first.
type Single struct {
	ID     uuid.UUID
	points pointAdder

	window       []fifoEntry
	nextSequence int64
}

// New returns a coordinator over the given point store, tagged with a
// fresh instance ID.
func New(points pointAdder) *Single {
	return &Single{ID: uuid.New(), points: points}
}

// InitUpdate implements rcf.Coordinator: stores point once for every tree
// in the forest to subsequently consume via Update.
func (c *Single) InitUpdate(point []float32) (int, error) {
	idx, err := c.points.Add(point)
	if err != nil {
		return 0, fmt.Errorf("coordinator %s: %w", c.ID, err)
	}
	return idx, nil
}

// CompleteUpdate implements rcf.Coordinator: once every tree has consumed
// inputIndex, increment its reference count once per tree that inserted
// it, decrement once per tree that evicted a point to make room, and
// finally decrement the input handle's own count once, releasing the
// temporary reference InitUpdate's Add implicitly created.
func (c *Single) CompleteUpdate(results []rcf.UpdateResult, inputIndex int) {
	for _, r := range results {
		c.points.IncrementRefCount(r.Inserted)
		if r.HasEvict {
			c.points.DecrementRefCount(r.Evicted)
		}
	}
	c.points.DecrementRefCount(inputIndex)
}

// Update runs the full sliding-window update protocol of spec.md §6.4
// against tree: InitUpdate stores point, tree.Update inserts it, and if
// the arena is out of capacity the oldest entry in the FIFO window is
// evicted via tree.Delete to make room before retrying once. The returned
// UpdateResult is already settled through CompleteUpdate.
func (c *Single) Update(tree *rcf.Tree, point []float32) (rcf.UpdateResult, error) {
	inputIndex, err := c.InitUpdate(point)
	if err != nil {
		return rcf.UpdateResult{}, err
	}

	sequence := c.nextSequence
	c.nextSequence++

	insertedAt, err := tree.Update(inputIndex, sequence)
	result := rcf.UpdateResult{Inserted: insertedAt}

	if errors.Is(err, rcf.ErrOutOfCapacity) {
		oldest, ok := c.evictOldest()
		if !ok {
			return rcf.UpdateResult{}, err
		}
		if err = tree.Delete(oldest.pointIndex, oldest.sequence); err != nil {
			return rcf.UpdateResult{}, err
		}
		insertedAt, err = tree.Update(inputIndex, sequence)
		result = rcf.UpdateResult{Inserted: insertedAt, Evicted: oldest.pointIndex, HasEvict: true}
	}
	if err != nil {
		return rcf.UpdateResult{}, err
	}

	c.window = append(c.window, fifoEntry{pointIndex: insertedAt, sequence: sequence})
	c.CompleteUpdate([]rcf.UpdateResult{result}, inputIndex)
	return result, nil
}

// evictOldest pops the front of the FIFO window, ok=false if it is empty
// (meaning the arena is out of capacity for a reason other than the
// sliding window — a misconfigured capacity smaller than ever got used).
func (c *Single) evictOldest() (fifoEntry, bool) {
	if len(c.window) == 0 {
		return fifoEntry{}, false
	}
	oldest := c.window[0]
	c.window = c.window[1:]
	return oldest, true
}
