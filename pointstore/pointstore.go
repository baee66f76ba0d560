// Package pointstore is a reference implementation of rcf.PointStoreView:
// a content-addressed, reference-counted store shared across the trees of
// a forest. Two trees that both see the same point share one stored copy
// and one reference count; nothing is evicted until every tree has
// released it, mirroring the PointStoreCoordinator contract the rcf
// package's Coordinator interface is modeled on.
package pointstore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Store is a fixed-capacity, content-addressed point store with its own
// free-slot reuse, so stored point indices stay bounded by capacity
// rather than growing unboundedly with stream length — the assumption the
// rcf package's width-specialized node arena relies on.
type Store struct {
	dimensions int
	capacity   int
	points     [][]float32
	refCount   []int
	free       []int
	byContent  map[string]int
}

// NewStore returns an empty store for fixed-dimension points with the
// given capacity.
func NewStore(dimensions, capacity int) *Store {
	free := make([]int, capacity)
	for i := range free {
		free[i] = capacity - 1 - i // pop smallest index first
	}
	return &Store{
		dimensions: dimensions,
		capacity:   capacity,
		points:     make([][]float32, capacity),
		refCount:   make([]int, capacity),
		free:       free,
		byContent:  make(map[string]int, capacity),
	}
}

// Dimensions implements rcf.PointStoreView.
func (s *Store) Dimensions() int { return s.dimensions }

// Capacity implements rcf.PointStoreView.
func (s *Store) Capacity() int { return s.capacity }

// Get implements rcf.PointStoreView. The returned slice must not be
// mutated.
func (s *Store) Get(pointIndex int) []float32 {
	return s.points[pointIndex]
}

// GetScaledPoint implements rcf.PointStoreView.
func (s *Store) GetScaledPoint(pointIndex int, scalar float64) []float32 {
	point := s.points[pointIndex]
	out := make([]float32, len(point))
	for i, v := range point {
		out[i] = float32(float64(v) * scalar)
	}
	return out
}

// Add stores point, returning its index. If an equal point is already
// stored, its reference count is incremented and the existing index is
// returned instead of consuming a new slot — this is what makes the
// store content-addressed.
func (s *Store) Add(point []float32) (int, error) {
	if len(point) != s.dimensions {
		return 0, fmt.Errorf("pointstore: point has %d dimensions, store wants %d", len(point), s.dimensions)
	}
	key := contentKey(point)
	if idx, ok := s.byContent[key]; ok {
		s.refCount[idx]++
		return idx, nil
	}

	if len(s.free) == 0 {
		return 0, fmt.Errorf("pointstore: store is at capacity (%d)", s.capacity)
	}
	idx := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]

	stored := make([]float32, len(point))
	copy(stored, point)
	s.points[idx] = stored
	s.refCount[idx] = 1
	s.byContent[key] = idx
	return idx, nil
}

// IncrementRefCount implements rcf.PointStoreView.
func (s *Store) IncrementRefCount(pointIndex int) {
	s.refCount[pointIndex]++
}

// DecrementRefCount implements rcf.PointStoreView. When the count reaches
// zero, the slot is released back to the free list and its content-key
// mapping is removed, so a future equal point gets a fresh slot rather
// than reusing stale reference-counting state.
func (s *Store) DecrementRefCount(pointIndex int) {
	s.refCount[pointIndex]--
	if s.refCount[pointIndex] > 0 {
		return
	}
	key := contentKey(s.points[pointIndex])
	delete(s.byContent, key)
	s.points[pointIndex] = nil
	s.free = append(s.free, pointIndex)
}

// RefCount returns pointIndex's current reference count, for tests and
// diagnostics.
func (s *Store) RefCount(pointIndex int) int {
	return s.refCount[pointIndex]
}

// Size returns the number of distinct points currently stored.
func (s *Store) Size() int {
	return s.capacity - len(s.free)
}

func contentKey(point []float32) string {
	buf := make([]byte, 4*len(point))
	for i, v := range point {
		binary.BigEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return string(buf)
}
