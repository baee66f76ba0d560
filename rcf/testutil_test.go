package rcf

// fakeStore is a minimal PointStoreView backed by a plain slice, used
// across this package's tests in place of the pointstore package (whose
// content-addressing is out of scope for unit-testing the tree itself).
type fakeStore struct {
	points     [][]float32
	dimensions int
	capacity   int
	refCounts  map[int]int
}

func newFakeStore(dimensions, capacity int) *fakeStore {
	return &fakeStore{dimensions: dimensions, capacity: capacity, refCounts: make(map[int]int)}
}

func (f *fakeStore) add(point []float32) int {
	idx := len(f.points)
	stored := make([]float32, len(point))
	copy(stored, point)
	f.points = append(f.points, stored)
	return idx
}

func (f *fakeStore) Get(pointIndex int) []float32 { return f.points[pointIndex] }

func (f *fakeStore) GetScaledPoint(pointIndex int, scalar float64) []float32 {
	p := f.points[pointIndex]
	out := make([]float32, len(p))
	for i, v := range p {
		out[i] = float32(float64(v) * scalar)
	}
	return out
}

func (f *fakeStore) Dimensions() int { return f.dimensions }
func (f *fakeStore) Capacity() int   { return f.capacity }

func (f *fakeStore) IncrementRefCount(pointIndex int) { f.refCounts[pointIndex]++ }
func (f *fakeStore) DecrementRefCount(pointIndex int) { f.refCounts[pointIndex]-- }
