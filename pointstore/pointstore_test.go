package pointstore

import "testing"

func TestStore_AddDedupesEqualPoints(t *testing.T) {
	s := NewStore(2, 4)

	idx1, err := s.Add([]float32{1, 2})
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}
	idx2, err := s.Add([]float32{1, 2})
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}

	if idx1 != idx2 {
		t.Errorf("Add() of an equal point returned a different index: %d vs %d", idx1, idx2)
	}
	if got := s.RefCount(idx1); got != 2 {
		t.Errorf("RefCount() = %d, want 2", got)
	}
}

func TestStore_DecrementRefCountReleasesSlot(t *testing.T) {
	s := NewStore(2, 1)

	idx, err := s.Add([]float32{1, 2})
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}

	s.DecrementRefCount(idx)
	if s.Size() != 0 {
		t.Fatalf("Size() after releasing the only point = %d, want 0", s.Size())
	}

	if _, err := s.Add([]float32{9, 9}); err != nil {
		t.Errorf("Add() after a release should reuse the freed slot: %v", err)
	}
}

func TestStore_AddFailsAtCapacity(t *testing.T) {
	s := NewStore(1, 1)
	if _, err := s.Add([]float32{1}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if _, err := s.Add([]float32{2}); err == nil {
		t.Error("Add() beyond capacity should fail")
	}
}

func TestStore_AddRejectsWrongDimensions(t *testing.T) {
	s := NewStore(2, 4)
	if _, err := s.Add([]float32{1}); err == nil {
		t.Error("Add() with the wrong dimensionality should fail")
	}
}

func TestStore_GetReturnsStoredPoint(t *testing.T) {
	s := NewStore(2, 4)
	idx, err := s.Add([]float32{3, 4})
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}
	got := s.Get(idx)
	if got[0] != 3 || got[1] != 4 {
		t.Errorf("Get() = %v, want [3 4]", got)
	}
}

func TestStore_GetScaledPoint(t *testing.T) {
	s := NewStore(1, 4)
	idx, err := s.Add([]float32{2})
	if err != nil {
		t.Fatalf("Add() = %v", err)
	}
	got := s.GetScaledPoint(idx, 3)
	if got[0] != 6 {
		t.Errorf("GetScaledPoint(scalar=3) = %v, want [6]", got)
	}
}
