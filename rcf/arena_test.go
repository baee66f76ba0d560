package rcf

import "testing"

func TestNewNodeArena_SelectsWidthByCombinedNamespace(t *testing.T) {
	cases := []struct {
		capacity, pointStoreCapacity, dimensions int
		want                                     string
	}{
		{100, 100, 10, "*rcf.arenaSmall"},
		{1000, 1000, 10, "*rcf.arenaMedium"},
		{1000, 1000, 300, "*rcf.arenaMedium"},
		{100000, 100000, 10, "*rcf.arenaLarge"},
		// spec.md §8 S4: capacity=255 alone fits a uint8 column, but the
		// smallest leaf encoding (capacity+1) already exceeds it; with a
		// same-sized point store the column's true upper bound is 510,
		// past math.MaxUint8 but within math.MaxUint16.
		{255, 255, 256, "*rcf.arenaMedium"},
	}
	for _, c := range cases {
		arena := newNodeArena(c.capacity, c.pointStoreCapacity, c.dimensions)
		switch arena.(type) {
		case *arenaSmall:
			if c.want != "*rcf.arenaSmall" {
				t.Errorf("capacity=%d pointStoreCapacity=%d dims=%d got arenaSmall, want %s", c.capacity, c.pointStoreCapacity, c.dimensions, c.want)
			}
		case *arenaMedium:
			if c.want != "*rcf.arenaMedium" {
				t.Errorf("capacity=%d pointStoreCapacity=%d dims=%d got arenaMedium, want %s", c.capacity, c.pointStoreCapacity, c.dimensions, c.want)
			}
		case *arenaLarge:
			if c.want != "*rcf.arenaLarge" {
				t.Errorf("capacity=%d pointStoreCapacity=%d dims=%d got arenaLarge, want %s", c.capacity, c.pointStoreCapacity, c.dimensions, c.want)
			}
		}
	}
}

func TestArenaSmall_SetAndGetRoundTrip(t *testing.T) {
	a := newArenaSmall(10)
	a.setLeft(3, 250)
	a.setRight(3, 9)
	a.setCutDimension(3, 7)

	if a.left(3) != 250 {
		t.Errorf("left(3) = %d, want 250", a.left(3))
	}
	if a.right(3) != 9 {
		t.Errorf("right(3) = %d, want 9", a.right(3))
	}
	if a.cutDimension(3) != 7 {
		t.Errorf("cutDimension(3) = %d, want 7", a.cutDimension(3))
	}
}

func TestArenaSmall_OverflowPanics(t *testing.T) {
	a := newArenaSmall(10)
	defer func() {
		if recover() == nil {
			t.Error("setLeft with a value that doesn't fit uint8 should panic")
		}
	}()
	a.setLeft(0, 300)
}

func TestArenaLarge_ColumnsWidenBackToInts(t *testing.T) {
	a := newArenaLarge(3)
	a.setLeft(0, 7)
	a.setLeft(1, 8)
	a.setLeft(2, 9)

	col := a.leftColumn()
	want := []int{7, 8, 9}
	for i := range want {
		if col[i] != want[i] {
			t.Errorf("leftColumn()[%d] = %d, want %d", i, col[i], want[i])
		}
	}
}
