package position

import (
	"errors"
	"testing"
)

func ptr(v int64) *int64 { return &v }

func TestAllocate(t *testing.T) {
	t.Run("EmptySequence", func(t *testing.T) {
		got, err := Allocate(nil, nil)
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if got != Base {
			t.Errorf("expected %d, got %d", Base, got)
		}
	})

	t.Run("Append", func(t *testing.T) {
		got, err := Allocate(ptr(40), nil)
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if got != 50 {
			t.Errorf("expected 50, got %d", got)
		}
	})

	t.Run("Prepend", func(t *testing.T) {
		got, err := Allocate(nil, ptr(40))
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if got != 30 {
			t.Errorf("expected 30, got %d", got)
		}
	})

	t.Run("PrependNearFloor", func(t *testing.T) {
		got, err := Allocate(nil, ptr(8))
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if got < Floor || got >= 8 {
			t.Errorf("expected key in [%d,8), got %d", Floor, got)
		}
	})

	t.Run("PrependExhausted", func(t *testing.T) {
		if _, err := Allocate(nil, ptr(Floor)); !errors.Is(err, ErrExhausted) {
			t.Errorf("expected ErrExhausted, got %v", err)
		}
	})

	t.Run("Midpoint", func(t *testing.T) {
		got, err := Allocate(ptr(10), ptr(20))
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if got != 15 {
			t.Errorf("expected 15, got %d", got)
		}
	})

	t.Run("MidpointExhausted", func(t *testing.T) {
		if _, err := Allocate(ptr(10), ptr(11)); !errors.Is(err, ErrExhausted) {
			t.Errorf("expected ErrExhausted, got %v", err)
		}
	})

	t.Run("InvertedNeighbours", func(t *testing.T) {
		if _, err := Allocate(ptr(20), ptr(10)); !errors.Is(err, ErrExhausted) {
			t.Errorf("expected ErrExhausted, got %v", err)
		}
	})
}

// Repeated insertion right after a fixed left neighbour must eventually
// exhaust the gap rather than loop forever or produce duplicates.
func TestAllocateRepeatedInsertExhausts(t *testing.T) {
	left, right := int64(10), int64(20)
	seen := map[int64]bool{left: true, right: true}

	var exhausted bool
	for i := 0; i < 50; i++ {
		got, err := Allocate(&left, &right)
		if err != nil {
			if !errors.Is(err, ErrExhausted) {
				t.Fatalf("unexpected error: %v", err)
			}
			exhausted = true
			break
		}
		if got <= left || got >= right {
			t.Fatalf("key %d not strictly between %d and %d", got, left, right)
		}
		if seen[got] {
			t.Fatalf("duplicate key %d", got)
		}
		seen[got] = true
		// new stage becomes the right neighbour of the next insert
		right = got
	}
	if !exhausted {
		t.Fatal("expected gap to exhaust within 50 insertions")
	}
}

func TestRenumber(t *testing.T) {
	keys := Renumber(4)
	want := []int64{10, 20, 30, 40}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %d, got %d", i, want[i], keys[i])
		}
	}
	if got := Renumber(0); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
