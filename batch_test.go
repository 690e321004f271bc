package lcdtext

import (
	"errors"
	"testing"
)

func TestBatchAppendBound(t *testing.T) {
	b := NewBatch(3)

	for i := 0; i < 3; i++ {
		if err := b.Append(Rect{Pos: RectI16{Left: int16(i)}}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	if err := b.Append(Rect{}); !errors.Is(err, ErrBatchFull) {
		t.Fatalf("Append past capacity = %v, want ErrBatchFull", err)
	}

	// The completed prefix survives the failed append.
	if b.Len() != 3 {
		t.Errorf("Len = %d after overflow, want 3", b.Len())
	}
	for i, r := range b.Rects() {
		if r.Pos.Left != int16(i) {
			t.Errorf("rect %d = %+v, prefix corrupted", i, r)
		}
	}
}

func TestBatchReset(t *testing.T) {
	b := NewBatch(2)
	if err := b.Append(Rect{}); err != nil {
		t.Fatal(err)
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len = %d after Reset, want 0", b.Len())
	}
	if err := b.Append(Rect{}); err != nil {
		t.Errorf("Append after Reset: %v", err)
	}
}

func TestBatchDefaultCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		if got := NewBatch(capacity).Cap(); got != DefaultBatchCapacity {
			t.Errorf("NewBatch(%d).Cap() = %d, want %d", capacity, got, DefaultBatchCapacity)
		}
	}
}
