package lcdtext

import "image/color"

// DefaultBatchCapacity is the default bound of a rectangle batch. One
// rectangle per visible glyph keeps a short demo string well inside it.
const DefaultBatchCapacity = 255

// RectI16 is an axis-aligned rectangle with int16 edges, matching the
// compact per-instance layout GPU backends upload.
type RectI16 struct {
	Left, Top, Right, Bottom int16
}

// Rect is one positioned glyph: a screen-space rectangle, its texel
// source in the atlas, a straight-alpha color and the sub-texel shift
// the fragment stage uses to cross-fade neighboring subpixels.
type Rect struct {
	Pos RectI16
	Tex RectI16

	Color color.RGBA

	// SubpixelShift is the fractional pixel position of the glyph in
	// [0, 1), applied at display time against the zero-shift atlas
	// bitmap.
	SubpixelShift float32
}

// Batch is a bounded buffer of glyph rectangles built during one layout
// pass and consumed by one draw. Append past capacity fails with
// ErrBatchFull; the rectangles already present stay valid so the caller
// can still draw the completed prefix.
type Batch struct {
	rects []Rect
	cap   int
}

// NewBatch creates a batch bounded at capacity rectangles. A capacity
// below 1 falls back to DefaultBatchCapacity.
func NewBatch(capacity int) *Batch {
	if capacity < 1 {
		capacity = DefaultBatchCapacity
	}
	return &Batch{
		rects: make([]Rect, 0, capacity),
		cap:   capacity,
	}
}

// Append adds one rectangle, or returns ErrBatchFull when the bound is
// reached.
func (b *Batch) Append(r Rect) error {
	if len(b.rects) >= b.cap {
		return ErrBatchFull
	}
	b.rects = append(b.rects, r)
	return nil
}

// Rects returns the batched rectangles. The slice is valid until the
// next Append or Reset.
func (b *Batch) Rects() []Rect {
	return b.rects
}

// Len returns the number of batched rectangles.
func (b *Batch) Len() int {
	return len(b.rects)
}

// Cap returns the batch bound.
func (b *Batch) Cap() int {
	return b.cap
}

// Reset empties the batch, keeping its storage for the next pass.
func (b *Batch) Reset() {
	b.rects = b.rects[:0]
}
