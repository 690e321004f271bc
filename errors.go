package lcdtext

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lcdtext package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("lcdtext: empty font data")

	// ErrCodepointOutOfRange is returned when a codepoint falls outside
	// the fixed atlas domain. The atlas cache is a fixed-capacity table
	// indexed by codepoint; requesting beyond it is a caller bug surfaced
	// as an explicit error instead of an out-of-bounds access.
	ErrCodepointOutOfRange = errors.New("lcdtext: codepoint outside atlas domain")

	// ErrBatchFull is returned when the rectangle batch capacity is
	// exhausted mid-layout. The completed prefix of the batch remains
	// valid; the caller decides whether to draw it or fail the frame.
	ErrBatchFull = errors.New("lcdtext: rectangle batch full")

	// ErrNoBackend is returned by Redraw when no render backend has been
	// configured.
	ErrNoBackend = errors.New("lcdtext: no render backend configured")
)

// GlyphTooLargeError is returned when a padded glyph bitmap does not fit
// within one atlas cell. The cell grid is a fixed capacity assumption of
// this minimal design, not a general allocator; fonts or sizes that
// overflow it need a smaller size or a real atlas allocator.
type GlyphTooLargeError struct {
	Codepoint rune
	Width     int // padded width in texels
	Height    int
	CellW     int
	CellH     int
}

func (e *GlyphTooLargeError) Error() string {
	return fmt.Sprintf("lcdtext: glyph %q (%dx%d texels) exceeds %dx%d atlas cell",
		e.Codepoint, e.Width, e.Height, e.CellW, e.CellH)
}
