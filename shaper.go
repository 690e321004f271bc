package lcdtext

import "sync"

// GlyphID is an opaque glyph index obtained from a Shaper. It is stable
// for the lifetime of the loaded font and joins shaping queries with
// rasterization. Index 0 is the missing-glyph (.notdef) slot.
type GlyphID uint16

// Shaper is the font-shaping collaborator the pipeline builds on. It
// abstracts glyph metrics, outline rasterization and kerning; how
// outlines are stored or hinted is the implementation's business.
//
// All returned values are in font design units unless a scale is passed
// in; callers convert with scale = pixelHeight / UnitsPerEm.
type Shaper interface {
	// GlyphIndex returns the glyph index for a codepoint, or 0 when the
	// font has no mapping for it.
	GlyphIndex(r rune) GlyphID

	// BitmapBox returns the pixel-space bounding box (x0, y0, x1, y1) of
	// the glyph rasterized at the given horizontal and vertical scales.
	// Coordinates are y-down relative to the glyph origin on the
	// baseline, so y0 is negative for ink above the baseline. A zero-area
	// box means the glyph has no visual form (e.g. space).
	BitmapBox(g GlyphID, scaleX, scaleY float64) (x0, y0, x1, y1 int)

	// Rasterize writes an 8-bit grayscale coverage bitmap of the glyph at
	// the given scales into dst. dst holds height rows of stride bytes;
	// only the leading width bytes of each row are written. The glyph is
	// positioned so its bitmap box's top-left corner maps to (0, 0).
	Rasterize(g GlyphID, scaleX, scaleY float64, dst []byte, stride, width, height int)

	// HMetrics returns the advance width and left side bearing of the
	// glyph in design units.
	HMetrics(g GlyphID) (advance, leftSideBearing float64)

	// KernAdvance returns the horizontal kerning adjustment for the glyph
	// pair in design units, or 0 when the font defines none.
	KernAdvance(prev, cur GlyphID) float64

	// VMetrics returns the font's vertical metrics in design units.
	// Descent is negative (below the baseline), matching the convention
	// lineHeight = ascent - descent + lineGap.
	VMetrics() (ascent, descent, lineGap float64)

	// UnitsPerEm returns the design units per em square.
	UnitsPerEm() int
}

// ShaperFactory creates a Shaper from raw font data (TTF or OTF).
type ShaperFactory func(data []byte) (Shaper, error)

// shaperRegistry holds registered shaper backends.
// The default backend is "sfnt" (golang.org/x/image/font/sfnt).
var (
	shaperMu       sync.RWMutex
	shaperRegistry = map[string]ShaperFactory{
		"sfnt":   newSfntShaper,
		"gotext": newGoTextShaper,
	}
)

// defaultShaperName is the name of the default shaper backend.
const defaultShaperName = "sfnt"

// RegisterShaper registers a custom shaper backend. This allows users to
// plug in their own shaping implementation (e.g. a CGo FreeType wrapper).
func RegisterShaper(name string, factory ShaperFactory) {
	shaperMu.Lock()
	defer shaperMu.Unlock()
	shaperRegistry[name] = factory
}

// getShaperFactory returns the factory by name, or the default if the
// name is unknown.
func getShaperFactory(name string) ShaperFactory {
	shaperMu.RLock()
	defer shaperMu.RUnlock()
	if f, ok := shaperRegistry[name]; ok {
		return f
	}
	return shaperRegistry[defaultShaperName]
}
