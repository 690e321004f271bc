package lcdtext

// Atlas texture geometry. The atlas is a fixed 512x512 RGB texel store
// divided into a grid of 32x32 cells, one cell per codepoint in the
// supported domain. A codepoint's cell position is derived directly from
// its value, so the cache needs no allocator and never evicts.
const (
	// AtlasWidth and AtlasHeight are the atlas texture dimensions in
	// texels.
	AtlasWidth  = 512
	AtlasHeight = 512

	// CellWidth and CellHeight are the dimensions of one glyph cell.
	CellWidth  = 32
	CellHeight = 32

	// MaxCodepoint is the highest codepoint the atlas can hold. The grid
	// maps the 7-bit ASCII range onto the first 8 rows of cells.
	MaxCodepoint = 127

	atlasCellColumns = AtlasWidth / CellWidth
	atlasCellRows    = AtlasHeight / CellHeight

	// 3 bytes per texel, R, G and B subpixel coverage.
	atlasTexelSize = 3
	atlasStride    = AtlasWidth * atlasTexelSize
)

// Slot is a texel rectangle within the atlas texture. A slot with all
// coordinates -1 marks a glyph without visual form (space and friends);
// such glyphs are cached but produce no rectangle during layout.
type Slot struct {
	Left, Top, Right, Bottom int16
}

// emptySlot marks cached glyphs that have nothing to draw.
var emptySlot = Slot{Left: -1, Top: -1, Right: -1, Bottom: -1}

// Empty reports whether the slot marks a glyph without visual form.
func (s Slot) Empty() bool {
	return s.Left == -1
}

// Width returns the slot width in texels.
func (s Slot) Width() int {
	return int(s.Right - s.Left)
}

// Height returns the slot height in texels.
func (s Slot) Height() int {
	return int(s.Bottom - s.Top)
}

// Entry is one cached glyph: everything layout needs to position and
// texture a rectangle for it.
type Entry struct {
	// Glyph is the font's glyph index for the codepoint, kept so metric
	// queries skip the codepoint-to-index lookup on cache hits.
	Glyph GlyphID

	// Slot is the glyph's texel rectangle in the atlas, or the empty
	// sentinel for glyphs with no ink.
	Slot Slot

	// BaselineToTop is the distance in pixels from the baseline up to
	// the top edge of the slot.
	BaselineToTop int
}

type atlasEntry struct {
	filled bool
	entry  Entry
}

// Atlas is the glyph cache: a CPU-side RGB texel store mirroring the
// GPU atlas texture, plus a per-codepoint entry table. Glyphs are
// rasterized, filtered and copied into their cell on first use and
// served from the table afterwards.
//
// Atlas is not safe for concurrent use; Renderer serializes access.
type Atlas struct {
	shaper Shaper
	scale  float64

	pix     []byte
	entries [MaxCodepoint + 1]atlasEntry

	// dirty lists the cell rectangles updated since the last MarkClean,
	// so backends can upload only the texels that changed.
	dirty []Slot

	// rasterizations counts cache misses that reached the rasterizer.
	rasterizations int
}

// newAtlas creates an empty atlas for glyphs of the given shaper at the
// given design-unit-to-pixel scale.
func newAtlas(shaper Shaper, scale float64) *Atlas {
	return &Atlas{
		shaper: shaper,
		scale:  scale,
		pix:    make([]byte, atlasStride*AtlasHeight),
	}
}

// GetOrCreate returns the cached entry for a codepoint, rasterizing and
// filtering the glyph into its atlas cell on first use. Codepoints
// outside [0, MaxCodepoint] return ErrCodepointOutOfRange; glyphs whose
// padded bitmap exceeds a cell return *GlyphTooLargeError. Failed
// codepoints are not cached, so a later call retries.
func (a *Atlas) GetOrCreate(r rune) (Entry, error) {
	if r < 0 || r > MaxCodepoint {
		return Entry{}, ErrCodepointOutOfRange
	}
	if e := &a.entries[r]; e.filled {
		return e.entry, nil
	}

	glyph := a.shaper.GlyphIndex(r)
	bm := rasterizeGlyphLCD(a.shaper, glyph, a.scale)
	a.rasterizations++

	entry := Entry{Glyph: glyph, Slot: emptySlot}
	if bm != nil {
		if bm.Width > CellWidth || bm.Height > CellHeight {
			return Entry{}, &GlyphTooLargeError{
				Codepoint: r,
				Width:     bm.Width,
				Height:    bm.Height,
				CellW:     CellWidth,
				CellH:     CellHeight,
			}
		}

		cellX := (int(r) % atlasCellColumns) * CellWidth
		cellY := (int(r) / atlasCellColumns) * CellHeight
		a.blitCell(cellX, cellY, bm)

		entry.Slot = Slot{
			Left:   int16(cellX),
			Top:    int16(cellY),
			Right:  int16(cellX + bm.Width),
			Bottom: int16(cellY + bm.Height),
		}
		entry.BaselineToTop = bm.BaselineToTop
		a.dirty = append(a.dirty, Slot{
			Left:   int16(cellX),
			Top:    int16(cellY),
			Right:  int16(cellX + CellWidth),
			Bottom: int16(cellY + CellHeight),
		})

		Logger().Debug("lcdtext: cached glyph",
			"codepoint", string(r), "cellX", cellX, "cellY", cellY,
			"width", bm.Width, "height", bm.Height)
	}

	a.entries[r] = atlasEntry{filled: true, entry: entry}
	return entry, nil
}

// blitCell clears one cell of the texel store and copies the glyph
// bitmap into its top-left corner. Clearing the whole cell keeps stale
// texels of a previous run out of the uploaded region.
func (a *Atlas) blitCell(cellX, cellY int, bm *GlyphBitmap) {
	for row := 0; row < CellHeight; row++ {
		off := (cellY+row)*atlasStride + cellX*atlasTexelSize
		line := a.pix[off : off+CellWidth*atlasTexelSize]
		clear(line)
		if row < bm.Height {
			copy(line, bm.Pix[row*bm.Width*atlasTexelSize:(row+1)*bm.Width*atlasTexelSize])
		}
	}
}

// Pix returns the CPU-side texel store: AtlasHeight rows of
// AtlasWidth*3 bytes, 3 bytes (RGB coverage) per texel.
func (a *Atlas) Pix() []byte {
	return a.pix
}

// Stride returns the byte length of one texel row.
func (a *Atlas) Stride() int {
	return atlasStride
}

// Dirty returns the cell rectangles updated since the last MarkClean.
// Backends upload these regions and then call MarkClean.
func (a *Atlas) Dirty() []Slot {
	return a.dirty
}

// MarkClean discards the dirty list after an upload.
func (a *Atlas) MarkClean() {
	a.dirty = a.dirty[:0]
}
