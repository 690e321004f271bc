package lcdtext

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// sfntShaper implements Shaper on top of golang.org/x/image/font/sfnt,
// rasterizing glyph outlines with golang.org/x/image/vector. Outlines are
// loaded at ppem = unitsPerEm so every query reports design units; the
// anisotropic pixel scale (3x horizontal for subpixel rendering) is
// applied while walking segments into the rasterizer.
//
// sfntShaper is safe for concurrent use: sfnt.Buffer is not, so a mutex
// serializes all font queries.
type sfntShaper struct {
	mu   sync.Mutex
	font *sfnt.Font
	buf  sfnt.Buffer
	upem int
}

// newSfntShaper parses TTF/OTF data into the default shaper backend.
func newSfntShaper(data []byte) (Shaper, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lcdtext: parsing font: %w", err)
	}
	return &sfntShaper{
		font: f,
		upem: int(f.UnitsPerEm()),
	}, nil
}

// designPpem is the ppem at which queries return raw design units.
func (s *sfntShaper) designPpem() fixed.Int26_6 {
	return fixed.I(s.upem)
}

func (s *sfntShaper) UnitsPerEm() int {
	return s.upem
}

func (s *sfntShaper) GlyphIndex(r rune) GlyphID {
	s.mu.Lock()
	defer s.mu.Unlock()
	gid, err := s.font.GlyphIndex(&s.buf, r)
	if err != nil {
		return 0
	}
	return GlyphID(gid)
}

// loadSegments returns the glyph outline in 26.6 design units, y-down.
// Glyphs without ink (space) yield an empty segment list.
func (s *sfntShaper) loadSegments(g GlyphID) sfnt.Segments {
	segs, err := s.font.LoadGlyph(&s.buf, sfnt.GlyphIndex(g), s.designPpem(), nil)
	if err != nil {
		return nil
	}
	return segs
}

func (s *sfntShaper) BitmapBox(g GlyphID, scaleX, scaleY float64) (x0, y0, x1, y1 int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs := s.loadSegments(g)
	if len(segs) == 0 {
		return 0, 0, 0, 0
	}
	b := segs.Bounds()
	x0 = int(math.Floor(float64(b.Min.X) / 64 * scaleX))
	y0 = int(math.Floor(float64(b.Min.Y) / 64 * scaleY))
	x1 = int(math.Ceil(float64(b.Max.X) / 64 * scaleX))
	y1 = int(math.Ceil(float64(b.Max.Y) / 64 * scaleY))
	return x0, y0, x1, y1
}

func (s *sfntShaper) Rasterize(g GlyphID, scaleX, scaleY float64, dst []byte, stride, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := s.loadSegments(g)
	if len(segs) == 0 {
		return
	}
	b := segs.Bounds()
	originX := float32(math.Floor(float64(b.Min.X) / 64 * scaleX))
	originY := float32(math.Floor(float64(b.Min.Y) / 64 * scaleY))

	// Transform a 26.6 design-unit point into rasterizer coordinates
	// relative to the bitmap box origin.
	tx := func(p fixed.Point26_6) (float32, float32) {
		x := float32(float64(p.X)/64*scaleX) - originX
		y := float32(float64(p.Y)/64*scaleY) - originY
		return x, y
	}

	r := vector.NewRasterizer(width, height)
	r.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			ax, ay := tx(seg.Args[0])
			r.MoveTo(ax, ay)
		case sfnt.SegmentOpLineTo:
			ax, ay := tx(seg.Args[0])
			r.LineTo(ax, ay)
		case sfnt.SegmentOpQuadTo:
			bx, by := tx(seg.Args[0])
			cx, cy := tx(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := tx(seg.Args[0])
			cx, cy := tx(seg.Args[1])
			dx, dy := tx(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}

	// Wrap dst so the rasterizer writes coverage straight into the
	// caller's working bitmap, honoring its row stride.
	mask := &image.Alpha{
		Pix:    dst,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
	r.Draw(mask, mask.Rect, image.Opaque, image.Point{})
}

func (s *sfntShaper) HMetrics(g GlyphID) (advance, leftSideBearing float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	adv, err := s.font.GlyphAdvance(&s.buf, sfnt.GlyphIndex(g), s.designPpem(), font.HintingNone)
	if err == nil {
		advance = float64(adv) / 64
	}
	if segs := s.loadSegments(g); len(segs) > 0 {
		leftSideBearing = float64(segs.Bounds().Min.X) / 64
	}
	return advance, leftSideBearing
}

func (s *sfntShaper) KernAdvance(prev, cur GlyphID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, err := s.font.Kern(&s.buf, sfnt.GlyphIndex(prev), sfnt.GlyphIndex(cur),
		s.designPpem(), font.HintingNone)
	if err != nil {
		// Fonts without a kern table (or with only GPOS kerning) report
		// an error here; treat it as no adjustment.
		return 0
	}
	return float64(k) / 64
}

func (s *sfntShaper) VMetrics() (ascent, descent, lineGap float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.font.Metrics(&s.buf, s.designPpem(), font.HintingNone)
	if err != nil {
		return 0, 0, 0
	}
	ascent = float64(m.Ascent) / 64
	descent = -float64(m.Descent) / 64
	lineGap = float64(m.Height-m.Ascent-m.Descent) / 64
	return ascent, descent, lineGap
}
