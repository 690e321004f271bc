package lcdtext

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// goTextShaper implements Shaper on top of go-text/typesetting's
// HarfBuzz implementation. Compared to the sfnt backend it resolves
// glyphs and kerning through full shaping, so GPOS-only fonts (most
// modern OpenType fonts carry kerning in GPOS, not the legacy kern
// table) position correctly.
//
// Shaping works on runes while this interface deals in glyph indices, so
// the backend remembers which rune produced each glyph index; kerning
// for a pair is recovered by shaping the two source runes together and
// comparing the first glyph's shaped advance against its nominal one.
//
// goTextShaper is safe for concurrent use: font.Face and HarfbuzzShaper
// are not, so a mutex serializes all queries.
type goTextShaper struct {
	mu     sync.Mutex
	face   *font.Face
	shaper shaping.HarfbuzzShaper
	upem   int

	// gidRune maps glyph indices back to the rune that produced them via
	// GlyphIndex. Layout always resolves runes through GlyphIndex first,
	// so the map covers every index that can reach KernAdvance.
	gidRune map[GlyphID]rune
}

// newGoTextShaper parses TTF/OTF data into the HarfBuzz-backed shaper.
func newGoTextShaper(data []byte) (Shaper, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lcdtext: parsing font: %w", err)
	}
	return &goTextShaper{
		face:    face,
		upem:    int(face.Upem()),
		gidRune: make(map[GlyphID]rune),
	}, nil
}

func (s *goTextShaper) UnitsPerEm() int {
	return s.upem
}

// shapeRunes shapes a short run at ppem = unitsPerEm so all advances
// come back in design units.
func (s *goTextShaper) shapeRunes(runes []rune) shaping.Output {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      fixed.I(s.upem),
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}
	return s.shaper.Shape(input)
}

func (s *goTextShaper) GlyphIndex(r rune) GlyphID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shapeRunes([]rune{r})
	if len(out.Glyphs) == 0 {
		return 0
	}
	gid := GlyphID(out.Glyphs[0].GlyphID) //nolint:gosec // fonts in scope use <64K glyphs
	s.gidRune[gid] = r
	return gid
}

// outline returns the glyph's outline segments in font units (y-up), or
// nil when the glyph has no outline (empty glyphs, bitmap-only fonts).
func (s *goTextShaper) outline(g GlyphID) []font.Segment {
	data := s.face.GlyphData(font.GID(g))
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return nil
	}
	return outline.Segments
}

// segmentArgs reports how many points of a segment's Args array are used.
func segmentArgs(op ot.SegmentOp) int {
	switch op {
	case ot.SegmentOpQuadTo:
		return 2
	case ot.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

// outlineBounds computes the outline's control-point bounding box in
// font units (y-up). ok is false for empty outlines.
func outlineBounds(segs []font.Segment) (minX, minY, maxX, maxY float64, ok bool) {
	for _, seg := range segs {
		for i := 0; i < segmentArgs(seg.Op); i++ {
			x, y := float64(seg.Args[i].X), float64(seg.Args[i].Y)
			if !ok {
				minX, maxX, minY, maxY = x, x, y, y
				ok = true
				continue
			}
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	return minX, minY, maxX, maxY, ok
}

func (s *goTextShaper) BitmapBox(g GlyphID, scaleX, scaleY float64) (x0, y0, x1, y1 int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	minX, minY, maxX, maxY, ok := outlineBounds(s.outline(g))
	if !ok {
		return 0, 0, 0, 0
	}
	// Flip from y-up font units to the y-down pixel convention.
	x0 = int(math.Floor(minX * scaleX))
	x1 = int(math.Ceil(maxX * scaleX))
	y0 = int(math.Floor(-maxY * scaleY))
	y1 = int(math.Ceil(-minY * scaleY))
	return x0, y0, x1, y1
}

func (s *goTextShaper) Rasterize(g GlyphID, scaleX, scaleY float64, dst []byte, stride, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := s.outline(g)
	minX, _, _, maxY, ok := outlineBounds(segs)
	if !ok {
		return
	}
	originX := float32(math.Floor(minX * scaleX))
	originY := float32(math.Floor(-maxY * scaleY))

	tx := func(p font.SegmentPoint) (float32, float32) {
		x := float32(float64(p.X)*scaleX) - originX
		y := float32(-float64(p.Y)*scaleY) - originY
		return x, y
	}

	r := vector.NewRasterizer(width, height)
	r.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			ax, ay := tx(seg.Args[0])
			r.MoveTo(ax, ay)
		case ot.SegmentOpLineTo:
			ax, ay := tx(seg.Args[0])
			r.LineTo(ax, ay)
		case ot.SegmentOpQuadTo:
			bx, by := tx(seg.Args[0])
			cx, cy := tx(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := tx(seg.Args[0])
			cx, cy := tx(seg.Args[1])
			dx, dy := tx(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}

	mask := &image.Alpha{
		Pix:    dst,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
	r.Draw(mask, mask.Rect, image.Opaque, image.Point{})
}

func (s *goTextShaper) HMetrics(g GlyphID) (advance, leftSideBearing float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	advance = float64(s.face.HorizontalAdvance(font.GID(g)))
	if minX, _, _, _, ok := outlineBounds(s.outline(g)); ok {
		leftSideBearing = minX
	}
	return advance, leftSideBearing
}

func (s *goTextShaper) KernAdvance(prev, cur GlyphID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevRune, ok := s.gidRune[prev]
	if !ok {
		return 0
	}
	curRune, ok := s.gidRune[cur]
	if !ok {
		return 0
	}

	pair := s.shapeRunes([]rune{prevRune, curRune})
	if len(pair.Glyphs) != 2 {
		// The pair shaped into a ligature or decomposition; pairwise
		// kerning does not apply.
		return 0
	}
	nominal := float64(s.face.HorizontalAdvance(font.GID(prev)))
	shaped := float64(pair.Glyphs[0].Advance) / 64
	return shaped - nominal
}

func (s *goTextShaper) VMetrics() (ascent, descent, lineGap float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shapeRunes([]rune{' '})
	ascent = float64(out.LineBounds.Ascent) / 64
	descent = float64(out.LineBounds.Descent) / 64
	lineGap = float64(out.LineBounds.Gap) / 64
	return ascent, descent, lineGap
}
