package lcdtext

// stubShaper is a scripted Shaper with hand-picked metrics, so cache,
// layout and batching tests are deterministic and independent of any
// real font file.
type stubShaper struct {
	upem    int
	glyphs  map[rune]GlyphID
	metrics map[GlyphID]stubGlyphMetrics
	kern    map[[2]GlyphID]float64

	ascent, descent, lineGap float64
}

// stubGlyphMetrics describes one scripted glyph in design units. The
// box is y-down with y0 negative above the baseline; a zero box means
// the glyph has no ink.
type stubGlyphMetrics struct {
	x0, y0, x1, y1 float64
	advance        float64
	lsb            float64
}

// newStubShaper builds the fixture used across the package tests:
// 'A', 'V' and 'B' are inked glyphs, ' ' is empty, and the only kerning
// pair is A followed by V.
func newStubShaper() *stubShaper {
	return &stubShaper{
		upem: 100,
		glyphs: map[rune]GlyphID{
			'A': 1, 'V': 2, 'B': 3, ' ': 4,
		},
		metrics: map[GlyphID]stubGlyphMetrics{
			1: {x0: 5, y0: -70, x1: 65, y1: 0, advance: 70, lsb: 5},
			2: {x0: 0, y0: -70, x1: 60, y1: 0, advance: 68, lsb: 0},
			3: {x0: 8, y0: -70, x1: 58, y1: 2, advance: 64, lsb: 8},
			4: {advance: 30},
		},
		kern: map[[2]GlyphID]float64{
			{1, 2}: -10, // AV
		},
		ascent:  80,
		descent: -20,
		lineGap: 10,
	}
}

func (s *stubShaper) GlyphIndex(r rune) GlyphID {
	return s.glyphs[r]
}

func (s *stubShaper) BitmapBox(g GlyphID, scaleX, scaleY float64) (x0, y0, x1, y1 int) {
	m, ok := s.metrics[g]
	if !ok || m.x0 == m.x1 || m.y0 == m.y1 {
		return 0, 0, 0, 0
	}
	return floorScale(m.x0, scaleX), floorScale(m.y0, scaleY),
		ceilScale(m.x1, scaleX), ceilScale(m.y1, scaleY)
}

// Rasterize fills the whole box with full coverage; the tests only care
// about placement and non-zero texels, not glyph shapes.
func (s *stubShaper) Rasterize(g GlyphID, scaleX, scaleY float64, dst []byte, stride, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst[y*stride+x] = 255
		}
	}
}

func (s *stubShaper) HMetrics(g GlyphID) (advance, leftSideBearing float64) {
	m := s.metrics[g]
	return m.advance, m.lsb
}

func (s *stubShaper) KernAdvance(prev, cur GlyphID) float64 {
	return s.kern[[2]GlyphID{prev, cur}]
}

func (s *stubShaper) VMetrics() (ascent, descent, lineGap float64) {
	return s.ascent, s.descent, s.lineGap
}

func (s *stubShaper) UnitsPerEm() int {
	return s.upem
}

func floorScale(v, scale float64) int {
	scaled := v * scale
	i := int(scaled)
	if scaled < 0 && float64(i) != scaled {
		i--
	}
	return i
}

func ceilScale(v, scale float64) int {
	scaled := v * scale
	i := int(scaled)
	if scaled > 0 && float64(i) != scaled {
		i++
	}
	return i
}
