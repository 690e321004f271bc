package lcdtext

import (
	"image/color"
	"math"
)

// layoutParams are the inputs of one layout pass.
type layoutParams struct {
	text []byte

	// scale converts font design units to pixels.
	scale float64

	// originX, originY is the top-left corner of the laid-out text block
	// in pixels.
	originX, originY float64

	color color.RGBA
}

// layoutText runs one layout pass: it walks the UTF-8 text codepoint by
// codepoint, pulls each glyph through the atlas and appends one
// positioned rectangle per visible glyph to the batch.
//
// The pen starts at the origin with the baseline of the first line at
// origin + round(ascent*scale). Kerning is applied before a glyph
// whenever a previous glyph exists; a newline returns the pen to the
// left margin and moves it down one rounded line height without
// becoming the previous glyph. The pen advances by the scaled advance
// width for every glyph, visible or not.
//
// Errors from the atlas (out-of-domain codepoint, oversized glyph) and
// from the batch (ErrBatchFull) abort the pass; rectangles already
// appended stay valid.
func layoutText(sh Shaper, atlas *Atlas, batch *Batch, p layoutParams) error {
	ascent, descent, lineGap := sh.VMetrics()
	lineHeight := (ascent - descent + lineGap) * p.scale
	baseline := ascent * p.scale

	x := p.originX
	y := p.originY + math.Round(baseline)

	var prev GlyphID
	cur := NewCursor(p.text)
	for cp := cur.Next(); cp != 0; cp = cur.Next() {
		if cp == '\n' {
			x = p.originX
			y += math.Round(lineHeight)
			// Kerning pairs do not span line breaks: the next glyph
			// starts its line unkerned.
			prev = 0
			continue
		}

		entry, err := atlas.GetOrCreate(cp)
		if err != nil {
			return err
		}

		if prev != 0 {
			x += sh.KernAdvance(prev, entry.Glyph) * p.scale
		}
		prev = entry.Glyph

		advance, lsb := sh.HMetrics(entry.Glyph)
		if !entry.Slot.Empty() {
			// Split the exact glyph position into a whole pixel for the
			// rectangle and a fractional remainder the fragment stage
			// compensates with subpixel weights. The rectangle starts
			// glyphPadding pixels left of the glyph to cover the padding
			// texels baked into the slot.
			glyphX := x + lsb*p.scale
			wholeX, fracX := math.Modf(glyphX)

			left := int(wholeX) - glyphPadding
			top := int(y) - entry.BaselineToTop
			rect := Rect{
				Pos: RectI16{
					Left:   int16(left),
					Top:    int16(top),
					Right:  int16(left + entry.Slot.Width()),
					Bottom: int16(top + entry.Slot.Height()),
				},
				Tex:           RectI16(entry.Slot),
				Color:         p.color,
				SubpixelShift: float32(fracX),
			}
			if err := batch.Append(rect); err != nil {
				return err
			}
		}

		x += advance * p.scale
	}
	return nil
}
