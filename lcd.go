package lcdtext

// Subpixel geometry. Every pixel column of the output maps to three
// consecutive coverage values, one per LCD subpixel (R, G, B).
const (
	// horizontalResolution is the horizontal oversampling factor: glyphs
	// are rasterized with one coverage value per subpixel.
	horizontalResolution = 3

	// filterPadding is the number of texel columns on each side of the
	// glyph that the 5-tap filter can spread coverage into.
	filterPadding = 1

	// subpixelPadding is one extra texel column on the left consumed by
	// display-time subpixel shifting (the fragment stage reads the
	// previous texel when cross-fading).
	subpixelPadding = 1

	// glyphPadding is the total left inset of the glyph within its
	// padded bitmap, in texels.
	glyphPadding = subpixelPadding + filterPadding
)

// lcdFilterWeights is the FreeType FT_LCD_FILTER_DEFAULT kernel. Applied
// along each row it spreads one subpixel's coverage across its neighbors
// so no color channel carries coverage alone, which is what causes color
// fringes in unfiltered subpixel rendering. Weights sum to 256/255 of
// unity in fixed point; the division by 255 happens once per output
// subpixel.
var lcdFilterWeights = [5]uint32{0x08, 0x4D, 0x56, 0x4D, 0x08}

// GlyphBitmap is one glyph's filtered RGB coverage bitmap, ready for
// upload into the atlas. Each texel is 3 bytes (R, G, B coverage); rows
// are Width*3 bytes with no padding.
type GlyphBitmap struct {
	Pix    []byte
	Width  int // texels, filter and subpixel padding included
	Height int

	// BaselineToTop is the distance in pixels from the glyph's baseline
	// up to the top row of the bitmap.
	BaselineToTop int
}

// rasterizeGlyphLCD turns one glyph into a filtered RGB coverage bitmap.
//
// The glyph is rasterized at (scale*3, scale) so each pixel column holds
// three independent subpixel coverages, then the LCD filter runs along
// every row, and the filtered subpixel columns are reinterpreted in
// groups of three as RGB texels. Returns nil for glyphs with a zero-area
// bitmap box (space and friends): those have no visual form and nothing
// to upload.
func rasterizeGlyphLCD(sh Shaper, g GlyphID, scale float64) *GlyphBitmap {
	x0, y0, x1, y1 := sh.BitmapBox(g, scale*horizontalResolution, scale)
	widthSub, height := x1-x0, y1-y0
	if widthSub <= 0 || height <= 0 {
		return nil
	}

	// Width in whole texels, plus one texel of subpixel-positioning
	// padding and one texel of filter padding on the left, one texel of
	// filter padding on the right.
	glyphTexels := (widthSub + horizontalResolution - 1) / horizontalResolution
	paddedWidth := glyphPadding + glyphTexels + filterPadding
	stride := paddedWidth * horizontalResolution

	// Rasterize into the working bitmap at a fixed inset, leaving the
	// padding columns at zero coverage.
	working := make([]byte, stride*height)
	sh.Rasterize(g, scale*horizontalResolution, scale,
		working[glyphPadding*horizontalResolution:], stride, widthSub, height)

	return &GlyphBitmap{
		Pix:           applyLCDFilter(working, stride, height),
		Width:         paddedWidth,
		Height:        height,
		BaselineToTop: -y0,
	}
}

// applyLCDFilter runs the 5-tap kernel along each row of a subpixel
// coverage bitmap and returns the filtered bitmap. src must carry at
// least 2 zero subpixel columns of left padding and 1 on the right
// (guaranteed by rasterizeGlyphLCD's layout); columns outside the
// processed range can only ever hold zero and are skipped.
func applyLCDFilter(src []byte, stride, rows int) []byte {
	dst := make([]byte, len(src))

	// The kernel reaches at most 2 subpixels in each direction, and the
	// first 6 source subpixels are padding, so the first destination
	// column that can collect any coverage is 4. The rightmost source
	// subpixel is padding again, reachable only from the two columns
	// before it, so the loop stops one column short of the row end and
	// the final processed column truncates the kernel to one tap past
	// center instead of two.
	xEnd := stride - 1
	for y := 0; y < rows; y++ {
		row := src[y*stride : (y+1)*stride]
		out := dst[y*stride : (y+1)*stride]
		for x := 4; x < xEnd; x++ {
			kernelEnd := x + 2
			if x == xEnd-1 {
				kernelEnd = x + 1
			}
			var sum uint32
			wi := 0
			for kx := x - 2; kx <= kernelEnd; kx++ {
				sum += uint32(row[kx]) * lcdFilterWeights[wi]
				wi++
			}
			// One division at the end instead of per tap. Rounding can
			// push a fully covered pixel to 256, so saturate.
			sum /= 255
			if sum > 255 {
				sum = 255
			}
			out[x] = byte(sum)
		}
	}
	return dst
}
