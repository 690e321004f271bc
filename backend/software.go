package backend

import (
	"image"
	"image/color"

	"github.com/gogpu/lcdtext"
)

func init() {
	Register(BackendSoftware, func() lcdtext.Backend {
		return NewSoftware()
	})
}

// Software is the CPU compositing backend. It keeps a local copy of the
// glyph atlas texture and composites glyph rectangles into an
// image.RGBA with the same per-subpixel math the GPU backend runs in
// its fragment stage, so output is testable without a GPU.
//
// Software is not safe for concurrent use.
type Software struct {
	atlas []byte // RGB texel copy of the glyph atlas
	img   *image.RGBA

	background  color.RGBA
	initialized bool
}

// NewSoftware creates the software backend with the default dark gray
// background.
func NewSoftware() *Software {
	return &Software{
		background: color.RGBA{R: 64, G: 64, B: 64, A: 255},
	}
}

// Name returns "software".
func (s *Software) Name() string { return BackendSoftware }

// Init allocates the local atlas texture. Idempotent.
func (s *Software) Init() error {
	if !s.initialized {
		s.atlas = make([]byte, lcdtext.AtlasWidth*lcdtext.AtlasHeight*3)
		s.initialized = true
	}
	return nil
}

// Close releases the backend's buffers.
func (s *Software) Close() {
	s.atlas = nil
	s.img = nil
	s.initialized = false
}

// SetBackground sets the color the target is cleared to before each
// frame.
func (s *Software) SetBackground(c color.RGBA) {
	s.background = c
}

// Image returns the target of the last Draw. The pixels are valid
// until the next Draw.
func (s *Software) Image() *image.RGBA {
	return s.img
}

// UploadAtlas copies the atlas cells updated since the last upload into
// the backend's texture copy.
func (s *Software) UploadAtlas(a *lcdtext.Atlas) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	stride := a.Stride()
	pix := a.Pix()
	for _, cell := range a.Dirty() {
		for y := int(cell.Top); y < int(cell.Bottom); y++ {
			off := y*stride + int(cell.Left)*3
			end := y*stride + int(cell.Right)*3
			copy(s.atlas[off:end], pix[off:end])
		}
	}
	a.MarkClean()
	return nil
}

// Draw clears the target and composites every rectangle of the frame.
func (s *Software) Draw(f *lcdtext.Frame) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if f.ViewportWidth <= 0 || f.ViewportHeight <= 0 {
		return ErrNoViewport
	}

	if s.img == nil || s.img.Rect.Dx() != f.ViewportWidth || s.img.Rect.Dy() != f.ViewportHeight {
		s.img = image.NewRGBA(image.Rect(0, 0, f.ViewportWidth, f.ViewportHeight))
	}
	s.clear()

	for i := range f.Rects {
		s.compositeRect(&f.Rects[i], f.CoverageAdjustment)
	}
	return nil
}

func (s *Software) clear() {
	c := s.background
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// texel returns the atlas texel at (x, y) as normalized RGB coverage.
// Coordinates are clamped to the texture, matching the GPU's clamping
// sampler behavior.
func (s *Software) texel(x, y int) (r, g, b float64) {
	if x < 0 {
		x = 0
	} else if x >= lcdtext.AtlasWidth {
		x = lcdtext.AtlasWidth - 1
	}
	if y < 0 {
		y = 0
	} else if y >= lcdtext.AtlasHeight {
		y = lcdtext.AtlasHeight - 1
	}
	off := (y*lcdtext.AtlasWidth + x) * 3
	return float64(s.atlas[off]) / 255, float64(s.atlas[off+1]) / 255, float64(s.atlas[off+2]) / 255
}

// compositeRect runs the fragment-stage math for one glyph rectangle:
// subpixel-shift crossfade, coverage adjustment, and the dual-source
// pre-multiplied blend dst = src*cov + dst*(1 - a*cov) per channel.
func (s *Software) compositeRect(rect *lcdtext.Rect, coverageAdjustment float64) {
	bounds := s.img.Rect
	alpha := float64(rect.Color.A) / 255
	// Pre-multiplied source color.
	srcR := float64(rect.Color.R) / 255 * alpha
	srcG := float64(rect.Color.G) / 255 * alpha
	srcB := float64(rect.Color.B) / 255 * alpha
	shift := float64(rect.SubpixelShift)

	for y := int(rect.Pos.Top); y < int(rect.Pos.Bottom); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		ty := int(rect.Tex.Top) + (y - int(rect.Pos.Top))
		for x := int(rect.Pos.Left); x < int(rect.Pos.Right); x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			tx := int(rect.Tex.Left) + (x - int(rect.Pos.Left))

			curR, curG, curB := s.texel(tx, ty)
			prevR, prevG, prevB := s.texel(tx-1, ty)
			covR, covG, covB := shiftCoverage(shift,
				curR, curG, curB, prevR, prevG, prevB)
			covR = adjustCoverage(covR, coverageAdjustment)
			covG = adjustCoverage(covG, coverageAdjustment)
			covB = adjustCoverage(covB, coverageAdjustment)

			off := s.img.PixOffset(x, y)
			pix := s.img.Pix[off : off+4]
			pix[0] = blendChannel(srcR, covR, alpha, pix[0])
			pix[1] = blendChannel(srcG, covG, alpha, pix[1])
			pix[2] = blendChannel(srcB, covB, alpha, pix[2])
			// Alpha blends with plain pre-multiplied weights.
			pix[3] = byte(clamp01(alpha+float64(pix[3])/255*(1-alpha))*255 + 0.5)
		}
	}
}

// shiftCoverage cross-fades the three subpixel coverages of the texel
// with its left neighbor according to the fractional glyph position.
// This is the subpixel positioning scheme from Rougier, "Higher Quality
// 2D Text Rendering" (JCGT 2013), listing 2: the atlas stores the glyph
// at shift 0, and a shift of n thirds of a pixel moves every coverage
// value n subpixels to the right.
func shiftCoverage(shift, curR, curG, curB, prevR, prevG, prevB float64) (r, g, b float64) {
	r, g, b = curR, curG, curB
	switch {
	case shift <= 1.0/3.0:
		z := 3 * shift
		r = mix(curR, prevB, z)
		g = mix(curG, curR, z)
		b = mix(curB, curG, z)
	case shift <= 2.0/3.0:
		z := 3*shift - 1
		r = mix(prevB, prevG, z)
		g = mix(curR, prevB, z)
		b = mix(curG, curR, z)
	case shift < 1:
		z := 3*shift - 2
		r = mix(prevG, prevR, z)
		g = mix(prevB, prevG, z)
		b = mix(curR, prevB, z)
	}
	return r, g, b
}

// adjustCoverage biases coverage by a linear slope factor: positive
// adjustment steepens the gradient from 0 (bolder glyphs), negative
// steepens it from 1 (thinner glyphs), 0 is identity.
func adjustCoverage(cov, adjustment float64) float64 {
	if adjustment >= 0 {
		cov *= 1 + adjustment
		if cov > 1 {
			cov = 1
		}
		return cov
	}
	cov = 1 - (1-cov)*(1-adjustment)
	if cov < 0 {
		cov = 0
	}
	return cov
}

// blendChannel applies the dual-source blend for one color channel:
// the source contributes src*cov, the destination keeps 1 - alpha*cov.
func blendChannel(src, cov, alpha float64, dst byte) byte {
	out := src*cov + float64(dst)/255*(1-alpha*cov)
	return byte(clamp01(out)*255 + 0.5)
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
