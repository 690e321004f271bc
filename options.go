package lcdtext

import "image/color"

// Default draw parameters. They reproduce the classic pangram demo: a
// light gray 10pt line of text near the top-left corner.
const (
	DefaultText     = "The quick brown fox jumps over the lazy dog."
	DefaultFontSize = 10.0
	DefaultOriginX  = 10.0
	DefaultOriginY  = 10.0
)

// DefaultColor is the default text color.
var DefaultColor = color.RGBA{R: 218, G: 218, B: 218, A: 255}

// Option configures a Renderer during creation.
//
// Example:
//
//	// Defaults: pangram at 10pt
//	r, err := lcdtext.New(fontData)
//
//	// Custom text and size
//	r, err := lcdtext.New(fontData,
//		lcdtext.WithText("Hello"),
//		lcdtext.WithFontSize(14))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	text          string
	fontSize      float64
	originX       float64
	originY       float64
	color         color.RGBA
	coverage      float64
	backend       Backend
	shaperBackend string
	batchCapacity int
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		text:          DefaultText,
		fontSize:      DefaultFontSize,
		originX:       DefaultOriginX,
		originY:       DefaultOriginY,
		color:         DefaultColor,
		shaperBackend: defaultShaperName,
		batchCapacity: DefaultBatchCapacity,
	}
}

// WithText sets the text to lay out and draw. The text is decoded as
// UTF-8; malformed sequences degrade to replacement characters.
func WithText(text string) Option {
	return func(o *rendererOptions) {
		o.text = text
	}
}

// WithFontSize sets the font size in points. One point is 4/3 pixels,
// the traditional 96 dpi convention.
func WithFontSize(pt float64) Option {
	return func(o *rendererOptions) {
		o.fontSize = pt
	}
}

// WithOrigin sets the top-left corner of the text block in pixels.
func WithOrigin(x, y float64) Option {
	return func(o *rendererOptions) {
		o.originX = x
		o.originY = y
	}
}

// WithColor sets the text color (straight alpha).
func WithColor(c color.RGBA) Option {
	return func(o *rendererOptions) {
		o.color = c
	}
}

// WithCoverageAdjustment biases the perceived thickness of rendered
// glyphs. The value is clamped to [-1, 1]: negative thins, positive
// thickens, 0 leaves coverage untouched. Useful to compensate dark-on-
// light versus light-on-dark perception differences.
func WithCoverageAdjustment(v float64) Option {
	return func(o *rendererOptions) {
		switch {
		case v < -1:
			v = -1
		case v > 1:
			v = 1
		}
		o.coverage = v
	}
}

// WithBackend sets the render backend the Renderer hands finished
// frames to. Without one, Redraw fails with ErrNoBackend.
//
// Example:
//
//	sw := backend.NewSoftware()
//	r, err := lcdtext.New(fontData, lcdtext.WithBackend(sw))
func WithBackend(b Backend) Option {
	return func(o *rendererOptions) {
		o.backend = b
	}
}

// WithShaperBackend selects a registered shaper backend by name:
// "sfnt" (default) or "gotext", plus anything added via RegisterShaper.
// Unknown names fall back to the default.
func WithShaperBackend(name string) Option {
	return func(o *rendererOptions) {
		o.shaperBackend = name
	}
}

// WithBatchCapacity bounds the per-frame rectangle batch. Text with
// more visible glyphs than the bound fails the frame with ErrBatchFull.
func WithBatchCapacity(n int) Option {
	return func(o *rendererOptions) {
		o.batchCapacity = n
	}
}
