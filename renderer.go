package lcdtext

import (
	"fmt"
	"sync"
)

// pixelsPerPoint converts font points to pixels with the traditional
// 96 dpi convention: 1pt = 4/3 px.
const pixelsPerPoint = 4.0 / 3.0

// Frame is everything a backend needs to draw one redraw pass: the
// batched glyph rectangles plus the uniform state of the draw.
type Frame struct {
	// Rects are the glyph rectangles in batch order.
	Rects []Rect

	// ViewportWidth, ViewportHeight are the target dimensions in pixels.
	ViewportWidth  int
	ViewportHeight int

	// CoverageAdjustment in [-1, 1] biases glyph coverage at display
	// time; 0 is neutral.
	CoverageAdjustment float64
}

// Backend consumes atlas texels and frames and produces output, on a
// GPU or in software. Implementations live under backend/.
type Backend interface {
	// Name identifies the backend ("software", "wgpu").
	Name() string

	// Init acquires the backend's resources. Called once before the
	// first frame.
	Init() error

	// Close releases the backend's resources.
	Close()

	// UploadAtlas synchronizes the backend's texture with the atlas
	// texel store. Implementations upload the dirty cells and call
	// MarkClean.
	UploadAtlas(a *Atlas) error

	// Draw renders one frame.
	Draw(f *Frame) error
}

// Renderer ties the text pipeline together: it owns the shaper, the
// glyph atlas and the rectangle batch, and drives one complete pass per
// Redraw. Hosts call SetViewport on resize and Redraw on expose, the
// way a windowed application reacts to its window system.
//
// Renderer is safe for concurrent use; a mutex serializes redraws so
// atlas mutation and upload stay one atomic unit.
type Renderer struct {
	mu      sync.Mutex
	shaper  Shaper
	atlas   *Atlas
	batch   *Batch
	backend Backend
	opts    rendererOptions

	// scale converts the font's design units to pixels at the
	// configured size.
	scale float64

	viewportW, viewportH int
}

// New parses the font and assembles a renderer. The font stays loaded
// for the renderer's lifetime; there is one font at one size per
// renderer.
func New(fontData []byte, opts ...Option) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sh, err := getShaperFactory(o.shaperBackend)(fontData)
	if err != nil {
		return nil, err
	}

	fontSizePx := o.fontSize * pixelsPerPoint
	scale := fontSizePx / float64(sh.UnitsPerEm())

	r := &Renderer{
		shaper: sh,
		atlas:  newAtlas(sh, scale),
		batch:  NewBatch(o.batchCapacity),
		opts:   o,
		scale:  scale,
	}

	if o.backend != nil {
		if err := o.backend.Init(); err != nil {
			return nil, fmt.Errorf("lcdtext: initializing %s backend: %w", o.backend.Name(), err)
		}
		r.backend = o.backend
		Logger().Info("lcdtext: backend ready", "backend", o.backend.Name())
	}
	return r, nil
}

// SetViewport updates the target dimensions. Hosts call this when their
// window is resized; the next Redraw uses the new dimensions.
func (r *Renderer) SetViewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewportW, r.viewportH = width, height
}

// SetText replaces the text drawn by subsequent redraws.
func (r *Renderer) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.text = text
}

// Redraw runs one complete pass: layout into the rectangle batch,
// atlas upload, draw. Without a configured backend it fails with
// ErrNoBackend. Layout errors (out-of-domain codepoint, oversized
// glyph, full batch) abort the pass before anything is drawn.
func (r *Renderer) Redraw() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return ErrNoBackend
	}

	r.batch.Reset()
	err := layoutText(r.shaper, r.atlas, r.batch, layoutParams{
		text:    []byte(r.opts.text),
		scale:   r.scale,
		originX: r.opts.originX,
		originY: r.opts.originY,
		color:   r.opts.color,
	})
	if err != nil {
		return err
	}

	if err := r.backend.UploadAtlas(r.atlas); err != nil {
		return fmt.Errorf("lcdtext: uploading atlas: %w", err)
	}

	frame := Frame{
		Rects:              r.batch.Rects(),
		ViewportWidth:      r.viewportW,
		ViewportHeight:     r.viewportH,
		CoverageAdjustment: r.opts.coverage,
	}
	Logger().Debug("lcdtext: redraw", "rects", r.batch.Len(),
		"viewport", fmt.Sprintf("%dx%d", r.viewportW, r.viewportH))
	return r.backend.Draw(&frame)
}

// Close releases the backend, if any.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		r.backend.Close()
		r.backend = nil
	}
}
