package lcdtext

import (
	"errors"
	"testing"
)

// recordingBackend captures the calls a Renderer makes, in order.
type recordingBackend struct {
	calls     []string
	lastFrame Frame
	dirtyAt   int // dirty cells observed during the last UploadAtlas
	initErr   error
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) Init() error {
	b.calls = append(b.calls, "init")
	return b.initErr
}

func (b *recordingBackend) Close() {
	b.calls = append(b.calls, "close")
}

func (b *recordingBackend) UploadAtlas(a *Atlas) error {
	b.calls = append(b.calls, "upload")
	b.dirtyAt = len(a.Dirty())
	a.MarkClean()
	return nil
}

func (b *recordingBackend) Draw(f *Frame) error {
	b.calls = append(b.calls, "draw")
	b.lastFrame = *f
	return nil
}

func init() {
	RegisterShaper("scripted", func([]byte) (Shaper, error) {
		return newStubShaper(), nil
	})
}

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *recordingBackend) {
	t.Helper()
	be := &recordingBackend{}
	opts = append([]Option{
		WithShaperBackend("scripted"),
		WithBackend(be),
		WithText("AV A"),
	}, opts...)
	r, err := New([]byte("unused"), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return r, be
}

func TestRendererRedrawPass(t *testing.T) {
	r, be := newTestRenderer(t, WithCoverageAdjustment(0.25))
	defer r.Close()
	r.SetViewport(320, 200)

	if err := r.Redraw(); err != nil {
		t.Fatal(err)
	}

	want := []string{"init", "upload", "draw"}
	if len(be.calls) != 3 || be.calls[0] != want[0] || be.calls[1] != want[1] || be.calls[2] != want[2] {
		t.Fatalf("backend calls = %v, want %v", be.calls, want)
	}

	f := be.lastFrame
	// "AV A": three visible glyphs, the space emits no rect.
	if len(f.Rects) != 3 {
		t.Errorf("frame has %d rects, want 3", len(f.Rects))
	}
	if f.ViewportWidth != 320 || f.ViewportHeight != 200 {
		t.Errorf("viewport = %dx%d, want 320x200", f.ViewportWidth, f.ViewportHeight)
	}
	if f.CoverageAdjustment != 0.25 {
		t.Errorf("coverage adjustment = %v, want 0.25", f.CoverageAdjustment)
	}
	// Two distinct inked glyphs were rasterized into two cells.
	if be.dirtyAt != 2 {
		t.Errorf("dirty cells at upload = %d, want 2", be.dirtyAt)
	}
}

func TestRendererRedrawIsRepeatable(t *testing.T) {
	r, be := newTestRenderer(t)
	defer r.Close()

	if err := r.Redraw(); err != nil {
		t.Fatal(err)
	}
	first := len(be.lastFrame.Rects)
	if err := r.Redraw(); err != nil {
		t.Fatal(err)
	}

	// The batch resets between passes and the atlas serves cache hits.
	if got := len(be.lastFrame.Rects); got != first {
		t.Errorf("second pass has %d rects, first had %d", got, first)
	}
	if be.dirtyAt != 0 {
		t.Errorf("second upload saw %d dirty cells, want 0", be.dirtyAt)
	}
	if r.atlas.rasterizations != 3 {
		t.Errorf("rasterizations = %d, want 3 (A, V, space; all cached)", r.atlas.rasterizations)
	}
}

func TestRendererNoBackend(t *testing.T) {
	r, err := New(nil, WithShaperBackend("scripted"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Redraw(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Redraw without backend = %v, want ErrNoBackend", err)
	}
}

func TestRendererSetText(t *testing.T) {
	r, be := newTestRenderer(t)
	defer r.Close()

	r.SetText("A")
	if err := r.Redraw(); err != nil {
		t.Fatal(err)
	}
	if got := len(be.lastFrame.Rects); got != 1 {
		t.Errorf("frame has %d rects after SetText, want 1", got)
	}
}

func TestRendererInitFailure(t *testing.T) {
	be := &recordingBackend{initErr: errors.New("no adapter")}
	_, err := New(nil, WithShaperBackend("scripted"), WithBackend(be))
	if err == nil {
		t.Fatal("New succeeded with failing backend Init")
	}
}

func TestRendererClose(t *testing.T) {
	r, be := newTestRenderer(t)
	r.Close()
	r.Close() // idempotent

	closes := 0
	for _, c := range be.calls {
		if c == "close" {
			closes++
		}
	}
	if closes != 1 {
		t.Errorf("backend closed %d times, want 1", closes)
	}
}
