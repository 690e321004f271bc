package wgpu

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/lcdtext"
	"github.com/gogpu/lcdtext/backend"
)

func TestRegistersItself(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWgpu) {
		t.Fatal("wgpu backend not registered")
	}
	b := backend.Get(backend.BackendWgpu)
	if b == nil || b.Name() != backend.BackendWgpu {
		t.Fatalf("Get(wgpu) = %v", b)
	}
}

func TestRequiresInit(t *testing.T) {
	b := New()
	if err := b.Draw(&lcdtext.Frame{ViewportWidth: 10, ViewportHeight: 10}); err != backend.ErrNotInitialized {
		t.Errorf("Draw before Init = %v, want ErrNotInitialized", err)
	}
}

func TestBorrowedDeviceRequiresProvider(t *testing.T) {
	b := NewWithDevice(nil)
	if err := b.Init(); err != backend.ErrBackendNotAvailable {
		t.Errorf("Init without provider = %v, want ErrBackendNotAvailable", err)
	}
}

func TestPackRectInstances(t *testing.T) {
	rects := []lcdtext.Rect{{
		Pos:           lcdtext.RectI16{Left: 8, Top: 11, Right: 18, Bottom: 18},
		Tex:           lcdtext.RectI16{Left: 32, Top: 128, Right: 42, Bottom: 135},
		Color:         color.RGBA{R: 218, G: 218, B: 218, A: 255},
		SubpixelShift: 0.5,
	}}

	buf := packRectInstances(rects)
	if len(buf) != rectInstanceStride {
		t.Fatalf("packed %d bytes, want %d", len(buf), rectInstanceStride)
	}

	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if f32(0) != 8 || f32(4) != 11 || f32(8) != 18 || f32(12) != 18 {
		t.Errorf("pos = (%v,%v,%v,%v)", f32(0), f32(4), f32(8), f32(12))
	}
	if f32(16) != 32 || f32(28) != 135 {
		t.Errorf("tex = (%v..%v)", f32(16), f32(28))
	}
	if buf[32] != 218 || buf[35] != 255 {
		t.Errorf("color bytes = %v", buf[32:36])
	}
	if f32(36) != 0.5 {
		t.Errorf("subpixel shift = %v, want 0.5", f32(36))
	}
}

func TestPackUniforms(t *testing.T) {
	// Odd viewport dimensions must divide as floats, not integers, or
	// the transform is off by half a pixel.
	buf := packUniforms(&lcdtext.Frame{
		ViewportWidth:      401,
		ViewportHeight:     99,
		CoverageAdjustment: -0.25,
	})
	if len(buf) != 16 {
		t.Fatalf("packed %d bytes, want 16", len(buf))
	}

	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if f32(0) != 200.5 || f32(4) != 49.5 {
		t.Errorf("half viewport = (%v,%v), want (200.5,49.5)", f32(0), f32(4))
	}
	if f32(8) != -0.25 {
		t.Errorf("coverage adjustment = %v, want -0.25", f32(8))
	}
}
