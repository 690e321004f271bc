// Package lcdtext renders a line of text with subpixel-accurate
// anti-aliasing through a GPU rectangle-batching pipeline.
//
// # Overview
//
// lcdtext demonstrates LCD subpixel font rendering the way a GPU-based UI
// does it: each glyph is rasterized once at 3x horizontal resolution,
// run through the FreeType 5-tap LCD filter to spread coverage across
// neighboring subpixels, and packed into a shared atlas texture. Layout
// then emits one positioned, textured rectangle per visible glyph into a
// bounded batch that a render backend composites with dual-source
// blending, so each of the three color channels is blended with an
// independently computed coverage weight.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/lcdtext"
//	    "github.com/gogpu/lcdtext/backend"
//	    "golang.org/x/image/font/gofont/goregular"
//	)
//
//	sw := backend.NewSoftware()
//	r, err := lcdtext.New(goregular.TTF,
//	    lcdtext.WithText("The quick brown fox jumps over the lazy dog."),
//	    lcdtext.WithFontSize(10),
//	    lcdtext.WithBackend(sw),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.SetViewport(400, 100)
//	if err := r.Redraw(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The pipeline is a single synchronous pass per redraw:
//
//	bytes -> UTF-8 cursor -> layout -> atlas cache -> LCD rasterizer
//	      -> rectangle batch -> render backend
//
// The atlas cache owns the atlas texel store and its slots; the layouter
// owns the rectangle batch; the backend reads both, read-only, for one
// frame. Windowing, event polling and swap timing belong to the host
// application, which drives the pipeline through Redraw and SetViewport.
//
// # Backends
//
// The backend/ package registers a CPU compositor ("software") that
// implements the exact dual-source blend and subpixel-shift crossfade the
// GPU fragment stage performs, and backend/wgpu provides the GPU path on
// top of gogpu/wgpu.
//
// # Scope
//
// This is a demonstration of a technique, not a production text engine:
// one font, one size, a fixed-domain atlas without eviction, and a
// bounded rectangle batch. Out-of-capacity conditions surface as explicit
// errors rather than silent corruption.
package lcdtext

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
