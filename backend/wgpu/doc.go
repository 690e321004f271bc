// Package wgpu is the GPU render backend for lcdtext, built on the
// pure Go WebGPU implementation github.com/gogpu/wgpu.
//
// The backend owns (or borrows from a host via gpucontext) a WebGPU
// device and queue, keeps the glyph atlas in an RGBA8 texture, and
// draws glyph rectangles with instanced quads and dual-source blending
// so each LCD subpixel blends with its own weight.
//
// Importing this package registers the "wgpu" backend with the backend
// registry; it takes priority over the software backend when available.
package wgpu
