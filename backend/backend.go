// Package backend provides render backends for lcdtext.
//
// Backends consume the glyph atlas and per-frame rectangle batches and
// produce output: the software backend composites into an image.RGBA on
// the CPU, the wgpu backend (backend/wgpu) targets the GPU. Backends
// register themselves via Register and are selected by name via Get or
// by priority via Default.
package backend

import "errors"

// Backend name constants.
const (
	// BackendWgpu is the GPU backend (backend/wgpu).
	BackendWgpu = "wgpu"

	// BackendSoftware is the CPU compositing backend.
	BackendSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no requested backend is available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoViewport is returned by Draw when the frame carries a zero or
	// negative viewport.
	ErrNoViewport = errors.New("backend: viewport not set")
)
