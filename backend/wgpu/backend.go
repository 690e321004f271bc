package wgpu

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/lcdtext"
	"github.com/gogpu/lcdtext/backend"
)

func init() {
	backend.Register(backend.BackendWgpu, func() lcdtext.Backend {
		return New()
	})
}

// atlasFormat is the GPU-side atlas texture format. WebGPU has no
// 3-channel 8-bit format, so the RGB coverage texels are expanded to
// RGBA8 with an unused alpha channel on upload.
const atlasFormat = gputypes.TextureFormatRGBA8Unorm

// rectInstanceStride is the byte size of one packed rect instance:
// pos float32x4, tex float32x4, color unorm8x4, shift float32.
const rectInstanceStride = 16 + 16 + 4 + 4

// Backend is the GPU render backend. It either owns a WebGPU instance,
// adapter, device and queue, or borrows device and queue from a host
// application through gpucontext.DeviceProvider.
//
// Backend is safe for concurrent use from multiple goroutines.
type Backend struct {
	mu sync.RWMutex

	// GPU resources (owned path)
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// Borrowed device path
	provider gpucontext.DeviceProvider

	// GPU information
	gpuInfo *GPUInfo

	// Compiled rect shader, SPIR-V words.
	shader []uint32

	// State
	initialized bool
	ownsDevice  bool
}

// New creates the wgpu backend. The backend creates its own WebGPU
// instance, adapter and device during Init.
func New() *Backend {
	return &Backend{ownsDevice: true}
}

// NewWithDevice creates the wgpu backend on a device shared by the host
// application. The backend does not create or release GPU resources the
// provider owns.
func NewWithDevice(provider gpucontext.DeviceProvider) *Backend {
	return &Backend{provider: provider}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWgpu
}

// Init initializes the backend: it acquires a device (created or
// borrowed), compiles the rect shader, and prepares the atlas texture
// and render pipeline.
//
// Returns an error if GPU initialization or shader compilation fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if b.ownsDevice {
		if err := b.initOwnedDevice(); err != nil {
			return err
		}
	} else if b.provider == nil || b.provider.Device() == nil {
		return backend.ErrBackendNotAvailable
	}

	shader, err := compileShaderToSPIRV(rectShaderWGSL)
	if err != nil {
		b.releaseOwnedLocked()
		return fmt.Errorf("rect shader compilation failed: %w", err)
	}
	b.shader = shader

	// TODO: When wgpu render pipelines land:
	// 1. Create the 512x512 RGBA8 atlas texture (atlasFormat, CopyDst |
	//    TextureBinding)
	// 2. Create the uniform and instance buffers
	// 3. Create the render pipeline from b.shader with dual-source
	//    blend state: src factor One, dst factor OneMinusSrc1Color

	b.initialized = true
	log.Println("wgpu: backend initialized successfully")

	return nil
}

// initOwnedDevice creates instance, adapter, device and queue.
func (b *Backend) initOwnedDevice() error {
	// Step 1: Create Instance
	b.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	// Step 2: Request Adapter (prefer high performance GPU)
	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", backend.ErrBackendNotAvailable, err)
	}
	b.adapter = adapterID

	logGPUInfo(adapterID)
	b.gpuInfo, _ = getGPUInfo(adapterID)

	// Step 3: Create Device
	deviceID, err := createDevice(adapterID, "lcdtext-wgpu-device")
	if err != nil {
		return fmt.Errorf("device creation failed: %w", err)
	}
	b.device = deviceID

	// Step 4: Get Queue
	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		return fmt.Errorf("queue retrieval failed: %w", err)
	}
	b.queue = queueID

	return nil
}

// Close releases all backend resources the backend owns.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	b.releaseOwnedLocked()
	b.shader = nil
	b.initialized = false

	log.Println("wgpu: backend closed")
}

func (b *Backend) releaseOwnedLocked() {
	if !b.ownsDevice {
		return
	}

	// Release resources in reverse order of creation.
	// Note: Queue is released when device is dropped.
	if !b.device.IsZero() {
		if err := releaseDevice(b.device); err != nil {
			log.Printf("wgpu: error releasing device: %v", err)
		}
		b.device = core.DeviceID{}
	}
	if !b.adapter.IsZero() {
		if err := releaseAdapter(b.adapter); err != nil {
			log.Printf("wgpu: error releasing adapter: %v", err)
		}
		b.adapter = core.AdapterID{}
	}
	b.instance = nil
	b.queue = core.QueueID{}
	b.gpuInfo = nil
}

// UploadAtlas uploads the atlas cells updated since the last upload.
// Each dirty cell is expanded from RGB coverage texels to the RGBA8
// texture format and written to its region of the atlas texture.
func (b *Backend) UploadAtlas(a *lcdtext.Atlas) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return backend.ErrNotInitialized
	}

	for _, cell := range a.Dirty() {
		rgba := expandCellRGBA(a, cell)

		// TODO: When wgpu texture upload lands, write the cell region:
		// queue.WriteTexture(atlasTexture, origin (cell.Left, cell.Top),
		// extent (cell width x height), rgba, bytesPerRow = width*4)
		_ = rgba
	}
	a.MarkClean()
	return nil
}

// Draw renders one frame of glyph rectangles.
func (b *Backend) Draw(f *lcdtext.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if f.ViewportWidth <= 0 || f.ViewportHeight <= 0 {
		return backend.ErrNoViewport
	}

	instances := packRectInstances(f.Rects)
	uniforms := packUniforms(f)

	// TODO: When wgpu render passes land:
	// 1. Write instances and uniforms to their buffers
	// 2. Begin a render pass clearing the target
	// 3. Set the rect pipeline and bind group (uniforms + atlas texture)
	// 4. Draw 6 vertices, len(f.Rects) instances
	// 5. Submit to b.queue
	_ = instances
	_ = uniforms

	return nil
}

// GPUInfo returns information about the selected GPU, or nil when the
// backend is uninitialized or runs on a borrowed device.
func (b *Backend) GPUInfo() *GPUInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gpuInfo
}

// IsInitialized returns true if the backend has been initialized.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// Device returns the GPU device ID.
// Returns a zero ID if the backend is not initialized or borrowed.
func (b *Backend) Device() core.DeviceID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

// Queue returns the GPU queue ID.
// Returns a zero ID if the backend is not initialized or borrowed.
func (b *Backend) Queue() core.QueueID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

// expandCellRGBA copies one atlas cell out of the CPU texel store,
// expanding 3-byte RGB texels to 4-byte RGBA (alpha fixed at 255).
func expandCellRGBA(a *lcdtext.Atlas, cell lcdtext.Slot) []byte {
	w, h := cell.Width(), cell.Height()
	pix := a.Pix()
	stride := a.Stride()

	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := (int(cell.Top)+y)*stride + int(cell.Left)*3
		dst := y * w * 4
		for x := 0; x < w; x++ {
			out[dst+0] = pix[src+0]
			out[dst+1] = pix[src+1]
			out[dst+2] = pix[src+2]
			out[dst+3] = 0xFF
			src += 3
			dst += 4
		}
	}
	return out
}

// packRectInstances packs the per-rect instance buffer: position and
// texture rectangles as float32x4, color as unorm8x4, subpixel shift
// as float32.
func packRectInstances(rects []lcdtext.Rect) []byte {
	buf := make([]byte, 0, len(rects)*rectInstanceStride)
	for i := range rects {
		r := &rects[i]
		buf = appendRectF32(buf, r.Pos)
		buf = appendRectF32(buf, r.Tex)
		buf = append(buf, r.Color.R, r.Color.G, r.Color.B, r.Color.A)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(r.SubpixelShift))
	}
	return buf
}

func appendRectF32(buf []byte, r lcdtext.RectI16) []byte {
	for _, v := range [4]int16{r.Left, r.Top, r.Right, r.Bottom} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	}
	return buf
}

// packUniforms packs the uniform block: half viewport size (float
// division so odd viewport sizes do not shift the transform by a whole
// pixel), coverage adjustment, and padding to a 16-byte boundary.
func packUniforms(f *lcdtext.Frame) []byte {
	buf := make([]byte, 0, 16)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f.ViewportWidth)/2))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f.ViewportHeight)/2))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f.CoverageAdjustment)))
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	return buf
}
